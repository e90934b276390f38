package worker_test

import (
	"context"
	"errors"
	"testing"

	"git.appkode.ru/pub/go/failure"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/require"

	"stealdeals/internal/domain/value"
	"stealdeals/internal/infrastructure/queue"
	"stealdeals/internal/worker"
)

type clickServiceFunc func(ctx context.Context, id value.DealID) error

func (f clickServiceFunc) RecordClick(ctx context.Context, id value.DealID) error {
	return f(ctx, id)
}

func TestClickRecorderHandle(t *testing.T) {
	t.Parallel()

	id := value.NewDealID()

	validTask, err := queue.NewClickTask(id)
	require.NoError(t, err)

	tests := []struct {
		name      string
		task      *asynq.Task
		result    error
		wantErr   bool
		skipRetry bool
	}{
		{name: "recorded", task: validTask},
		{
			name:      "malformed payload",
			task:      asynq.NewTask(queue.TypeRecordClick, []byte("{")),
			wantErr:   true,
			skipRetry: true,
		},
		{
			name:      "deal gone",
			task:      validTask,
			result:    failure.NewNotFoundError("deal not found"),
			wantErr:   true,
			skipRetry: true,
		},
		{
			name:    "database down is retried",
			task:    validTask,
			result:  errors.New("connection refused"),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var got value.DealID

			recorder := worker.NewClickRecorder(clickServiceFunc(func(_ context.Context, id value.DealID) error {
				got = id
				return tt.result
			}))

			err := recorder.Handle(context.Background(), tt.task)
			if !tt.wantErr {
				require.NoError(t, err)
				require.Equal(t, id, got)

				return
			}

			require.Error(t, err)
			require.Equal(t, tt.skipRetry, errors.Is(err, asynq.SkipRetry))
		})
	}
}
