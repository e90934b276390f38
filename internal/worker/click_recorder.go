package worker

import (
	"context"
	"fmt"
	"log/slog"

	"git.appkode.ru/pub/go/failure"
	"github.com/hibiken/asynq"

	"stealdeals/internal/domain/value"
	"stealdeals/internal/infrastructure/queue"
	"stealdeals/pkg/contextx"
	"stealdeals/pkg/logx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

type ClickService interface {
	RecordClick(ctx context.Context, id value.DealID) error
}

// ClickRecorder applies clicks queued in async click mode. A task whose
// deal is gone or whose payload is unreadable is dropped instead of retried.
type ClickRecorder struct {
	clicks ClickService
}

func NewClickRecorder(clicks ClickService) *ClickRecorder {
	return &ClickRecorder{clicks: clicks}
}

func (w *ClickRecorder) Handle(ctx context.Context, task *asynq.Task) error {
	taskID, _ := asynq.GetTaskID(ctx)

	id, err := queue.ParseClickTask(task)
	if err != nil {
		logger(ctx).Warn("malformed click task", logx.Error(err), slog.String(logx.FieldTaskID, taskID))
		return fmt.Errorf("queue.ParseClickTask: %w: %w", err, asynq.SkipRetry)
	}

	if err = w.clicks.RecordClick(ctx, id); err != nil {
		if failure.IsNotFoundError(err) {
			logger(ctx).Warn("click for missing deal dropped", slog.String(logx.FieldDealID, id.String()))
			return fmt.Errorf("clickService.RecordClick: %w: %w", err, asynq.SkipRetry)
		}

		return fmt.Errorf("clickService.RecordClick: %w", err)
	}

	logger(ctx).Debug("click recorded", slog.String(logx.FieldDealID, id.String()), slog.String(logx.FieldTaskID, taskID))

	return nil
}
