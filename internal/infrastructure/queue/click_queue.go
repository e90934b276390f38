package queue

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"
	jsoniter "github.com/json-iterator/go"

	"stealdeals/internal/domain/value"
	"stealdeals/pkg/contextx"
	"stealdeals/pkg/logx"
)

const (
	TypeRecordClick = "deal:record-click"
	ClicksQueue     = "clicks"
	clickMaxRetry   = 3
)

var (
	json   = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals
	logger = contextx.LoggerFromContextOrDefault          //nolint:gochecknoglobals
)

type clickPayload struct {
	DealID string `json:"dealId"`
}

func NewClickTask(id value.DealID) (*asynq.Task, error) {
	payload, err := json.Marshal(clickPayload{DealID: id.String()})
	if err != nil {
		return nil, fmt.Errorf("json.Marshal: %w", err)
	}

	return asynq.NewTask(TypeRecordClick, payload, asynq.MaxRetry(clickMaxRetry), asynq.Queue(ClicksQueue)), nil
}

func ParseClickTask(task *asynq.Task) (value.DealID, error) {
	var p clickPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		return value.DealID{}, fmt.Errorf("json.Unmarshal: %w", err)
	}

	id, err := value.ParseDealID(p.DealID)
	if err != nil {
		return value.DealID{}, fmt.Errorf("value.ParseDealID: %w", err)
	}

	return id, nil
}

type ClickQueue struct {
	client *asynq.Client
}

func NewClickQueue(opt asynq.RedisConnOpt) *ClickQueue {
	return &ClickQueue{client: asynq.NewClient(opt)}
}

func (q *ClickQueue) EnqueueClick(ctx context.Context, id value.DealID) error {
	task, err := NewClickTask(id)
	if err != nil {
		return err
	}

	info, err := q.client.EnqueueContext(ctx, task)
	if err != nil {
		return fmt.Errorf("asynqClient.Enqueue: %w", err)
	}

	logger(ctx).Debug(
		"click enqueued",
		slog.String(logx.FieldDealID, id.String()),
		slog.String(logx.FieldTaskID, info.ID),
	)

	return nil
}

func (q *ClickQueue) Close(ctx context.Context) {
	if err := q.client.Close(); err != nil {
		logger(ctx).Error("asynqClient.Close", logx.Error(err))
	}
}
