package session

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"stealdeals/internal/domain/entity"
	"stealdeals/pkg/logx"
)

const EventsChannel = "auth:events"

// Events fans auth-state changes out to every replica over redis pub/sub.
type Events struct {
	client redis.UniversalClient
}

func NewEvents(client redis.UniversalClient) *Events {
	return &Events{client: client}
}

func (e *Events) Publish(ctx context.Context, event entity.AuthEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("json.Marshal: %w", err)
	}

	if err = e.client.Publish(ctx, EventsChannel, payload).Err(); err != nil {
		return fmt.Errorf("redis.Publish: %w", err)
	}

	return nil
}

// Subscribe delivers events to handle until ctx is done. Malformed payloads
// are logged and skipped.
func (e *Events) Subscribe(ctx context.Context, handle func(context.Context, entity.AuthEvent)) error {
	pubsub := e.client.Subscribe(ctx, EventsChannel)
	defer pubsub.Close()

	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("pubsub.Receive: %w", err)
	}

	logger(ctx).Info("auth events subscribed", slog.String("channel", EventsChannel))

	messages := pubsub.Channel()

	for {
		select {
		case <-ctx.Done():
			logger(ctx).Info("auth events unsubscribed", slog.String("channel", EventsChannel))
			return nil
		case msg, ok := <-messages:
			if !ok {
				return nil
			}

			var event entity.AuthEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				logger(ctx).Warn("malformed auth event", logx.Error(err))
				continue
			}

			handle(ctx, event)
		}
	}
}
