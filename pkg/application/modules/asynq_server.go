package modules

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"
	"golang.org/x/sync/errgroup"

	"stealdeals/pkg/logx"
)

type AsynqQueues map[string]int

type AsynqHandler struct {
	Pattern string
	Handle  func(context.Context, *asynq.Task) error
}

// AsynqServer runs the queue workers until ctx is done. Shutdown waits for
// in-flight tasks.
type AsynqServer struct {
	Redis       asynq.RedisClientOpt
	Concurrency int
}

func (s AsynqServer) Run(
	ctx context.Context,
	g *errgroup.Group,
	queues AsynqQueues,
	handlers ...AsynqHandler,
) {
	worker := asynq.NewServer(s.Redis, asynq.Config{
		BaseContext: func() context.Context { return ctx },
		Concurrency: s.Concurrency,
		Queues:      queues,
		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
			logger(ctx).Error("asynq task failed", logx.Error(err), slog.String("task-type", task.Type()))
		}),
	})

	mux := asynq.NewServeMux()

	for _, h := range handlers {
		mux.HandleFunc(h.Pattern, h.Handle)
	}

	g.Go(func() error {
		if err := worker.Start(mux); err != nil {
			return fmt.Errorf("asynqServer.Start: %w", err)
		}

		logger(ctx).Info("asynq server started", slog.String("redis-address", s.Redis.Addr), slog.Int("redis-db", s.Redis.DB))

		<-ctx.Done()

		worker.Shutdown()

		logger(ctx).Info("asynq server stopped", slog.String("redis-address", s.Redis.Addr), slog.Int("redis-db", s.Redis.DB))

		return nil
	})
}
