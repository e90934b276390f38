package application

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"golang.org/x/sync/errgroup"

	"stealdeals/internal/config"
	"stealdeals/internal/domain/service/auth"
	"stealdeals/internal/domain/service/catalog"
	"stealdeals/internal/domain/service/deal"
	"stealdeals/internal/infrastructure/notifier"
	"stealdeals/internal/infrastructure/persistence"
	"stealdeals/internal/infrastructure/queue"
	"stealdeals/internal/infrastructure/session"
	"stealdeals/internal/server"
	"stealdeals/internal/worker"
	"stealdeals/pkg/application/connectors"
	"stealdeals/pkg/application/modules"
	"stealdeals/pkg/contextx"
	"stealdeals/pkg/logx"
	"stealdeals/pkg/probe"
)

const clickWorkerConcurrency = 4

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

// Run wires the service and blocks until ctx is done or a module fails.
func Run(ctx context.Context, cfg config.Config) error { //nolint:funlen
	clickMode, err := deal.ParseClickMode(cfg.Click.Mode)
	if err != nil {
		return fmt.Errorf("deal.ParseClickMode: %w", err)
	}

	pg := &connectors.Postgres{
		DSN:             cfg.Postgres.DSN,
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		ConnMaxLifetime: cfg.Postgres.ConnMaxLifetime,
	}
	defer pg.Close(ctx)

	rdb := &connectors.Redis{
		Address:            cfg.Redis.Address,
		Username:           cfg.Redis.Username,
		Password:           cfg.Redis.Password,
		DatabaseNumber:     cfg.Redis.DatabaseNumber,
		PoolSize:           cfg.Redis.PoolSize,
		MinIdleConnections: cfg.Redis.MinIdleConnections,
		MaxIdleConnections: cfg.Redis.MaxIdleConnections,
	}
	defer rdb.Close(ctx)

	// repositories
	dealRepo := persistence.NewDealRepository(pg.Client(ctx))
	userRepo := persistence.NewUserRepository(pg.Client(ctx))
	sessions := session.NewStore(rdb.Client(ctx))
	events := session.NewEvents(rdb.Client(ctx))

	// services
	store := catalog.NewStore(dealRepo)
	editor := deal.NewEditorService(dealRepo, store)
	clicks := deal.NewClickService(dealRepo, store)
	authService := auth.NewService(userRepo, sessions, events).
		WithSessionTTL(cfg.Auth.SessionTTL).
		WithRoleCacheTTL(cfg.Auth.RoleCacheTTL)

	if _, err = store.Refresh(ctx); err != nil {
		logger(ctx).Warn("initial deal fetch failed", logx.Error(err))
	}

	g, ctx := errgroup.WithContext(ctx)

	if clickMode == deal.ClickModeAsync {
		clickQueue := queue.NewClickQueue(rdb.AsynqOpt())
		defer clickQueue.Close(ctx)

		clicks = clicks.WithQueue(clickQueue)

		modules.AsynqServer{
			Redis:       rdb.AsynqOpt(),
			Concurrency: clickWorkerConcurrency,
		}.Run(ctx, g, modules.AsynqQueues{queue.ClicksQueue: 1}, modules.AsynqHandler{
			Pattern: queue.TypeRecordClick,
			Handle:  worker.NewClickRecorder(clicks).Handle,
		})
	}

	logger(ctx).Info("click mode", slog.String(logx.FieldClickMode, string(clicks.Mode())))

	if cfg.Bot.Enabled() {
		bot, err := notifier.NewTelegramBot(cfg.Bot.Token, cfg.Bot.ChatID)
		if err != nil {
			return fmt.Errorf("notifier.NewTelegramBot: %w", err)
		}

		editor = editor.WithAnnouncer(bot)

		modules.Background{Name: "telegram announcer"}.Run(ctx, g, bot.Run)
	}

	modules.Background{Name: "auth events"}.Run(ctx, g, func(ctx context.Context) error {
		return events.Subscribe(ctx, authService.HandleEvent)
	})

	srv := server.NewServer(
		server.NewDealServer(store, editor, clicks),
		server.NewAuthServer(authService),
		server.NewAdminServer(editor),
	)

	modules.HTTPServer{
		ShutdownTimeout: cfg.HTTP.ShutdownTimeout,
	}.Run(ctx, g, &http.Server{
		//nolint:exhaustruct
		Addr:         cfg.HTTP.ListenAddress,
		Handler:      srv.Handler(logx.NewSensitiveDataMasker()),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	})

	modules.ProbeServer{
		Name:          cfg.App.Name,
		Version:       cfg.App.Version,
		ListenAddress: cfg.App.ProbeListenAddress,
		Checks: map[string]probe.Check{
			"postgres": pg.Ping,
			"redis":    rdb.Ping,
		},
	}.Run(ctx, g)

	modules.MetricServer{
		ListenAddress: cfg.App.MetricsListenAddress,
	}.Run(ctx, g)

	if err = g.Wait(); err != nil {
		return fmt.Errorf("g.Wait: %w", err)
	}

	return nil
}
