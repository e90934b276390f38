package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"stealdeals/internal/application"
	"stealdeals/internal/config"
	"stealdeals/pkg/contextx"
	"stealdeals/pkg/logx"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		logx.NewLogger(os.Stderr, "error").Error("config.Load", logx.Error(err))
		os.Exit(1) //nolint:gocritic
	}

	log := logx.NewLogger(os.Stdout, cfg.App.LogLevel).With(
		logx.FieldAppName, cfg.App.Name,
		logx.FieldAppVersion, cfg.App.Version,
	)
	ctx = contextx.WithLogger(ctx, log)

	if err = application.Run(ctx, cfg); err != nil {
		log.Error("application.Run", logx.Error(err))
		os.Exit(1) //nolint:gocritic
	}

	log.Info("application stopped")
}
