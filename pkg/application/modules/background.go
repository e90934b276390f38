package modules

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"
)

// Background runs a long-lived loop such as a subscriber or a notifier and
// stops the whole group when it fails.
type Background struct {
	Name string
}

func (b Background) Run(ctx context.Context, g *errgroup.Group, run func(context.Context) error) {
	g.Go(func() error {
		logger(ctx).Info("background module started", slog.String("module", b.Name))

		if err := run(ctx); err != nil {
			return fmt.Errorf("%s: %w", b.Name, err)
		}

		logger(ctx).Info("background module stopped", slog.String("module", b.Name))

		return nil
	})
}
