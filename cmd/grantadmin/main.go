// grantadmin creates or updates a user and grants the admin role.
//
//	go run ./cmd/grantadmin -email admin@example.com -password 'long secret'
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"golang.org/x/crypto/bcrypt"

	"stealdeals/internal/config"
	"stealdeals/internal/domain/entity"
	"stealdeals/internal/domain/value"
	"stealdeals/internal/infrastructure/persistence"
	"stealdeals/internal/infrastructure/session"
	"stealdeals/pkg/application/connectors"
	"stealdeals/pkg/contextx"
	"stealdeals/pkg/logx"
)

const minPasswordLen = 8

func main() {
	email := flag.String("email", "", "admin email")
	password := flag.String("password", "", "admin password")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log := logx.NewLogger(os.Stdout, "info")
	ctx = contextx.WithLogger(ctx, log)

	if err := run(ctx, strings.ToLower(strings.TrimSpace(*email)), *password); err != nil {
		log.Error("grantadmin", logx.Error(err))
		os.Exit(1) //nolint:gocritic
	}
}

func run(ctx context.Context, email, password string) error {
	if email == "" {
		return errors.New("-email is required")
	}

	if len(password) < minPasswordLen {
		return fmt.Errorf("-password must be at least %d characters", minPasswordLen)
	}

	cfg, err := config.LoadPostgres()
	if err != nil {
		return fmt.Errorf("config.LoadPostgres: %w", err)
	}

	pg := &connectors.Postgres{
		DSN:             cfg.DSN,
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
	}
	defer pg.Close(ctx)

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("bcrypt.GenerateFromPassword: %w", err)
	}

	users := persistence.NewUserRepository(pg.Client(ctx))

	user, err := users.Upsert(ctx, email, string(hash))
	if err != nil {
		return fmt.Errorf("userRepo.Upsert: %w", err)
	}

	if err = users.GrantRole(ctx, user.ID, value.RoleAdmin); err != nil {
		return fmt.Errorf("userRepo.GrantRole: %w", err)
	}

	contextx.LoggerFromContextOrDefault(ctx).Info(
		"admin granted",
		slog.String("email", user.Email),
		logx.Stringer(logx.FieldUserID, user.ID),
	)

	notifyRoleChanged(ctx, user.ID)

	return nil
}

// notifyRoleChanged drops cached roles of running replicas. Without
// REDIS_ADDRESS the caches simply expire.
func notifyRoleChanged(ctx context.Context, userID value.UserID) {
	cfg, ok, err := config.LoadRedis()
	if err != nil {
		contextx.LoggerFromContextOrDefault(ctx).Warn("config.LoadRedis", logx.Error(err))
		return
	}

	if !ok {
		return
	}

	rdb := &connectors.Redis{
		Address:            cfg.Address,
		Username:           cfg.Username,
		Password:           cfg.Password,
		DatabaseNumber:     cfg.DatabaseNumber,
		PoolSize:           cfg.PoolSize,
		MinIdleConnections: cfg.MinIdleConnections,
		MaxIdleConnections: cfg.MaxIdleConnections,
	}
	defer rdb.Close(ctx)

	err = session.NewEvents(rdb.Client(ctx)).Publish(ctx, entity.AuthEvent{
		Type:       entity.AuthEventRoleChanged,
		UserID:     userID.String(),
		OccurredAt: time.Now(),
	})
	if err != nil {
		contextx.LoggerFromContextOrDefault(ctx).Warn("role change not published", logx.Error(err))
	}
}
