package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"stealdeals/internal/config"
)

func TestLoad(t *testing.T) {
	t.Setenv("PG_DSN", "postgres://localhost:5432/stealdeals")
	t.Setenv("REDIS_ADDRESS", "localhost:6379")
	t.Setenv("CLICK_MODE", "async")

	cfg, err := config.Load()
	require.NoError(t, err)

	require.Equal(t, "async", cfg.Click.Mode)
	require.Equal(t, 30*time.Second, cfg.Auth.RoleCacheTTL)
	require.Equal(t, 24*time.Hour, cfg.Auth.SessionTTL)
	require.Equal(t, ":8080", cfg.HTTP.ListenAddress)
	require.False(t, cfg.Bot.Enabled())
}

func TestLoadRejectsLongRoleCache(t *testing.T) {
	t.Setenv("PG_DSN", "postgres://localhost:5432/stealdeals")
	t.Setenv("REDIS_ADDRESS", "localhost:6379")
	t.Setenv("ROLE_CACHE_TTL", "5m")

	_, err := config.Load()
	require.Error(t, err)
}

func TestLoadRequiresDSN(t *testing.T) {
	t.Setenv("PG_DSN", "")
	t.Setenv("REDIS_ADDRESS", "localhost:6379")

	_, err := config.Load()
	require.Error(t, err)
}

func TestLoadRedis(t *testing.T) {
	t.Setenv("REDIS_ADDRESS", "")

	_, ok, err := config.LoadRedis()
	require.NoError(t, err)
	require.False(t, ok)

	t.Setenv("REDIS_ADDRESS", "localhost:6379")
	t.Setenv("REDIS_DB", "3")

	cfg, ok, err := config.LoadRedis()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "localhost:6379", cfg.Address)
	require.Equal(t, 3, cfg.DatabaseNumber)
	require.Equal(t, 10, cfg.PoolSize)
}
