package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	App      App
	Postgres Postgres
	Redis    Redis
	HTTP     HTTP
	Auth     Auth
	Click    Click
	Bot      Bot
}

type App struct {
	Name                 string `env:"APP_NAME"               envDefault:"stealdeals"`
	Version              string `env:"APP_VERSION"            envDefault:"dev"`
	LogLevel             string `env:"LOG_LEVEL"              envDefault:"info"`
	ProbeListenAddress   string `env:"PROBE_LISTEN_ADDRESS"   envDefault:":8081"`
	MetricsListenAddress string `env:"METRICS_LISTEN_ADDRESS" envDefault:":9090"`
}

type HTTP struct {
	ListenAddress   string        `env:"HTTP_LISTEN_ADDRESS"   envDefault:":8080"`
	ReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT"     envDefault:"10s"`
	WriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT"    envDefault:"10s"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"15s"`
}

type Auth struct {
	SessionTTL   time.Duration `env:"SESSION_TTL"    envDefault:"24h"`
	RoleCacheTTL time.Duration `env:"ROLE_CACHE_TTL" envDefault:"30s"`
}

type Click struct {
	Mode string `env:"CLICK_MODE" envDefault:"sync"`
}

// Bot is optional: without a token no announcements are sent.
type Bot struct {
	Token  string `env:"BOT_TOKEN"   json:"-"`
	ChatID int64  `env:"BOT_CHAT_ID"`
}

func (b Bot) Enabled() bool {
	return b.Token != "" && b.ChatID != 0
}

func Load() (Config, error) {
	_ = godotenv.Load()

	var config Config

	if err := env.Parse(&config); err != nil {
		return Config{}, fmt.Errorf("env.Parse: %w", err)
	}

	if config.Auth.RoleCacheTTL <= 0 || config.Auth.RoleCacheTTL > maxRoleCacheTTL {
		return Config{}, fmt.Errorf("ROLE_CACHE_TTL must be in (0, %s]", maxRoleCacheTTL)
	}

	return config, nil
}

const maxRoleCacheTTL = 30 * time.Second

// LoadPostgres reads only the database settings, for tools that need
// nothing else.
func LoadPostgres() (Postgres, error) {
	_ = godotenv.Load()

	var pg Postgres

	if err := env.Parse(&pg); err != nil {
		return Postgres{}, fmt.Errorf("env.Parse: %w", err)
	}

	return pg, nil
}

// LoadRedis reads the redis settings for tools where redis is optional. The
// second result is false when REDIS_ADDRESS is not set.
func LoadRedis() (Redis, bool, error) {
	_ = godotenv.Load()

	var optional struct {
		Address string `env:"REDIS_ADDRESS"`
	}

	if err := env.Parse(&optional); err != nil {
		return Redis{}, false, fmt.Errorf("env.Parse: %w", err)
	}

	if optional.Address == "" {
		return Redis{}, false, nil
	}

	var cfg Redis

	if err := env.Parse(&cfg); err != nil {
		return Redis{}, false, fmt.Errorf("env.Parse: %w", err)
	}

	return cfg, true, nil
}
