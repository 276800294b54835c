// Package config loads service configuration from environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Env   string `envconfig:"APP_ENV" default:"development"`
		Port  int    `envconfig:"APP_PORT" default:"8080"`
		Level string `envconfig:"LOG_LEVEL" default:"info"`
		// StaticDir, when set, serves the page shell from disk.
		StaticDir string `envconfig:"STATIC_DIR"`
	}

	DB struct {
		URL string `envconfig:"DATABASE_URL" required:"true"`
	}

	Session struct {
		// Secret signs the staffSession token cookie.
		Secret string `envconfig:"SESSION_SECRET" required:"true"`
		TTL    time.Duration `envconfig:"SESSION_TTL" default:"720h"`
	}

	Sync struct {
		// Token is the bearer credential required by POST /api/sync.
		Token    string        `envconfig:"SYNC_TOKEN" required:"true"`
		Interval time.Duration `envconfig:"SYNC_INTERVAL" default:"5m"`
		// MinGap suppresses duplicate trigger firings within a short window.
		MinGap time.Duration `envconfig:"SYNC_MIN_GAP" default:"1m"`
	}

	Feed struct {
		URL   string `envconfig:"FEED_URL" required:"true"`
		Token string `envconfig:"FEED_TOKEN"`
	}

	Mail struct {
		Host     string `envconfig:"SMTP_HOST"`
		Port     int    `envconfig:"SMTP_PORT" default:"465"`
		User     string `envconfig:"SMTP_USER"`
		Password string `envconfig:"SMTP_PASSWORD"`
		From     string `envconfig:"SMTP_FROM"`
	}

	Reminder struct {
		Enabled bool   `envconfig:"REMINDER_ENABLED" default:"false"`
		At      string `envconfig:"REMINDER_AT" default:"16:30"`
	}

	Cache struct {
		// Version tags the precache/runtime store names; bumping it evicts
		// every store created under the previous tag on activation.
		Version     string `envconfig:"CACHE_VERSION" default:"v1"`
		RuntimeSize int    `envconfig:"CACHE_RUNTIME_SIZE" default:"512"`
		// BackendHost is an origin the worker never intercepts.
		BackendHost string `envconfig:"CACHE_BACKEND_HOST"`
	}
}

// Load reads .env (if present) and the environment into a Config.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	return &cfg, nil
}

// IsDevelopment reports whether the service runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development"
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.App.Port)
}
