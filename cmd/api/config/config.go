package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap/zapcore"
)

// Config is read once at startup, from the environment and an optional env file.
type Config struct {
	DatabaseURL          string        `envconfig:"DATABASE_URL" required:"true"`
	MigrationsPath       string        `envconfig:"DATABASE_MIGRATIONS_PATH"`
	IsProduction         bool          `envconfig:"IS_PRODUCTION"`
	LogLevel             zapcore.Level `envconfig:"LOG_LEVEL" default:"info"`
	NotificationsEnabled bool          `envconfig:"NOTIFICATIONS_ENABLED"`
	NotificationsBaseURL string        `envconfig:"NOTIFICATIONS_BASE_URL"`
	NotificationsTimeout time.Duration `envconfig:"NOTIFICATIONS_TIMEOUT" default:"2s"`
}

// Load reads envFile when it exists, without overriding variables already
// set, then builds the Config from the environment.
func Load(envFile string) (Config, error) {
	var cfg Config

	err := godotenv.Load(envFile)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return cfg, fmt.Errorf("loading env file %s: %w", envFile, err)
	}

	err = envconfig.Process("", &cfg)
	if err != nil {
		return cfg, fmt.Errorf("loading configurations from environment: %w", err)
	}

	err = cfg.validate()
	if err != nil {
		return cfg, fmt.Errorf("validating configurations: %w", err)
	}
	return cfg, nil
}

func (cfg Config) validate() error {
	if cfg.DatabaseURL == "" {
		return errors.New("DATABASE_URL must not be empty")
	}
	if cfg.NotificationsEnabled && cfg.NotificationsBaseURL == "" {
		return errors.New("NOTIFICATIONS_BASE_URL must be set when notifications are enabled")
	}
	if cfg.NotificationsTimeout <= 0 {
		return errors.New("NOTIFICATIONS_TIMEOUT must be positive")
	}
	return nil
}
