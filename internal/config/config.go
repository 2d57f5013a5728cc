// Package config loads service configuration from the environment.
// Loads from .env file (godotenv), maps to Config struct via go-simpler/env struct tags.
package config

import (
	"fmt"
	"log/slog"

	"github.com/joho/godotenv"
	"go-simpler.org/env"
)

type Config struct {
	AppEnv      string `env:"APP_ENV" default:"development"`
	Port        string `env:"PORT" default:"8080"`
	DatabaseURL string `env:"DATABASE_URL"`
	LogLevel    string `env:"LOG_LEVEL" default:"info"`
	LogFormat   string `env:"LOG_FORMAT" default:"text"`

	// Rate limiting for the post submission endpoint.
	IngestRatePerSecond float64 `env:"INGEST_RATE_PER_SECOND" default:"10"`
	IngestRateBurst     int     `env:"INGEST_RATE_BURST" default:"20"`

	// Dashboard defaults.
	RecentPostsLimit int `env:"RECENT_POSTS_LIMIT" default:"10"`
	TopHashtagsLimit int `env:"TOP_HASHTAGS_LIMIT" default:"10"`
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	var cfg Config
	if err := env.Load(&cfg, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func validate(cfg *Config) error {
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.IngestRatePerSecond <= 0 {
		return fmt.Errorf("INGEST_RATE_PER_SECOND must be positive")
	}
	if cfg.IngestRateBurst <= 0 {
		return fmt.Errorf("INGEST_RATE_BURST must be positive")
	}
	if cfg.RecentPostsLimit <= 0 {
		return fmt.Errorf("RECENT_POSTS_LIMIT must be positive")
	}
	if cfg.TopHashtagsLimit <= 0 {
		return fmt.Errorf("TOP_HASHTAGS_LIMIT must be positive")
	}
	return nil
}
