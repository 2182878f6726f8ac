// Package config loads service settings from the environment.
package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds everything wellbeingd needs at startup.
type Config struct {
	Port        int      `env:"WELLBEING_PORT" envDefault:"8080"`
	DBPath      string   `env:"WELLBEING_DB_PATH" envDefault:"data/verdicts.db"`
	AdminKey    string   `env:"WELLBEING_ADMIN_KEY"` // Empty = admin endpoints disabled.
	CORSOrigins []string `env:"WELLBEING_CORS_ORIGINS" envSeparator:","`
	RateLimit   int      `env:"WELLBEING_RATE_LIMIT" envDefault:"120"` // Scoring requests per IP per hour.
	LogLevel    string   `env:"WELLBEING_LOG_LEVEL" envDefault:"info"`
}

// Load reads an optional .env file, then parses the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file, using process environment")
	}
	return Parse()
}

// Parse reads Config from the process environment only.
func Parse() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("invalid WELLBEING_PORT %d", cfg.Port)
	}
	if cfg.RateLimit <= 0 {
		return nil, fmt.Errorf("invalid WELLBEING_RATE_LIMIT %d", cfg.RateLimit)
	}
	return &cfg, nil
}

// Level maps LogLevel onto a slog level. Unknown names mean info.
func (c *Config) Level() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
