package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"slices"
	"time"

	"github.com/joho/godotenv"
	"go-simpler.org/env"
)

type Config struct {
	AppEnv    string `env:"APP_ENV" default:"development"`
	Port      string `env:"PORT" default:"8080"`
	AppURL    string `env:"APP_URL" default:"http://localhost:8080"`
	RedisURL  string `env:"REDIS_URL"`
	LogLevel  string `env:"LOG_LEVEL" default:"info"`
	LogFormat string `env:"LOG_FORMAT" default:"text"`

	RecomputeInterval time.Duration `env:"RECOMPUTE_INTERVAL" default:"5m"`
	SeedFile          string        `env:"SEED_FILE"`

	APIRateLimit float64 `env:"API_RATE_LIMIT" default:"5"`
	APIRateBurst int     `env:"API_RATE_BURST" default:"20"`

	MaxWebSocketConnections      int      `env:"MAX_WEBSOCKET_CONNECTIONS" default:"10000"`
	MaxWebSocketConnectionsPerIP int      `env:"MAX_WEBSOCKET_CONNECTIONS_PER_IP" default:"20"`
	AllowedOrigins               []string `env:"ALLOWED_ORIGINS"`
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

// IsProduction reports whether APP_ENV selects production behaviour.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func validate(cfg *Config) error {
	if !slices.Contains([]string{"debug", "info", "warn", "error"}, cfg.LogLevel) {
		return fmt.Errorf("LOG_LEVEL must be one of debug, info, warn, error, got %q", cfg.LogLevel)
	}
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return fmt.Errorf("LOG_FORMAT must be text or json, got %q", cfg.LogFormat)
	}

	if cfg.RecomputeInterval < time.Second {
		return fmt.Errorf("RECOMPUTE_INTERVAL must be at least 1s, got %s", cfg.RecomputeInterval)
	}
	if cfg.APIRateLimit <= 0 {
		return errors.New("API_RATE_LIMIT must be positive")
	}
	if cfg.APIRateBurst < 1 {
		return errors.New("API_RATE_BURST must be at least 1")
	}
	if cfg.MaxWebSocketConnections < 1 {
		return errors.New("MAX_WEBSOCKET_CONNECTIONS must be at least 1")
	}
	if cfg.MaxWebSocketConnectionsPerIP < 1 || cfg.MaxWebSocketConnectionsPerIP > cfg.MaxWebSocketConnections {
		return errors.New("MAX_WEBSOCKET_CONNECTIONS_PER_IP must be between 1 and MAX_WEBSOCKET_CONNECTIONS")
	}
	for _, origin := range cfg.AllowedOrigins {
		u, err := url.Parse(origin)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("ALLOWED_ORIGINS entries must be absolute URLs, got %q", origin)
		}
	}

	appURL, err := url.Parse(cfg.AppURL)
	if err != nil || appURL.Host == "" {
		return fmt.Errorf("APP_URL must be an absolute URL, got %q", cfg.AppURL)
	}
	if cfg.IsProduction() && appURL.Scheme != "https" {
		return errors.New("APP_URL must use https in production")
	}

	if cfg.RedisURL != "" {
		redisURL, err := url.Parse(cfg.RedisURL)
		if err != nil || (redisURL.Scheme != "redis" && redisURL.Scheme != "rediss") {
			return fmt.Errorf("REDIS_URL must be a redis:// or rediss:// URL")
		}
	}

	return nil
}
