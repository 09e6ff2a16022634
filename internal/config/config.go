package config

import (
	"errors"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const defaultJWTSecret = "your-secret-key-change-in-production"

var ErrInsecureJWTSecret = errors.New("JWT_SECRET must be set to a non-default value in production")

type Config struct {
	AppEnv            string
	Port              string
	DatabaseURL       string
	JWTSecret         string
	SessionTTL        time.Duration
	FCMServiceAccount string
	SentryDSN         string
	SeedDemoGoals     bool
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, using environment variables")
	}

	cfg := &Config{
		AppEnv:            getEnv("APP_ENV", "development"),
		Port:              getEnv("PORT", "8080"),
		DatabaseURL:       getEnv("DATABASE_URL", "healthgoals.db"),
		JWTSecret:         getEnv("JWT_SECRET", defaultJWTSecret),
		SessionTTL:        getEnvDuration("SESSION_TTL", 7*24*time.Hour),
		FCMServiceAccount: getEnv("FCM_SERVICE_ACCOUNT", ""),
		SentryDSN:         getEnv("SENTRY_DSN", ""),
		SeedDemoGoals:     getEnvBool("SEED_DEMO_GOALS", false),
	}

	if cfg.IsProduction() && cfg.JWTSecret == defaultJWTSecret {
		return nil, ErrInsecureJWTSecret
	}
	return cfg, nil
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return fallback
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		slog.Warn("config invalid bool, using default", "key", key, "value", value, "default", fallback)
		return fallback
	}
	return b
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		slog.Warn("config invalid duration, using default", "key", key, "value", value, "default", fallback)
		return fallback
	}
	return d
}
