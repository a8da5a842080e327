package config

import (
	"fmt"
	"os"
	"time"
)

type Config struct {
	DatabasePath     string
	BaseURL          string
	LogLevel         string
	Port             string
	SyncPollInterval time.Duration
}

func Load() (Config, error) {
	config := Config{
		DatabasePath: envOrDefault("DATABASE_PATH", "./data/task-donegeon.db"),
		BaseURL:      envOrDefault("BASE_URL", "http://localhost:8080"),
		LogLevel:     envOrDefault("LOG_LEVEL", "info"),
		Port:         envOrDefault("PORT", "8080"),
	}

	interval, err := time.ParseDuration(envOrDefault("SYNC_POLL_INTERVAL", "30s"))
	if err != nil {
		return Config{}, fmt.Errorf("parsing SYNC_POLL_INTERVAL: %w", err)
	}
	config.SyncPollInterval = interval

	return config, nil
}

func envOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
