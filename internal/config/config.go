// Package config loads application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strings"
)

// Config holds all configuration for the API server.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string

	// DatabaseURL is the Postgres connection string. Required.
	DatabaseURL string

	// LogLevel controls the minimum slog level. Defaults to "info".
	LogLevel string

	// SeedPath optionally points at a JSON demo-data file applied at
	// startup. Empty means no seeding.
	SeedPath string
}

// Load reads configuration from environment variables.
// Returns an error naming any required variable that is not set.
func Load() (Config, error) {
	cfg := Config{
		Port:     Get("PORT", "8080"),
		LogLevel: Get("LOG_LEVEL", "info"),
		SeedPath: os.Getenv("SEED_PATH"),
	}

	cfg.DatabaseURL = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("required environment variable not set: DATABASE_URL")
	}

	return cfg, nil
}

// Get returns the value of the environment variable named by key, or
// fallback when unset or empty.
func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
