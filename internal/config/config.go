// Package config loads service configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Storage drivers.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config holds application configuration.
type Config struct {
	Port               string
	StorageDriver      string
	DatabaseURL        string
	SQLitePath         string
	Seed               bool
	SeedFile           string
	LogLevel           string
	OTLPEndpoint       string
	RateLimitPerMinute int
	FingerprintKey     string
}

// Load reads configuration from the environment, after loading a .env file
// from the working directory when there is one.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load .env: %w", err)
	}
	return FromEnv(os.LookupEnv)
}

// FromEnv builds a Config from a lookup function.
func FromEnv(lookup func(string) (string, bool)) (Config, error) {
	get := func(key, defaultValue string) string {
		if value, ok := lookup(key); ok && value != "" {
			return value
		}
		return defaultValue
	}

	cfg := Config{
		Port:          get("PORT", "8083"),
		StorageDriver: get("STORAGE_DRIVER", DriverMemory),
		DatabaseURL:   get("DATABASE_URL", ""),
		SQLitePath:    get("SQLITE_PATH", "./data/members.db"),
		SeedFile:      get("SEED_FILE", ""),
		LogLevel:      get("LOG_LEVEL", "info"),
		OTLPEndpoint:  get("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		// An empty key still yields stable fingerprints within one deployment.
		FingerprintKey: get("ID_FINGERPRINT_KEY", ""),
	}

	var err error
	if cfg.Seed, err = strconv.ParseBool(get("SEED", "true")); err != nil {
		return Config{}, fmt.Errorf("invalid SEED: %w", err)
	}
	if cfg.RateLimitPerMinute, err = strconv.Atoi(get("RATE_LIMIT_PER_MINUTE", "600")); err != nil {
		return Config{}, fmt.Errorf("invalid RATE_LIMIT_PER_MINUTE: %w", err)
	}
	if cfg.RateLimitPerMinute < 0 {
		return Config{}, fmt.Errorf("invalid RATE_LIMIT_PER_MINUTE: must not be negative")
	}

	switch cfg.StorageDriver {
	case DriverMemory, DriverSQLite:
	case DriverPostgres:
		if cfg.DatabaseURL == "" {
			return Config{}, fmt.Errorf("DATABASE_URL is required for the %s driver", DriverPostgres)
		}
	default:
		return Config{}, fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.StorageDriver)
	}

	return cfg, nil
}
