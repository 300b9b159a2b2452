// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values. An optional '.env'
file is loaded first with 'joho/godotenv' so local runs need no exported vars.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (storage, sessions) via constructors.
  - Zero Hidden State: No global variables are used to store config.
*/
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// # Storage Drivers

const (
	// DriverMemory keeps visitor state in process memory only.
	DriverMemory = "memory"
	// DriverRedis keeps visitor state in Redis with a TTL.
	DriverRedis = "redis"
	// DriverPostgres keeps visitor state in the visitor_state table.
	DriverPostgres = "postgres"
)

// # Configuration Schema

// Config holds all runtime configuration for the AutoLuxe showroom API.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// StoreDriver selects the persistence backend for visitor state.
	StoreDriver string `env:"STORE_DRIVER" envDefault:"memory"`

	// Relational Database (PostgreSQL), required for the postgres driver.
	DatabaseURL string `env:"DATABASE_URL"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Key-Value Cache (Redis), required for the redis driver.
	RedisURL string `env:"REDIS_URL"`

	// VisitorTTL is how long persisted visitor state survives without writes.
	VisitorTTL time.Duration `env:"VISITOR_TTL" envDefault:"720h"`

	// StorageRetryAfter is how long a namespace stays in memory after a backend failure.
	StorageRetryAfter time.Duration `env:"STORAGE_RETRY_AFTER" envDefault:"30s"`

	// SessionIdleTimeout evicts in-memory browsing sessions.
	SessionIdleTimeout time.Duration `env:"SESSION_IDLE_TIMEOUT" envDefault:"30m"`

	// Detail view and contact flow timing
	CarouselInterval      time.Duration `env:"CAROUSEL_INTERVAL"       envDefault:"5s"`
	SubmissionDelay       time.Duration `env:"SUBMISSION_DELAY"        envDefault:"2s"`
	SubmissionFailureRate float64       `env:"SUBMISSION_FAILURE_RATE" envDefault:"0"`

	// PageSize is the number of vehicles per grid page.
	PageSize int `env:"PAGE_SIZE" envDefault:"12"`

	// Optional YAML overrides of the embedded inventory
	CatalogPath string `env:"CATALOG_PATH"`
	VideosPath  string `env:"VIDEOS_PATH"`

	// Dealer contact points used in outbound links
	DealerPhone string `env:"DEALER_PHONE" envDefault:"07605455312"`
	DealerEmail string `env:"DEALER_EMAIL" envDefault:"sales@autoluxe.co.ke"`

	// Cross-Origin Resource Sharing
	AllowedOriginSuffix string `env:"ALLOWED_ORIGIN_SUFFIX" envDefault:"autoluxe.co.ke"`
}

// # Configuration Loading

// Load reads an optional .env file and parses environment variables into a [Config].
func Load() (*Config, error) {

	// A missing .env is normal outside local development
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: failed to read .env: %w", err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate checks cross-field requirements that struct tags cannot express.
func (c *Config) validate() error {
	switch c.StoreDriver {
	case DriverMemory:
	case DriverRedis:
		if c.RedisURL == "" {
			return errors.New("config: REDIS_URL is required for the redis store driver")
		}
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return errors.New("config: DATABASE_URL is required for the postgres store driver")
		}
	default:
		return fmt.Errorf("config: unknown STORE_DRIVER %q", c.StoreDriver)
	}

	if c.PageSize < 1 {
		return fmt.Errorf("config: PAGE_SIZE must be positive, got %d", c.PageSize)
	}

	if c.SubmissionFailureRate < 0 || c.SubmissionFailureRate > 1 {
		return fmt.Errorf("config: SUBMISSION_FAILURE_RATE must be within [0, 1], got %v", c.SubmissionFailureRate)
	}

	return nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
