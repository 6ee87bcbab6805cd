// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config maps environment variables onto [Config] with caarlos0/env and
validates the cross-field rules tags cannot express.

	cfg, err := config.Load()

The struct is built once at startup and passed down through constructors.
*/
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/taibuivan/relic/internal/core/harvest"
	"github.com/taibuivan/relic/internal/platform/constants"
	"github.com/taibuivan/relic/internal/platform/validate"
	"github.com/taibuivan/relic/pkg/query"
)

// Storage and archive drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	ArchiveNone = "none"
	ArchiveFS   = "fs"
	ArchiveS3   = "s3"
)

// # Configuration Schema

// Config holds all runtime configuration for the Relic ingestion service.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Artifact store. SQLite is a single local file; Postgres needs DATABASE_URL.
	DatabaseDriver string `env:"DATABASE_DRIVER" envDefault:"sqlite"`
	SQLitePath     string `env:"SQLITE_PATH"     envDefault:"harvard_artifacts.db"`
	DatabaseURL    string `env:"DATABASE_URL"`

	SQLiteBusyTimeout        time.Duration `env:"SQLITE_BUSY_TIMEOUT"        envDefault:"10s"`
	DatabaseMaxConns         int           `env:"DATABASE_MAX_CONNS"         envDefault:"10"`
	DatabaseStatementTimeout time.Duration `env:"DATABASE_STATEMENT_TIMEOUT" envDefault:"30s"`

	// Batch staging. Empty REDIS_URL keeps staged batches in process memory.
	RedisURL string        `env:"REDIS_URL"`
	BatchTTL time.Duration `env:"BATCH_TTL" envDefault:"1h"`

	// Collection provider
	ProviderBaseURL        string        `env:"PROVIDER_BASE_URL"        envDefault:"https://api.harvardartmuseums.org"`
	ProviderAPIKey         string        `env:"PROVIDER_API_KEY,required"`
	ProviderTimeout        time.Duration `env:"PROVIDER_TIMEOUT"         envDefault:"30s"`
	ProviderPageSize       int           `env:"PROVIDER_PAGE_SIZE"       envDefault:"100"`
	ProviderPageDelay      time.Duration `env:"PROVIDER_PAGE_DELAY"      envDefault:"200ms"`
	ProviderMaxPages       int           `env:"PROVIDER_MAX_PAGES"       envDefault:"200"`
	ProviderRetryMax       int           `env:"PROVIDER_RETRY_MAX"       envDefault:"0"`
	ProviderBackoffInitial time.Duration `env:"PROVIDER_BACKOFF_INITIAL" envDefault:"2s"`
	ProviderBackoffMax     time.Duration `env:"PROVIDER_BACKOFF_MAX"     envDefault:"20s"`

	// Raw batch archive (none, fs or s3)
	ArchiveDriver string `env:"ARCHIVE_DRIVER" envDefault:"none"`
	ArchiveDir    string `env:"ARCHIVE_DIR"    envDefault:"./data/archive"`

	// Object Storage (S3-compatible) for the s3 archive driver
	S3Bucket    string `env:"S3_BUCKET"`
	S3Region    string `env:"S3_REGION"     envDefault:"us-east-1"`
	S3Endpoint  string `env:"S3_ENDPOINT"`
	S3PathStyle bool   `env:"S3_PATH_STYLE" envDefault:"false"`

	// Ad hoc SQL is a trusted-operator surface, off unless explicitly enabled.
	AdhocSQLEnabled  bool `env:"ADHOC_SQL_ENABLED"   envDefault:"false"`
	AdhocSQLReadOnly bool `env:"ADHOC_SQL_READ_ONLY" envDefault:"true"`

	// Cross-Origin Resource Sharing
	ExtraOrigins string `env:"EXTRA_ORIGINS"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct and validates it.
func Load() (*Config, error) {
	cfg := &Config{}

	// fails when a `required` variable is missing
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks cross-field constraints that struct tags cannot express.
func (c *Config) Validate() error {
	validator := &validate.Validator{}

	validator.OneOf("DATABASE_DRIVER", c.DatabaseDriver, DriverSQLite, DriverPostgres)
	validator.OneOf("ARCHIVE_DRIVER", c.ArchiveDriver, ArchiveNone, ArchiveFS, ArchiveS3)
	validator.Range("PROVIDER_PAGE_SIZE", c.ProviderPageSize, 1, constants.ProviderPageSize)
	validator.Range("PROVIDER_MAX_PAGES", c.ProviderMaxPages, 1, 10_000)
	validator.Range("PROVIDER_RETRY_MAX", c.ProviderRetryMax, 0, 10)

	if c.DatabaseDriver == DriverPostgres {
		validator.Required("DATABASE_URL", c.DatabaseURL)
		validator.Range("DATABASE_MAX_CONNS", c.DatabaseMaxConns, 1, 100)
	}
	if c.DatabaseDriver == DriverSQLite {
		validator.Required("SQLITE_PATH", c.SQLitePath)
	}
	if c.ArchiveDriver == ArchiveS3 {
		validator.Required("S3_BUCKET", c.S3Bucket)
	}
	if c.ArchiveDriver == ArchiveFS {
		validator.Required("ARCHIVE_DIR", c.ArchiveDir)
	}

	validator.Custom("ADHOC_SQL_READ_ONLY",
		c.IsProduction() && c.AdhocSQLEnabled && !c.AdhocSQLReadOnly,
		"Writable ad hoc SQL cannot be enabled in production")

	return validator.Err()
}

// Harvest builds the provider parameter object consumed by [harvest.New].
func (c *Config) Harvest() harvest.Config {
	return harvest.Config{
		BaseURL:        c.ProviderBaseURL,
		APIKey:         c.ProviderAPIKey,
		Timeout:        c.ProviderTimeout,
		PageDelay:      c.ProviderPageDelay,
		MaxPages:       c.ProviderMaxPages,
		RetryMax:       c.ProviderRetryMax,
		BackoffInitial: c.ProviderBackoffInitial,
		BackoffMax:     c.ProviderBackoffMax,
	}
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// AllowedOrigins returns the comma-separated EXTRA_ORIGINS as a list.
func (c *Config) AllowedOrigins() []string {
	return query.StringSlice(c.ExtraOrigins)
}
