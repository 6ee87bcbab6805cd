// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package app assembles the Relic components from a loaded configuration.

Both binaries (cmd/api and cmd/ingest) share this wiring so the HTTP server and
the one-shot CLI always talk to the same store, provider and archive.

Startup Sequence:

 1. Open the artifact store (SQLite file or PostgreSQL pool) and ensure its tables.
 2. Connect to Redis for batch staging, or fall back to process memory.
 3. Open the raw batch archive (none, fs or s3).
 4. Build the metrics collector, fetcher and domain services.
*/
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"

	"github.com/taibuivan/relic/internal/core/artifact"
	"github.com/taibuivan/relic/internal/core/harvest"
	"github.com/taibuivan/relic/internal/core/ingest"
	"github.com/taibuivan/relic/internal/core/query"
	"github.com/taibuivan/relic/internal/platform/archive"
	"github.com/taibuivan/relic/internal/platform/config"
	"github.com/taibuivan/relic/internal/platform/database/schema"
	"github.com/taibuivan/relic/internal/platform/metrics"
	pgstore "github.com/taibuivan/relic/internal/platform/postgres"
	redisstore "github.com/taibuivan/relic/internal/platform/redis"
	"github.com/taibuivan/relic/internal/platform/sqlite"
)

// App holds every wired component. Close releases the connections.
type App struct {
	Metrics   *metrics.Collector
	Fetcher   *harvest.Fetcher
	Artifacts *artifact.Service
	Ingest    *ingest.Service
	Queries   *query.Service
	Archive   archive.Archive

	sqliteDB *sql.DB
	pgPool   *pgxpool.Pool
	redis    *goredis.Client
	logger   *slog.Logger
}

// New opens the backing stores and builds the services.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	application := &App{
		Metrics: metrics.New(),
		logger:  logger,
	}

	repository, runner, err := application.openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	staging, err := application.openStaging(ctx, cfg)
	if err != nil {
		application.Close()
		return nil, err
	}

	application.Archive, err = openArchive(ctx, cfg)
	if err != nil {
		application.Close()
		return nil, err
	}

	catalog, err := query.LoadCatalog()
	if err != nil {
		application.Close()
		return nil, err
	}

	application.Fetcher = harvest.New(cfg.Harvest(), logger, harvest.WithRecorder(application.Metrics))
	application.Artifacts = artifact.NewService(repository, logger).WithRecorder(application.Metrics)
	application.Ingest = ingest.NewService(application.Fetcher, application.Artifacts, staging, application.Archive, logger).
		WithPageSize(cfg.ProviderPageSize)
	application.Queries = query.NewService(catalog, runner, query.AdhocPolicy{
		Enabled:  cfg.AdhocSQLEnabled,
		ReadOnly: cfg.AdhocSQLReadOnly,
	}, logger)

	logger.Info("application_wired",
		slog.String("store", cfg.DatabaseDriver),
		slog.Bool("redis_staging", application.redis != nil),
		slog.String("archive", string(application.Archive.Driver())),
		slog.Bool("adhoc_sql", cfg.AdhocSQLEnabled),
	)
	return application, nil
}

func (a *App) openStore(ctx context.Context, cfg *config.Config) (artifact.Repository, query.Runner, error) {
	switch cfg.DatabaseDriver {
	case config.DriverPostgres:
		pool, err := pgstore.NewPool(ctx, cfg.DatabaseURL, a.logger,
			pgstore.WithMaxConns(cfg.DatabaseMaxConns),
			pgstore.WithStatementTimeout(cfg.DatabaseStatementTimeout),
		)
		if err != nil {
			return nil, nil, err
		}
		if err := pgstore.EnsureSchema(ctx, pool, schema.PostgresDDL); err != nil {
			pool.Close()
			return nil, nil, err
		}
		a.pgPool = pool
		return artifact.NewPostgresRepository(pool), query.NewPostgresRunner(pool), nil

	default:
		opts := []sqlite.Option{sqlite.WithMkdirAll(), sqlite.WithSchema(schema.SQLiteDDL)}
		if cfg.SQLiteBusyTimeout > 0 {
			opts = append(opts, sqlite.WithBusyTimeout(int(cfg.SQLiteBusyTimeout.Milliseconds())))
		}
		db, err := sqlite.Open(cfg.SQLitePath, opts...)
		if err != nil {
			return nil, nil, err
		}
		a.sqliteDB = db
		a.logger.Info("sqlite_store_opened", slog.String("path", cfg.SQLitePath))
		return artifact.NewSQLiteRepository(db), query.NewSQLiteRunner(db), nil
	}
}

func (a *App) openStaging(ctx context.Context, cfg *config.Config) (ingest.Store, error) {
	if cfg.RedisURL == "" {
		return ingest.NewMemoryStore(cfg.BatchTTL), nil
	}

	client, err := redisstore.NewClient(ctx, cfg.RedisURL, a.logger)
	if err != nil {
		return nil, err
	}
	a.redis = client
	return ingest.NewRedisStore(client, cfg.BatchTTL), nil
}

func openArchive(ctx context.Context, cfg *config.Config) (archive.Archive, error) {
	switch cfg.ArchiveDriver {
	case config.ArchiveFS:
		return archive.NewFS(cfg.ArchiveDir)
	case config.ArchiveS3:
		return archive.NewS3(ctx, archive.S3Config{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			PathStyle: cfg.S3PathStyle,
		})
	default:
		return archive.Nop{}, nil
	}
}

// # Health

// CheckStore pings whichever artifact store is open.
func (a *App) CheckStore(ctx context.Context) error {
	switch {
	case a.pgPool != nil:
		return pgstore.Ping(ctx, a.pgPool)
	case a.sqliteDB != nil:
		return sqlite.Ping(ctx, a.sqliteDB)
	}
	return fmt.Errorf("app: no artifact store open")
}

// CheckStaging pings Redis. It is nil when batches are staged in memory.
func (a *App) CheckStaging() func(context.Context) error {
	if a.redis == nil {
		return nil
	}
	return func(ctx context.Context) error {
		return redisstore.Ping(ctx, a.redis)
	}
}

// StoreName names the artifact backend for health reports.
func (a *App) StoreName() string {
	if a.pgPool != nil {
		return "postgres"
	}
	return "sqlite"
}

// # Lifecycle

// Close releases every open connection.
func (a *App) Close() error {
	var errs []error
	if a.redis != nil {
		a.logger.Info("redis_client_closing")
		errs = append(errs, a.redis.Close())
	}
	if a.pgPool != nil {
		a.logger.Info("postgres_pool_closing")
		a.pgPool.Close()
	}
	if a.sqliteDB != nil {
		a.logger.Info("sqlite_store_closing")
		errs = append(errs, a.sqliteDB.Close())
	}
	return errors.Join(errs...)
}
