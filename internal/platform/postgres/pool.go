// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package postgres opens the pgx pool behind DATABASE_DRIVER=postgres. The
// artifact repository and the query runner share the returned pool.
package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/relic/internal/platform/constants"
)

const (
	minConns          = 1
	maxConnLifetime   = 60 * time.Minute
	maxConnIdleTime   = 10 * time.Minute
	healthCheckPeriod = 1 * time.Minute
	connectTimeout    = 5 * time.Second
	pingTimeout       = 2 * time.Second
)

type options struct {
	maxConns         int32
	statementTimeout time.Duration
}

// Option tunes the pool.
type Option func(*options)

// WithMaxConns caps open connections. Default: 10.
func WithMaxConns(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxConns = int32(n)
		}
	}
}

// WithStatementTimeout sets statement_timeout on every connection, which also
// bounds ad hoc statements. Default: [constants.GlobalRequestTimeout].
func WithStatementTimeout(d time.Duration) Option {
	return func(o *options) { o.statementTimeout = d }
}

/*
NewPool parses dsn, opens the pool and pings it.

Session settings travel as runtime params in the startup message, so every
physical connection is tagged application_name=relic and carries the
statement timeout without an extra round trip.
*/
func NewPool(ctx context.Context, dsn string, logger *slog.Logger, opts ...Option) (*pgxpool.Pool, error) {
	settings := options{maxConns: 10, statementTimeout: constants.GlobalRequestTimeout}
	for _, opt := range opts {
		opt(&settings)
	}

	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: invalid DSN: %w", err)
	}

	poolConfig.MaxConns = settings.maxConns
	poolConfig.MinConns = min(minConns, settings.maxConns)
	poolConfig.MaxConnLifetime = maxConnLifetime
	poolConfig.MaxConnIdleTime = maxConnIdleTime
	poolConfig.HealthCheckPeriod = healthCheckPeriod
	poolConfig.ConnConfig.ConnectTimeout = connectTimeout

	runtime := poolConfig.ConnConfig.RuntimeParams
	runtime["application_name"] = constants.AppName
	if settings.statementTimeout > 0 {
		runtime["statement_timeout"] = fmt.Sprint(settings.statementTimeout.Milliseconds())
	}

	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(connectCtx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to create pool: %w", err)
	}

	if err := Ping(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	logger.Info("postgres_pool_connected",
		slog.Int("max_conns", int(pool.Stat().MaxConns())),
		slog.Duration("statement_timeout", settings.statementTimeout),
	)
	return pool, nil
}

// Ping fails when the pool cannot answer within two seconds.
func Ping(ctx context.Context, pool *pgxpool.Pool) error {
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		return fmt.Errorf("postgres: ping failed: %w", err)
	}
	return nil
}

// EnsureSchema runs idempotent DDL (CREATE ... IF NOT EXISTS).
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool, ddl string) error {
	if _, err := pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("postgres: ensure schema: %w", err)
	}
	return nil
}
