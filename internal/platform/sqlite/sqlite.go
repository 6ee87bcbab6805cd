// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package sqlite opens the local file-backed artifact store.

It wraps the pure-Go 'modernc.org/sqlite' driver and applies the pragmas every
connection needs before the store is handed to repositories:

	foreign_keys = ON
	journal_mode = WAL
	busy_timeout = 10000
	synchronous  = NORMAL

Usage:

	db, err := sqlite.Open("harvard_artifacts.db", sqlite.WithSchema(schema.SQLiteDDL))

In tests:

	db := sqlite.OpenMemory(t, sqlite.WithSchema(schema.SQLiteDDL))
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"testing"
	"time"

	// pure go sqlite driver, registers "sqlite"
	_ "modernc.org/sqlite"

	"github.com/taibuivan/relic/internal/platform/ctxutil"
	"github.com/taibuivan/relic/internal/platform/dberr"
)

// MemoryPath is the special path of a private in-memory database.
const MemoryPath = ":memory:"

const (
	driverName  = "sqlite"
	maxRetries  = 3
	pingTimeout = 2 * time.Second
)

type config struct {
	busyTimeout int
	synchronous string
	mkdirAll    bool
	schemas     []string
}

func defaults() config {
	return config{
		busyTimeout: 10_000,
		synchronous: "NORMAL",
	}
}

// Option customises Open behaviour.
type Option func(*config)

// WithBusyTimeout sets PRAGMA busy_timeout in milliseconds. Default: 10000.
func WithBusyTimeout(ms int) Option { return func(c *config) { c.busyTimeout = ms } }

// WithMkdirAll creates parent directories of the database path before opening.
func WithMkdirAll() Option { return func(c *config) { c.mkdirAll = true } }

// WithSchema queues inline SQL to execute after pragmas are applied.
func WithSchema(s string) Option { return func(c *config) { c.schemas = append(c.schemas, s) } }

// Open opens an SQLite database at path with the store pragmas applied.
//
// File databases carry the pragmas in the DSN so every pooled connection gets them.
// [MemoryPath] is pinned to a single connection, because each connection to an
// in-memory database sees its own private database.
func Open(path string, opts ...Option) (*sql.DB, error) {
	cfg := defaults()
	for _, o := range opts {
		o(&cfg)
	}

	if cfg.mkdirAll && path != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			return nil, fmt.Errorf("sqlite: mkdir: %w", err)
		}
	}

	db, err := sql.Open(driverName, dsn(path, &cfg))
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}

	if path == MemoryPath {
		db.SetMaxOpenConns(1)
		if err := applyPragmas(db, &cfg); err != nil {
			_ = db.Close()
			return nil, err
		}
	}

	for _, s := range cfg.schemas {
		if _, err := db.Exec(s); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("sqlite: exec schema: %w", err)
		}
	}

	if err := Ping(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

// OpenMemory opens an in-memory SQLite database for testing and registers
// t.Cleanup to close it.
func OpenMemory(t testing.TB, opts ...Option) *sql.DB {
	t.Helper()
	db, err := Open(MemoryPath, opts...)
	if err != nil {
		t.Fatalf("sqlite.OpenMemory: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// Ping verifies that the database answers within a short deadline.
func Ping(ctx context.Context, db *sql.DB) error {
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		return fmt.Errorf("sqlite: ping failed: %w", err)
	}
	return nil
}

// RunTx executes fn inside a transaction with automatic retry on SQLITE_BUSY.
// It retries up to 3 times with 100/200/300 ms backoff. Any error from fn rolls
// the transaction back. Retries are logged on the context logger.
func RunTx(ctx context.Context, db *sql.DB, fn func(*sql.Tx) error) error {
	for i := range maxRetries {
		err := runOnce(ctx, db, fn)
		if err == nil {
			return nil
		}
		if !dberr.IsBusy(err) || i == maxRetries-1 {
			return err
		}

		ctxutil.GetLogger(ctx).WarnContext(ctx, "sqlite_busy_retry", slog.Int("attempt", i+1))
		select {
		case <-ctx.Done():
			return fmt.Errorf("sqlite: context cancelled during retry: %w", ctx.Err())
		case <-time.After(time.Duration(100*(i+1)) * time.Millisecond):
		}
	}
	return fmt.Errorf("sqlite: RunTx: max retries exceeded")
}

func runOnce(ctx context.Context, db *sql.DB, fn func(*sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: commit: %w", err)
	}
	return nil
}

func dsn(path string, cfg *config) string {
	if path == MemoryPath {
		return path
	}

	q := url.Values{}
	q.Add("_pragma", "foreign_keys(1)")
	q.Add("_pragma", "journal_mode(WAL)")
	q.Add("_pragma", fmt.Sprintf("busy_timeout(%d)", cfg.busyTimeout))
	q.Add("_pragma", "synchronous("+cfg.synchronous+")")
	return "file:" + path + "?" + q.Encode()
}

func applyPragmas(db *sql.DB, cfg *config) error {
	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		fmt.Sprintf("PRAGMA busy_timeout = %d", cfg.busyTimeout),
		fmt.Sprintf("PRAGMA synchronous = %s", cfg.synchronous),
	}

	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("sqlite: %s: %w", p, err)
		}
	}
	return nil
}
