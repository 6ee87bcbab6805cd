// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package query

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/relic/internal/platform/apperr"
)

// PostgresRunner runs statements against the PostgreSQL artifact store.
type PostgresRunner struct {
	pool *pgxpool.Pool
}

// NewPostgresRunner wraps a pool.
func NewPostgresRunner(pool *pgxpool.Pool) *PostgresRunner {
	return &PostgresRunner{pool: pool}
}

// Run executes statement inside a transaction. Read-only runs use a READ ONLY
// transaction, so writes fail with a statement error, and are rolled back.
func (r *PostgresRunner) Run(ctx context.Context, statement string, opts Options) (*Table, error) {
	access := pgx.ReadWrite
	if opts.ReadOnly {
		access = pgx.ReadOnly
	}

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{AccessMode: access})
	if err != nil {
		return nil, apperr.ServiceUnavailable("Artifact store is unavailable", err)
	}
	defer tx.Rollback(ctx)

	rows, err := tx.Query(ctx, statement)
	if err != nil {
		return nil, statementError(err, postgresMessage(err))
	}

	table := &Table{Columns: make([]string, 0), Rows: make([][]any, 0)}
	for rows.Next() {
		if table.full(opts.MaxRows) {
			break
		}
		values, err := rows.Values()
		if err != nil {
			rows.Close()
			return nil, statementError(err, postgresMessage(err))
		}
		for i, value := range values {
			values[i] = plainValue(value)
		}
		table.Rows = append(table.Rows, values)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, statementError(err, postgresMessage(err))
	}

	for _, field := range rows.FieldDescriptions() {
		table.Columns = append(table.Columns, field.Name)
	}

	if !opts.ReadOnly {
		if err := tx.Commit(ctx); err != nil {
			return nil, statementError(err, postgresMessage(err))
		}
	}
	return table, nil
}

// postgresMessage prefers the server's message over the driver's wrapped text.
func postgresMessage(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Message
	}
	return err.Error()
}

// plainValue converts driver types without a useful JSON form.
func plainValue(value any) any {
	switch v := value.(type) {
	case pgtype.Numeric:
		f, err := v.Float64Value()
		if err != nil || !f.Valid {
			return nil
		}
		return f.Float64
	case []byte:
		return string(v)
	}
	return value
}
