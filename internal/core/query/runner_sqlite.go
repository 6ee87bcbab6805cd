// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package query

import (
	"context"
	"database/sql"
	"database/sql/driver"

	"github.com/taibuivan/relic/internal/platform/apperr"
)

// SQLiteRunner runs statements against the local artifact store.
type SQLiteRunner struct {
	db *sql.DB
}

// NewSQLiteRunner wraps an open artifact database.
func NewSQLiteRunner(db *sql.DB) *SQLiteRunner {
	return &SQLiteRunner{db: db}
}

// Run executes statement. Read-only runs use a dedicated connection switched to
// PRAGMA query_only, so no write can reach the file even if the statement text
// manages its own transactions. Writable runs are committed in a transaction.
func (r *SQLiteRunner) Run(ctx context.Context, statement string, opts Options) (*Table, error) {
	if opts.ReadOnly {
		return r.runReadOnly(ctx, statement, opts)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, apperr.ServiceUnavailable("Artifact store is unavailable", err)
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx, statement)
	if err != nil {
		return nil, statementError(err, err.Error())
	}

	table, err := scanSQLRows(rows, opts.MaxRows)
	if err != nil {
		return nil, statementError(err, err.Error())
	}

	if err := tx.Commit(); err != nil {
		return nil, statementError(err, err.Error())
	}
	return table, nil
}

func (r *SQLiteRunner) runReadOnly(ctx context.Context, statement string, opts Options) (*Table, error) {
	conn, err := r.db.Conn(ctx)
	if err != nil {
		return nil, apperr.ServiceUnavailable("Artifact store is unavailable", err)
	}
	defer func() {
		// the pool must never hand out a connection left in query_only mode
		if _, resetErr := conn.ExecContext(context.WithoutCancel(ctx), "PRAGMA query_only = OFF"); resetErr != nil {
			_ = conn.Raw(func(any) error { return driver.ErrBadConn })
		}
		_ = conn.Close()
	}()

	if _, err := conn.ExecContext(ctx, "PRAGMA query_only = ON"); err != nil {
		return nil, apperr.ServiceUnavailable("Artifact store is unavailable", err)
	}

	rows, err := conn.QueryContext(ctx, statement)
	if err != nil {
		return nil, statementError(err, err.Error())
	}

	table, err := scanSQLRows(rows, opts.MaxRows)
	if err != nil {
		return nil, statementError(err, err.Error())
	}
	return table, nil
}

func scanSQLRows(rows *sql.Rows, maxRows int) (*Table, error) {
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	table := &Table{Columns: columns, Rows: make([][]any, 0)}
	for rows.Next() {
		if table.full(maxRows) {
			break
		}

		values := make([]any, len(columns))
		targets := make([]any, len(columns))
		for i := range values {
			targets[i] = &values[i]
		}
		if err := rows.Scan(targets...); err != nil {
			return nil, err
		}
		for i, value := range values {
			if raw, ok := value.([]byte); ok {
				values[i] = string(raw)
			}
		}
		table.Rows = append(table.Rows, values)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return table, rows.Close()
}
