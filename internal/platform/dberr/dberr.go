// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
//
// Both storage backends (SQLite through database/sql and PostgreSQL through pgx)
// funnel their failures through [Wrap] so handlers never see driver types.
package dberr

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/taibuivan/relic/internal/platform/apperr"
)

var (
	// ErrNotFound is a standard error returned when a queried row doesn't exist.
	ErrNotFound = apperr.NotFound("Resource")
)

// Wrap inspects a database error and wraps it into a meaningful [apperr.AppError].
// It hides internal database details from the client while classifying the error type.
// The action names the failed operation and is kept on the cause for logging.
func Wrap(err error, action string) error {
	if err == nil {
		return nil
	}

	// 1. Not Found mapping
	if errors.Is(err, sql.ErrNoRows) || errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}

	// 2. Store unreachable, locked or out of time
	if IsUnavailable(err) {
		return apperr.ServiceUnavailable("Artifact store is unavailable", &actionError{action: action, err: err})
	}

	// 3. Unknown query errors become Internal Server Errors
	return apperr.Internal(&actionError{action: action, err: err})
}

// IsUnavailable reports whether err means the store could not serve the request at all,
// as opposed to rejecting a statement.
func IsUnavailable(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, sql.ErrConnDone) {
		return true
	}

	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return true
	}

	return IsBusy(err)
}

// IsBusy reports whether err indicates an SQLite BUSY condition.
func IsBusy(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") ||
		strings.Contains(msg, "database is locked") ||
		strings.Contains(msg, "database table is locked")
}

// actionError tags a driver error with the repository action that produced it.
type actionError struct {
	action string
	err    error
}

func (e *actionError) Error() string { return e.action + ": " + e.err.Error() }

func (e *actionError) Unwrap() error { return e.err }
