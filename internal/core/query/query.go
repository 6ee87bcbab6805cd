// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package query runs read statements against the artifact store.

Two entry points share the same [Runner]:

  - Named statements from the embedded [Catalog], addressed by slug.
  - Ad hoc statements supplied by a trusted operator. These are disabled by
    default, limited to one statement, and unless configured otherwise run on
    a read-only connection (SQLite query_only, Postgres READ ONLY transaction).

Every result is a [Table] capped at a maximum row count.
*/
package query

import (
	"context"
	"strings"

	"github.com/taibuivan/relic/internal/platform/apperr"
	"github.com/taibuivan/relic/internal/platform/dberr"
)

// Table is a tabular result.
type Table struct {
	Columns   []string `json:"columns"`
	Rows      [][]any  `json:"rows"`
	Truncated bool     `json:"truncated"`
}

// Options control one statement run.
type Options struct {
	MaxRows  int
	ReadOnly bool
}

// Runner executes one statement and collects its rows.
type Runner interface {
	Run(ctx context.Context, statement string, opts Options) (*Table, error)
}

// statementError maps a failed statement to an API error. Store outages become
// 503; anything else is the statement's fault and is reported with the database message.
func statementError(err error, message string) error {
	if dberr.IsUnavailable(err) {
		return apperr.ServiceUnavailable("Artifact store is unavailable", err)
	}
	appErr := apperr.Unprocessable("Statement failed: " + strings.TrimSpace(message))
	appErr.Cause = err
	return appErr
}

// full reports whether the row cap is reached and marks the table truncated.
// It is called with a pending row, so a true result means rows were left behind.
func (t *Table) full(maxRows int) bool {
	if maxRows > 0 && len(t.Rows) >= maxRows {
		t.Truncated = true
		return true
	}
	return false
}
