// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package query

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/taibuivan/relic/internal/platform/apperr"
	"github.com/taibuivan/relic/internal/platform/constants"
	"github.com/taibuivan/relic/internal/platform/validate"
)

// AdhocPolicy controls operator-supplied statements.
type AdhocPolicy struct {
	Enabled  bool
	ReadOnly bool
}

// Result is the outcome of a named statement.
type Result struct {
	Named
	Table *Table `json:"table"`
}

// Service runs catalog and ad hoc statements.
type Service struct {
	catalog *Catalog
	runner  Runner
	adhoc   AdhocPolicy
	maxRows int
	logger  *slog.Logger
}

// NewService constructs a new [Service].
func NewService(catalog *Catalog, runner Runner, adhoc AdhocPolicy, logger *slog.Logger) *Service {
	return &Service{
		catalog: catalog,
		runner:  runner,
		adhoc:   adhoc,
		maxRows: constants.QueryMaxRows,
		logger:  logger,
	}
}

// WithMaxRows overrides the row cap and returns the service.
func (service *Service) WithMaxRows(maxRows int) *Service {
	if maxRows > 0 {
		service.maxRows = maxRows
	}
	return service
}

// Catalog returns the named statements.
func (service *Service) Catalog() []Named {
	return service.catalog.List()
}

// RunNamed executes a catalog statement. Catalog statements always run read-only.
func (service *Service) RunNamed(ctx context.Context, key string) (*Result, error) {
	named, ok := service.catalog.Lookup(key)
	if !ok {
		return nil, apperr.NotFound("Query")
	}

	table, err := service.runner.Run(ctx, named.SQL, Options{MaxRows: service.maxRows, ReadOnly: true})
	if err != nil {
		return nil, err
	}
	return &Result{Named: named, Table: table}, nil
}

/*
Execute runs an operator-supplied statement.

Description: The statement is trusted input and is not sanitised, but text
holding more than one statement is refused. It runs only when ad hoc SQL is
enabled; under a read-only policy the runner enforces read-only access at the
connection level. Statement failures come back as 422 with the database message.

Returns:
  - *Table: Result rows, capped at the configured maximum
  - error: Forbidden (disabled), ValidationError (empty, oversized or several statements), Unprocessable (statement failed)
*/
func (service *Service) Execute(ctx context.Context, statement string) (*Table, error) {
	if !service.adhoc.Enabled {
		return nil, apperr.Forbidden("Ad hoc SQL is disabled")
	}

	statement = strings.TrimSpace(statement)
	v := &validate.Validator{}
	v.Required("statement", statement).
		MaxLen("statement", statement, constants.QueryStatementMaxLen).
		Custom("statement", statementCount(statement) > 1, "Only one statement is allowed")
	if err := v.Err(); err != nil {
		return nil, err
	}

	startTime := time.Now()
	table, err := service.runner.Run(ctx, statement, Options{MaxRows: service.maxRows, ReadOnly: service.adhoc.ReadOnly})

	logger := service.logger.With(
		slog.Bool("read_only", service.adhoc.ReadOnly),
		slog.Int64("latency_ms", time.Since(startTime).Milliseconds()),
	)
	if err != nil {
		logger.WarnContext(ctx, "adhoc_statement_failed", slog.Any("error", err))
		return nil, err
	}

	logger.InfoContext(ctx, "adhoc_statement_executed",
		slog.Int("rows", len(table.Rows)),
		slog.Bool("truncated", table.Truncated),
	)
	return table, nil
}
