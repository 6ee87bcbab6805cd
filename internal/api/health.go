// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/taibuivan/relic/internal/platform/constants"
	"github.com/taibuivan/relic/internal/platform/respond"
)

const checkTimeout = 3 * time.Second

// HealthCheck tests one backing dependency (artifact store, Redis staging).
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// HealthDependencies lists the checks behind /ready.
type HealthDependencies struct {
	Checks []HealthCheck
}

type checkResult struct {
	Name      string `json:"name"`
	OK        bool   `json:"ok"`
	LatencyMS int64  `json:"latency_ms"`
	Error     string `json:"error,omitempty"`
}

type healthHandler struct {
	checks []HealthCheck
	logger *slog.Logger
}

// NewHealthHandlers returns the /health (process alive) and /ready
// (dependencies reachable) handlers.
func NewHealthHandlers(deps HealthDependencies, logger *slog.Logger) (liveness, readiness http.HandlerFunc) {
	handler := &healthHandler{logger: logger}
	for _, check := range deps.Checks {
		if check.Check != nil {
			handler.checks = append(handler.checks, check)
		}
	}
	return handler.liveness, handler.readiness
}

func (handler *healthHandler) liveness(writer http.ResponseWriter, _ *http.Request) {
	respond.OK(writer, map[string]string{constants.FieldStatus: "ok"})
}

// readiness runs every check concurrently, each under its own deadline, and
// answers 503 "degraded" when any of them fails.
func (handler *healthHandler) readiness(writer http.ResponseWriter, request *http.Request) {
	results := make([]checkResult, len(handler.checks))

	var group errgroup.Group
	for i, dependency := range handler.checks {
		group.Go(func() error {
			results[i] = runCheck(request.Context(), dependency)
			return nil
		})
	}
	_ = group.Wait()

	status, code := "ready", http.StatusOK
	for _, result := range results {
		if result.OK {
			continue
		}
		status, code = "degraded", http.StatusServiceUnavailable
		handler.logger.WarnContext(request.Context(), "readiness_check_failed",
			slog.String("dependency", result.Name),
			slog.String("error", result.Error),
		)
	}

	respond.Status(writer, code, map[string]any{
		constants.FieldStatus: status,
		constants.FieldChecks: results,
	})
}

func runCheck(ctx context.Context, dependency HealthCheck) checkResult {
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	started := time.Now()
	err := dependency.Check(ctx)

	result := checkResult{Name: dependency.Name, OK: err == nil, LatencyMS: time.Since(started).Milliseconds()}
	if err != nil {
		result.Error = err.Error()
	}
	return result
}
