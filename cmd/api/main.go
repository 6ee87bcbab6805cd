// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Command api serves the Relic HTTP API: harvest staging, artifact browsing,
the query catalog, health checks and Prometheus metrics.

Configuration comes from the environment (see package config). The process
exits 1 when startup fails and drains in-flight requests on SIGINT/SIGTERM.
*/
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/taibuivan/relic/internal/api"
	"github.com/taibuivan/relic/internal/app"
	"github.com/taibuivan/relic/internal/core/artifact"
	"github.com/taibuivan/relic/internal/core/ingest"
	"github.com/taibuivan/relic/internal/core/query"
	"github.com/taibuivan/relic/internal/platform/config"
	"github.com/taibuivan/relic/internal/platform/constants"
)

const startupTimeout = 30 * time.Second

func main() {
	log := newLogger(slog.LevelInfo)

	if err := run(log); err != nil {
		log.Error("api_exited", slog.Any("error", err))
		os.Exit(1)
	}
	log.Info("server_stopped")
}

func run(log *slog.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.Debug {
		log = newLogger(slog.LevelDebug)
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.String("database_driver", cfg.DatabaseDriver),
		slog.String("archive_driver", cfg.ArchiveDriver),
	)

	// cancelled on SIGINT/SIGTERM; also stops the rate limiter sweeper
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	startupCtx, cancelStartup := context.WithTimeout(ctx, startupTimeout)
	application, err := app.New(startupCtx, cfg, log)
	cancelStartup()
	if err != nil {
		return fmt.Errorf("wire application: %w", err)
	}
	defer func() {
		if err := application.Close(); err != nil {
			log.Error("close_failed", slog.Any("error", err))
		}
	}()

	server := api.NewServer(ctx, cfg, log, handlers(application, log))

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown_signal_received")
	case err := <-serverErr:
		return fmt.Errorf("listen: %w", err)
	}

	log.Info("server_shutting_down", slog.Duration("timeout", constants.ShutdownTimeout))
	return server.Shutdown(constants.ShutdownTimeout)
}

// handlers binds the HTTP surface to the wired services.
func handlers(application *app.App, log *slog.Logger) api.Handlers {
	checks := []api.HealthCheck{{Name: application.StoreName(), Check: application.CheckStore}}
	if checkStaging := application.CheckStaging(); checkStaging != nil {
		checks = append(checks, api.HealthCheck{Name: "redis", Check: checkStaging})
	}
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{Checks: checks}, log)

	return api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Metrics:   application.Metrics.Handler(),
		Harvest:   ingest.NewHandler(application.Ingest),
		Artifact:  artifact.NewHandler(application.Artifacts),
		Query:     query.NewHandler(application.Queries),
	}
}

// newLogger installs a JSON logger on stdout as the slog default.
func newLogger(level slog.Level) *slog.Logger {
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})).
		With(slog.String("app", constants.AppName), slog.String("version", constants.AppVersion))
	slog.SetDefault(log)
	return log
}
