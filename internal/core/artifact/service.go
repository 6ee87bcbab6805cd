// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package artifact

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/taibuivan/relic/internal/core/harvest"
	"github.com/taibuivan/relic/internal/platform/apperr"
	"github.com/taibuivan/relic/internal/platform/dberr"
	"github.com/taibuivan/relic/pkg/pagination"
)

// # Instrumentation

// Recorder receives persistence outcomes (metrics).
type Recorder interface {
	RowsPersisted(counts Counts, elapsed time.Duration)
	PersistFailed(elapsed time.Duration)
}

type nopRecorder struct{}

func (nopRecorder) RowsPersisted(Counts, time.Duration) {}
func (nopRecorder) PersistFailed(time.Duration)         {}

// # Service Layer

// Service normalizes harvested records into the artifact tables and reads them back.
type Service struct {
	repo     Repository
	logger   *slog.Logger
	recorder Recorder
}

// NewService constructs a new [Service] over a repository backend.
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		logger:   logger,
		recorder: nopRecorder{},
	}
}

// WithRecorder attaches a persistence recorder and returns the service.
func (service *Service) WithRecorder(recorder Recorder) *Service {
	if recorder != nil {
		service.recorder = recorder
	}
	return service
}

// # Persistence

/*
PersistBatch normalizes raw records and commits them atomically.

Description: Records without identity are dropped before the write and
reported in Counts.Dropped. Every remaining record is written in a single
transaction; on failure nothing from the batch becomes visible.

Parameters:
  - ctx: context.Context
  - records: []harvest.Record (raw provider objects)

Returns:
  - Counts: rows written per table plus dropped records
  - error: apperr.ServiceUnavailable or apperr.Internal when the write fails
*/
func (service *Service) PersistBatch(ctx context.Context, records []harvest.Record) (Counts, error) {
	rows, dropped := NormalizeBatch(records)
	if dropped > 0 {
		service.logger.WarnContext(ctx, "records_dropped_without_identity", slog.Int("dropped", dropped))
	}

	if len(rows) == 0 {
		return Counts{Dropped: dropped}, nil
	}

	startTime := time.Now()
	counts, err := service.repo.SaveRows(ctx, rows)
	elapsed := time.Since(startTime)

	if err != nil {
		service.recorder.PersistFailed(elapsed)
		service.logger.ErrorContext(ctx, "batch_persist_failed",
			slog.Int("rows", len(rows)),
			slog.Any("error", err),
		)
		return Counts{}, err
	}

	counts.Dropped = dropped
	service.recorder.RowsPersisted(counts, elapsed)

	service.logger.InfoContext(ctx, "batch_persisted",
		slog.Int("metadata", counts.Metadata),
		slog.Int("media", counts.Media),
		slog.Int("colors", counts.Colors),
		slog.Int("dropped", counts.Dropped),
		slog.Int64("latency_ms", elapsed.Milliseconds()),
	)

	return counts, nil
}

// # Lookups

// List retrieves a page of stored artifacts.
func (service *Service) List(ctx context.Context, filter Filter, params pagination.Params) ([]*Summary, int, error) {
	return service.repo.List(ctx, filter, params.Limit, params.Offset())
}

// Get fetches one artifact with its media and colours.
func (service *Service) Get(ctx context.Context, id int64) (*Artifact, error) {
	found, err := service.repo.FindByID(ctx, id)
	if errors.Is(err, dberr.ErrNotFound) {
		return nil, apperr.NotFound("Artifact")
	}
	return found, err
}
