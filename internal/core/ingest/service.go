// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package ingest

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"time"

	"github.com/taibuivan/relic/internal/core/artifact"
	"github.com/taibuivan/relic/internal/core/harvest"
	"github.com/taibuivan/relic/internal/platform/apperr"
	"github.com/taibuivan/relic/internal/platform/archive"
	"github.com/taibuivan/relic/internal/platform/constants"
	"github.com/taibuivan/relic/pkg/uuid"
)

// Fetcher pulls one bounded batch from the provider.
type Fetcher interface {
	FetchClassification(ctx context.Context, classification string, minRecords, pageSize int) (*harvest.Batch, error)
}

// Persister commits raw records to the artifact store.
type Persister interface {
	PersistBatch(ctx context.Context, records []harvest.Record) (artifact.Counts, error)
}

// # Service Layer

// Service runs harvests and moves staged batches into the artifact store.
type Service struct {
	fetcher   Fetcher
	persister Persister
	staging   Store
	archive   archive.Archive
	pageSize  int
	logger    *slog.Logger
}

// NewService constructs a new [Service]. A nil archive disables archiving.
func NewService(fetcher Fetcher, persister Persister, staging Store, store archive.Archive, logger *slog.Logger) *Service {
	if store == nil {
		store = archive.Nop{}
	}
	return &Service{
		fetcher:   fetcher,
		persister: persister,
		staging:   staging,
		archive:   store,
		pageSize:  constants.ProviderPageSize,
		logger:    logger,
	}
}

// WithPageSize sets the page size used when a request omits one.
func (service *Service) WithPageSize(pageSize int) *Service {
	if pageSize > 0 {
		service.pageSize = pageSize
	}
	return service
}

/*
Harvest fetches a batch, archives and stages it, and optionally persists it.

Description: A provider failure after some records were collected is not an
error: the partial batch is staged and the summary carries the provider message.
Only a failure that yields no records at all is returned as an error.

Parameters:
  - ctx: context.Context
  - request: Request (classification, target records, page size, persist flag)

When Persist is set and the store rejects the batch, the batch stays staged:
the summary is returned alongside the error, and the error details carry its
batch_id.

Returns:
  - *Summary: The staged batch without its records
  - error: Validation, BadGateway (nothing fetched) or ServiceUnavailable (staging/store down)
*/
func (service *Service) Harvest(ctx context.Context, request Request) (*Summary, error) {
	request = request.withDefaults(service.pageSize)
	if err := request.Validate(); err != nil {
		return nil, err
	}

	batch, fetchErr := service.fetcher.FetchClassification(ctx, request.Classification, request.Records, request.PageSize)
	if fetchErr != nil && batch.Len() == 0 {
		if errors.Is(fetchErr, harvest.ErrCancelled) {
			return nil, apperr.ServiceUnavailable("Harvest was cancelled before any record arrived", fetchErr)
		}
		return nil, apperr.BadGateway("Collection provider request failed: "+fetchErr.Error(), fetchErr)
	}

	staged := &StagedBatch{
		ID:             uuid.New(),
		Classification: request.Classification,
		Requested:      request.Records,
		Records:        batch.Records,
		Pages:          batch.Pages,
		TotalRecords:   batch.TotalRecords,
		Stop:           batch.Stop,
		FetchedAt:      batch.FetchedAt,
	}
	if fetchErr != nil {
		staged.ProviderError = fetchErr.Error()
	}

	// A cancelled harvest still stages what arrived.
	if errors.Is(fetchErr, harvest.ErrCancelled) {
		ctx = context.WithoutCancel(ctx)
	}

	service.archiveBatch(ctx, staged)

	if err := service.staging.Save(ctx, staged); err != nil {
		return nil, apperr.ServiceUnavailable("Batch staging is unavailable", err)
	}

	service.logger.InfoContext(ctx, "harvest_staged",
		slog.String("batch_id", staged.ID),
		slog.String("classification", staged.Classification),
		slog.Int("requested", staged.Requested),
		slog.Int("fetched", len(staged.Records)),
		slog.Int("pages", staged.Pages),
		slog.String("stop", string(staged.Stop)),
		slog.Bool("partial", staged.ProviderError != ""),
	)

	if request.Persist {
		if err := service.persist(ctx, staged); err != nil {
			service.logger.WarnContext(ctx, "harvest_persist_failed",
				slog.String("batch_id", staged.ID),
				slog.Any("error", err),
			)
			return staged.Summary(), withBatchID(err, staged.ID)
		}
	}

	return staged.Summary(), nil
}

// withBatchID names the staged batch in the error details so the caller can
// retry with Persist. The original error is copied, never mutated.
func withBatchID(err error, id string) error {
	appErr := apperr.As(err)
	if appErr == nil {
		appErr = apperr.Internal(err)
	}
	tagged := *appErr
	tagged.Details = append(slices.Clone(appErr.Details), apperr.FieldError{Field: "batch_id", Message: id})
	return &tagged
}

// Get returns the summary of a staged batch.
func (service *Service) Get(ctx context.Context, id string) (*Summary, error) {
	staged, err := service.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return staged.Summary(), nil
}

/*
Preview normalizes a staged batch without writing anything.

Description: limit bounds the number of records normalized; zero or negative
means the whole batch. Records without identity are counted in Dropped.
*/
func (service *Service) Preview(ctx context.Context, id string, limit int) (*Preview, error) {
	staged, err := service.load(ctx, id)
	if err != nil {
		return nil, err
	}

	records := staged.Records
	if limit > 0 && limit < len(records) {
		records = records[:limit]
	}

	rows, dropped := artifact.NormalizeBatch(records)

	preview := &Preview{
		BatchID:  staged.ID,
		Metadata: make([]artifact.Metadata, 0, len(rows)),
		Media:    make([]artifact.Media, 0, len(rows)),
		Colors:   make([]artifact.Color, 0),
		Dropped:  dropped,
	}
	for _, row := range rows {
		preview.Metadata = append(preview.Metadata, row.Metadata)
		preview.Media = append(preview.Media, row.Media)
		preview.Colors = append(preview.Colors, row.Colors...)
	}
	return preview, nil
}

// Persist commits a staged batch. Persisting the same batch twice rewrites
// metadata and media and appends its colours again.
func (service *Service) Persist(ctx context.Context, id string) (*Summary, error) {
	staged, err := service.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := service.persist(ctx, staged); err != nil {
		return nil, err
	}
	return staged.Summary(), nil
}

// Replay stages an archived batch again under its original ID.
func (service *Service) Replay(ctx context.Context, key string) (*Summary, error) {
	body, err := service.archive.Get(ctx, key)
	if errors.Is(err, archive.ErrNotFound) {
		return nil, apperr.NotFound("Archived batch")
	}
	if err != nil {
		return nil, apperr.ServiceUnavailable("Batch archive is unavailable", err)
	}

	staged, err := decodeBatch(body)
	if err != nil {
		return nil, apperr.Unprocessable("Archived batch is not readable")
	}
	staged.ArchiveKey = key
	staged.Counts = nil
	staged.PersistedAt = nil

	if err := service.staging.Save(ctx, staged); err != nil {
		return nil, apperr.ServiceUnavailable("Batch staging is unavailable", err)
	}

	service.logger.InfoContext(ctx, "harvest_replayed",
		slog.String("batch_id", staged.ID),
		slog.String("archive_key", key),
		slog.Int("records", len(staged.Records)),
	)
	return staged.Summary(), nil
}

// # Helpers

func (service *Service) load(ctx context.Context, id string) (*StagedBatch, error) {
	if !uuid.Valid(id) {
		return nil, apperr.NotFound("Batch")
	}

	staged, err := service.staging.Load(ctx, id)
	if errors.Is(err, ErrBatchNotFound) {
		return nil, apperr.NotFound("Batch")
	}
	if err != nil {
		return nil, apperr.ServiceUnavailable("Batch staging is unavailable", err)
	}
	return staged, nil
}

// persist writes the batch and records the outcome on the staged copy.
func (service *Service) persist(ctx context.Context, staged *StagedBatch) error {
	counts, err := service.persister.PersistBatch(ctx, staged.Records)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	staged.Counts = &counts
	staged.PersistedAt = &now

	if err := service.staging.Save(ctx, staged); err != nil {
		// The rows are committed; a stale staging entry only loses the counts.
		service.logger.WarnContext(ctx, "staged_batch_update_failed",
			slog.String("batch_id", staged.ID),
			slog.Any("error", err),
		)
	}
	return nil
}

// archiveBatch stores the raw batch. Archive failures are logged, never fatal.
func (service *Service) archiveBatch(ctx context.Context, staged *StagedBatch) {
	if service.archive.Driver() == archive.DriverNone {
		return
	}

	key := archive.Key(staged.Classification, staged.ID)
	body, err := encodeBatch(staged)
	if err == nil {
		err = service.archive.Put(ctx, key, body)
	}
	if err != nil {
		service.logger.WarnContext(ctx, "harvest_archive_failed",
			slog.String("batch_id", staged.ID),
			slog.String("archive_key", key),
			slog.Any("error", err),
		)
		return
	}
	staged.ArchiveKey = key
}
