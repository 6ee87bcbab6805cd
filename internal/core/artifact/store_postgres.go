// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package artifact

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/relic/internal/platform/dberr"
)

// PostgresRepository stores artifacts in PostgreSQL.
type PostgresRepository struct {
	pool *pgxpool.Pool

	// mu serializes writers from this process; one batch is committed at a time.
	mu sync.Mutex
}

// NewPostgresRepository wraps a pool whose database already carries [schema.PostgresDDL].
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

/*
SaveRows commits every row of a batch in one transaction.

Description: All statements are queued on a single [pgx.Batch] in dependency
order (metadata, media, colours) and sent in one round trip inside the
transaction. The first failing statement aborts the transaction and the
deferred rollback discards everything.
*/
func (repository *PostgresRepository) SaveRows(ctx context.Context, rows []Rows) (Counts, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	transaction, err := repository.pool.Begin(ctx)
	if err != nil {
		return Counts{}, dberr.Wrap(fmt.Errorf("postgres: failed to begin transaction: %w", err), "save_artifact_rows")
	}
	defer transaction.Rollback(ctx)

	metaSQL, mediaSQL, colorSQL := upsertMetadataSQL(dollarParams), upsertMediaSQL(dollarParams), insertColorSQL(dollarParams)

	var counts Counts
	batch := &pgx.Batch{}

	for i := range rows {
		batch.Queue(metaSQL, metadataArgs(&rows[i].Metadata)...)
		counts.Metadata++
	}
	for i := range rows {
		batch.Queue(mediaSQL, mediaArgs(&rows[i].Media)...)
		counts.Media++
	}
	for i := range rows {
		for j := range rows[i].Colors {
			batch.Queue(colorSQL, colorArgs(&rows[i].Colors[j])...)
			counts.Colors++
		}
	}

	response := transaction.SendBatch(ctx, batch)
	if err := response.Close(); err != nil {
		return Counts{}, dberr.Wrap(fmt.Errorf("postgres: failed to write artifact batch: %w", err), "save_artifact_rows")
	}

	if err := transaction.Commit(ctx); err != nil {
		return Counts{}, dberr.Wrap(fmt.Errorf("postgres: failed to commit: %w", err), "save_artifact_rows")
	}

	return counts, nil
}

// List returns a page of artifact summaries ordered by identity.
func (repository *PostgresRepository) List(ctx context.Context, filter Filter, limit, offset int) ([]*Summary, int, error) {
	query, countQuery, args := listSQL(filter, dollarParams)

	var total int
	if err := repository.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_artifacts")
	}

	rows, err := repository.pool.Query(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_artifacts")
	}
	defer rows.Close()

	summaries := make([]*Summary, 0, limit)
	for rows.Next() {
		summary := &Summary{}
		if err := rows.Scan(summaryTargets(summary)...); err != nil {
			return nil, 0, dberr.Wrap(err, "scan_artifact_summary")
		}
		summaries = append(summaries, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "list_artifacts")
	}

	return summaries, total, nil
}

// FindByID loads one artifact with its media row (if any) and colour rows.
func (repository *PostgresRepository) FindByID(ctx context.Context, id int64) (*Artifact, error) {
	found := &Artifact{Colors: make([]Color, 0)}

	if err := repository.pool.QueryRow(ctx, findMetadataSQL(dollarParams), id).Scan(metadataTargets(&found.Metadata)...); err != nil {
		return nil, dberr.Wrap(err, "get_artifact")
	}

	media := &Media{}
	err := repository.pool.QueryRow(ctx, findMediaSQL(dollarParams), id).Scan(mediaTargets(media)...)
	switch {
	case err == nil:
		found.Media = media
	case !errors.Is(err, pgx.ErrNoRows):
		return nil, dberr.Wrap(err, "get_artifact_media")
	}

	rows, err := repository.pool.Query(ctx, findColorsSQL(dollarParams), id)
	if err != nil {
		return nil, dberr.Wrap(err, "get_artifact_colors")
	}
	defer rows.Close()

	for rows.Next() {
		var color Color
		if err := rows.Scan(colorTargets(&color)...); err != nil {
			return nil, dberr.Wrap(err, "scan_artifact_color")
		}
		found.Colors = append(found.Colors, color)
	}
	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "get_artifact_colors")
	}

	return found, nil
}
