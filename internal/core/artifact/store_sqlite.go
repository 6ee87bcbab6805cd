// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package artifact

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/taibuivan/relic/internal/platform/dberr"
	"github.com/taibuivan/relic/internal/platform/sqlite"
)

// SQLiteRepository stores artifacts in the local single-file database.
type SQLiteRepository struct {
	db *sql.DB

	// mu serializes writers; one batch is committed at a time.
	mu sync.Mutex
}

// NewSQLiteRepository wraps an opened database that already carries [schema.SQLiteDDL].
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// SaveRows writes metadata, then media, then colours inside one transaction.
func (repository *SQLiteRepository) SaveRows(ctx context.Context, rows []Rows) (Counts, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	var counts Counts
	err := sqlite.RunTx(ctx, repository.db, func(tx *sql.Tx) error {

		// A retried transaction starts counting from scratch
		counts = Counts{}

		metaStmt, err := tx.PrepareContext(ctx, upsertMetadataSQL(questionMarks))
		if err != nil {
			return fmt.Errorf("prepare metadata upsert: %w", err)
		}
		defer metaStmt.Close()

		mediaStmt, err := tx.PrepareContext(ctx, upsertMediaSQL(questionMarks))
		if err != nil {
			return fmt.Errorf("prepare media upsert: %w", err)
		}
		defer mediaStmt.Close()

		colorStmt, err := tx.PrepareContext(ctx, insertColorSQL(questionMarks))
		if err != nil {
			return fmt.Errorf("prepare colour insert: %w", err)
		}
		defer colorStmt.Close()

		// Parents first so the media and colour foreign keys resolve
		for i := range rows {
			if _, err := metaStmt.ExecContext(ctx, metadataArgs(&rows[i].Metadata)...); err != nil {
				return fmt.Errorf("upsert metadata %d: %w", rows[i].Metadata.ID, err)
			}
			counts.Metadata++
		}

		for i := range rows {
			if _, err := mediaStmt.ExecContext(ctx, mediaArgs(&rows[i].Media)...); err != nil {
				return fmt.Errorf("upsert media %d: %w", rows[i].Media.ObjectID, err)
			}
			counts.Media++
		}

		for i := range rows {
			for j := range rows[i].Colors {
				if _, err := colorStmt.ExecContext(ctx, colorArgs(&rows[i].Colors[j])...); err != nil {
					return fmt.Errorf("insert colour for %d: %w", rows[i].Metadata.ID, err)
				}
				counts.Colors++
			}
		}

		return nil
	})
	if err != nil {
		return Counts{}, dberr.Wrap(err, "save_artifact_rows")
	}

	return counts, nil
}

// List returns a page of artifact summaries ordered by identity.
func (repository *SQLiteRepository) List(ctx context.Context, filter Filter, limit, offset int) ([]*Summary, int, error) {
	query, countQuery, args := listSQL(filter, questionMarks)

	var total int
	if err := repository.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_artifacts")
	}

	rows, err := repository.db.QueryContext(ctx, query, append(args, limit, offset)...)
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
func (repository *SQLiteRepository) FindByID(ctx context.Context, id int64) (*Artifact, error) {
	found := &Artifact{Colors: make([]Color, 0)}

	if err := repository.db.QueryRowContext(ctx, findMetadataSQL(questionMarks), id).Scan(metadataTargets(&found.Metadata)...); err != nil {
		return nil, dberr.Wrap(err, "get_artifact")
	}

	media := &Media{}
	err := repository.db.QueryRowContext(ctx, findMediaSQL(questionMarks), id).Scan(mediaTargets(media)...)
	switch {
	case err == nil:
		found.Media = media
	case !errors.Is(err, sql.ErrNoRows):
		return nil, dberr.Wrap(err, "get_artifact_media")
	}

	rows, err := repository.db.QueryContext(ctx, findColorsSQL(questionMarks), id)
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
