// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package artifact

import (
	"context"
	"fmt"
	"strings"

	"github.com/taibuivan/relic/internal/platform/database/schema"
)

// # Repository Contract

// Repository is the persistence boundary of the artifact tables.
type Repository interface {

	// SaveRows writes every row in one transaction: metadata and media are
	// upserted (last write wins), colours are appended. Nothing is visible if
	// any statement fails.
	SaveRows(ctx context.Context, rows []Rows) (Counts, error)

	// List returns a page of artifacts and the total matching count.
	List(ctx context.Context, filter Filter, limit, offset int) ([]*Summary, int, error)

	// FindByID returns one artifact with its media and colour rows.
	FindByID(ctx context.Context, id int64) (*Artifact, error)
}

// # Statement Building
//
// Both backends speak the same upsert dialect (INSERT ... ON CONFLICT DO UPDATE);
// only the placeholder style differs.

type placeholderFunc func(position int) string

func questionMarks(int) string { return "?" }

func dollarParams(position int) string { return fmt.Sprintf("$%d", position) }

func placeholders(count, offset int, next placeholderFunc) string {
	marks := make([]string, count)
	for i := range marks {
		marks[i] = next(offset + i + 1)
	}
	return strings.Join(marks, ", ")
}

// upsertStatement overwrites every non-key column when key already exists.
func upsertStatement(table string, columns []string, key string, next placeholderFunc) string {
	updates := make([]string, 0, len(columns)-1)
	for _, column := range columns {
		if column != key {
			updates = append(updates, fmt.Sprintf("%s = excluded.%s", column, column))
		}
	}

	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (%s) DO UPDATE SET %s",
		table, strings.Join(columns, ", "), placeholders(len(columns), 0, next), key, strings.Join(updates, ", "))
}

func insertStatement(table string, columns []string, next placeholderFunc) string {
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table, strings.Join(columns, ", "), placeholders(len(columns), 0, next))
}

func upsertMetadataSQL(next placeholderFunc) string {
	return upsertStatement(schema.ArtifactMetadata.Table, schema.ArtifactMetadata.Columns(), schema.ArtifactMetadata.ID, next)
}

func upsertMediaSQL(next placeholderFunc) string {
	return upsertStatement(schema.ArtifactMedia.Table, schema.ArtifactMedia.Columns(), schema.ArtifactMedia.ObjectID, next)
}

func insertColorSQL(next placeholderFunc) string {
	return insertStatement(schema.ArtifactColors.Table, schema.ArtifactColors.Columns(), next)
}

// listSQL selects metadata joined with its media counts, filtered by classification.
func listSQL(filter Filter, next placeholderFunc) (query, count string, args []any) {
	meta, media := schema.ArtifactMetadata, schema.ArtifactMedia

	columns := make([]string, 0, len(meta.Columns())+3)
	for _, column := range meta.Columns() {
		columns = append(columns, "m."+column)
	}
	columns = append(columns, "a."+media.ImageCount, "a."+media.ColorCount, "a."+media.Rank)

	where := ""
	if len(filter.Classifications) > 0 {
		where = fmt.Sprintf(" WHERE m.%s IN (%s)", meta.Classification, placeholders(len(filter.Classifications), 0, next))
		for _, classification := range filter.Classifications {
			args = append(args, classification)
		}
	}

	query = fmt.Sprintf("SELECT %s FROM %s m LEFT JOIN %s a ON a.%s = m.%s%s ORDER BY m.%s LIMIT %s OFFSET %s",
		strings.Join(columns, ", "), meta.Table, media.Table, media.ObjectID, meta.ID, where, meta.ID,
		next(len(args)+1), next(len(args)+2))
	count = fmt.Sprintf("SELECT COUNT(*) FROM %s m%s", meta.Table, where)

	return query, count, args
}

func findMetadataSQL(next placeholderFunc) string {
	meta := schema.ArtifactMetadata
	return fmt.Sprintf("SELECT %s FROM %s WHERE %s = %s",
		strings.Join(meta.Columns(), ", "), meta.Table, meta.ID, next(1))
}

func findMediaSQL(next placeholderFunc) string {
	media := schema.ArtifactMedia
	return fmt.Sprintf("SELECT %s FROM %s WHERE %s = %s",
		strings.Join(media.Columns(), ", "), media.Table, media.ObjectID, next(1))
}

func findColorsSQL(next placeholderFunc) string {
	colors := schema.ArtifactColors
	return fmt.Sprintf("SELECT %s FROM %s WHERE %s = %s",
		strings.Join(colors.Columns(), ", "), colors.Table, colors.ObjectID, next(1))
}

// # Row Mapping
//
// The argument and scan orders below follow the descriptor Columns() order.

func metadataArgs(m *Metadata) []any {
	return []any{
		m.ID, m.Title, m.Culture, m.Period, m.Century, m.Medium,
		m.Dimensions, m.Description, m.Department, m.Classification,
		m.AccessionYear, m.AccessionMethod,
	}
}

func metadataTargets(m *Metadata) []any {
	return []any{
		&m.ID, &m.Title, &m.Culture, &m.Period, &m.Century, &m.Medium,
		&m.Dimensions, &m.Description, &m.Department, &m.Classification,
		&m.AccessionYear, &m.AccessionMethod,
	}
}

func mediaArgs(m *Media) []any {
	return []any{m.ObjectID, m.ImageCount, m.MediaCount, m.ColorCount, m.Rank, m.DateBegin, m.DateEnd}
}

func mediaTargets(m *Media) []any {
	return []any{&m.ObjectID, &m.ImageCount, &m.MediaCount, &m.ColorCount, &m.Rank, &m.DateBegin, &m.DateEnd}
}

func colorArgs(c *Color) []any {
	return []any{c.ObjectID, c.Color, c.Spectrum, c.Hue, c.Percent, c.CSS3}
}

func colorTargets(c *Color) []any {
	return []any{&c.ObjectID, &c.Color, &c.Spectrum, &c.Hue, &c.Percent, &c.CSS3}
}

func summaryTargets(s *Summary) []any {
	return append(metadataTargets(&s.Metadata), &s.ImageCount, &s.ColorCount, &s.Rank)
}
