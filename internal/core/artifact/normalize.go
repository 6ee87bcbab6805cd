// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package artifact

import (
	"github.com/taibuivan/relic/internal/core/harvest"
	"github.com/taibuivan/relic/pkg/pointer"
)

// # Record Normalization

/*
Normalize maps one raw provider record onto its metadata, media and colour rows.

Description: The identity is read from 'objectid', falling back to 'id'. A record
without a usable identity yields no rows at all, so the three tables never
disagree about which objects exist. Every other field is coerced leniently.

Parameters:
  - record: harvest.Record (raw decoded provider object)

Returns:
  - Rows: metadata, media and one colour row per colour entry
  - error: ErrMissingIdentity when neither identity field is an integer
*/
func Normalize(record harvest.Record) (Rows, error) {
	id := identity(record)
	if id == nil {
		return Rows{}, ErrMissingIdentity
	}

	return Rows{
		Metadata: metadata(*id, record),
		Media:    media(*id, record),
		Colors:   colors(*id, record),
	}, nil
}

// NormalizeBatch normalizes every record, skipping those without identity.
//
// It returns the rows in input order and how many records were dropped.
func NormalizeBatch(records []harvest.Record) ([]Rows, int) {
	rows := make([]Rows, 0, len(records))
	dropped := 0

	for _, record := range records {
		normalized, err := Normalize(record)
		if err != nil {
			dropped++
			continue
		}
		rows = append(rows, normalized)
	}
	return rows, dropped
}

func identity(record harvest.Record) *int64 {
	if id := CoerceInt(record["objectid"]); id != nil {
		return id
	}
	return CoerceInt(record["id"])
}

func metadata(id int64, record harvest.Record) Metadata {
	return Metadata{
		ID:              id,
		Title:           CoerceString(record["title"]),
		Culture:         CoerceString(record["culture"]),
		Period:          CoerceString(record["period"]),
		Century:         CoerceString(record["century"]),
		Medium:          CoerceString(record["medium"]),
		Dimensions:      CoerceString(record["dimensions"]),
		Description:     CoerceString(record["description"]),
		Department:      CoerceString(record["department"]),
		Classification:  CoerceString(record["classification"]),
		AccessionYear:   CoerceInt(record["accessionyear"]),
		AccessionMethod: CoerceString(record["accessionmethod"]),
	}
}

func media(id int64, record harvest.Record) Media {
	imageCount := int64(len(list(record["images"])))

	// A present, non-negative provider count wins; otherwise fall back to images.
	mediaCount := imageCount
	if provided := CoerceInt(record["mediacount"]); provided != nil && *provided >= 0 {
		mediaCount = *provided
	}

	return Media{
		ObjectID:   id,
		ImageCount: imageCount,
		MediaCount: mediaCount,
		ColorCount: int64(len(list(record["colors"]))),
		Rank:       pointer.Fallback(CoerceInt(record["rank"]), 0),
		DateBegin:  CoerceInt(record["datebegin"]),
		DateEnd:    CoerceInt(record["dateend"]),
	}
}

func colors(id int64, record harvest.Record) []Color {
	entries := list(record["colors"])
	rows := make([]Color, 0, len(entries))

	for _, entry := range entries {
		row := Color{ObjectID: id}

		// Non-object entries still count towards colorcount, so keep a null row.
		fields, ok := entry.(map[string]any)
		if !ok {
			rows = append(rows, row)
			continue
		}

		row.Color = first(fields, "hex", "color")
		row.Spectrum = fallback(CoerceString(fields["spectrum"]), row.Color)
		row.Hue = fallback(first(fields, "hue", "name"), ClassifyHue(row.Color))
		row.Percent = CoerceFloat(fields["percent"])
		row.CSS3 = fallback(CoerceString(fields["css3"]), row.Color)

		rows = append(rows, row)
	}
	return rows
}

// list returns value as a JSON array, or nil when it is anything else.
func list(value any) []any {
	items, _ := value.([]any)
	return items
}

// first returns the first key holding a non-empty text value.
func first(fields map[string]any, keys ...string) *string {
	for _, key := range keys {
		if value := CoerceString(fields[key]); value != nil && *value != "" {
			return value
		}
	}
	return nil
}

func fallback(value, def *string) *string {
	if value == nil || *value == "" {
		return def
	}
	return value
}
