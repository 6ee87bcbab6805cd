// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package artifact owns the relational model of harvested museum objects.

Every provider record becomes three kinds of rows:

  - [Metadata]: descriptive fields, one per object, keyed by the provider identity.
  - [Media]: image/colour counts and dating, one per object.
  - [Color]: zero or more colour-analysis rows per object.

Metadata and media are replaced on re-ingest. Colour rows are appended, so
re-ingesting an object duplicates its colours.
*/
package artifact

import "errors"

// # Domain Entities

// Metadata is the descriptive row of one artifact.
type Metadata struct {
	ID              int64   `json:"id"`
	Title           *string `json:"title"`
	Culture         *string `json:"culture"`
	Period          *string `json:"period"`
	Century         *string `json:"century"`
	Medium          *string `json:"medium"`
	Dimensions      *string `json:"dimensions"`
	Description     *string `json:"description"`
	Department      *string `json:"department"`
	Classification  *string `json:"classification"`
	AccessionYear   *int64  `json:"accessionyear"`
	AccessionMethod *string `json:"accessionmethod"`
}

// Media holds the counts and dating of one artifact.
type Media struct {
	ObjectID   int64  `json:"objectid"`
	ImageCount int64  `json:"imagecount"`
	MediaCount int64  `json:"mediacount"`
	ColorCount int64  `json:"colorcount"`
	Rank       int64  `json:"rank"`
	DateBegin  *int64 `json:"datebegin"`
	DateEnd    *int64 `json:"dateend"`
}

// Color is one colour-analysis entry of an artifact.
type Color struct {
	ObjectID int64    `json:"objectid"`
	Color    *string  `json:"color"`
	Spectrum *string  `json:"spectrum"`
	Hue      *string  `json:"hue"`
	Percent  *float64 `json:"percent"`
	CSS3     *string  `json:"css3"`
}

// Rows is the normalized form of one provider record.
type Rows struct {
	Metadata Metadata `json:"metadata"`
	Media    Media    `json:"media"`
	Colors   []Color  `json:"colors"`
}

// Artifact is a fully hydrated stored object.
type Artifact struct {
	Metadata
	Media  *Media  `json:"media"`
	Colors []Color `json:"colors"`
}

// Summary is the list projection of an artifact.
type Summary struct {
	Metadata
	ImageCount *int64 `json:"imagecount"`
	ColorCount *int64 `json:"colorcount"`
	Rank       *int64 `json:"rank"`
}

// # Persistence Results

// Counts reports the rows written by one persist call.
type Counts struct {
	Metadata int `json:"metadata"`
	Media    int `json:"media"`
	Colors   int `json:"colors"`
	Dropped  int `json:"dropped"`
}

// Add sums two counts.
func (c Counts) Add(other Counts) Counts {
	return Counts{
		Metadata: c.Metadata + other.Metadata,
		Media:    c.Media + other.Media,
		Colors:   c.Colors + other.Colors,
		Dropped:  c.Dropped + other.Dropped,
	}
}

// # Filters

// Filter narrows artifact listings.
type Filter struct {
	Classifications []string
}

// # Errors

// ErrMissingIdentity is returned for records with neither objectid nor id.
var ErrMissingIdentity = errors.New("artifact: record has no usable identity")
