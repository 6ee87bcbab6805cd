// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package pagination reads page/limit query parameters for artifact listings
// and builds the meta block of paginated responses.
package pagination

import (
	"net/http"

	"github.com/taibuivan/relic/pkg/convert"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
	DefaultPage  = 1
)

// Params is a 1-indexed page request.
type Params struct {
	Page  int
	Limit int
}

// Offset is the number of rows skipped before the page.
func (p Params) Offset() int {
	if p.Page <= 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

// Meta accompanies every paginated response.
type Meta struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// NewMeta derives TotalPages from total and limit.
func NewMeta(page, limit, total int) Meta {
	meta := Meta{Page: page, Limit: limit, Total: total}
	if limit > 0 {
		meta.TotalPages = (total + limit - 1) / limit
	}
	return meta
}

// FromRequest parses ?page= and ?limit=. Out-of-range or malformed values fall
// back to the defaults rather than failing the listing.
func FromRequest(r *http.Request) Params {
	values := r.URL.Query()

	params := Params{
		Page:  convert.ToIntD(values.Get("page"), DefaultPage),
		Limit: convert.ToIntD(values.Get("limit"), DefaultLimit),
	}
	if params.Page < 1 {
		params.Page = DefaultPage
	}
	if params.Limit < 1 || params.Limit > MaxLimit {
		params.Limit = DefaultLimit
	}
	return params
}
