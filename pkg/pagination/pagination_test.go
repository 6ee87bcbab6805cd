// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package pagination_test

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/relic/pkg/pagination"
)

func TestFromRequest(t *testing.T) {
	cases := []struct {
		query    string
		expected pagination.Params
	}{
		{"", pagination.Params{Page: 1, Limit: 20}},
		{"?page=3&limit=50", pagination.Params{Page: 3, Limit: 50}},
		{"?page=0&limit=0", pagination.Params{Page: 1, Limit: 20}},
		{"?page=-2&limit=500", pagination.Params{Page: 1, Limit: 20}},
		{"?page=two&limit=x", pagination.Params{Page: 1, Limit: 20}},
	}
	for _, tc := range cases {
		request := httptest.NewRequest("GET", "/artifacts"+tc.query, nil)
		assert.Equal(t, tc.expected, pagination.FromRequest(request), "query %q", tc.query)
	}
}

func TestOffsetAndMeta(t *testing.T) {
	assert.Equal(t, 0, pagination.Params{Page: 1, Limit: 20}.Offset())
	assert.Equal(t, 40, pagination.Params{Page: 3, Limit: 20}.Offset())

	assert.Equal(t, pagination.Meta{Page: 2, Limit: 20, Total: 41, TotalPages: 3}, pagination.NewMeta(2, 20, 41))
	assert.Equal(t, 0, pagination.NewMeta(1, 0, 10).TotalPages)
}
