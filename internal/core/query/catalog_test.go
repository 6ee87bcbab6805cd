// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package query_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/relic/internal/core/query"
)

func TestLoadCatalog(t *testing.T) {
	catalog, err := query.LoadCatalog()
	require.NoError(t, err)

	entries := catalog.List()
	require.Len(t, entries, 20)

	seen := make(map[string]bool)
	for _, entry := range entries {
		assert.False(t, seen[entry.Slug], "duplicate slug %s", entry.Slug)
		seen[entry.Slug] = true
		assert.NotEmpty(t, entry.SQL)
	}

	assert.Equal(t, "artifacts-from-11th-century-byzantine", entries[0].Slug)
	assert.True(t, seen["artifacts-with-1-image"])
	assert.True(t, seen["average-coverage-per-hue"])
	assert.True(t, seen["titles-hues-for-byzantine"])
}

func TestCatalog_Lookup(t *testing.T) {
	catalog, err := query.LoadCatalog()
	require.NoError(t, err)

	bySlug, ok := catalog.Lookup("distinct-hues")
	require.True(t, ok)
	assert.Equal(t, "SELECT DISTINCT hue FROM artifact_colors;", bySlug.SQL)

	byLabel, ok := catalog.Lookup("Top 5 colors")
	require.True(t, ok)
	assert.Equal(t, "top-5-colors", byLabel.Slug)

	_, ok = catalog.Lookup("drop-everything")
	assert.False(t, ok)
}

func TestCatalog_ListIsACopy(t *testing.T) {
	catalog, err := query.LoadCatalog()
	require.NoError(t, err)

	entries := catalog.List()
	entries[0].SQL = "DELETE FROM artifact_metadata"

	assert.NotEqual(t, entries[0].SQL, catalog.List()[0].SQL)
}

func TestParseCatalog_Rejects(t *testing.T) {
	cases := map[string]string{
		"invalid yaml":   "queries: [",
		"missing sql":    "queries:\n  - label: Empty\n",
		"missing label":  "queries:\n  - sql: SELECT 1\n",
		"duplicate slug": "queries:\n  - label: Same Name\n    sql: SELECT 1\n  - label: same-name\n    sql: SELECT 2\n",
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := query.ParseCatalog([]byte(data))
			assert.Error(t, err)
		})
	}
}
