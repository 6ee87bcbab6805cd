// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package artifact_test

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/relic/internal/core/artifact"
	"github.com/taibuivan/relic/internal/core/harvest"
	"github.com/taibuivan/relic/internal/platform/database/schema"
	"github.com/taibuivan/relic/internal/platform/postgres"
)

// TestPostgresRepository_RoundTrip needs a disposable database in RELIC_TEST_DATABASE_URL.
func TestPostgresRepository_RoundTrip(t *testing.T) {
	dsn := os.Getenv("RELIC_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("RELIC_TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, dsn, discard)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, postgres.EnsureSchema(ctx, pool, schema.PostgresDDL))
	_, err = pool.Exec(ctx, "TRUNCATE artifact_colors, artifact_media, artifact_metadata")
	require.NoError(t, err)

	service := artifact.NewService(artifact.NewPostgresRepository(pool), discard)

	counts, err := service.PersistBatch(ctx, sampleRecords(t))
	require.NoError(t, err)
	assert.Equal(t, artifact.Counts{Metadata: 2, Media: 2, Colors: 3, Dropped: 1}, counts)

	_, err = service.PersistBatch(ctx, []harvest.Record{decode(t, `{"objectid": 1, "title": "Bowl (restored)", "colors": [{"color": "#ffffff"}]}`)})
	require.NoError(t, err)

	found, err := service.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Bowl (restored)", *found.Title)
	assert.Len(t, found.Colors, 3)
}
