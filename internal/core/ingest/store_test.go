// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package ingest

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/relic/internal/core/harvest"
	"github.com/taibuivan/relic/internal/platform/redis"
)

func stagedBatch(id string) *StagedBatch {
	total := int64(12)
	return &StagedBatch{
		ID:             id,
		Classification: "Coins",
		Requested:      2,
		Records: []harvest.Record{
			{"objectid": json.Number("9007199254740993"), "title": "Denarius"},
		},
		Pages:        1,
		TotalRecords: &total,
		Stop:         harvest.StopTarget,
		FetchedAt:    time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func TestMemoryStore_RoundTripAndExpiry(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	store := NewMemoryStore(time.Minute)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	batch := stagedBatch("b1")
	require.NoError(t, store.Save(ctx, batch))

	// later mutations of the caller's copy do not leak into the store
	batch.Records = nil

	loaded, err := store.Load(ctx, "b1")
	require.NoError(t, err)
	require.Len(t, loaded.Records, 1)
	assert.Equal(t, json.Number("9007199254740993"), loaded.Records[0]["objectid"])
	assert.Equal(t, int64(12), *loaded.TotalRecords)

	now = now.Add(time.Minute)
	_, err = store.Load(ctx, "b1")
	assert.ErrorIs(t, err, ErrBatchNotFound)

	_, err = store.Load(ctx, "never")
	assert.ErrorIs(t, err, ErrBatchNotFound)
}

func TestMemoryStore_SaveSweepsExpired(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	store := NewMemoryStore(time.Minute)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, stagedBatch("old")))
	now = now.Add(2 * time.Minute)
	require.NoError(t, store.Save(ctx, stagedBatch("new")))

	assert.Len(t, store.entries, 1)
	assert.Contains(t, store.entries, "new")
}

// TestRedisStore_RoundTrip needs a disposable Redis in RELIC_TEST_REDIS_URL.
func TestRedisStore_RoundTrip(t *testing.T) {
	url := os.Getenv("RELIC_TEST_REDIS_URL")
	if url == "" {
		t.Skip("RELIC_TEST_REDIS_URL not set")
	}

	ctx := context.Background()
	client, err := redis.NewClient(ctx, url, discardLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	store := NewRedisStore(client, time.Minute)
	id := "test-" + time.Now().Format("150405.000000000")
	t.Cleanup(func() { client.Del(context.Background(), redisKey(id)) })

	require.NoError(t, store.Save(ctx, stagedBatch(id)))

	loaded, err := store.Load(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, json.Number("9007199254740993"), loaded.Records[0]["objectid"])

	ttl, err := client.TTL(ctx, redisKey(id)).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	_, err = store.Load(ctx, "missing-"+id)
	assert.ErrorIs(t, err, ErrBatchNotFound)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
