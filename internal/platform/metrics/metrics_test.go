// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/relic/internal/core/artifact"
	"github.com/taibuivan/relic/internal/core/harvest"
	"github.com/taibuivan/relic/internal/platform/metrics"
)

var (
	_ harvest.Recorder  = (*metrics.Collector)(nil)
	_ artifact.Recorder = (*metrics.Collector)(nil)
)

func TestCollector_HarvestCounters(t *testing.T) {
	collector := metrics.New()

	collector.PageFetched("Coins", 100)
	collector.PageFetched("Coins", 40)
	collector.ProviderFailed("Coins", 503)

	expected := `
# HELP relic_harvest_records_total Raw records received from the provider.
# TYPE relic_harvest_records_total counter
relic_harvest_records_total{classification="Coins"} 140
`
	require.NoError(t, testutil.GatherAndCompare(collector.Registry(), strings.NewReader(expected), "relic_harvest_records_total"))

	expected = `
# HELP relic_harvest_provider_errors_total Failed provider page requests after retries, by status code (0 = transport).
# TYPE relic_harvest_provider_errors_total counter
relic_harvest_provider_errors_total{classification="Coins",status="503"} 1
`
	require.NoError(t, testutil.GatherAndCompare(collector.Registry(), strings.NewReader(expected), "relic_harvest_provider_errors_total"))
}

func TestCollector_StoreCounters(t *testing.T) {
	collector := metrics.New()

	collector.RowsPersisted(artifact.Counts{Metadata: 2, Media: 2, Colors: 5, Dropped: 1}, 10*time.Millisecond)
	collector.PersistFailed(time.Millisecond)

	expected := `
# HELP relic_store_rows_written_total Rows written per artifact table.
# TYPE relic_store_rows_written_total counter
relic_store_rows_written_total{table="artifact_colors"} 5
relic_store_rows_written_total{table="artifact_media"} 2
relic_store_rows_written_total{table="artifact_metadata"} 2
`
	require.NoError(t, testutil.GatherAndCompare(collector.Registry(), strings.NewReader(expected), "relic_store_rows_written_total"))

	count, err := testutil.GatherAndCount(collector.Registry(), "relic_store_persist_duration_seconds", "relic_store_records_dropped_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestCollector_Handler(t *testing.T) {
	collector := metrics.New()
	collector.PageFetched("Prints", 1)

	recorder := httptest.NewRecorder()
	collector.Handler().ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `relic_harvest_pages_total{classification="Prints"} 1`)
}
