// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package metrics exposes Prometheus instruments for harvesting and persistence.

The [Collector] owns a private registry so tests and multiple servers in one
process never collide on the global default registry.
*/
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/taibuivan/relic/internal/core/artifact"
)

const namespace = "relic"

// Collector implements the harvest and artifact recorders.
type Collector struct {
	registry *prometheus.Registry

	pages          *prometheus.CounterVec
	records        *prometheus.CounterVec
	providerErrors *prometheus.CounterVec
	rows           *prometheus.CounterVec
	dropped        prometheus.Counter
	persistFailed  prometheus.Counter
	persistLatency prometheus.Histogram
}

// New registers every instrument on a fresh registry, along with the Go and process collectors.
func New() *Collector {
	collector := &Collector{
		registry: prometheus.NewRegistry(),
		pages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "harvest",
			Name:      "pages_total",
			Help:      "Provider pages fetched successfully.",
		}, []string{"classification"}),
		records: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "harvest",
			Name:      "records_total",
			Help:      "Raw records received from the provider.",
		}, []string{"classification"}),
		providerErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "harvest",
			Name:      "provider_errors_total",
			Help:      "Failed provider page requests after retries, by status code (0 = transport).",
		}, []string{"classification", "status"}),
		rows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "rows_written_total",
			Help:      "Rows written per artifact table.",
		}, []string{"table"}),
		dropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "records_dropped_total",
			Help:      "Records dropped for missing identity.",
		}),
		persistFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "persist_failures_total",
			Help:      "Batches rolled back.",
		}),
		persistLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "persist_duration_seconds",
			Help:      "Time spent committing one batch.",
			Buckets:   prometheus.DefBuckets,
		}),
	}

	collector.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collector.pages,
		collector.records,
		collector.providerErrors,
		collector.rows,
		collector.dropped,
		collector.persistFailed,
		collector.persistLatency,
	)
	return collector
}

// Registry returns the private registry.
func (c *Collector) Registry() *prometheus.Registry { return c.registry }

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

// # Harvest

func (c *Collector) PageFetched(classification string, records int) {
	c.pages.WithLabelValues(classification).Inc()
	c.records.WithLabelValues(classification).Add(float64(records))
}

func (c *Collector) ProviderFailed(classification string, statusCode int) {
	c.providerErrors.WithLabelValues(classification, strconv.Itoa(statusCode)).Inc()
}

// # Store

func (c *Collector) RowsPersisted(counts artifact.Counts, elapsed time.Duration) {
	c.rows.WithLabelValues("artifact_metadata").Add(float64(counts.Metadata))
	c.rows.WithLabelValues("artifact_media").Add(float64(counts.Media))
	c.rows.WithLabelValues("artifact_colors").Add(float64(counts.Colors))
	c.dropped.Add(float64(counts.Dropped))
	c.persistLatency.Observe(elapsed.Seconds())
}

func (c *Collector) PersistFailed(elapsed time.Duration) {
	c.persistFailed.Inc()
	c.persistLatency.Observe(elapsed.Seconds())
}
