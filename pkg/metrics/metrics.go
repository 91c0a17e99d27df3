// Package metrics provides the Prometheus instruments of the census daemons.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus instruments of the census.
//
// A nil *Metrics is a valid no-op receiver, so callers can leave metrics
// unwired in tests and one-shot tools.
type Metrics struct {
	// Fetch metrics
	FetchesTotal  *prometheus.CounterVec
	FetchDuration *prometheus.HistogramVec

	// Cache metrics
	CacheHits    prometheus.Counter
	CacheMisses  prometheus.Counter
	CacheEntries prometheus.Gauge

	// Store metrics
	StoreErrors prometheus.Counter

	// Admin metrics
	Invalidations prometheus.Counter
}

// New creates a Metrics instance registered on the given registerer.
func New(reg prometheus.Registerer, namespace string) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		FetchesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetches_total",
			Help:      "Source fetches by dataset key and outcome",
		}, []string{"key", "outcome"}),
		FetchDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fetch_duration_seconds",
			Help:      "Source fetch duration by dataset key",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
		}, []string{"key"}),

		CacheHits: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_hits_total",
			Help:      "Dataset reads served from the in-memory cache",
		}),
		CacheMisses: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_misses_total",
			Help:      "Dataset reads that had to go to the store or upstream",
		}),
		CacheEntries: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "cache_entries",
			Help:      "Current number of cached snapshots",
		}),

		StoreErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_errors_total",
			Help:      "Snapshot store operations that failed",
		}),

		Invalidations: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "invalidations_total",
			Help:      "Snapshots dropped through the admin API",
		}),
	}
}

// RecordFetch records one source fetch and its outcome.
func (m *Metrics) RecordFetch(key string, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.FetchesTotal.WithLabelValues(key, outcome).Inc()
	m.FetchDuration.WithLabelValues(key).Observe(elapsed.Seconds())
}

// RecordCacheRead records whether a dataset read hit the in-memory cache.
func (m *Metrics) RecordCacheRead(hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.CacheHits.Inc()
	} else {
		m.CacheMisses.Inc()
	}
}

// UpdateCacheEntries updates the cached snapshot gauge.
func (m *Metrics) UpdateCacheEntries(n int) {
	if m == nil {
		return
	}
	m.CacheEntries.Set(float64(n))
}

// RecordStoreError records a failed snapshot store operation.
func (m *Metrics) RecordStoreError() {
	if m == nil {
		return
	}
	m.StoreErrors.Inc()
}

// RecordInvalidation records snapshots dropped through the admin API.
func (m *Metrics) RecordInvalidation(n int) {
	if m == nil {
		return
	}
	m.Invalidations.Add(float64(n))
}
