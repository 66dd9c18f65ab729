// Package metrics provides Prometheus instrumentation for the secret cache:
// hit/miss counters, stale serves, background refresh outcomes, and provider
// call latencies.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"mercator-hq/ganymede/pkg/config"
)

// Refresh and provider call outcomes used as label values.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Collector owns all metrics of the secret cache and the registry they are
// registered with. Passing a nil registry uses the default Prometheus
// registry.
type Collector struct {
	registry *prometheus.Registry

	// Cache metrics
	hitsTotal        prometheus.Counter
	missesTotal      prometheus.Counter
	staleServesTotal prometheus.Counter
	entries          prometheus.Gauge

	// Refresh metrics
	refreshTotal *prometheus.CounterVec

	// Provider metrics
	providerCallsTotal  *prometheus.CounterVec
	providerCallSeconds *prometheus.HistogramVec
}

// NewCollector creates and registers all cache metrics with the provided
// registry.
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	c := &Collector{
		registry: registry,

		hitsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "cache_hits_total",
			Help:      "Total number of fresh cache hits",
		}),

		missesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "cache_misses_total",
			Help:      "Total number of cache misses (cold or expired keys)",
		}),

		staleServesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "cache_stale_serves_total",
			Help:      "Total number of expired values served because a live fetch failed",
		}),

		entries: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "cache_entries",
			Help:      "Current number of entries in the cache",
		}),

		refreshTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "refresh_total",
				Help:      "Background refresh attempts by outcome",
			},
			[]string{"outcome"},
		),

		providerCallsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "provider_calls_total",
				Help:      "Provider calls by provider name and outcome",
			},
			[]string{"provider", "outcome"},
		),

		providerCallSeconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "provider_call_seconds",
				Help:      "Provider call latency in seconds",
				Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"provider"},
		),
	}

	registry.MustRegister(
		c.hitsTotal,
		c.missesTotal,
		c.staleServesTotal,
		c.entries,
		c.refreshTotal,
		c.providerCallsTotal,
		c.providerCallSeconds,
	)

	return c
}

// Registry returns the Prometheus registry the collector registered with.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// RecordHit records a fresh cache hit.
func (c *Collector) RecordHit() {
	c.hitsTotal.Inc()
}

// RecordMiss records a miss (cold or expired key).
func (c *Collector) RecordMiss() {
	c.missesTotal.Inc()
}

// RecordStaleServe records an expired value served as a fallback.
func (c *Collector) RecordStaleServe() {
	c.staleServesTotal.Inc()
}

// UpdateEntries updates the current cache size.
func (c *Collector) UpdateEntries(n int) {
	c.entries.Set(float64(n))
}

// RecordRefresh records one background refresh attempt for one key.
func (c *Collector) RecordRefresh(outcome string) {
	c.refreshTotal.WithLabelValues(outcome).Inc()
}

// RecordProviderCall records a provider call with its latency and outcome.
func (c *Collector) RecordProviderCall(provider, outcome string, elapsed time.Duration) {
	c.providerCallsTotal.WithLabelValues(provider, outcome).Inc()
	c.providerCallSeconds.WithLabelValues(provider).Observe(elapsed.Seconds())
}
