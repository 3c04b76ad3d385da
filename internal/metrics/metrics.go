// Package metrics defines the Prometheus collectors for the service and
// exposes an HTTP handler for scraping.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "mesobmatch"

// Metrics holds all Prometheus collectors for the service.
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	MatchRequestsTotal  *prometheus.CounterVec
	MatchLatency        *prometheus.HistogramVec
	MatchCandidates     prometheus.Histogram
	IndexBuildsTotal    *prometheus.CounterVec
	IndexBuildDuration  prometheus.Histogram
	IndexDroppedLinks   prometheus.Counter
	IndexRecipes        prometheus.Gauge
	CacheHitsTotal      prometheus.Counter
	CacheMissesTotal    prometheus.Counter
	RateLimitedTotal    prometheus.Counter

	gatherer prometheus.Gatherer
}

// New creates the collectors and registers them with reg. Passing a fresh
// prometheus.NewRegistry() keeps tests isolated from the default registry.
func New(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests by method, route, and status.",
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency in seconds.",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			},
			[]string{"method", "route"},
		),
		MatchRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "match_requests_total",
				Help:      "Matching requests by operation, mode, and outcome.",
			},
			[]string{"operation", "mode", "outcome"},
		),
		MatchLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "match_latency_seconds",
				Help:      "Time spent evaluating and ranking a matching request.",
				Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
			},
			[]string{"operation"},
		),
		MatchCandidates: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "match_candidates",
				Help:      "Number of recipes qualifying per find-by-ingredients request.",
				Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 500, 1000},
			},
		),
		IndexBuildsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "index_builds_total",
				Help:      "Catalog index builds by status.",
			},
			[]string{"status"},
		),
		IndexBuildDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "index_build_duration_seconds",
				Help:      "Time to load a catalog snapshot and build the index.",
				Buckets:   prometheus.DefBuckets,
			},
		),
		IndexDroppedLinks: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "index_dropped_links_total",
				Help:      "Recipe-ingredient links skipped because they reference missing records.",
			},
		),
		IndexRecipes: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "index_recipes",
				Help:      "Recipes in the current catalog index.",
			},
		),
		CacheHitsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "match_cache_hits_total",
				Help:      "Total number of match result cache hits.",
			},
		),
		CacheMissesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "match_cache_misses_total",
				Help:      "Total number of match result cache misses.",
			},
		),
		RateLimitedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rate_limited_requests_total",
				Help:      "Requests rejected by the rate limiter.",
			},
		),
		gatherer: reg,
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.MatchRequestsTotal,
		m.MatchLatency,
		m.MatchCandidates,
		m.IndexBuildsTotal,
		m.IndexBuildDuration,
		m.IndexDroppedLinks,
		m.IndexRecipes,
		m.CacheHitsTotal,
		m.CacheMissesTotal,
		m.RateLimitedTotal,
	)
	return m
}

// Handler serves the registry the metrics were registered with.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
