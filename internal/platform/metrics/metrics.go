// Copyright (c) 2026 Husbandometrics. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package metrics holds the Prometheus collectors for the rankings pipeline.

Collectors are registered on an explicit registry handed in at startup so
tests can build isolated instances. Every recording method is nil-safe: a
component constructed without metrics simply records nothing.
*/
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels for source fetches.
const (
	OutcomeLive     = "live"
	OutcomeFallback = "fallback"
	OutcomeSkipped  = "skipped"
)

// Result labels for cache lookups.
const (
	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheError = "error"
)

// Metrics groups every collector exported by the service.
type Metrics struct {
	gatherer prometheus.Gatherer

	// SourceFetches counts fetch attempts by source and outcome.
	SourceFetches *prometheus.CounterVec

	// CacheLookups counts cache reads by entry kind and result.
	CacheLookups *prometheus.CounterVec

	// AggregationDuration observes full passes by mode (live|database).
	AggregationDuration *prometheus.HistogramVec

	// PersistFailures counts background write batches that failed.
	PersistFailures prometheus.Counter

	// RateLimited counts rejected requests.
	RateLimited prometheus.Counter
}

// New creates and registers all collectors on registry.
func New(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		gatherer: registry,

		SourceFetches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "husbandometrics_source_fetches_total",
				Help: "Source fetch attempts by source and outcome",
			},
			[]string{"source", "outcome"},
		),

		CacheLookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "husbandometrics_cache_lookups_total",
				Help: "Rankings cache lookups by entry kind and result",
			},
			[]string{"kind", "result"},
		),

		AggregationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "husbandometrics_aggregation_duration_seconds",
				Help:    "Duration of a full aggregation pass",
				Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20},
			},
			[]string{"mode"},
		),

		PersistFailures: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "husbandometrics_persist_failures_total",
				Help: "Background persistence batches that failed",
			},
		),

		RateLimited: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "husbandometrics_rate_limited_total",
				Help: "Requests rejected by the rate limiter",
			},
		),
	}

	registry.MustRegister(
		m.SourceFetches,
		m.CacheLookups,
		m.AggregationDuration,
		m.PersistFailures,
		m.RateLimited,
	)

	return m
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// # Recording helpers

func (m *Metrics) ObserveFetch(source, outcome string) {
	if m == nil {
		return
	}
	m.SourceFetches.WithLabelValues(source, outcome).Inc()
}

func (m *Metrics) ObserveCache(kind, result string) {
	if m == nil {
		return
	}
	m.CacheLookups.WithLabelValues(kind, result).Inc()
}

func (m *Metrics) ObserveAggregation(mode string, took time.Duration) {
	if m == nil {
		return
	}
	m.AggregationDuration.WithLabelValues(mode).Observe(took.Seconds())
}

func (m *Metrics) IncPersistFailure() {
	if m == nil {
		return
	}
	m.PersistFailures.Inc()
}

func (m *Metrics) IncRateLimited() {
	if m == nil {
		return
	}
	m.RateLimited.Inc()
}
