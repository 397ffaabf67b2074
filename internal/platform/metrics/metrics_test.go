// Copyright (c) 2026 Husbandometrics. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/husbandometrics/internal/platform/metrics"
)

func TestMetrics_Recording(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())

	m.ObserveFetch("pixiv", metrics.OutcomeFallback)
	m.ObserveFetch("pixiv", metrics.OutcomeFallback)
	m.ObserveCache("all", metrics.CacheHit)
	m.IncRateLimited()
	m.IncPersistFailure()
	m.ObserveAggregation("live", 120*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.SourceFetches.WithLabelValues("pixiv", metrics.OutcomeFallback)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheLookups.WithLabelValues("all", metrics.CacheHit)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RateLimited))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PersistFailures))
}

/*
TestMetrics_NilSafe ensures components built without metrics do not panic.
*/
func TestMetrics_NilSafe(t *testing.T) {
	var m *metrics.Metrics

	assert.NotPanics(t, func() {
		m.ObserveFetch("ao3", metrics.OutcomeLive)
		m.ObserveCache("character", metrics.CacheMiss)
		m.ObserveAggregation("database", time.Second)
		m.IncPersistFailure()
		m.IncRateLimited()
	})
}

func TestMetrics_Handler(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	m.ObserveFetch("twitter", metrics.OutcomeSkipped)

	recorder := httptest.NewRecorder()
	m.Handler().ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "husbandometrics_source_fetches_total")
}
