// Copyright (c) 2026 Husbandometrics. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package source implements the five upstream popularity fetchers.

Every fetcher honours the same contract: Fetch always returns a value.
A live call that fails for any reason (transport error, timeout, non-2xx
status, unparsable body, non-finite number) is logged at warn level and
replaced by the deterministic synthetic metric for "<prefix>-<query>".
Fetchers whose credential is not configured skip the live call entirely.

Outbound calls go through [Client], which applies the per-source timeout,
throttle and circuit breaker.
*/
package source

import (
	"context"
	"errors"
	"log/slog"
	"math"

	"github.com/taibuivan/husbandometrics/internal/metric"
	"github.com/taibuivan/husbandometrics/internal/platform/metrics"
)

// Result is the outcome of one fetch.
type Result struct {
	Source metric.Source
	// Value is the raw upstream count, or the synthetic stand-in.
	Value float64
	// Raw is the upstream body when the value came from a live call.
	Raw []byte
	// Synthetic is true when Value came from the fallback generator.
	Synthetic bool
}

// Fetcher resolves one source's raw popularity signal for a search query.
type Fetcher interface {
	Source() metric.Source
	Fetch(ctx context.Context, query string) Result
}

// errMalformed is returned when the body parses but lacks the expected field.
var errMalformed = errors.New("source: expected field missing")

// liveCall performs the upstream request and extracts the raw number.
type liveCall func(ctx context.Context, query string) (float64, []byte, error)

// fallback carries the parts every fetcher shares: identity, synthetic
// parameters and the degrade path.
type fallback struct {
	source   metric.Source
	prefix   string
	modifier float64
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

func (f fallback) Source() metric.Source { return f.source }

// resolve runs live (when non-nil) and degrades on any failure.
func (f fallback) resolve(ctx context.Context, query string, live liveCall) Result {
	if live == nil {
		f.metrics.ObserveFetch(string(f.source), metrics.OutcomeSkipped)
		return f.synthetic(query)
	}

	value, raw, err := live(ctx, query)
	if err == nil && (math.IsNaN(value) || math.IsInf(value, 0)) {
		err = errMalformed
	}

	if err != nil {
		f.logger.WarnContext(ctx, "source_fallback",
			slog.String("source", string(f.source)),
			slog.String("query", query),
			slog.Any("error", err),
		)
		f.metrics.ObserveFetch(string(f.source), metrics.OutcomeFallback)
		return f.synthetic(query)
	}

	f.metrics.ObserveFetch(string(f.source), metrics.OutcomeLive)
	return Result{Source: f.source, Value: value, Raw: raw}
}

func (f fallback) synthetic(query string) Result {
	return Result{
		Source:    f.source,
		Value:     metric.Synthetic(f.prefix+"-"+query, f.modifier),
		Synthetic: true,
	}
}
