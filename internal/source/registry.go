// Copyright (c) 2026 Husbandometrics. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package source

import (
	"log/slog"
	"net/http"

	"github.com/taibuivan/husbandometrics/internal/metric"
	"github.com/taibuivan/husbandometrics/internal/platform/config"
	"github.com/taibuivan/husbandometrics/internal/platform/metrics"
)

// Deps are the collaborators every fetcher shares.
type Deps struct {
	Logger  *slog.Logger
	Metrics *metrics.Metrics

	// HTTPClient overrides the transport of every source client.
	HTTPClient *http.Client
}

func (deps Deps) fallback(source metric.Source, prefix string, modifier float64) fallback {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return fallback{
		source:   source,
		prefix:   prefix,
		modifier: modifier,
		logger:   logger,
		metrics:  deps.Metrics,
	}
}

/*
NewFetchers builds one fetcher per source in breakdown order.

Each source gets its own [Client] so a slow or failing upstream only
exhausts its own throttle and breaker.

Parameters:
  - cfg: config.Sources (endpoints, credentials, timeout, throttle)
  - deps: Deps (logger, metrics)

Returns:
  - []Fetcher: pixiv, ao3, google_trends, danbooru, twitter
*/
func NewFetchers(cfg config.Sources, deps Deps) []Fetcher {
	clientFor := func(source metric.Source) *Client {
		return NewClient(string(source), ClientOptions{
			Timeout:           cfg.Timeout,
			RequestsPerSecond: cfg.RequestsPerSecond,
			HTTPClient:        deps.HTTPClient,
		})
	}

	return []Fetcher{
		NewPixiv(clientFor(metric.SourcePixiv), cfg.PixivBaseURL, cfg.PixivToken, deps),
		NewAO3(clientFor(metric.SourceAO3), cfg.AO3BaseURL, deps),
		NewGoogleTrends(clientFor(metric.SourceGoogleTrends), cfg.GoogleTrendsProxy, deps),
		NewDanbooru(clientFor(metric.SourceDanbooru), cfg.DanbooruBaseURL, cfg.DanbooruToken, deps),
		NewTwitter(clientFor(metric.SourceTwitter), cfg.TwitterBaseURL, cfg.TwitterBearerToken, deps),
	}
}
