// Copyright (c) 2026 Husbandometrics. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/taibuivan/husbandometrics/internal/metric"
)

// GoogleTrends reads average interest from a trends proxy. Google offers no
// public API, so without a configured proxy the live call is skipped.
type GoogleTrends struct {
	fallback
	client   *Client
	proxyURL string
}

type trendsResponse struct {
	Average          *float64 `json:"average"`
	InterestOverTime struct {
		Average *float64 `json:"average"`
	} `json:"interest_over_time"`
}

func NewGoogleTrends(client *Client, proxyURL string, deps Deps) *GoogleTrends {
	return &GoogleTrends{
		fallback: deps.fallback(metric.SourceGoogleTrends, "google", 0.9),
		client:   client,
		proxyURL: proxyURL,
	}
}

func (fetcher *GoogleTrends) Fetch(ctx context.Context, query string) Result {
	if fetcher.proxyURL == "" {
		return fetcher.resolve(ctx, query, nil)
	}
	return fetcher.resolve(ctx, query, fetcher.live)
}

func (fetcher *GoogleTrends) live(ctx context.Context, query string) (float64, []byte, error) {
	endpoint, err := url.Parse(fetcher.proxyURL)
	if err != nil {
		return 0, nil, fmt.Errorf("google_trends: proxy url: %w", err)
	}
	params := endpoint.Query()
	params.Set("keyword", query)
	endpoint.RawQuery = params.Encode()

	body, err := fetcher.client.Get(ctx, endpoint.String(), nil)
	if err != nil {
		return 0, nil, err
	}

	var parsed trendsResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return 0, nil, fmt.Errorf("google_trends: decode: %w", err)
	}

	switch {
	case parsed.Average != nil:
		return *parsed.Average, body, nil
	case parsed.InterestOverTime.Average != nil:
		return *parsed.InterestOverTime.Average, body, nil
	default:
		return 0, nil, errMalformed
	}
}
