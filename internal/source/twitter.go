// Copyright (c) 2026 Husbandometrics. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/taibuivan/husbandometrics/internal/metric"
)

// Twitter reads the recent tweet count for the query. It needs a bearer token.
type Twitter struct {
	fallback
	client  *Client
	baseURL string
	token   string
}

type tweetCountsResponse struct {
	Meta struct {
		TotalTweetCount *float64 `json:"total_tweet_count"`
	} `json:"meta"`
}

func NewTwitter(client *Client, baseURL, token string, deps Deps) *Twitter {
	return &Twitter{
		fallback: deps.fallback(metric.SourceTwitter, "twitter", 1.4),
		client:   client,
		baseURL:  strings.TrimRight(baseURL, "/"),
		token:    token,
	}
}

func (fetcher *Twitter) Fetch(ctx context.Context, query string) Result {
	if fetcher.token == "" {
		return fetcher.resolve(ctx, query, nil)
	}
	return fetcher.resolve(ctx, query, fetcher.live)
}

func (fetcher *Twitter) live(ctx context.Context, query string) (float64, []byte, error) {
	endpoint := fetcher.baseURL + "/2/tweets/counts/recent?" + url.Values{"query": {query}}.Encode()
	header := http.Header{"Authorization": {"Bearer " + fetcher.token}}

	body, err := fetcher.client.Get(ctx, endpoint, header)
	if err != nil {
		return 0, nil, err
	}

	var parsed tweetCountsResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return 0, nil, fmt.Errorf("twitter: decode: %w", err)
	}
	if parsed.Meta.TotalTweetCount == nil {
		return 0, nil, errMalformed
	}

	return *parsed.Meta.TotalTweetCount, body, nil
}
