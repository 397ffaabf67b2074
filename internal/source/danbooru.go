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
	"github.com/taibuivan/husbandometrics/pkg/slug"
)

// Danbooru reads the post count of the most used tag matching the name.
// The API key is optional.
type Danbooru struct {
	fallback
	client  *Client
	baseURL string
	token   string
}

type danbooruTag struct {
	Name      string   `json:"name"`
	PostCount *float64 `json:"post_count"`
}

func NewDanbooru(client *Client, baseURL, token string, deps Deps) *Danbooru {
	return &Danbooru{
		fallback: deps.fallback(metric.SourceDanbooru, "danbooru", 1.1),
		client:   client,
		baseURL:  strings.TrimRight(baseURL, "/"),
		token:    token,
	}
}

func (fetcher *Danbooru) Fetch(ctx context.Context, query string) Result {
	return fetcher.resolve(ctx, query, fetcher.live)
}

func (fetcher *Danbooru) live(ctx context.Context, query string) (float64, []byte, error) {
	params := url.Values{
		"search[name_matches]": {slug.Tag(query) + "*"},
		"search[order]":        {"count"},
		"limit":                {"1"},
	}
	endpoint := fetcher.baseURL + "/tags.json?" + params.Encode()

	var header http.Header
	if fetcher.token != "" {
		header = http.Header{"Authorization": {"Bearer " + fetcher.token}}
	}

	body, err := fetcher.client.Get(ctx, endpoint, header)
	if err != nil {
		return 0, nil, err
	}

	var tags []danbooruTag
	if err := json.Unmarshal(body, &tags); err != nil {
		return 0, nil, fmt.Errorf("danbooru: decode: %w", err)
	}
	if len(tags) == 0 || tags[0].PostCount == nil {
		return 0, nil, errMalformed
	}

	return *tags[0].PostCount, body, nil
}
