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

// Pixiv counts illustrations matching the query. It needs a session token.
type Pixiv struct {
	fallback
	client  *Client
	baseURL string
	token   string
}

type pixivResponse struct {
	Body struct {
		Illust struct {
			Total *float64 `json:"total"`
		} `json:"illust"`
	} `json:"body"`
}

func NewPixiv(client *Client, baseURL, token string, deps Deps) *Pixiv {
	return &Pixiv{
		fallback: deps.fallback(metric.SourcePixiv, "pixiv", 1.2),
		client:   client,
		baseURL:  strings.TrimRight(baseURL, "/"),
		token:    token,
	}
}

func (fetcher *Pixiv) Fetch(ctx context.Context, query string) Result {
	if fetcher.token == "" {
		return fetcher.resolve(ctx, query, nil)
	}
	return fetcher.resolve(ctx, query, fetcher.live)
}

func (fetcher *Pixiv) live(ctx context.Context, query string) (float64, []byte, error) {
	endpoint := fetcher.baseURL + "/ajax/search/artworks/" + url.PathEscape(query)
	header := http.Header{"Cookie": {"PHPSESSID=" + fetcher.token}}

	body, err := fetcher.client.Get(ctx, endpoint, header)
	if err != nil {
		return 0, nil, err
	}

	var parsed pixivResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return 0, nil, fmt.Errorf("pixiv: decode: %w", err)
	}
	if parsed.Body.Illust.Total == nil {
		return 0, nil, errMalformed
	}

	return *parsed.Body.Illust.Total, body, nil
}
