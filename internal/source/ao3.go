// Copyright (c) 2026 Husbandometrics. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package source

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/taibuivan/husbandometrics/internal/metric"
)

// workCount extracts "(12,345)" from the results heading.
var workCount = regexp.MustCompile(`\(([\d,]+)\)`)

// AO3 scrapes the work count from the Archive of Our Own search page.
// It needs no credential.
type AO3 struct {
	fallback
	client  *Client
	baseURL string
}

func NewAO3(client *Client, baseURL string, deps Deps) *AO3 {
	return &AO3{
		fallback: deps.fallback(metric.SourceAO3, "ao3", 1),
		client:   client,
		baseURL:  strings.TrimRight(baseURL, "/"),
	}
}

func (fetcher *AO3) Fetch(ctx context.Context, query string) Result {
	return fetcher.resolve(ctx, query, fetcher.live)
}

func (fetcher *AO3) live(ctx context.Context, query string) (float64, []byte, error) {
	endpoint := fetcher.baseURL + "/works?" + url.Values{"work_search[query]": {query}}.Encode()

	body, err := fetcher.client.Get(ctx, endpoint, nil)
	if err != nil {
		return 0, nil, err
	}

	count, err := parseAO3(body)
	if err != nil {
		return 0, nil, err
	}
	return count, body, nil
}

// parseAO3 reads the first ".heading" element of a search results page.
func parseAO3(page []byte) (float64, error) {
	document, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return 0, fmt.Errorf("ao3: parse html: %w", err)
	}

	heading := document.Find(".heading").First().Text()
	match := workCount.FindStringSubmatch(heading)
	if match == nil {
		return 0, errMalformed
	}

	count, err := strconv.ParseFloat(strings.ReplaceAll(match[1], ",", ""), 64)
	if err != nil {
		return 0, fmt.Errorf("ao3: parse count: %w", err)
	}
	return count, nil
}
