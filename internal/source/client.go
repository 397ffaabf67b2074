// Copyright (c) 2026 Husbandometrics. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/taibuivan/husbandometrics/internal/platform/constants"
)

// maxBodyBytes caps how much of an upstream body is read.
const maxBodyBytes = 4 << 20

// ClientOptions tunes a per-source [Client].
type ClientOptions struct {
	// Timeout bounds one upstream call. Time spent queued on the throttle
	// is not counted.
	Timeout time.Duration

	// RequestsPerSecond throttles outbound calls. Zero or less disables it.
	RequestsPerSecond float64

	// FailureThreshold opens the breaker after this many consecutive failures.
	FailureThreshold uint32

	// CooldownPeriod keeps an open breaker open before probing again.
	CooldownPeriod time.Duration

	// HTTPClient overrides the transport, mainly for tests.
	HTTPClient *http.Client
}

// Client issues GET requests for one upstream source.
type Client struct {
	http    *http.Client
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker
	timeout time.Duration
}

// NewClient builds a client named after its source.
func NewClient(name string, options ClientOptions) *Client {
	if options.Timeout <= 0 {
		options.Timeout = 8 * time.Second
	}
	if options.FailureThreshold == 0 {
		options.FailureThreshold = 5
	}
	if options.CooldownPeriod <= 0 {
		options.CooldownPeriod = time.Minute
	}

	httpClient := options.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	limit := rate.Inf
	burst := 1
	if options.RequestsPerSecond > 0 {
		limit = rate.Limit(options.RequestsPerSecond)
		burst = int(math.Ceil(options.RequestsPerSecond))
	}

	threshold := options.FailureThreshold
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    name,
		Timeout: options.CooldownPeriod,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
	})

	return &Client{
		http:    httpClient,
		limiter: rate.NewLimiter(limit, burst),
		breaker: breaker,
		timeout: options.Timeout,
	}
}

// Get performs exactly one GET and returns the body of a 2xx response.
func (client *Client) Get(ctx context.Context, url string, header http.Header) ([]byte, error) {
	// 1. Queue for the outbound budget before the call deadline starts
	if err := client.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("source: throttle: %w", err)
	}

	callCtx, cancel := context.WithTimeout(ctx, client.timeout)
	defer cancel()

	// 2. Short-circuit while the upstream is known to be down
	body, err := client.breaker.Execute(func() (interface{}, error) {
		return client.do(callCtx, url, header)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("source: circuit open: %w", err)
		}
		return nil, err
	}

	return body.([]byte), nil
}

func (client *Client) do(ctx context.Context, url string, header http.Header) ([]byte, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("source: build request: %w", err)
	}

	for key, values := range header {
		for _, value := range values {
			request.Header.Add(key, value)
		}
	}
	request.Header.Set("User-Agent", constants.UserAgent)

	response, err := client.http.Do(request)
	if err != nil {
		return nil, fmt.Errorf("source: request failed: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode < 200 || response.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(response.Body, maxBodyBytes))
		return nil, fmt.Errorf("source: unexpected status %d", response.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(response.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("source: read body: %w", err)
	}

	return body, nil
}
