// Copyright (c) 2026 Husbandometrics. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package constants provides centralized, immutable values for the entire platform.

It defines default timeouts, rate limits, cache keys and headers that are
shared between different layers of the system.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Rate Limiting: Window defaults and client identity headers.
  - Caching: Rankings key taxonomy and TTL.

Using this package ensures Magic Strings and Magic Numbers are eliminated
from the business logic.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "husbandometrics"
	AppVersion = "0.3.0"

	// UserAgent is sent on every outbound source request.
	UserAgent = "husbandometrics-bot/1.0"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	DefaultReadTimeout = 5 * time.Second

	// DefaultWriteTimeout covers a full cold aggregation pass plus encoding.
	DefaultWriteTimeout = 45 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	GlobalRequestTimeout = 40 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second

	// PersistTimeout bounds one background persistence batch.
	PersistTimeout = 20 * time.Second

	// StoreReadTimeout bounds the snapshot read at the start of a pass.
	StoreReadTimeout = 10 * time.Second
)

// # Rate Limiting

const (
	// DefaultRateLimit is the number of requests allowed per window.
	DefaultRateLimit = 100

	// DefaultRateLimitWindow is the fixed window length.
	DefaultRateLimitWindow = 60 * time.Second

	// RateLimitPrefix namespaces rate-limit counters.
	RateLimitPrefix = "rl"

	// RateLimitCleanupInterval is how often expired in-memory windows are dropped.
	RateLimitCleanupInterval = 1 * time.Minute

	// AnonymousClient is the shared bucket for requests without proxy headers.
	AnonymousClient = "anonymous"
)

// # HTTP Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderCFConnecting  = "CF-Connecting-IP"
	HeaderXRealIP       = "X-Real-IP"
	HeaderOrigin        = "Origin"
	HeaderRefreshToken  = "X-Refresh-Token"

	HeaderRateLimitLimit     = "X-RateLimit-Limit"
	HeaderRateLimitRemaining = "X-RateLimit-Remaining"
	HeaderRateLimitReset     = "X-RateLimit-Reset"
)

// # JSON Field Identifiers

const (
	FieldError        = "error"
	FieldCode         = "code"
	FieldRetryAfterMs = "retryAfterMs"
	FieldStatus       = "status"
	FieldTimestamp    = "timestamp"
	FieldChecks       = "checks"
)

// # Cache Taxonomy

const (
	// CacheKeyRankingsAll holds the full ranking payload.
	CacheKeyRankingsAll = "rankings:all"

	// CachePrefixRanking prefixes per-character entries ("rankings:<id>").
	CachePrefixRanking = "rankings:"

	// DefaultCacheTTL is the rankings TTL when none is configured.
	DefaultCacheTTL = 900 * time.Second
)

// # Scheduling

const (
	// DefaultRefreshSchedule runs every Monday at 04:00 UTC.
	DefaultRefreshSchedule = "0 4 * * 1"
)
