// Copyright (c) 2026 Husbandometrics. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/taibuivan/husbandometrics/internal/platform/apperr"
	"github.com/taibuivan/husbandometrics/internal/platform/constants"
	"github.com/taibuivan/husbandometrics/internal/platform/ctxutil"
	"github.com/taibuivan/husbandometrics/internal/platform/metrics"
	"github.com/taibuivan/husbandometrics/internal/platform/respond"
	"github.com/taibuivan/husbandometrics/internal/ratelimit"
)

// RateLimitOptions configures [RateLimit].
type RateLimitOptions struct {
	Store   ratelimit.Store
	Limit   int
	Window  time.Duration
	Prefix  string
	Metrics *metrics.Metrics

	// Now is overridable for tests.
	Now func() time.Time
}

/*
RateLimit enforces a fixed-window request budget per client, method and path.

Every response carries X-RateLimit-Limit, X-RateLimit-Remaining and
X-RateLimit-Reset (epoch milliseconds). Requests over the limit receive 429
with the time left in the window. A failing store lets the request through.
*/
func RateLimit(options RateLimitOptions) func(http.Handler) http.Handler {
	if options.Limit <= 0 {
		options.Limit = constants.DefaultRateLimit
	}
	if options.Window <= 0 {
		options.Window = constants.DefaultRateLimitWindow
	}
	if options.Prefix == "" {
		options.Prefix = constants.RateLimitPrefix
	}
	if options.Now == nil {
		options.Now = time.Now
	}

	limit := int64(options.Limit)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			// 1. Attach the caller's identity for downstream handlers
			ctx := ctxutil.WithClient(request.Context(), ClientIdentity(request))
			request = request.WithContext(ctx)

			// 2. Count this hit in the caller's current window
			key := RateLimitKey(options.Prefix, request)
			window, err := options.Store.Increment(ctx, key, options.Window)
			if err != nil {
				ctxutil.GetLogger(ctx).WarnContext(ctx, "rate_limit_store_unavailable",
					slog.String("key", key),
					slog.Any("error", err),
				)
				next.ServeHTTP(writer, request)
				return
			}

			// 3. Quota headers go on every response
			header := writer.Header()
			header.Set(constants.HeaderRateLimitLimit, strconv.FormatInt(limit, 10))
			header.Set(constants.HeaderRateLimitRemaining, strconv.FormatInt(window.Remaining(limit), 10))
			header.Set(constants.HeaderRateLimitReset, strconv.FormatInt(options.Now().Add(window.TTL).UnixMilli(), 10))

			// 4. Reject once the window is spent
			if window.Exceeded(limit) {
				options.Metrics.IncRateLimited()
				respond.Error(writer, request, apperr.RateLimited(window.TTL))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}

// RateLimitKey builds "<prefix>:<identity>:<METHOD>:<path>".
func RateLimitKey(prefix string, request *http.Request) string {
	return strings.Join([]string{
		prefix,
		ClientIdentity(request),
		request.Method,
		request.URL.Path,
	}, ":")
}
