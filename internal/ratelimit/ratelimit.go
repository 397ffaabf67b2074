// Copyright (c) 2026 Husbandometrics. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package ratelimit implements fixed-window request counters.

A window starts on the first increment of an absent or expired key with a
count of 1 and the full window remaining. Every later increment in the same
window bumps the count and reports the time left until reset.

Two stores are provided:

  - [MemoryStore]: process-local, used when no Redis URL is configured.
  - [RedisStore]: shared across instances via INCR + PEXPIRE.
*/
package ratelimit

import (
	"context"
	"time"
)

// Window is the state of one counter after an increment.
type Window struct {
	// Count is the number of hits in the current window, including this one.
	Count int64
	// TTL is the time remaining until the window resets.
	TTL time.Duration
}

// Store increments a fixed-window counter.
type Store interface {
	Increment(ctx context.Context, key string, window time.Duration) (Window, error)
}

// Remaining returns the quota left for limit, never negative.
func (w Window) Remaining(limit int64) int64 {
	if remaining := limit - w.Count; remaining > 0 {
		return remaining
	}
	return 0
}

// Exceeded reports whether the window is over limit.
func (w Window) Exceeded(limit int64) bool {
	return w.Count > limit
}
