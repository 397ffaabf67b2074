// Copyright (c) 2026 Husbandometrics. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore implements [Store] on a shared Redis instance.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a Redis-backed fixed-window store.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

/*
Increment bumps the counter with INCR and attaches the window expiry.

Description: The first hit of a window sets PEXPIRE and reports the full
window. Later hits read PTTL; a key that lost its expiry is re-armed.

Parameters:
  - ctx: context.Context
  - key: string
  - window: time.Duration

Returns:
  - Window: Count and remaining TTL
  - error: Redis connectivity failures
*/
func (store *RedisStore) Increment(ctx context.Context, key string, window time.Duration) (Window, error) {

	// Count this hit
	count, err := store.client.Incr(ctx, key).Result()
	if err != nil {
		return Window{}, fmt.Errorf("redis_ratelimit_incr_failed: %w", err)
	}

	// A fresh window owns the expiry
	if count == 1 {
		if err := store.client.PExpire(ctx, key, window).Err(); err != nil {
			return Window{}, fmt.Errorf("redis_ratelimit_expire_failed: %w", err)
		}
		return Window{Count: count, TTL: window}, nil
	}

	ttl, err := store.client.PTTL(ctx, key).Result()
	if err != nil {
		return Window{}, fmt.Errorf("redis_ratelimit_pttl_failed: %w", err)
	}

	// Negative TTL means the key has no expiry; restart the clock
	if ttl < 0 {
		if err := store.client.PExpire(ctx, key, window).Err(); err != nil {
			return Window{}, fmt.Errorf("redis_ratelimit_expire_failed: %w", err)
		}
		ttl = window
	}

	return Window{Count: count, TTL: ttl}, nil
}
