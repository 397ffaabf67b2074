// Copyright (c) 2026 Husbandometrics. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package ratelimit_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/husbandometrics/internal/ratelimit"
)

type fakeClock struct{ now time.Time }

func (clock *fakeClock) Now() time.Time { return clock.now }

/*
TestMemoryStore_Windowing checks the 101st hit and the reset after expiry.
*/
func TestMemoryStore_Windowing(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	store := ratelimit.NewMemoryStore().WithClock(clock.Now)
	ctx := context.Background()

	const limit = 100
	window := 60 * time.Second

	// 1. Fill the window
	for i := 1; i <= limit; i++ {
		got, err := store.Increment(ctx, "rl:anon:GET:/api/rankings", window)
		require.NoError(t, err)
		assert.Equal(t, int64(i), got.Count)
		assert.False(t, got.Exceeded(limit))
	}

	// 2. The next one is over the limit
	clock.now = clock.now.Add(10 * time.Second)
	over, err := store.Increment(ctx, "rl:anon:GET:/api/rankings", window)
	require.NoError(t, err)
	assert.True(t, over.Exceeded(limit))
	assert.Equal(t, int64(0), over.Remaining(limit))
	assert.Equal(t, 50*time.Second, over.TTL)

	// 3. After the window elapses the counter restarts
	clock.now = clock.now.Add(50 * time.Second)
	fresh, err := store.Increment(ctx, "rl:anon:GET:/api/rankings", window)
	require.NoError(t, err)
	assert.Equal(t, int64(1), fresh.Count)
	assert.Equal(t, window, fresh.TTL)
}

/*
TestMemoryStore_KeysAreIndependent verifies that routes do not share budgets.
*/
func TestMemoryStore_KeysAreIndependent(t *testing.T) {
	store := ratelimit.NewMemoryStore()
	ctx := context.Background()

	_, _ = store.Increment(ctx, "a", time.Minute)
	_, _ = store.Increment(ctx, "a", time.Minute)
	got, err := store.Increment(ctx, "b", time.Minute)

	require.NoError(t, err)
	assert.Equal(t, int64(1), got.Count)
}

/*
TestMemoryStore_Sweep removes only expired windows.
*/
func TestMemoryStore_Sweep(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	store := ratelimit.NewMemoryStore().WithClock(clock.Now)
	ctx := context.Background()

	_, _ = store.Increment(ctx, "short", time.Second)
	_, _ = store.Increment(ctx, "long", time.Hour)

	clock.now = clock.now.Add(2 * time.Second)
	assert.Equal(t, 1, store.Sweep())
}

func TestWindow_Remaining(t *testing.T) {
	assert.Equal(t, int64(97), ratelimit.Window{Count: 3}.Remaining(100))
	assert.Equal(t, int64(0), ratelimit.Window{Count: 130}.Remaining(100))
}

/*
TestRedisStore_Increment covers the first hit, later hits and a lost expiry.
*/
func TestRedisStore_Increment(t *testing.T) {
	ctx := context.Background()
	key := "rl:203.0.113.9:GET:/api/rankings"
	window := time.Minute

	t.Run("first_hit_sets_expiry", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		store := ratelimit.NewRedisStore(db)

		mock.ExpectIncr(key).SetVal(1)
		mock.ExpectPExpire(key, window).SetVal(true)

		got, err := store.Increment(ctx, key, window)
		require.NoError(t, err)
		assert.Equal(t, ratelimit.Window{Count: 1, TTL: window}, got)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("later_hit_reads_ttl", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		store := ratelimit.NewRedisStore(db)

		mock.ExpectIncr(key).SetVal(7)
		mock.ExpectPTTL(key).SetVal(42 * time.Second)

		got, err := store.Increment(ctx, key, window)
		require.NoError(t, err)
		assert.Equal(t, int64(7), got.Count)
		assert.Equal(t, 42*time.Second, got.TTL)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing_expiry_is_rearmed", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		store := ratelimit.NewRedisStore(db)

		mock.ExpectIncr(key).SetVal(3)
		mock.ExpectPTTL(key).SetVal(-1)
		mock.ExpectPExpire(key, window).SetVal(true)

		got, err := store.Increment(ctx, key, window)
		require.NoError(t, err)
		assert.Equal(t, window, got.TTL)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("redis_error_is_returned", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		store := ratelimit.NewRedisStore(db)

		mock.ExpectIncr(key).SetErr(errors.New("connection refused"))

		_, err := store.Increment(ctx, key, window)
		assert.Error(t, err)
	})
}
