// Copyright (c) 2026 Husbandometrics. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package cache stores serialized ranking payloads with a wall-clock TTL.

Two interchangeable backends exist:

  - MemoryCache: process-local map, used when no Redis URL is configured.
  - RedisCache: shared across replicas through go-redis.

Callers treat every backend error as a miss; the cache is an accelerator and
never the source of truth.
*/
package cache

import (
	"context"
	"sync"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry expiry.
type Cache interface {
	// Get returns the stored value. ok is false on a miss or expired entry.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)

	// Set stores value under key for ttl.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// # In-Memory Backend

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryCache is a mutex-guarded map with lazy expiry on read.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryCache returns an empty cache using the wall clock.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

// WithClock replaces the time source. Intended for tests.
func (store *MemoryCache) WithClock(now func() time.Time) *MemoryCache {
	store.now = now
	return store
}

func (store *MemoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	entry, found := store.entries[key]
	if !found {
		return nil, false, nil
	}

	if store.now().After(entry.expiresAt) {
		delete(store.entries, key)
		return nil, false, nil
	}

	return entry.value, true, nil
}

func (store *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	copied := make([]byte, len(value))
	copy(copied, value)

	store.mu.Lock()
	store.entries[key] = memoryEntry{value: copied, expiresAt: store.now().Add(ttl)}
	store.mu.Unlock()

	return nil
}

func (store *MemoryCache) Delete(_ context.Context, key string) error {
	store.mu.Lock()
	delete(store.entries, key)
	store.mu.Unlock()

	return nil
}

// Len reports the number of stored entries, expired ones included.
func (store *MemoryCache) Len() int {
	store.mu.Lock()
	defer store.mu.Unlock()
	return len(store.entries)
}
