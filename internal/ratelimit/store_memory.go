// Copyright (c) 2026 Husbandometrics. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package ratelimit

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	count     int64
	expiresAt time.Time
}

// MemoryStore is an in-process [Store].
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]*memoryEntry
	now     func() time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]*memoryEntry),
		now:     time.Now,
	}
}

// WithClock replaces the time source. Intended for tests.
func (store *MemoryStore) WithClock(now func() time.Time) *MemoryStore {
	store.now = now
	return store
}

// Increment bumps the counter for key, opening a fresh window when needed.
func (store *MemoryStore) Increment(_ context.Context, key string, window time.Duration) (Window, error) {
	now := store.now()

	store.mu.Lock()
	defer store.mu.Unlock()

	entry, found := store.entries[key]
	if !found || !entry.expiresAt.After(now) {
		store.entries[key] = &memoryEntry{count: 1, expiresAt: now.Add(window)}
		return Window{Count: 1, TTL: window}, nil
	}

	entry.count++
	return Window{Count: entry.count, TTL: entry.expiresAt.Sub(now)}, nil
}

// Sweep drops expired windows so idle clients do not accumulate.
func (store *MemoryStore) Sweep() int {
	now := store.now()

	store.mu.Lock()
	defer store.mu.Unlock()

	removed := 0
	for key, entry := range store.entries {
		if !entry.expiresAt.After(now) {
			delete(store.entries, key)
			removed++
		}
	}
	return removed
}

// RunSweeper calls [MemoryStore.Sweep] every interval until ctx is done.
func (store *MemoryStore) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			store.Sweep()
		case <-ctx.Done():
			return
		}
	}
}
