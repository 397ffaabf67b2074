// Copyright (c) 2026 Husbandometrics. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package ranking

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/taibuivan/husbandometrics/internal/cache"
	"github.com/taibuivan/husbandometrics/internal/platform/apperr"
	"github.com/taibuivan/husbandometrics/internal/platform/constants"
	"github.com/taibuivan/husbandometrics/internal/platform/metrics"
)

// Pipeline produces a fresh payload. [Aggregator] is the production one.
type Pipeline interface {
	Aggregate(ctx context.Context) (*Payload, error)
}

// Cache entry kinds used as metric labels.
const (
	kindAll       = "all"
	kindCharacter = "character"
)

// Service is the cache-fronted entry point used by the HTTP layer, the
// scheduler and the CLI.
type Service struct {
	pipeline Pipeline
	cache    cache.Cache
	ttl      time.Duration
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

func NewService(pipeline Pipeline, store cache.Cache, ttl time.Duration, logger *slog.Logger, m *metrics.Metrics) *Service {
	if ttl <= 0 {
		ttl = constants.DefaultCacheTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		pipeline: pipeline,
		cache:    store,
		ttl:      ttl,
		logger:   logger,
		metrics:  m,
	}
}

// CharacterKey is the cache key for one character.
func CharacterKey(id string) string {
	return constants.CachePrefixRanking + id
}

/*
Rankings serves the full list, aggregating on a cache miss.

Concurrent misses may each run a pass; the last write wins.
*/
func (service *Service) Rankings(ctx context.Context) (*Payload, error) {
	var payload Payload
	if service.read(ctx, kindAll, constants.CacheKeyRankingsAll, &payload) {
		return &payload, nil
	}

	fresh, err := service.pipeline.Aggregate(ctx)
	if err != nil {
		return nil, err
	}

	service.write(ctx, constants.CacheKeyRankingsAll, fresh)
	return fresh, nil
}

/*
Character serves one ranked character.

A miss on its own entry is filled from the full list, which may itself come
from the cache.

Returns:
  - *RankedCharacter: The character
  - error: apperr.NotFound when the id is not ranked
*/
func (service *Service) Character(ctx context.Context, id string) (*RankedCharacter, error) {
	key := CharacterKey(id)

	var character RankedCharacter
	if service.read(ctx, kindCharacter, key, &character) {
		return &character, nil
	}

	payload, err := service.Rankings(ctx)
	if err != nil {
		return nil, err
	}

	found := payload.Find(id)
	if found == nil {
		return nil, apperr.NotFound("Character")
	}

	service.write(ctx, key, found)
	return found, nil
}

/*
Refresh drops the cached list, recomputes it, and writes the list plus every
per-character entry so detail lookups stay warm.
*/
func (service *Service) Refresh(ctx context.Context) (*Payload, error) {
	if err := service.cache.Delete(ctx, constants.CacheKeyRankingsAll); err != nil {
		service.logger.WarnContext(ctx, "cache_delete_failed",
			slog.String("key", constants.CacheKeyRankingsAll),
			slog.Any("error", err),
		)
	}

	fresh, err := service.pipeline.Aggregate(ctx)
	if err != nil {
		return nil, err
	}

	service.write(ctx, constants.CacheKeyRankingsAll, fresh)
	for i := range fresh.Characters {
		service.write(ctx, CharacterKey(fresh.Characters[i].ID), &fresh.Characters[i])
	}

	service.logger.InfoContext(ctx, "rankings_refreshed",
		slog.Int("characters", len(fresh.Characters)),
		slog.String("mode", string(fresh.Metadata.Mode)),
	)
	return fresh, nil
}

// read decodes a cached entry into target. Backend and decode errors count
// as misses.
func (service *Service) read(ctx context.Context, kind, key string, target any) bool {
	raw, ok, err := service.cache.Get(ctx, key)
	if err != nil {
		service.metrics.ObserveCache(kind, metrics.CacheError)
		service.logger.WarnContext(ctx, "cache_get_failed", slog.String("key", key), slog.Any("error", err))
		return false
	}
	if !ok {
		service.metrics.ObserveCache(kind, metrics.CacheMiss)
		return false
	}

	if err := json.Unmarshal(raw, target); err != nil {
		service.metrics.ObserveCache(kind, metrics.CacheError)
		service.logger.WarnContext(ctx, "cache_entry_corrupt", slog.String("key", key), slog.Any("error", err))
		return false
	}

	service.metrics.ObserveCache(kind, metrics.CacheHit)
	return true
}

func (service *Service) write(ctx context.Context, key string, value any) {
	raw, err := json.Marshal(value)
	if err != nil {
		service.logger.ErrorContext(ctx, "cache_encode_failed", slog.String("key", key), slog.Any("error", err))
		return
	}

	// A finished pass is stored even when its requester has gone.
	if err := service.cache.Set(context.WithoutCancel(ctx), key, raw, service.ttl); err != nil {
		service.logger.WarnContext(ctx, "cache_set_failed", slog.String("key", key), slog.Any("error", err))
	}
}
