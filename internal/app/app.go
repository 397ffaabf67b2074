// Copyright (c) 2026 Husbandometrics. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package app assembles the runtime graph shared by the API server and the
operator CLI: store, cache, rate-limit store, fetchers, aggregator and
service.

# Startup Sequence

 1. Metrics registry.
 2. Redis when REDIS_URL is set, else in-process cache and counters.
 3. Snapshot store for the configured provider, migrated on open.

An unreachable Redis falls back to the in-process cache and counters. An
unreachable store leaves the pipeline in live mode. Both are logged once
and surface afterwards through the readiness checks.
 4. Character manifest (file or embedded).
 5. Source fetchers, aggregator and the cache-fronted service.
*/
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	goredis "github.com/redis/go-redis/v9"

	"github.com/taibuivan/husbandometrics/internal/cache"
	"github.com/taibuivan/husbandometrics/internal/platform/config"
	"github.com/taibuivan/husbandometrics/internal/platform/constants"
	"github.com/taibuivan/husbandometrics/internal/platform/metrics"
	"github.com/taibuivan/husbandometrics/internal/platform/migration"
	pgstore "github.com/taibuivan/husbandometrics/internal/platform/postgres"
	redisstore "github.com/taibuivan/husbandometrics/internal/platform/redis"
	"github.com/taibuivan/husbandometrics/internal/platform/sqlite"
	"github.com/taibuivan/husbandometrics/internal/ranking"
	"github.com/taibuivan/husbandometrics/internal/ratelimit"
	"github.com/taibuivan/husbandometrics/internal/source"
)

// App is the wired runtime. Close releases every connection it opened.
type App struct {
	Config     *config.Config
	Logger     *slog.Logger
	Metrics    *metrics.Metrics
	Cache      cache.Cache
	Limiter    ratelimit.Store
	Repository ranking.Repository
	Aggregator *ranking.Aggregator
	Service    *ranking.Service

	// Redis is nil when REDIS_URL is unset.
	Redis *goredis.Client

	memoryLimiter *ratelimit.MemoryStore
	pool          *pgxpool.Pool
	sqliteDB      *sqlx.DB

	// Startup failures of configured backends, reported by readiness.
	cacheErr error
	storeErr error
}

/*
New builds the runtime graph from cfg.

Returns:
  - *App: Ready to serve, possibly with degraded backends
  - error: Only when the character manifest cannot be loaded
*/
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	app := &App{Config: cfg, Logger: logger}

	// 1. Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	app.Metrics = metrics.New(registry)

	// 2. Cache and rate-limit counters
	if err := app.openCache(ctx); err != nil {
		app.cacheErr = err
		app.useMemoryCache()
		logger.Warn("cache_backend_degraded", slog.String("backend", "memory"), slog.Any("error", err))
	}

	// 3. Snapshot store
	if err := app.openStore(ctx); err != nil {
		app.storeErr = err
		app.Repository = nil
		logger.Warn("snapshot_store_unavailable",
			slog.String("provider", cfg.DatabaseProvider),
			slog.Any("error", err),
		)
	}

	// 4. Manifest
	manifest, err := loadManifest(cfg)
	if err != nil {
		app.Close()
		return nil, err
	}

	// 5. Pipeline
	fetchers := source.NewFetchers(cfg.Sources, source.Deps{Logger: logger, Metrics: app.Metrics})
	app.Aggregator = ranking.NewAggregator(ranking.AggregatorOptions{
		Manifest:   manifest,
		Fetchers:   fetchers,
		Repository: app.Repository,
		Weights:    ranking.WeightsFromConfig(cfg.Weights),
		Logger:     logger,
		Metrics:    app.Metrics,
	})
	app.Service = ranking.NewService(app.Aggregator, app.Cache, cfg.CacheTTL(), logger, app.Metrics)

	return app, nil
}

func (app *App) useMemoryCache() {
	app.memoryLimiter = ratelimit.NewMemoryStore()
	app.Cache = cache.NewMemoryCache()
	app.Limiter = app.memoryLimiter
}

func (app *App) openCache(ctx context.Context) error {
	if app.Config.RedisURL == "" {
		app.useMemoryCache()
		app.Logger.Info("cache_backend_selected", slog.String("backend", "memory"))
		return nil
	}

	client, err := redisstore.NewClient(ctx, app.Config.RedisURL, app.Logger)
	if err != nil {
		return fmt.Errorf("app: connect to redis: %w", err)
	}

	app.Redis = client
	app.Cache = cache.NewRedisCache(client)
	app.Limiter = ratelimit.NewRedisStore(client)
	app.Logger.Info("cache_backend_selected", slog.String("backend", "redis"))
	return nil
}

func (app *App) openStore(ctx context.Context) error {
	cfg := app.Config

	switch cfg.DatabaseProvider {
	case config.ProviderPostgres:
		if err := migration.RunUp(migration.DialectPostgres, cfg.DatabaseURL, cfg.MigrationPath, app.Logger); err != nil {
			return fmt.Errorf("app: migrate postgres: %w", err)
		}
		pool, err := pgstore.NewPool(ctx, cfg.DatabaseURL, app.Logger)
		if err != nil {
			return fmt.Errorf("app: connect to postgres: %w", err)
		}
		app.pool = pool
		app.Repository = ranking.NewPostgresRepository(pool)

	case config.ProviderSQLite:
		if err := migration.RunUp(migration.DialectSQLite, cfg.SQLitePath, cfg.MigrationPath, app.Logger); err != nil {
			return fmt.Errorf("app: migrate sqlite: %w", err)
		}
		db, err := sqlite.Open(ctx, cfg.SQLitePath, app.Logger)
		if err != nil {
			return fmt.Errorf("app: open sqlite: %w", err)
		}
		app.sqliteDB = db
		app.Repository = ranking.NewSQLiteRepository(db)

	default:
		app.Logger.Warn("snapshot_store_disabled", slog.String("provider", cfg.DatabaseProvider))
	}

	return nil
}

func loadManifest(cfg *config.Config) (ranking.Manifest, error) {
	if cfg.ManifestPath == "" {
		manifest, err := ranking.DefaultManifest()
		if err != nil {
			return nil, fmt.Errorf("app: embedded manifest: %w", err)
		}
		return manifest, nil
	}

	// Fail fast on a bad path; the file is re-read on every pass afterwards.
	manifest := ranking.FileManifest{Path: cfg.ManifestPath}
	if _, err := os.Stat(cfg.ManifestPath); err != nil {
		return nil, fmt.Errorf("app: manifest: %w", err)
	}
	return manifest, nil
}

// Migrate applies pending migrations for the configured provider.
func Migrate(cfg *config.Config, logger *slog.Logger) error {
	switch cfg.DatabaseProvider {
	case config.ProviderPostgres:
		return migration.RunUp(migration.DialectPostgres, cfg.DatabaseURL, cfg.MigrationPath, logger)
	case config.ProviderSQLite:
		return migration.RunUp(migration.DialectSQLite, cfg.SQLitePath, cfg.MigrationPath, logger)
	default:
		return errors.New("app: no database provider configured")
	}
}

// RunBackground starts maintenance loops that live until ctx ends.
func (app *App) RunBackground(ctx context.Context) {
	if app.memoryLimiter != nil {
		go app.memoryLimiter.RunSweeper(ctx, constants.RateLimitCleanupInterval)
	}
}

// CheckDatabase pings the snapshot store, or nil when none is configured.
// A store that failed to open keeps reporting that failure.
func (app *App) CheckDatabase() func(ctx context.Context) error {
	if app.storeErr != nil {
		return failed(app.storeErr)
	}
	if app.Repository == nil {
		return nil
	}
	return app.Repository.Ping
}

// CheckCache pings Redis, or nil when the in-process cache was chosen.
// A Redis that failed to connect keeps reporting that failure.
func (app *App) CheckCache() func(ctx context.Context) error {
	if app.cacheErr != nil {
		return failed(app.cacheErr)
	}
	if app.Redis == nil {
		return nil
	}
	return func(ctx context.Context) error {
		return redisstore.Ping(ctx, app.Redis)
	}
}

func failed(err error) func(ctx context.Context) error {
	return func(context.Context) error { return err }
}

// Close waits for background persistence, then closes every connection.
func (app *App) Close() {
	if app.Aggregator != nil {
		app.Aggregator.Wait()
	}

	if app.pool != nil {
		app.Logger.Info("closing postgres pool")
		app.pool.Close()
	}
	if app.sqliteDB != nil {
		app.Logger.Info("closing sqlite database")
		if err := app.sqliteDB.Close(); err != nil {
			app.Logger.Error("sqlite close error", slog.Any("error", err))
		}
	}
	if app.Redis != nil {
		app.Logger.Info("closing redis client")
		if err := app.Redis.Close(); err != nil {
			app.Logger.Error("redis close error", slog.Any("error", err))
		}
	}
}
