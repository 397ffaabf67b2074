// Copyright (c) 2026 Husbandometrics. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (store, cache, fetchers) via constructors.
  - Zero Hidden State: No global variables are used to store config.
*/
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/robfig/cron/v3"

	"github.com/taibuivan/husbandometrics/internal/metric"
)

// # Database Providers

const (
	ProviderNone     = "none"
	ProviderPostgres = "postgres"
	ProviderSQLite   = "sqlite"
)

// # Configuration Schema

// Config holds all runtime configuration for the rankings API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"PORT"         envDefault:"3001"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Backing store. DatabaseProvider selects the SQL dialect.
	DatabaseProvider string `env:"DATABASE_PROVIDER" envDefault:"none"`
	DatabaseURL      string `env:"DATABASE_URL"`
	SQLitePath       string `env:"SQLITE_PATH"       envDefault:"./.data/husbandometrics.db"`

	// MigrationPath overrides the embedded migrations; the dialect name is appended.
	MigrationPath string `env:"MIGRATION_PATH"`

	// Key-Value Cache (Redis). Empty selects the in-process cache.
	RedisURL        string `env:"REDIS_URL"`
	CacheTTLSeconds int    `env:"CACHE_TTL_SECONDS" envDefault:"900"`

	// Rate limiting (fixed window)
	RateLimit         int `env:"RATE_LIMIT"           envDefault:"100"`
	RateLimitWindowMs int `env:"RATE_LIMIT_WINDOW_MS" envDefault:"60000"`

	// RefreshToken guards POST /api/rankings/refresh when set.
	RefreshToken string `env:"REFRESH_TOKEN"`

	// ManifestPath points at a YAML or JSON character manifest.
	ManifestPath string `env:"MANIFEST_PATH"`

	// Background jobs
	DisableJobs     bool   `env:"DISABLE_JOBS"     envDefault:"false"`
	RefreshSchedule string `env:"REFRESH_SCHEDULE" envDefault:"0 4 * * 1"`

	Weights Weights

	Sources Sources

	// Cross-Origin Resource Sharing
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:","`
}

// Weights is the per-source weighting of the normalized breakdown.
type Weights struct {
	Pixiv        float64 `env:"WEIGHT_PIXIV"         envDefault:"0.35"`
	AO3          float64 `env:"WEIGHT_AO3"           envDefault:"0.25"`
	GoogleTrends float64 `env:"WEIGHT_GOOGLE_TRENDS" envDefault:"0.2"`
	Danbooru     float64 `env:"WEIGHT_DANBOORU"      envDefault:"0.1"`
	Twitter      float64 `env:"WEIGHT_TWITTER"       envDefault:"0.1"`
}

// Sources holds upstream endpoints and credentials.
type Sources struct {
	PixivToken         string `env:"PIXIV_TOKEN"`
	PixivBaseURL       string `env:"PIXIV_BASE_URL"       envDefault:"https://www.pixiv.net"`
	AO3BaseURL         string `env:"AO3_BASE_URL"         envDefault:"https://archiveofourown.org"`
	GoogleTrendsProxy  string `env:"GOOGLE_TRENDS_PROXY"`
	DanbooruToken      string `env:"DANBOORU_API_KEY"`
	DanbooruBaseURL    string `env:"DANBOORU_BASE_URL"    envDefault:"https://danbooru.donmai.us"`
	TwitterBearerToken string `env:"TWITTER_BEARER_TOKEN"`
	TwitterBaseURL     string `env:"TWITTER_BASE_URL"     envDefault:"https://api.x.com"`

	// Timeout bounds every single upstream call.
	Timeout time.Duration `env:"SOURCE_TIMEOUT" envDefault:"8s"`

	// RequestsPerSecond throttles outbound calls per source.
	RequestsPerSecond float64 `env:"SOURCE_RPS" envDefault:"5"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// Use the 'env' package to map environment variables to struct fields.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate enforces cross-field rules the env tags cannot express.
func (c *Config) validate() error {
	switch c.DatabaseProvider {
	case ProviderNone, ProviderSQLite:
	case ProviderPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("config: DATABASE_URL is required for provider %q", c.DatabaseProvider)
		}
	default:
		return fmt.Errorf("config: unknown DATABASE_PROVIDER %q", c.DatabaseProvider)
	}

	for source, weight := range c.Weights.Map() {
		if weight < 0 {
			return fmt.Errorf("config: weight for %s must be non-negative, got %v", source, weight)
		}
	}

	if c.RateLimit <= 0 || c.RateLimitWindowMs <= 0 {
		return fmt.Errorf("config: rate limit and window must be positive")
	}

	if !c.DisableJobs {
		if _, err := cron.ParseStandard(c.RefreshSchedule); err != nil {
			return fmt.Errorf("config: invalid REFRESH_SCHEDULE %q: %w", c.RefreshSchedule, err)
		}
	}

	return nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// CacheTTL returns the rankings TTL as a duration.
func (c *Config) CacheTTL() time.Duration {
	if c.CacheTTLSeconds <= 0 {
		return 900 * time.Second
	}
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

// RateLimitWindow returns the fixed window length as a duration.
func (c *Config) RateLimitWindow() time.Duration {
	return time.Duration(c.RateLimitWindowMs) * time.Millisecond
}

// Map returns the weights keyed by source.
func (w Weights) Map() map[metric.Source]float64 {
	return map[metric.Source]float64{
		metric.SourcePixiv:        w.Pixiv,
		metric.SourceAO3:          w.AO3,
		metric.SourceGoogleTrends: w.GoogleTrends,
		metric.SourceDanbooru:     w.Danbooru,
		metric.SourceTwitter:      w.Twitter,
	}
}
