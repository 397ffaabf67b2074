// Copyright (c) 2026 Husbandometrics. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the Husbandometrics HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Wire store, cache, fetchers and service (internal/app).
//  4. Schedule the weekly refresh job.
//  5. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/taibuivan/husbandometrics/internal/api"
	"github.com/taibuivan/husbandometrics/internal/app"
	"github.com/taibuivan/husbandometrics/internal/platform/config"
	"github.com/taibuivan/husbandometrics/internal/platform/constants"
	"github.com/taibuivan/husbandometrics/internal/platform/middleware"
	"github.com/taibuivan/husbandometrics/internal/ranking"
	"github.com/taibuivan/husbandometrics/internal/scheduler"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	log := newLogger(slog.LevelInfo)
	slog.SetDefault(log)

	log.Info("[Husbandometrics] service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		log = newLogger(slog.LevelDebug)
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.String("database_provider", cfg.DatabaseProvider),
	)

	// Root context for startup. Use a 30s deadline so misconfiguration is
	// caught quickly rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 3. Runtime graph ──────────────────────────────────────────────────
	runtime, err := app.New(startupCtx, cfg, log)
	must(log, err, "wire application")
	defer runtime.Close()

	backgroundCtx, stopBackground := context.WithCancel(context.Background())
	defer stopBackground()
	runtime.RunBackground(backgroundCtx)

	// ── 4. Refresh job ────────────────────────────────────────────────────
	var job *scheduler.Scheduler
	if cfg.DisableJobs {
		log.Info("refresh_job_disabled")
	} else {
		job, err = scheduler.New(cfg.RefreshSchedule, runtime.Service, constants.GlobalRequestTimeout, log)
		if err != nil {
			// os.Exit skips deferred calls.
			runtime.Close()
			must(log, err, "schedule refresh job")
		}
		job.Start()
	}

	// ── 5. HTTP handlers ──────────────────────────────────────────────────
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: runtime.CheckDatabase(),
		CheckCache:    runtime.CheckCache(),
	}, log)

	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Metrics:   runtime.Metrics.Handler(),
		Rankings:  ranking.NewHandler(runtime.Service, cfg.RefreshToken),
		RateLimit: middleware.RateLimit(middleware.RateLimitOptions{
			Store:   runtime.Limiter,
			Limit:   cfg.RateLimit,
			Window:  cfg.RateLimitWindow(),
			Metrics: runtime.Metrics,
		}),
	}

	server := api.NewServer(cfg, log, handlers)

	// ── 6. Graceful Shutdown ──────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
	}

	// Give in-flight requests enough time to complete.
	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))

	if job != nil {
		stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		job.Stop(stopCtx)
		cancel()
	}

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
	}

	// Close drains background persistence before releasing connections.
	log.Info("server stopped cleanly")
}

// newLogger builds the JSON logger with the application attribute attached.
func newLogger(level slog.Level) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return slog.New(handler).With(slog.String("app", constants.AppName))
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is intentionally limited to startup wiring. After startup, all errors
// must be returned and handled explicitly (never panic).
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
