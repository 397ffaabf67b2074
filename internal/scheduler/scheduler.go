// Copyright (c) 2026 Husbandometrics. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package scheduler runs the periodic rankings refresh.

The job calls the same refresh path as POST /api/rankings/refresh. Errors
and panics are logged and swallowed; a failed run never stops the process
or the schedule.
*/
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/taibuivan/husbandometrics/internal/ranking"
)

// Refresher is satisfied by [ranking.Service].
type Refresher interface {
	Refresh(ctx context.Context) (*ranking.Payload, error)
}

// Scheduler owns the cron runner. All schedules are evaluated in UTC.
type Scheduler struct {
	cron      *cron.Cron
	refresher Refresher
	logger    *slog.Logger
	timeout   time.Duration
	entry     cron.EntryID
}

/*
New registers the refresh job on spec, a standard five-field cron
expression.

Parameters:
  - spec: string (e.g. "0 4 * * 1" for Mondays 04:00 UTC)
  - refresher: Refresher
  - timeout: time.Duration (Upper bound for one run; 0 means none)
  - logger: *slog.Logger

Returns:
  - *Scheduler: Not yet started
  - error: When spec does not parse
*/
func New(spec string, refresher Refresher, timeout time.Duration, logger *slog.Logger) (*Scheduler, error) {
	scheduler := &Scheduler{
		cron:      cron.New(cron.WithLocation(time.UTC)),
		refresher: refresher,
		logger:    logger,
		timeout:   timeout,
	}

	entry, err := scheduler.cron.AddFunc(spec, func() { scheduler.Run(context.Background()) })
	if err != nil {
		return nil, fmt.Errorf("scheduler: invalid schedule %q: %w", spec, err)
	}
	scheduler.entry = entry

	return scheduler, nil
}

// Start begins firing the job in the background.
func (scheduler *Scheduler) Start() {
	scheduler.cron.Start()
	scheduler.logger.Info("refresh_job_scheduled", slog.Time("next_run", scheduler.Next()))
}

// Stop prevents further runs and waits for a running job until ctx ends.
func (scheduler *Scheduler) Stop(ctx context.Context) {
	done := scheduler.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		scheduler.logger.Warn("refresh_job_stop_timeout")
	}
}

// Next is the next scheduled run, or the zero time before Start.
func (scheduler *Scheduler) Next() time.Time {
	return scheduler.cron.Entry(scheduler.entry).Next
}

// Run executes one refresh. It is what the cron entry calls.
func (scheduler *Scheduler) Run(ctx context.Context) {
	defer func() {
		if recovered := recover(); recovered != nil {
			scheduler.logger.Error("refresh_job_panic", slog.Any("panic", recovered))
		}
	}()

	if scheduler.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, scheduler.timeout)
		defer cancel()
	}

	started := time.Now()
	payload, err := scheduler.refresher.Refresh(ctx)
	if err != nil {
		scheduler.logger.ErrorContext(ctx, "refresh_job_failed", slog.Any("error", err))
		return
	}

	scheduler.logger.InfoContext(ctx, "refresh_job_completed",
		slog.Int("characters", len(payload.Characters)),
		slog.String("mode", string(payload.Metadata.Mode)),
		slog.Int64("took_ms", time.Since(started).Milliseconds()),
	)
}
