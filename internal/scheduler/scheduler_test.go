// Copyright (c) 2026 Husbandometrics. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package scheduler_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/husbandometrics/internal/ranking"
	"github.com/taibuivan/husbandometrics/internal/scheduler"
)

type fakeRefresher struct {
	calls atomic.Int32
	err   error
	panic bool
}

func (refresher *fakeRefresher) Refresh(ctx context.Context) (*ranking.Payload, error) {
	refresher.calls.Add(1)
	if refresher.panic {
		panic("upstream exploded")
	}
	if refresher.err != nil {
		return nil, refresher.err
	}
	return &ranking.Payload{Metadata: ranking.Metadata{Mode: ranking.ModeLive}}, nil
}

func bufferLogger() (*slog.Logger, *bytes.Buffer) {
	var buffer bytes.Buffer
	return slog.New(slog.NewJSONHandler(&buffer, nil)), &buffer
}

func TestNew_InvalidSchedule(t *testing.T) {
	logger, _ := bufferLogger()
	_, err := scheduler.New("every monday", &fakeRefresher{}, 0, logger)
	assert.Error(t, err)
}

/*
TestRun_Outcomes checks that success, failure and panic all return normally
and leave a log line behind.
*/
func TestRun_Outcomes(t *testing.T) {
	tests := []struct {
		name      string
		refresher *fakeRefresher
		event     string
	}{
		{"success", &fakeRefresher{}, "refresh_job_completed"},
		{"error", &fakeRefresher{err: errors.New("manifest unreadable")}, "refresh_job_failed"},
		{"panic", &fakeRefresher{panic: true}, "refresh_job_panic"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, buffer := bufferLogger()
			job, err := scheduler.New("0 4 * * 1", tt.refresher, time.Second, logger)
			require.NoError(t, err)

			assert.NotPanics(t, func() { job.Run(context.Background()) })
			assert.Equal(t, int32(1), tt.refresher.calls.Load())
			assert.Contains(t, buffer.String(), tt.event)
		})
	}
}

/*
TestStart_NextRunInUTC verifies the weekly default lands on a Monday 04:00 UTC.
*/
func TestStart_NextRunInUTC(t *testing.T) {
	logger, _ := bufferLogger()
	job, err := scheduler.New("0 4 * * 1", &fakeRefresher{}, 0, logger)
	require.NoError(t, err)

	job.Start()
	defer job.Stop(context.Background())

	next := job.Next().UTC()
	assert.Equal(t, time.Monday, next.Weekday())
	assert.Equal(t, 4, next.Hour())
	assert.Equal(t, 0, next.Minute())
	assert.True(t, next.After(time.Now()))
}

func TestStop_WaitsForContext(t *testing.T) {
	logger, _ := bufferLogger()
	job, err := scheduler.New("@every 1h", &fakeRefresher{}, 0, logger)
	require.NoError(t, err)

	job.Start()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	job.Stop(ctx)
}
