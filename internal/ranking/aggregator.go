// Copyright (c) 2026 Husbandometrics. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package ranking

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/taibuivan/husbandometrics/internal/metric"
	"github.com/taibuivan/husbandometrics/internal/platform/constants"
	"github.com/taibuivan/husbandometrics/internal/platform/metrics"
	"github.com/taibuivan/husbandometrics/internal/source"
	"github.com/taibuivan/husbandometrics/pkg/pointer"
)

// AggregatorOptions wires an [Aggregator]. Repository may be nil.
type AggregatorOptions struct {
	Manifest   Manifest
	Fetchers   []source.Fetcher
	Repository Repository
	Weights    Weights
	Logger     *slog.Logger
	Metrics    *metrics.Metrics

	// Now is overridable for tests.
	Now func() time.Time
}

// Aggregator runs complete scoring passes over the manifest.
type Aggregator struct {
	manifest   Manifest
	fetchers   []source.Fetcher
	repository Repository
	weights    Weights
	logger     *slog.Logger
	metrics    *metrics.Metrics
	now        func() time.Time

	// background tracks in-flight persistence.
	background sync.WaitGroup
}

func NewAggregator(options AggregatorOptions) *Aggregator {
	if options.Logger == nil {
		options.Logger = slog.Default()
	}
	if options.Now == nil {
		options.Now = time.Now
	}

	return &Aggregator{
		manifest:   options.Manifest,
		fetchers:   options.Fetchers,
		repository: options.Repository,
		weights:    options.Weights,
		logger:     options.Logger,
		metrics:    options.Metrics,
		now:        options.Now,
	}
}

/*
Aggregate runs one full pass and returns a fresh payload.

Source and store failures never surface here; they degrade to synthetic
values or live mode. The only error is a manifest that cannot be loaded.
Cancelling ctx does not abort the pass; its values are kept for logging.
*/
func (aggregator *Aggregator) Aggregate(ctx context.Context) (*Payload, error) {
	started := time.Now()

	// A started pass is never cut short by its caller. Only the per-source
	// client timeouts bound an upstream call.
	ctx = context.WithoutCancel(ctx)

	// 1. Load the manifest for this pass
	seeds, err := aggregator.manifest.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("ranking: load manifest: %w", err)
	}

	// 2. Prefer persisted scores when every character has one
	state := aggregator.hydrate(ctx, seeds)

	var characters []RankedCharacter
	mode := ModeLive
	if state.complete {
		mode = ModeDatabase
		characters = hydrated(seeds, state.latest)
	} else {
		characters = aggregator.live(ctx, seeds, state.latest)
	}

	// 3. Stable sort keeps manifest order between equal totals
	slices.SortStableFunc(characters, func(a, b RankedCharacter) int {
		switch {
		case a.WeightedTotal > b.WeightedTotal:
			return -1
		case a.WeightedTotal < b.WeightedTotal:
			return 1
		default:
			return 0
		}
	})
	for i := range characters {
		characters[i].Rank = i + 1
	}

	payload := &Payload{
		Metadata: Metadata{
			UpdatedAt: aggregator.now().UTC(),
			Weights:   aggregator.weights,
			Mode:      mode,
		},
		Characters: characters,
	}

	// 4. Persist without holding up the response
	aggregator.persist(ctx, characters)

	aggregator.metrics.ObserveAggregation(string(mode), time.Since(started))
	aggregator.logger.InfoContext(ctx, "rankings_aggregated",
		slog.String("mode", string(mode)),
		slog.Int("characters", len(characters)),
		slog.Int64("took_ms", time.Since(started).Milliseconds()),
	)

	return payload, nil
}

// live fetches every source for every seed concurrently.
func (aggregator *Aggregator) live(ctx context.Context, seeds []Seed, latest map[string]Snapshot) []RankedCharacter {
	characters := make([]RankedCharacter, len(seeds))

	var group sync.WaitGroup
	for i, seed := range seeds {
		group.Add(1)
		go func() {
			defer group.Done()

			breakdown := aggregator.breakdown(ctx, seed.Name)
			total := aggregator.weights.Total(breakdown)

			characters[i] = RankedCharacter{
				Character:     seed.Character(),
				Scores:        breakdown,
				WeightedTotal: total,
				Trend:         ComputeTrend(total, previousTotal(seed, latest)),
			}
		}()
	}
	group.Wait()

	return characters
}

// breakdown fans out to all fetchers and waits for every one of them.
func (aggregator *Aggregator) breakdown(ctx context.Context, query string) ScoreBreakdown {
	results := make([]source.Result, len(aggregator.fetchers))

	var group sync.WaitGroup
	for i, fetcher := range aggregator.fetchers {
		group.Add(1)
		go func() {
			defer group.Done()
			results[i] = fetcher.Fetch(ctx, query)
		}()
	}
	group.Wait()

	var breakdown ScoreBreakdown
	for _, result := range results {
		breakdown.Set(result.Source, metric.Normalize(result.Source, result.Value))
	}
	return breakdown
}

// previousTotal is the latest persisted total, else the manifest seed.
func previousTotal(seed Seed, latest map[string]Snapshot) *float64 {
	if snapshot, found := latest[seed.ID]; found {
		return pointer.To(snapshot.WeightedTotal)
	}
	return seed.WeightedTotal
}

// persist writes identity rows then one snapshot per character in the
// background. Failures are logged and counted, never returned.
func (aggregator *Aggregator) persist(ctx context.Context, characters []RankedCharacter) {
	if aggregator.repository == nil || len(characters) == 0 {
		return
	}

	identities := make([]Character, len(characters))
	snapshots := make([]Snapshot, len(characters))
	for i, character := range characters {
		identities[i] = character.Character
		snapshots[i] = snapshotOf(character)
	}

	// Detach from the request so a finished response does not cancel the write.
	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), constants.PersistTimeout)

	aggregator.background.Add(1)
	go func() {
		defer aggregator.background.Done()
		defer cancel()

		if err := aggregator.repository.UpsertCharacters(writeCtx, identities); err != nil {
			aggregator.persistFailed(writeCtx, "upsert_characters", err)
			return
		}
		if err := aggregator.repository.AppendSnapshots(writeCtx, snapshots); err != nil {
			aggregator.persistFailed(writeCtx, "append_snapshots", err)
			return
		}

		aggregator.logger.DebugContext(writeCtx, "rankings_persisted", slog.Int("characters", len(snapshots)))
	}()
}

func (aggregator *Aggregator) persistFailed(ctx context.Context, step string, err error) {
	aggregator.metrics.IncPersistFailure()
	aggregator.logger.ErrorContext(ctx, "rankings_persist_failed",
		slog.String("step", step),
		slog.Any("error", err),
	)
}

// Wait blocks until all background persistence has finished.
func (aggregator *Aggregator) Wait() {
	aggregator.background.Wait()
}

// Ping reports store reachability; nil when no store is configured.
func (aggregator *Aggregator) Ping(ctx context.Context) error {
	if aggregator.repository == nil {
		return nil
	}
	return aggregator.repository.Ping(ctx)
}
