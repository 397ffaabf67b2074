// Copyright (c) 2026 Husbandometrics. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package ranking

import (
	"context"
	"log/slog"

	"github.com/taibuivan/husbandometrics/internal/platform/constants"
	"github.com/taibuivan/husbandometrics/pkg/slice"
)

// hydration is the store read made at the start of every pass.
type hydration struct {
	// latest holds whatever snapshots were found, even for a partial read.
	latest map[string]Snapshot
	// complete is true when every manifest id has a snapshot.
	complete bool
}

/*
hydrate reads the latest snapshot for each seed.

The read is all-or-nothing: hydration only counts as successful when the
store answers and every id has a row. A partial result is still returned so
live mode can use it as the trend baseline.
*/
func (aggregator *Aggregator) hydrate(ctx context.Context, seeds []Seed) hydration {
	if aggregator.repository == nil || len(seeds) == 0 {
		return hydration{}
	}

	ids := slice.Map(seeds, func(seed Seed) string { return seed.ID })

	readCtx, cancel := context.WithTimeout(ctx, constants.StoreReadTimeout)
	defer cancel()

	latest, err := aggregator.repository.LatestSnapshots(readCtx, ids)
	if err != nil {
		aggregator.logger.WarnContext(ctx, "hydration_store_unavailable", slog.Any("error", err))
		return hydration{}
	}

	for _, id := range ids {
		if _, found := latest[id]; !found {
			aggregator.logger.DebugContext(ctx, "hydration_incomplete",
				slog.Int("requested", len(ids)),
				slog.Int("found", len(latest)),
			)
			return hydration{latest: latest}
		}
	}

	return hydration{latest: latest, complete: true}
}

// hydrated builds the pass from persisted rows only.
//
// The stored total is both the current value and the trend reference, so
// hydrated characters always report STABLE. Comparing against the
// second-most-recent snapshot would change observable output.
func hydrated(seeds []Seed, latest map[string]Snapshot) []RankedCharacter {
	characters := make([]RankedCharacter, len(seeds))
	for i, seed := range seeds {
		snapshot := latest[seed.ID]
		total := snapshot.WeightedTotal

		characters[i] = RankedCharacter{
			Character:     seed.Character(),
			Scores:        snapshot.Breakdown(),
			WeightedTotal: total,
			Trend:         ComputeTrend(total, &total),
		}
	}
	return characters
}
