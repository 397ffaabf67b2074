// Copyright (c) 2026 Husbandometrics. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package ranking_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/taibuivan/husbandometrics/internal/metric"
	"github.com/taibuivan/husbandometrics/internal/ranking"
	"github.com/taibuivan/husbandometrics/internal/source"
	"github.com/taibuivan/husbandometrics/pkg/pointer"
)

var fixedNow = time.Date(2026, 3, 2, 4, 0, 0, 0, time.UTC)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func defaultWeights() ranking.Weights {
	return ranking.Weights{Pixiv: 0.35, AO3: 0.25, GoogleTrends: 0.2, Danbooru: 0.1, Twitter: 0.1}
}

func float(v float64) *float64 { return pointer.To(v) }

// # Fetchers

// stubFetcher answers with a fixed raw value per query, or fallback when
// the query is unknown.
type stubFetcher struct {
	source   metric.Source
	values   map[string]float64
	fallback float64
}

func (fetcher stubFetcher) Source() metric.Source { return fetcher.source }

func (fetcher stubFetcher) Fetch(_ context.Context, query string) source.Result {
	if value, ok := fetcher.values[query]; ok {
		return source.Result{Source: fetcher.source, Value: value}
	}
	return source.Result{Source: fetcher.source, Value: fetcher.fallback, Synthetic: true}
}

// rawFetchers returns one stub per source with the same raw value for
// every query.
func rawFetchers(pixiv, ao3, google, danbooru, twitter float64) []source.Fetcher {
	return []source.Fetcher{
		stubFetcher{source: metric.SourcePixiv, fallback: pixiv},
		stubFetcher{source: metric.SourceAO3, fallback: ao3},
		stubFetcher{source: metric.SourceGoogleTrends, fallback: google},
		stubFetcher{source: metric.SourceDanbooru, fallback: danbooru},
		stubFetcher{source: metric.SourceTwitter, fallback: twitter},
	}
}

// # Repository

type fakeRepository struct {
	mu        sync.Mutex
	latest    map[string]ranking.Snapshot
	readErr   error
	writeErr  error
	upserted  [][]ranking.Character
	appended  [][]ranking.Snapshot
	readCalls int
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{latest: map[string]ranking.Snapshot{}}
}

func (repository *fakeRepository) UpsertCharacters(_ context.Context, characters []ranking.Character) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	if repository.writeErr != nil {
		return repository.writeErr
	}
	repository.upserted = append(repository.upserted, characters)
	return nil
}

func (repository *fakeRepository) AppendSnapshots(_ context.Context, snapshots []ranking.Snapshot) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	if repository.writeErr != nil {
		return repository.writeErr
	}
	repository.appended = append(repository.appended, snapshots)
	return nil
}

func (repository *fakeRepository) LatestSnapshots(_ context.Context, ids []string) (map[string]ranking.Snapshot, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	repository.readCalls++
	if repository.readErr != nil {
		return nil, repository.readErr
	}

	found := make(map[string]ranking.Snapshot)
	for _, id := range ids {
		if snapshot, ok := repository.latest[id]; ok {
			found[id] = snapshot
		}
	}
	return found, nil
}

func (repository *fakeRepository) Ping(context.Context) error {
	return repository.readErr
}

func (repository *fakeRepository) writes() (upserts, appends int) {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	return len(repository.upserted), len(repository.appended)
}

// # Pipeline

// countingPipeline returns a fixed payload and counts invocations.
type countingPipeline struct {
	mu      sync.Mutex
	payload *ranking.Payload
	err     error
	calls   int
}

func (pipeline *countingPipeline) Aggregate(context.Context) (*ranking.Payload, error) {
	pipeline.mu.Lock()
	defer pipeline.mu.Unlock()
	pipeline.calls++
	if pipeline.err != nil {
		return nil, pipeline.err
	}
	return pipeline.payload, nil
}

func (pipeline *countingPipeline) Calls() int {
	pipeline.mu.Lock()
	defer pipeline.mu.Unlock()
	return pipeline.calls
}

func samplePayload() *ranking.Payload {
	return &ranking.Payload{
		Metadata: ranking.Metadata{UpdatedAt: fixedNow, Weights: defaultWeights(), Mode: ranking.ModeLive},
		Characters: []ranking.RankedCharacter{
			{
				Character: ranking.Character{
					ID: "gojo-satoru", Name: "Gojo Satoru", NameJP: "五条悟",
					Aliases: []string{"Gojo"}, Source: "Jujutsu Kaisen", SourceType: ranking.SourceTypeAnime,
				},
				WeightedTotal: 93.4, Trend: ranking.TrendRising, Rank: 1,
			},
			{
				Character: ranking.Character{
					ID: "aventurine", Name: "Aventurine", NameJP: "アベンチュリン",
					Source: "Honkai: Star Rail", SourceType: ranking.SourceTypeGame,
				},
				WeightedTotal: 87.9, Trend: ranking.TrendStable, Rank: 2,
			},
			{
				Character: ranking.Character{
					ID: "levi-ackerman", Name: "Levi Ackerman", NameJP: "リヴァイ",
					Romaji: "Rivai", Source: "Attack on Titan", SourceType: ranking.SourceTypeManga,
				},
				WeightedTotal: 74, Trend: ranking.TrendFalling, Rank: 3,
			},
		},
	}
}
