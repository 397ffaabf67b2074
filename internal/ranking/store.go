// Copyright (c) 2026 Husbandometrics. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package ranking

import (
	"context"
	"time"

	"github.com/taibuivan/husbandometrics/pkg/pointer"
)

// Snapshot is one persisted record of a character's scores. Score fields
// are nullable in storage; nil reads as 0.
type Snapshot struct {
	CharacterID   string
	Pixiv         *float64
	AO3           *float64
	GoogleTrends  *float64
	Danbooru      *float64
	Twitter       *float64
	WeightedTotal float64
	RecordedAt    time.Time
}

// Breakdown rebuilds the score breakdown, defaulting missing fields to 0.
func (snapshot Snapshot) Breakdown() ScoreBreakdown {
	return ScoreBreakdown{
		Pixiv:        pointer.Val(snapshot.Pixiv),
		AO3:          pointer.Val(snapshot.AO3),
		GoogleTrends: pointer.Val(snapshot.GoogleTrends),
		Danbooru:     pointer.Val(snapshot.Danbooru),
		Twitter:      pointer.Val(snapshot.Twitter),
	}
}

// snapshotOf captures a ranked character for persistence.
func snapshotOf(character RankedCharacter) Snapshot {
	scores := character.Scores
	return Snapshot{
		CharacterID:   character.ID,
		Pixiv:         pointer.To(scores.Pixiv),
		AO3:           pointer.To(scores.AO3),
		GoogleTrends:  pointer.To(scores.GoogleTrends),
		Danbooru:      pointer.To(scores.Danbooru),
		Twitter:       pointer.To(scores.Twitter),
		WeightedTotal: character.WeightedTotal,
	}
}

// Repository is the snapshot store. Both SQL dialects implement it and the
// aggregator depends on nothing else.
type Repository interface {
	// UpsertCharacters inserts or updates identity rows by id.
	UpsertCharacters(ctx context.Context, characters []Character) error

	// AppendSnapshots inserts one new row per snapshot. Rows are never updated.
	AppendSnapshots(ctx context.Context, snapshots []Snapshot) error

	// LatestSnapshots returns the most recent snapshot for each id that has one.
	LatestSnapshots(ctx context.Context, ids []string) (map[string]Snapshot, error)

	// Ping reports whether the store is reachable.
	Ping(ctx context.Context) error
}
