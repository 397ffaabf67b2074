// Copyright (c) 2026 Husbandometrics. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package ranking turns the character manifest into a scored, trended and
ranked list.

Control flow for one pass:

	manifest → hydrate from store? ─yes→ persisted scores (mode=database)
	                               └no─→ fan out fetchers → normalize (mode=live)
	       → weighted total → trend → stable sort → rank → persist (background)

[Service] sits in front of the [Aggregator] and owns the rankings cache.
*/
package ranking

import (
	"strings"
	"time"

	"github.com/taibuivan/husbandometrics/internal/metric"
	"github.com/taibuivan/husbandometrics/internal/platform/config"
)

// # Enumerations

// SourceType is the medium a character originates from.
type SourceType string

const (
	SourceTypeAnime SourceType = "ANIME"
	SourceTypeGame  SourceType = "GAME"
	SourceTypeManga SourceType = "MANGA"
)

// ParseSourceType upper-cases raw and falls back to ANIME for anything unknown.
func ParseSourceType(raw string) SourceType {
	switch candidate := SourceType(strings.ToUpper(strings.TrimSpace(raw))); candidate {
	case SourceTypeAnime, SourceTypeGame, SourceTypeManga:
		return candidate
	default:
		return SourceTypeAnime
	}
}

// Trend compares the current weighted total with the previous one.
type Trend string

const (
	TrendRising  Trend = "RISING"
	TrendFalling Trend = "FALLING"
	TrendStable  Trend = "STABLE"
)

// Mode reports where a pass got its scores from.
type Mode string

const (
	ModeLive     Mode = "live"
	ModeDatabase Mode = "database"
)

// # Entities

// Character is the identity and display record of a tracked character.
type Character struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	NameJP     string     `json:"name_jp"`
	Romaji     string     `json:"romaji,omitempty"`
	Aliases    []string   `json:"aliases,omitempty"`
	Source     string     `json:"source"`
	SourceType SourceType `json:"source_type"`
	ImageURL   string     `json:"image_url"`
}

// ScoreBreakdown holds one normalized score per source. Every field is
// always present; a missing source scores 0.
type ScoreBreakdown struct {
	Pixiv        float64 `json:"pixiv"`
	AO3          float64 `json:"ao3"`
	GoogleTrends float64 `json:"google_trends"`
	Danbooru     float64 `json:"danbooru"`
	Twitter      float64 `json:"twitter"`
}

// Set assigns the score for source. Unknown sources are ignored.
func (breakdown *ScoreBreakdown) Set(source metric.Source, score float64) {
	switch source {
	case metric.SourcePixiv:
		breakdown.Pixiv = score
	case metric.SourceAO3:
		breakdown.AO3 = score
	case metric.SourceGoogleTrends:
		breakdown.GoogleTrends = score
	case metric.SourceDanbooru:
		breakdown.Danbooru = score
	case metric.SourceTwitter:
		breakdown.Twitter = score
	}
}

// Weights is the per-source multiplier applied to a [ScoreBreakdown].
// Weights need not sum to 1, so totals may exceed 100.
type Weights struct {
	Pixiv        float64 `json:"pixiv"`
	AO3          float64 `json:"ao3"`
	GoogleTrends float64 `json:"google_trends"`
	Danbooru     float64 `json:"danbooru"`
	Twitter      float64 `json:"twitter"`
}

// WeightsFromConfig copies the configured weights.
func WeightsFromConfig(cfg config.Weights) Weights {
	return Weights{
		Pixiv:        cfg.Pixiv,
		AO3:          cfg.AO3,
		GoogleTrends: cfg.GoogleTrends,
		Danbooru:     cfg.Danbooru,
		Twitter:      cfg.Twitter,
	}
}

// Total is the plain dot product of breakdown and weights, rounded to two
// decimals. It is not divided by the weight sum.
func (weights Weights) Total(breakdown ScoreBreakdown) float64 {
	// Each product is converted explicitly so it is rounded before the
	// sum; fused multiply-add would change the last bits on some targets.
	total := float64(breakdown.Pixiv*weights.Pixiv) +
		float64(breakdown.AO3*weights.AO3) +
		float64(breakdown.GoogleTrends*weights.GoogleTrends) +
		float64(breakdown.Danbooru*weights.Danbooru) +
		float64(breakdown.Twitter*weights.Twitter)

	return metric.Round2(total)
}

// RankedCharacter is a character joined with its scores for one pass.
type RankedCharacter struct {
	Character
	Scores        ScoreBreakdown `json:"scores"`
	WeightedTotal float64        `json:"weighted_total"`
	Trend         Trend          `json:"trend"`
	Rank          int            `json:"rank"`
}

// Metadata describes how a payload was produced.
type Metadata struct {
	UpdatedAt time.Time `json:"updated_at"`
	Weights   Weights   `json:"weights"`
	Mode      Mode      `json:"mode"`
}

// Payload is the full rankings response.
type Payload struct {
	Metadata   Metadata          `json:"metadata"`
	Characters []RankedCharacter `json:"characters"`
}

// Find returns the character with id, or nil.
func (payload *Payload) Find(id string) *RankedCharacter {
	for i := range payload.Characters {
		if payload.Characters[i].ID == id {
			return &payload.Characters[i]
		}
	}
	return nil
}

// # Trend

// trendDeadband is the exclusive threshold below which changes are noise.
const trendDeadband = 1.5

// ComputeTrend classifies current against previous. A nil previous means
// no prior value exists and yields STABLE.
func ComputeTrend(current float64, previous *float64) Trend {
	if previous == nil {
		return TrendStable
	}

	delta := current - *previous
	switch {
	case delta > trendDeadband:
		return TrendRising
	case delta < -trendDeadband:
		return TrendFalling
	default:
		return TrendStable
	}
}
