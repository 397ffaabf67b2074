// Copyright (c) 2026 Husbandometrics. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package ranking_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/husbandometrics/internal/metric"
	"github.com/taibuivan/husbandometrics/internal/ranking"
)

/*
TestComputeTrend covers both sides of the exclusive 1.5 deadband.
*/
func TestComputeTrend(t *testing.T) {
	tests := []struct {
		name     string
		current  float64
		previous *float64
		want     ranking.Trend
	}{
		{"no_previous", 50, nil, ranking.TrendStable},
		{"equal", 50, float(50), ranking.TrendStable},
		{"rise_at_threshold", 51.5, float(50), ranking.TrendStable},
		{"rise_past_threshold", 51.51, float(50), ranking.TrendRising},
		{"fall_at_threshold", 48.5, float(50), ranking.TrendStable},
		{"fall_past_threshold", 48.49, float(50), ranking.TrendFalling},
		{"zero_previous_is_a_value", 10, float(0), ranking.TrendRising},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ranking.ComputeTrend(tt.current, tt.previous))
		})
	}
}

func TestParseSourceType(t *testing.T) {
	assert.Equal(t, ranking.SourceTypeGame, ranking.ParseSourceType("game"))
	assert.Equal(t, ranking.SourceTypeManga, ranking.ParseSourceType(" MANGA "))
	assert.Equal(t, ranking.SourceTypeAnime, ranking.ParseSourceType("ANIME"))
	assert.Equal(t, ranking.SourceTypeAnime, ranking.ParseSourceType("visual novel"))
	assert.Equal(t, ranking.SourceTypeAnime, ranking.ParseSourceType(""))
}

/*
TestWeights_Total checks the plain dot product, which is not divided by the
weight sum.
*/
func TestWeights_Total(t *testing.T) {
	breakdown := ranking.ScoreBreakdown{Pixiv: 60, AO3: 50, GoogleTrends: 40, Danbooru: 30, Twitter: 20}

	assert.Equal(t, 46.5, defaultWeights().Total(breakdown))

	doubled := ranking.Weights{Pixiv: 0.7, AO3: 0.5, GoogleTrends: 0.4, Danbooru: 0.2, Twitter: 0.2}
	assert.Equal(t, 93.0, doubled.Total(breakdown))

	heavy := ranking.Weights{Pixiv: 2, AO3: 2, GoogleTrends: 2, Danbooru: 2, Twitter: 2}
	assert.Equal(t, 400.0, heavy.Total(breakdown), "totals may exceed 100")
}

func TestScoreBreakdown_Set(t *testing.T) {
	var breakdown ranking.ScoreBreakdown
	for i, src := range metric.Sources() {
		breakdown.Set(src, float64(i+1))
	}
	breakdown.Set(metric.Source("myanimelist"), 99)

	assert.Equal(t, ranking.ScoreBreakdown{Pixiv: 1, AO3: 2, GoogleTrends: 3, Danbooru: 4, Twitter: 5}, breakdown)
}

func TestSnapshot_Breakdown(t *testing.T) {
	snapshot := ranking.Snapshot{Pixiv: float(12.5), Twitter: float(3)}
	assert.Equal(t, ranking.ScoreBreakdown{Pixiv: 12.5, Twitter: 3}, snapshot.Breakdown())
}

/*
TestRankedCharacter_JSON pins the wire shape: identity fields are flattened
and every score key is present.
*/
func TestRankedCharacter_JSON(t *testing.T) {
	character := samplePayload().Characters[2]

	raw, err := json.Marshal(character)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))

	assert.Equal(t, "levi-ackerman", decoded["id"])
	assert.Equal(t, "MANGA", decoded["source_type"])
	assert.Equal(t, "FALLING", decoded["trend"])
	assert.EqualValues(t, 3, decoded["rank"])

	scores, ok := decoded["scores"].(map[string]any)
	require.True(t, ok)
	assert.Len(t, scores, 5)
	assert.Contains(t, scores, "google_trends")
}

func TestPayload_Find(t *testing.T) {
	payload := samplePayload()

	found := payload.Find("aventurine")
	require.NotNil(t, found)
	assert.Equal(t, 2, found.Rank)
	assert.Nil(t, payload.Find("nobody"))
}
