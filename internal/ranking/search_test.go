// Copyright (c) 2026 Husbandometrics. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package ranking_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/husbandometrics/internal/ranking"
)

func TestMatches(t *testing.T) {
	gojo := ranking.Character{
		Name:    "Gojo Satoru",
		NameJP:  "五条悟",
		Romaji:  "Gojou Satoru",
		Aliases: []string{"The Strongest"},
		Source:  "Jujutsu Kaisen",
	}

	tests := []struct {
		name  string
		query string
		want  bool
	}{
		{"empty", "   ", true},
		{"substring", "satoru", true},
		{"case_and_punctuation", "GOJO!", true},
		{"native_script", "五条", true},
		{"alias", "strongest", true},
		{"franchise", "jujutsu", true},
		{"typo_in_prefix", "gjo", true},
		{"accent_folded", "Gōjo", true},
		{"short_query_is_lenient_on_long_fields", "levi", true},
		{"unrelated", "levi ackerman", false},
		{"too_distant", "xyzzyxyzzy", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ranking.Matches(gojo, tt.query))
		})
	}
}

/*
TestFilter_Apply keeps original ranks and metadata while narrowing.
*/
func TestFilter_Apply(t *testing.T) {
	payload := samplePayload()

	t.Run("empty_filter_is_identity", func(t *testing.T) {
		assert.Same(t, payload, ranking.Filter{}.Apply(payload))
	})

	t.Run("source_type", func(t *testing.T) {
		filtered := ranking.Filter{SourceType: ranking.SourceTypeManga}.Apply(payload)
		assert.Len(t, filtered.Characters, 1)
		assert.Equal(t, "levi-ackerman", filtered.Characters[0].ID)
		assert.Equal(t, 3, filtered.Characters[0].Rank)
		assert.Equal(t, payload.Metadata, filtered.Metadata)
		assert.Len(t, payload.Characters, 3, "source payload is untouched")
	})

	t.Run("query", func(t *testing.T) {
		filtered := ranking.Filter{Query: "Levi Ackerman"}.Apply(payload)
		assert.Len(t, filtered.Characters, 1)
		assert.Equal(t, 3, filtered.Characters[0].Rank)
	})

	t.Run("no_match_is_empty_list", func(t *testing.T) {
		filtered := ranking.Filter{Query: "zzzzzzzzzzzz", SourceType: ranking.SourceTypeGame}.Apply(payload)
		assert.NotNil(t, filtered.Characters)
		assert.Empty(t, filtered.Characters)
	})
}
