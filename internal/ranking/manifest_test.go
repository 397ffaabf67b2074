// Copyright (c) 2026 Husbandometrics. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package ranking_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/husbandometrics/internal/platform/apperr"
	"github.com/taibuivan/husbandometrics/internal/ranking"
)

func TestDefaultManifest(t *testing.T) {
	manifest, err := ranking.DefaultManifest()
	require.NoError(t, err)

	seeds, err := manifest.Load(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, seeds)

	assert.Equal(t, "gojo-satoru", seeds[0].ID)
	require.NotNil(t, seeds[0].WeightedTotal)
	assert.Equal(t, 93.4, *seeds[0].WeightedTotal)

	ids := map[string]bool{}
	for _, seed := range seeds {
		assert.False(t, ids[seed.ID], "duplicate id %s", seed.ID)
		ids[seed.ID] = true
	}
}

/*
TestParseManifest_Derivation covers id derivation and source type coercion.
*/
func TestParseManifest_Derivation(t *testing.T) {
	seeds, err := ranking.ParseManifest([]byte(`
characters:
  - name: Zhongli
    name_jp: 鍾離
    franchise: Genshin Impact
    source_type: game
  - name: Ryomen Sukuna
    franchise: Jujutsu Kaisen
    source_type: light novel
`))
	require.NoError(t, err)
	require.Len(t, seeds, 2)

	assert.Equal(t, "zhongli", seeds[0].ID)
	assert.Equal(t, ranking.SourceTypeGame, seeds[0].Character().SourceType)
	assert.Equal(t, "Genshin Impact", seeds[0].Character().Source)
	assert.Nil(t, seeds[0].WeightedTotal)

	assert.Equal(t, "ryomen-sukuna", seeds[1].ID)
	assert.Equal(t, ranking.SourceTypeAnime, seeds[1].Character().SourceType)
}

func TestParseManifest_JSON(t *testing.T) {
	seeds, err := ranking.ParseManifest([]byte(`{"characters":[{"id":"levi-ackerman","name":"Levi Ackerman","franchise":"Attack on Titan","weighted_total":74}]}`))
	require.NoError(t, err)
	require.Len(t, seeds, 1)
	assert.Equal(t, 74.0, *seeds[0].WeightedTotal)
}

/*
TestParseManifest_Invalid checks that every bad field is reported.
*/
func TestParseManifest_Invalid(t *testing.T) {
	_, err := ranking.ParseManifest([]byte(`
characters:
  - id: Bad_ID
    name: Somebody
    franchise: Somewhere
  - id: twin
    name: Twin
    franchise: Mirror
  - id: twin
    name: Twin Again
    franchise: Mirror
    image_url: not-a-url
    weighted_total: -3
  - id: nameless
    franchise: Nowhere
`))
	require.Error(t, err)

	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, "VALIDATION_ERROR", appError.Code)

	fields := map[string]bool{}
	for _, detail := range appError.Details {
		fields[detail.Field] = true
	}
	assert.True(t, fields["characters[0].id"])
	assert.True(t, fields["characters[2].id"])
	assert.True(t, fields["characters[2].image_url"])
	assert.True(t, fields["characters[2].weighted_total"])
	assert.True(t, fields["characters[3].name"])
	assert.False(t, fields["characters[1].id"])
}

func TestParseManifest_Malformed(t *testing.T) {
	_, err := ranking.ParseManifest([]byte("characters: [unterminated"))
	assert.Error(t, err)
	assert.Nil(t, apperr.As(err))
}

func TestFileManifest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "characters.yaml")
	require.NoError(t, os.WriteFile(path, []byte("characters:\n  - name: Alhaitham\n    franchise: Genshin Impact\n"), 0o600))

	seeds, err := ranking.FileManifest{Path: path}.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, seeds, 1)
	assert.Equal(t, "alhaitham", seeds[0].ID)
}
