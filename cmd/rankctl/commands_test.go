// Copyright (c) 2026 Husbandometrics. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/husbandometrics/internal/ranking"
)

// offline points the credential-free sources at a failing upstream and
// stores snapshots in a temp SQLite file.
func offline(t *testing.T) {
	t.Helper()

	upstream := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
		writer.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(upstream.Close)

	t.Setenv("DATABASE_PROVIDER", "sqlite")
	t.Setenv("SQLITE_PATH", filepath.Join(t.TempDir(), "rankings.db"))
	t.Setenv("AO3_BASE_URL", upstream.URL)
	t.Setenv("DANBOORU_BASE_URL", upstream.URL)
	t.Setenv("SOURCE_TIMEOUT", "1s")
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out, errOut bytes.Buffer
	root := newRootCommand(&out, &errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestRankings_Table(t *testing.T) {
	offline(t)

	out, err := run(t, "rankings")
	require.NoError(t, err)
	assert.Contains(t, out, "RANK")
	assert.Contains(t, out, "gojo-satoru")
	assert.Contains(t, out, "mode=live")
}

func TestRankings_JSONFiltered(t *testing.T) {
	offline(t)

	out, err := run(t, "rankings", "--format", "json", "--source-type", "game")
	require.NoError(t, err)

	var payload ranking.Payload
	require.NoError(t, json.Unmarshal([]byte(out), &payload))
	require.NotEmpty(t, payload.Characters)
	for _, character := range payload.Characters {
		assert.Equal(t, ranking.SourceTypeGame, character.SourceType)
	}
}

func TestShow(t *testing.T) {
	offline(t)

	out, err := run(t, "show", "gojo-satoru")
	require.NoError(t, err)
	assert.Contains(t, out, "Gojo Satoru")
	assert.Contains(t, out, "weighted_total")

	_, err = run(t, "show", "nobody")
	assert.EqualError(t, err, "Character not found")

	_, err = run(t, "show")
	assert.Error(t, err)
}

func TestRefreshAndMigrate(t *testing.T) {
	offline(t)

	out, err := run(t, "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "migrations applied (sqlite)")

	out, err = run(t, "refresh", "--format", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"mode": "live"`)
}

func TestUnknownFormat(t *testing.T) {
	offline(t)

	_, err := run(t, "rankings", "--format", "xml")
	assert.Error(t, err)
}
