// Copyright (c) 2026 Husbandometrics. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package migration

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertToPgx5DSN(t *testing.T) {
	assert.Equal(t, "pgx5://u:p@localhost/db", convertToPgx5DSN("postgres://u:p@localhost/db"))
	assert.Equal(t, "pgx5://u:p@localhost/db", convertToPgx5DSN("postgresql://u:p@localhost/db"))
	assert.Equal(t, "pgx5://already", convertToPgx5DSN("pgx5://already"))
}

/*
TestRunUp_SQLite applies the embedded set to a fresh file twice; the second
run is a no-op.
*/
func TestRunUp_SQLite(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	path := filepath.Join(t.TempDir(), "rankings.db")

	require.NoError(t, RunUp(DialectSQLite, path, "", logger))
	require.NoError(t, RunUp(DialectSQLite, path, "", logger))

	db, err := sqlx.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	var tables []string
	require.NoError(t, db.Select(&tables,
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name IN ('characters', 'character_metrics') ORDER BY name`))
	assert.Equal(t, []string{"character_metrics", "characters"}, tables)
}

func TestRunUp_UnknownDialect(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	assert.Error(t, RunUp("mysql", "", "", logger))
}
