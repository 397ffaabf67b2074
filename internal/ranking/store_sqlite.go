// Copyright (c) 2026 Husbandometrics. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package ranking

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/taibuivan/husbandometrics/internal/platform/database/schema"
	"github.com/taibuivan/husbandometrics/internal/platform/dberr"
	"github.com/taibuivan/husbandometrics/internal/platform/sqlite"
)

// SQLiteRepository implements [Repository] on an embedded SQLite file.
type SQLiteRepository struct {
	db *sqlx.DB
}

func NewSQLiteRepository(db *sqlx.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// snapshotRow mirrors a character_metrics row for sqlx scanning.
type snapshotRow struct {
	CharacterID   string          `db:"character_id"`
	Pixiv         sql.NullFloat64 `db:"pixiv"`
	AO3           sql.NullFloat64 `db:"ao3"`
	GoogleTrends  sql.NullFloat64 `db:"google_trends"`
	Danbooru      sql.NullFloat64 `db:"danbooru"`
	Twitter       sql.NullFloat64 `db:"twitter"`
	WeightedTotal float64         `db:"weighted_total"`
}

func nullable(value sql.NullFloat64) *float64 {
	if !value.Valid {
		return nil
	}
	return &value.Float64
}

func (repository *SQLiteRepository) Ping(ctx context.Context) error {
	return sqlite.Ping(ctx, repository.db)
}

func (repository *SQLiteRepository) UpsertCharacters(ctx context.Context, characters []Character) error {
	if len(characters) == 0 {
		return nil
	}

	table := schema.RankingCharacter
	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(%s) DO UPDATE SET
			%s = excluded.%s,
			%s = excluded.%s,
			%s = excluded.%s,
			%s = excluded.%s,
			%s = excluded.%s
	`,
		table.Table, strings.Join(table.Columns(), ", "),
		table.ID,
		table.Name, table.Name,
		table.NameJP, table.NameJP,
		table.Source, table.Source,
		table.SourceType, table.SourceType,
		table.ImageURL, table.ImageURL,
	)

	return repository.inTx(ctx, "upsert_characters", func(tx *sqlx.Tx) error {
		for _, character := range characters {
			if _, err := tx.ExecContext(ctx, query,
				character.ID, character.Name, character.NameJP,
				character.Source, string(character.SourceType), character.ImageURL,
			); err != nil {
				return fmt.Errorf("character %s: %w", character.ID, err)
			}
		}
		return nil
	})
}

func (repository *SQLiteRepository) AppendSnapshots(ctx context.Context, snapshots []Snapshot) error {
	if len(snapshots) == 0 {
		return nil
	}

	table := schema.RankingMetric
	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		table.Table, strings.Join(table.Columns(), ", "),
	)

	return repository.inTx(ctx, "append_snapshots", func(tx *sqlx.Tx) error {
		for _, snapshot := range snapshots {
			if _, err := tx.ExecContext(ctx, query,
				snapshot.CharacterID,
				snapshot.Pixiv, snapshot.AO3, snapshot.GoogleTrends,
				snapshot.Danbooru, snapshot.Twitter,
				snapshot.WeightedTotal,
			); err != nil {
				return fmt.Errorf("snapshot %s: %w", snapshot.CharacterID, err)
			}
		}
		return nil
	})
}

// LatestSnapshots picks the highest row id per character; ids grow with
// every append so the newest row always wins.
func (repository *SQLiteRepository) LatestSnapshots(ctx context.Context, ids []string) (map[string]Snapshot, error) {
	latest := make(map[string]Snapshot, len(ids))
	if len(ids) == 0 {
		return latest, nil
	}

	table := schema.RankingMetric
	query, args, err := sqlx.In(fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s IN (
			SELECT MAX(%s) FROM %s WHERE %s IN (?) GROUP BY %s
		)
	`,
		table.CharacterID, table.Pixiv, table.AO3, table.GoogleTrends,
		table.Danbooru, table.Twitter, table.WeightedTotal,
		table.Table,
		table.ID,
		table.ID, table.Table, table.CharacterID, table.CharacterID,
	), ids)
	if err != nil {
		return nil, dberr.Wrap(err, "latest_snapshots")
	}

	var rows []snapshotRow
	if err := repository.db.SelectContext(ctx, &rows, repository.db.Rebind(query), args...); err != nil {
		return nil, dberr.Wrap(err, "latest_snapshots")
	}

	for _, row := range rows {
		latest[row.CharacterID] = Snapshot{
			CharacterID:   row.CharacterID,
			Pixiv:         nullable(row.Pixiv),
			AO3:           nullable(row.AO3),
			GoogleTrends:  nullable(row.GoogleTrends),
			Danbooru:      nullable(row.Danbooru),
			Twitter:       nullable(row.Twitter),
			WeightedTotal: row.WeightedTotal,
		}
	}
	return latest, nil
}

func (repository *SQLiteRepository) inTx(ctx context.Context, action string, work func(tx *sqlx.Tx) error) error {
	tx, err := repository.db.BeginTxx(ctx, nil)
	if err != nil {
		return dberr.Wrap(err, action)
	}

	if err := work(tx); err != nil {
		_ = tx.Rollback()
		return dberr.Wrap(err, action)
	}

	return dberr.Wrap(tx.Commit(), action)
}
