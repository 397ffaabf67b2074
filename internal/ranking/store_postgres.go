// Copyright (c) 2026 Husbandometrics. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package ranking

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/husbandometrics/internal/platform/database/schema"
	"github.com/taibuivan/husbandometrics/internal/platform/dberr"
	"github.com/taibuivan/husbandometrics/internal/platform/postgres"
)

// PostgresRepository implements [Repository] on pgx.
type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (repository *PostgresRepository) Ping(context context.Context) error {
	return postgres.Ping(context, repository.db)
}

func (repository *PostgresRepository) UpsertCharacters(context context.Context, characters []Character) error {
	if len(characters) == 0 {
		return nil
	}

	table := schema.RankingCharacter
	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (%s) DO UPDATE SET
			%s = EXCLUDED.%s,
			%s = EXCLUDED.%s,
			%s = EXCLUDED.%s,
			%s = EXCLUDED.%s,
			%s = EXCLUDED.%s
	`,
		table.Table, strings.Join(table.Columns(), ", "),
		table.ID,
		table.Name, table.Name,
		table.NameJP, table.NameJP,
		table.Source, table.Source,
		table.SourceType, table.SourceType,
		table.ImageURL, table.ImageURL,
	)

	batch := &pgx.Batch{}
	for _, character := range characters {
		batch.Queue(query,
			character.ID, character.Name, character.NameJP,
			character.Source, string(character.SourceType), character.ImageURL,
		)
	}

	if err := repository.db.SendBatch(context, batch).Close(); err != nil {
		return dberr.Wrap(err, "upsert_characters")
	}
	return nil
}

func (repository *PostgresRepository) AppendSnapshots(context context.Context, snapshots []Snapshot) error {
	if len(snapshots) == 0 {
		return nil
	}

	table := schema.RankingMetric
	rows := make([][]any, 0, len(snapshots))
	for _, snapshot := range snapshots {
		rows = append(rows, []any{
			snapshot.CharacterID,
			snapshot.Pixiv, snapshot.AO3, snapshot.GoogleTrends,
			snapshot.Danbooru, snapshot.Twitter,
			snapshot.WeightedTotal,
		})
	}

	_, err := repository.db.CopyFrom(context,
		pgx.Identifier{table.Table},
		table.Columns(),
		pgx.CopyFromRows(rows),
	)
	return dberr.Wrap(err, "append_snapshots")
}

func (repository *PostgresRepository) LatestSnapshots(context context.Context, ids []string) (map[string]Snapshot, error) {
	latest := make(map[string]Snapshot, len(ids))
	if len(ids) == 0 {
		return latest, nil
	}

	table := schema.RankingMetric
	query := fmt.Sprintf(`
		SELECT DISTINCT ON (%s) %s, %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = ANY($1)
		ORDER BY %s, %s DESC, %s DESC
	`,
		table.CharacterID,
		table.CharacterID, table.Pixiv, table.AO3, table.GoogleTrends,
		table.Danbooru, table.Twitter, table.WeightedTotal, table.RecordedAt,
		table.Table,
		table.CharacterID,
		table.CharacterID, table.RecordedAt, table.ID,
	)

	rows, err := repository.db.Query(context, query, ids)
	if err != nil {
		return nil, dberr.Wrap(err, "latest_snapshots")
	}
	defer rows.Close()

	for rows.Next() {
		var snapshot Snapshot
		if err := rows.Scan(
			&snapshot.CharacterID, &snapshot.Pixiv, &snapshot.AO3, &snapshot.GoogleTrends,
			&snapshot.Danbooru, &snapshot.Twitter, &snapshot.WeightedTotal, &snapshot.RecordedAt,
		); err != nil {
			return nil, dberr.Wrap(err, "scan_snapshot")
		}
		latest[snapshot.CharacterID] = snapshot
	}

	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "latest_snapshots")
	}
	return latest, nil
}
