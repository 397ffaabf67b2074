// Copyright (c) 2026 Husbandometrics. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package migration provides a thin wrapper around golang-migrate for
// running the snapshot-store schema migrations.
//
// # Architecture
//
// This package belongs to the Infrastructure layer. It enforces schema
// idempotency during application startup, ensuring the database is always
// in the correct state before traffic is served. The SQL for both dialects
// is embedded; a directory on disk can replace it.
package migration

import (
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	// pgx5 driver registers "pgx5" scheme for golang-migrate.
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	// sqlite driver registers "sqlite" scheme (modernc, no cgo).
	_ "github.com/golang-migrate/migrate/v4/database/sqlite"
	// file source reads .sql files from disk when an override path is set.
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

// Supported dialects. They match config.ProviderPostgres / ProviderSQLite.
const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite"
)

//go:embed sql
var embedded embed.FS

// RunUp applies all pending UP migrations for dialect.
//
// # Parameters
//   - dialect: [DialectPostgres] or [DialectSQLite].
//   - dsn: postgres:// URL, or the SQLite file path.
//   - overridePath: base directory holding <dialect>/*.sql; empty uses the embedded set.
//   - logger: Structured logger for migration events.
func RunUp(dialect, dsn, overridePath string, logger *slog.Logger) error {
	migrator, err := newMigrator(dialect, dsn, overridePath)
	if err != nil {
		return err
	}
	defer func() {
		sourceError, dbError := migrator.Close()
		if sourceError != nil {
			logger.Error("migration_source_close_failed", slog.Any("error", sourceError))
		}
		if dbError != nil {
			logger.Error("migration_db_close_failed", slog.Any("error", dbError))
		}
	}()

	migrator.Log = &migrateLogger{logger: logger}

	currentVersion, isDirty, err := migrator.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("migration: failed to get current version: %w", err)
	}

	if isDirty {
		return fmt.Errorf("migration: database is in a dirty state at version %d (manual intervention required)", currentVersion)
	}

	logger.Info("migration_started",
		slog.String("dialect", dialect),
		slog.Int("current_version", int(currentVersion)),
	)

	if err := migrator.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			logger.Info("migration_already_up_to_date")
			return nil
		}
		return fmt.Errorf("migration: up failed: %w", err)
	}

	newVersion, _, _ := migrator.Version()
	logger.Info("migration_successful",
		slog.Int("from_version", int(currentVersion)),
		slog.Int("to_version", int(newVersion)),
	)

	return nil
}

func newMigrator(dialect, dsn, overridePath string) (*migrate.Migrate, error) {
	var databaseURL string
	switch dialect {
	case DialectPostgres:
		databaseURL = convertToPgx5DSN(dsn)
	case DialectSQLite:
		databaseURL = "sqlite://" + dsn
	default:
		return nil, fmt.Errorf("migration: unsupported dialect %q", dialect)
	}

	if overridePath != "" {
		sourceURL := "file://" + filepath.ToSlash(filepath.Join(overridePath, dialect))
		migrator, err := migrate.New(sourceURL, databaseURL)
		if err != nil {
			return nil, fmt.Errorf("migration: failed to initialize: %w", err)
		}
		return migrator, nil
	}

	source, err := iofs.New(embedded, "sql/"+dialect)
	if err != nil {
		return nil, fmt.Errorf("migration: failed to open embedded set: %w", err)
	}

	migrator, err := migrate.NewWithSourceInstance("iofs", source, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("migration: failed to initialize: %w", err)
	}
	return migrator, nil
}

// convertToPgx5DSN ensures the DSN uses the pgx5:// scheme required by golang-migrate/v4.
func convertToPgx5DSN(dsn string) string {
	for _, prefix := range []string{"postgres://", "postgresql://"} {
		if rest, ok := strings.CutPrefix(dsn, prefix); ok {
			return "pgx5://" + rest
		}
	}
	return dsn
}

// migrateLogger adapts golang-migrate's logger interface to slog.
type migrateLogger struct {
	logger  *slog.Logger
	verbose bool
}

// Printf implements migrate.Logger.
func (l *migrateLogger) Printf(format string, args ...any) {
	l.logger.Debug(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

// Verbose implements migrate.Logger.
func (l *migrateLogger) Verbose() bool {
	return l.verbose
}
