// Copyright (c) 2026 Husbandometrics. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dberr provides a bridge between low-level database errors and
// the error values the ranking store reports.
package dberr

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// ErrNotFound is returned when a queried row doesn't exist, whatever the dialect.
var ErrNotFound = errors.New("dberr: not found")

// Wrap classifies a driver error and annotates it with the failed action.
// Missing rows from either pgx or database/sql collapse into [ErrNotFound].
func Wrap(err error, action string) error {
	if err == nil {
		return nil
	}

	// 1. Not Found mapping
	if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", action, ErrNotFound)
	}

	// 2. Everything else keeps its cause for logging
	return fmt.Errorf("%s: %w", action, err)
}
