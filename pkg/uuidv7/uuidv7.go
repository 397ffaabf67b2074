// Copyright (c) 2026 Husbandometrics. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package uuidv7 wraps google/uuid to generate time-ordered identifiers.
//
// Request IDs are minted here so log lines sort by arrival when grepped.
package uuidv7

import "github.com/google/uuid"

// New returns a UUIDv7 string. If the v7 generator fails it falls back to a
// random v4 rather than panicking inside a request.
func New() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
