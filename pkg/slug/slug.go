// Copyright (c) 2026 Husbandometrics. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package slug turns arbitrary Unicode names into the ASCII forms used
// around the rankings: character ids, booru tags and search keys.
//
// All three share one pipeline: NFD decomposition followed by removal of
// combining marks, so "Aventurine" and "Avênturine" fold together.
package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	// multiHyphen collapses multiple consecutive hyphens into one.
	multiHyphen = regexp.MustCompile(`-{2,}`)
	// whitespace matches any run of Unicode spaces.
	whitespace = regexp.MustCompile(`\s+`)
)

// stripMarks removes accents after canonical decomposition.
func stripMarks(s string) string {
	t := transform.Chain(norm.NFD, transform.RemoveFunc(isMn), norm.NFC)
	result, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return result
}

// From converts an arbitrary Unicode string into a URL-safe ASCII slug.
//
// # Transformation Pipeline
//
// 1. Normalizes to NFD and removes combining marks (é → e).
// 2. Converts to lowercase.
// 3. Replaces everything outside [a-z0-9] with hyphens.
// 4. Collapses multiple hyphens and trims leading/trailing hyphens.
func From(s string) string {
	result := strings.ToLower(stripMarks(s))

	result = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			return r
		}
		return '-'
	}, result)

	result = multiHyphen.ReplaceAllString(result, "-")
	return strings.Trim(result, "-")
}

// Tag converts a display name into a booru-style tag: lowercase with runs
// of whitespace replaced by a single underscore ("Gojo Satoru" → "gojo_satoru").
// Non-Latin scripts are kept as-is.
func Tag(s string) string {
	return whitespace.ReplaceAllString(strings.ToLower(strings.TrimSpace(s)), "_")
}

// Fold produces a comparison key for fuzzy search: accents removed,
// lowercased, letters/digits/spaces kept, surrounding space trimmed.
// Letters of any script survive, so native-script names stay searchable.
func Fold(s string) string {
	result := strings.ToLower(stripMarks(s))

	result = strings.Map(func(r rune) rune {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			return r
		case unicode.IsSpace(r):
			return ' '
		default:
			return -1
		}
	}, result)

	return strings.TrimSpace(result)
}

// isMn reports whether r is a Unicode non-spacing mark (e.g., accents).
func isMn(r rune) bool {
	return unicode.Is(unicode.Mn, r)
}
