// Copyright (c) 2026 Husbandometrics. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package ranking

import (
	"strings"

	"github.com/taibuivan/husbandometrics/pkg/slice"
	"github.com/taibuivan/husbandometrics/pkg/slug"
)

// minSimilarity is the prefix similarity a fuzzy match must reach.
const minSimilarity = 0.6

// Filter narrows a payload without changing ranks.
type Filter struct {
	// Query is matched against names, aliases and the franchise.
	Query string
	// SourceType keeps only one medium when set.
	SourceType SourceType
}

// Empty reports whether the filter keeps everything.
func (filter Filter) Empty() bool {
	return strings.TrimSpace(filter.Query) == "" && filter.SourceType == ""
}

// Apply returns a copy of payload holding only the matching characters.
func (filter Filter) Apply(payload *Payload) *Payload {
	if filter.Empty() {
		return payload
	}

	query := slug.Fold(filter.Query)
	matches := slice.Filter(payload.Characters, func(character RankedCharacter) bool {
		if filter.SourceType != "" && character.SourceType != filter.SourceType {
			return false
		}
		return query == "" || Matches(character.Character, query)
	})
	if matches == nil {
		matches = []RankedCharacter{}
	}

	return &Payload{Metadata: payload.Metadata, Characters: matches}
}

// Matches reports whether query hits any searchable field of character,
// by substring or by fuzzy prefix similarity.
func Matches(character Character, query string) bool {
	query = slug.Fold(query)
	if query == "" {
		return true
	}

	fields := append([]string{
		character.Name,
		character.NameJP,
		character.Romaji,
		character.Source,
	}, character.Aliases...)

	for _, field := range fields {
		if fuzzyMatch(query, slug.Fold(field)) {
			return true
		}
	}
	return false
}

// fuzzyMatch compares query with the same-length prefix of target;
// similarity is measured against the longer of the two full strings.
func fuzzyMatch(query, target string) bool {
	if query == "" || target == "" {
		return false
	}
	if strings.Contains(target, query) {
		return true
	}

	queryRunes := []rune(query)
	targetRunes := []rune(target)

	prefix := targetRunes
	if len(prefix) > len(queryRunes) {
		prefix = prefix[:len(queryRunes)]
	}

	distance := levenshtein(queryRunes, prefix)
	similarity := 1 - float64(distance)/float64(max(len(queryRunes), len(targetRunes)))
	return similarity >= minSimilarity
}

// levenshtein is the classic edit distance over runes with a rolling row.
func levenshtein(a, b []rune) int {
	previous := make([]int, len(b)+1)
	current := make([]int, len(b)+1)
	for j := range previous {
		previous[j] = j
	}

	for i := 1; i <= len(a); i++ {
		current[0] = i
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				current[j] = previous[j-1]
				continue
			}
			current[j] = 1 + min(previous[j], current[j-1], previous[j-1])
		}
		previous, current = current, previous
	}

	return previous[len(b)]
}
