// Copyright (c) 2026 Husbandometrics. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package metric holds the pure numeric primitives shared by the fetchers and
the aggregator: the source catalogue, per-source normalization and the
deterministic synthetic fallback.

Nothing in this package performs I/O. Every function is safe for concurrent use.
*/
package metric

// Source identifies an upstream popularity signal.
type Source string

const (
	SourcePixiv        Source = "pixiv"
	SourceAO3          Source = "ao3"
	SourceGoogleTrends Source = "google_trends"
	SourceDanbooru     Source = "danbooru"
	SourceTwitter      Source = "twitter"
)

// Sources returns all known sources in breakdown order.
func Sources() []Source {
	return []Source{
		SourcePixiv,
		SourceAO3,
		SourceGoogleTrends,
		SourceDanbooru,
		SourceTwitter,
	}
}

// Valid reports whether s is one of the known sources.
func (s Source) Valid() bool {
	_, ok := normalization[s]
	return ok
}
