package schema

// RankingMetricTable represents the append-only 'character_metrics' table
type RankingMetricTable struct {
	Table         string
	ID            string
	CharacterID   string
	Pixiv         string
	AO3           string
	GoogleTrends  string
	Danbooru      string
	Twitter       string
	WeightedTotal string
	RecordedAt    string
}

// RankingMetric is the schema definition for metric snapshots.
var RankingMetric = RankingMetricTable{
	Table:         "character_metrics",
	ID:            "id",
	CharacterID:   "character_id",
	Pixiv:         "pixiv",
	AO3:           "ao3",
	GoogleTrends:  "google_trends",
	Danbooru:      "danbooru",
	Twitter:       "twitter",
	WeightedTotal: "weighted_total",
	RecordedAt:    "recorded_at",
}

// Columns lists the insertable columns; id and recorded_at are defaulted.
func (t RankingMetricTable) Columns() []string {
	return []string{t.CharacterID, t.Pixiv, t.AO3, t.GoogleTrends, t.Danbooru, t.Twitter, t.WeightedTotal}
}
