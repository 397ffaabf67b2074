package schema

// RankingCharacterTable represents the 'characters' table
type RankingCharacterTable struct {
	Table      string
	ID         string
	Name       string
	NameJP     string
	Source     string
	SourceType string
	ImageURL   string
	CreatedAt  string
}

// RankingCharacter is the schema definition for the character identity rows.
var RankingCharacter = RankingCharacterTable{
	Table:      "characters",
	ID:         "id",
	Name:       "name",
	NameJP:     "name_jp",
	Source:     "source",
	SourceType: "source_type",
	ImageURL:   "image_url",
	CreatedAt:  "created_at",
}

func (t RankingCharacterTable) Columns() []string {
	return []string{t.ID, t.Name, t.NameJP, t.Source, t.SourceType, t.ImageURL}
}
