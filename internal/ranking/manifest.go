// Copyright (c) 2026 Husbandometrics. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package ranking

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/taibuivan/husbandometrics/internal/platform/validate"
	"github.com/taibuivan/husbandometrics/pkg/slug"
)

//go:embed manifest.yaml
var defaultManifest []byte

// Seed is one manifest entry: display metadata plus optional seed scores.
type Seed struct {
	ID         string   `yaml:"id"`
	Name       string   `yaml:"name"`
	NameJP     string   `yaml:"name_jp"`
	Romaji     string   `yaml:"romaji"`
	Aliases    []string `yaml:"aliases"`
	Franchise  string   `yaml:"franchise"`
	SourceType string   `yaml:"source_type"`
	ImageURL   string   `yaml:"image_url"`

	// WeightedTotal is the trend baseline used when nothing is persisted yet.
	WeightedTotal *float64 `yaml:"weighted_total"`
}

// Character maps the seed onto its identity record.
func (seed Seed) Character() Character {
	return Character{
		ID:         seed.ID,
		Name:       seed.Name,
		NameJP:     seed.NameJP,
		Romaji:     seed.Romaji,
		Aliases:    seed.Aliases,
		Source:     seed.Franchise,
		SourceType: ParseSourceType(seed.SourceType),
		ImageURL:   seed.ImageURL,
	}
}

type manifestFile struct {
	Characters []Seed `yaml:"characters"`
	Metadata   struct {
		Version string `yaml:"version"`
	} `yaml:"metadata"`
}

// Manifest supplies the characters to track. It is consulted once per pass.
type Manifest interface {
	Load(ctx context.Context) ([]Seed, error)
}

// StaticManifest is an in-memory manifest.
type StaticManifest []Seed

func (manifest StaticManifest) Load(context.Context) ([]Seed, error) {
	return manifest, nil
}

// FileManifest re-reads a YAML or JSON file on every pass, so edits take
// effect without a restart.
type FileManifest struct {
	Path string
}

func (manifest FileManifest) Load(context.Context) ([]Seed, error) {
	data, err := os.ReadFile(manifest.Path)
	if err != nil {
		return nil, fmt.Errorf("manifest: read %s: %w", manifest.Path, err)
	}
	return ParseManifest(data)
}

// DefaultManifest returns the embedded character list.
func DefaultManifest() (StaticManifest, error) {
	seeds, err := ParseManifest(defaultManifest)
	if err != nil {
		return nil, err
	}
	return StaticManifest(seeds), nil
}

/*
ParseManifest decodes and validates a manifest document.

JSON documents are accepted as well since JSON is valid YAML. Entries
without an id get one derived from the name.

Returns:
  - []Seed: Entries in file order
  - error: A VALIDATION_ERROR naming each bad field
*/
func ParseManifest(data []byte) ([]Seed, error) {
	var file manifestFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("manifest: decode: %w", err)
	}

	validator := &validate.Validator{}
	seen := make(map[string]bool, len(file.Characters))

	for i := range file.Characters {
		seed := &file.Characters[i]
		prefix := "characters[" + strconv.Itoa(i) + "]."

		if seed.ID == "" {
			seed.ID = slug.From(seed.Name)
		}

		validator.
			Required(prefix+"name", seed.Name).
			MaxLen(prefix+"name", seed.Name, 200).
			Required(prefix+"franchise", seed.Franchise).
			Slug(prefix+"id", seed.ID).
			Custom(prefix+"id", seen[seed.ID], "Duplicate character id").
			URL(prefix+"image_url", seed.ImageURL)

		if seed.WeightedTotal != nil {
			validator.NonNegative(prefix+"weighted_total", *seed.WeightedTotal)
		}

		seen[seed.ID] = true
	}

	if err := validator.Err(); err != nil {
		return nil, err
	}

	return file.Characters, nil
}
