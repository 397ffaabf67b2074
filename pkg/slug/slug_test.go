// Copyright (c) 2026 Husbandometrics. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package slug_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/husbandometrics/pkg/slug"
)

func TestFrom(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Gojo Satoru", "gojo-satoru"},
		{"Astarion Ancunin", "astarion-ancunin"},
		{"  Léon  S. Kennedy ", "leon-s-kennedy"},
		{"Baldur's Gate 3", "baldur-s-gate-3"},
		{"五条悟", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, slug.From(tt.in))
		})
	}
}

func TestTag(t *testing.T) {
	assert.Equal(t, "gojo_satoru", slug.Tag("Gojo Satoru"))
	assert.Equal(t, "toji_fushiguro", slug.Tag("  Toji \t Fushiguro "))
	assert.Equal(t, "五条悟", slug.Tag("五条悟"))
}

/*
TestFold checks the search key keeps letters of any script.
*/
func TestFold(t *testing.T) {
	assert.Equal(t, "leon s kennedy", slug.Fold("Léon S. Kennedy!"))
	assert.Equal(t, "honkai star rail", slug.Fold("Honkai: Star Rail"))
	assert.Equal(t, "五条悟", slug.Fold(" 五条悟 "))
	assert.Equal(t, "", slug.Fold("!!!"))
}
