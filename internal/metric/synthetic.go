// Copyright (c) 2026 Husbandometrics. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package metric

import (
	"math"
	"unicode/utf16"
)

// Synthetic returns a deterministic stand-in value for key.
//
// # Algorithm
//
//  1. hash = hash*31 + c over the UTF-16 code units of key, wrapped to int32.
//  2. base = |hash| mod 60, in [0, 59].
//  3. result = round(40 + base*modifier*0.8).
//
// The output depends only on its inputs, so a given character and source
// always degrade to the same number in every process.
func Synthetic(key string, modifier float64) float64 {
	base := float64(hashKey(key) % 60)

	// The explicit conversion keeps the product from being fused into an FMA.
	scaled := float64(base * modifier * 0.8)
	return math.Floor(40 + scaled + 0.5)
}

// SyntheticDefault is [Synthetic] with a modifier of 1.
func SyntheticDefault(key string) float64 {
	return Synthetic(key, 1)
}

// hashKey computes |h| of the 32-bit polynomial hash. The absolute value is
// taken in 64 bits so math.MinInt32 stays positive.
func hashKey(key string) int64 {
	var hash int32
	for _, unit := range utf16.Encode([]rune(key)) {
		hash = hash*31 + int32(unit)
	}

	wide := int64(hash)
	if wide < 0 {
		wide = -wide
	}
	return wide
}
