// Copyright (c) 2026 Husbandometrics. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package metric

import "math"

// Scale is the normalization window for a single source.
type Scale struct {
	// Cap is the maximum normalized score.
	Cap float64
	// SoftMax is the raw value that maps to a score of 100 before capping.
	SoftMax float64
}

// # Normalization Table

// Soft ceilings per platform scale. All caps are 100.
var normalization = map[Source]Scale{
	SourcePixiv:        {Cap: 100, SoftMax: 220000},
	SourceAO3:          {Cap: 100, SoftMax: 120000},
	SourceGoogleTrends: {Cap: 100, SoftMax: 100},
	SourceDanbooru:     {Cap: 100, SoftMax: 60000},
	SourceTwitter:      {Cap: 100, SoftMax: 2000000},
}

// ScaleFor returns the normalization window for source.
func ScaleFor(source Source) (Scale, bool) {
	scale, ok := normalization[source]
	return scale, ok
}

// Normalize maps a raw upstream value onto [0, cap].
//
// The result is clamp(0, cap, round2(raw / softMax * 100)). Unknown sources
// normalize to 0. Non-finite input is the caller's responsibility.
func Normalize(source Source, raw float64) float64 {
	scale, ok := ScaleFor(source)
	if !ok || scale.SoftMax == 0 {
		return 0
	}

	score := Round2(raw / scale.SoftMax * 100)
	return math.Max(0, math.Min(scale.Cap, score))
}

// Round2 rounds v to two decimal places, half away from zero.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
