package model

import "math"

// RollingStats holds the 20-day trailing volatility band for one symbol.
// StdevPctOfClose and the band fields are NaN when AvgClose is zero.
type RollingStats struct {
	Symbol          string
	StdevOfClose    float64
	AvgClose        float64
	StdevPctOfClose float64
	PrevClose       float64
	UpperBound      float64
	LowerBound      float64
	Range           float64
}

// HasBand reports whether the percentage band is defined.
func (s RollingStats) HasBand() bool {
	return !math.IsNaN(s.StdevPctOfClose)
}
