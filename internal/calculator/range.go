package calculator

import "math"

// Band is a volatility band around a moving average.
type Band struct {
	StdevPct  float64
	StdDollar float64
	Upper     float64
	Lower     float64
	Range     float64
}

// CalculateBand converts a standard deviation into a percentage of the
// average, rescales it onto prevClose, and centres it on the average.
// All fields are NaN when avg is zero.
func CalculateBand(avg, stdev, prevClose float64) Band {
	if avg == 0 {
		nan := math.NaN()
		return Band{StdevPct: nan, StdDollar: nan, Upper: nan, Lower: nan, Range: nan}
	}
	pct := stdev / avg * 100
	dollar := pct / 100 * prevClose
	upper := avg + dollar
	lower := avg - dollar
	return Band{
		StdevPct:  pct,
		StdDollar: dollar,
		Upper:     upper,
		Lower:     lower,
		Range:     upper - lower,
	}
}
