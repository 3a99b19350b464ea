package calculator

import (
	"sort"
	"time"

	"HeadlineSentinel/internal/model"
)

// RollingPeriod is the number of prior closes a band is computed from.
const RollingPeriod = 20

// ComputeRollingStats derives the trailing band for one symbol on target.
// It returns false when the target date has no observation or fewer than
// RollingPeriod observations precede it.
func ComputeRollingStats(series model.PriceSeries, target time.Time) (model.RollingStats, bool) {
	obs := make([]model.PriceObservation, len(series.Observations))
	copy(obs, series.Observations)
	sort.SliceStable(obs, func(i, j int) bool { return obs[i].Date.Before(obs[j].Date) })

	day := time.Date(target.Year(), target.Month(), target.Day(), 0, 0, 0, 0, time.UTC)
	anchor := -1
	for i, o := range obs {
		if o.Date.Equal(day) {
			anchor = i
			break
		}
	}
	if anchor < 0 {
		return model.RollingStats{}, false
	}

	// Sorted ascending, so everything before the first target-date row is strictly earlier.
	prior := obs[:anchor]
	if len(prior) < RollingPeriod {
		return model.RollingStats{}, false
	}
	window := prior[len(prior)-RollingPeriod:]
	closes := extractCloses(window)

	avg, err := Mean(closes)
	if err != nil {
		return model.RollingStats{}, false
	}
	stdev, err := SampleStdDev(closes)
	if err != nil {
		return model.RollingStats{}, false
	}
	prevClose := closes[len(closes)-1]
	band := CalculateBand(avg, stdev, prevClose)

	return model.RollingStats{
		Symbol:          series.Symbol,
		StdevOfClose:    stdev,
		AvgClose:        avg,
		StdevPctOfClose: band.StdevPct,
		PrevClose:       prevClose,
		UpperBound:      band.Upper,
		LowerBound:      band.Lower,
		Range:           band.Range,
	}, true
}

// ComputeAll computes stats for every symbol in obs. Symbols without
// enough history are absent from the map.
func ComputeAll(obs []model.PriceObservation, target time.Time) map[string]model.RollingStats {
	out := make(map[string]model.RollingStats)
	for _, series := range model.GroupBySymbol(obs) {
		if stats, ok := ComputeRollingStats(series, target); ok {
			out[series.Symbol] = stats
		}
	}
	return out
}
