package calculator

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"HeadlineSentinel/internal/model"
)

var target = time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC)

// buildSeries returns one observation per calendar day ending on target,
// with closes[i] on day target-(len-1-i).
func buildSeries(symbol string, closes []float64) model.PriceSeries {
	s := model.PriceSeries{Symbol: symbol}
	n := len(closes)
	for i, c := range closes {
		s.Observations = append(s.Observations, model.PriceObservation{
			Symbol: symbol,
			Date:   target.AddDate(0, 0, i-(n-1)),
			Close:  c,
		})
	}
	return s
}

func sequence(from, count int) []float64 {
	out := make([]float64, count)
	for i := range out {
		out[i] = float64(from + i)
	}
	return out
}

func TestSampleStdDev_Formula(t *testing.T) {
	values := []float64{1, 2, 3, 4}
	mean, err := Mean(values)
	require.NoError(t, err)
	assert.Equal(t, 2.5, mean)

	sd, err := SampleStdDev(values)
	require.NoError(t, err)
	assert.InDelta(t, 1.2909944, sd, 1e-6)
}

func TestSampleStdDev_TooFew(t *testing.T) {
	_, err := SampleStdDev([]float64{1})
	assert.Error(t, err)
	_, err = Mean(nil)
	assert.Error(t, err)
}

func TestCalculateBand(t *testing.T) {
	b := CalculateBand(100, 5, 102)
	assert.InDelta(t, 5.0, b.StdevPct, 1e-9)
	assert.InDelta(t, 5.1, b.StdDollar, 1e-9)
	assert.InDelta(t, 105.1, b.Upper, 1e-9)
	assert.InDelta(t, 94.9, b.Lower, 1e-9)
	assert.InDelta(t, 10.2, b.Range, 1e-9)
}

func TestCalculateBand_ZeroAverage(t *testing.T) {
	b := CalculateBand(0, 0, 10)
	assert.True(t, math.IsNaN(b.StdevPct))
	assert.True(t, math.IsNaN(b.Upper))
	assert.True(t, math.IsNaN(b.Lower))
	assert.True(t, math.IsNaN(b.Range))
}

func TestComputeRollingStats_Exactly20(t *testing.T) {
	// 20 prior closes 81..100 plus the target-day close.
	closes := append(sequence(81, 20), 250)
	stats, ok := ComputeRollingStats(buildSeries("AAA", closes), target)
	require.True(t, ok)

	assert.Equal(t, "AAA", stats.Symbol)
	assert.InDelta(t, 90.5, stats.AvgClose, 1e-9)
	assert.InDelta(t, math.Sqrt(35), stats.StdevOfClose, 1e-9)
	assert.Equal(t, 100.0, stats.PrevClose)

	pct := math.Sqrt(35) / 90.5 * 100
	dollar := pct / 100 * 100
	assert.InDelta(t, pct, stats.StdevPctOfClose, 1e-9)
	assert.InDelta(t, 90.5+dollar, stats.UpperBound, 1e-9)
	assert.InDelta(t, 90.5-dollar, stats.LowerBound, 1e-9)
	assert.InDelta(t, 2*dollar, stats.Range, 1e-9)
	assert.True(t, stats.HasBand())
}

func TestComputeRollingStats_UsesNearest20(t *testing.T) {
	// 10 old outliers, then 81..100, then the target day.
	closes := append([]float64{1000, 1000, 1000, 1000, 1000, 1000, 1000, 1000, 1000, 1000}, sequence(81, 20)...)
	closes = append(closes, 0)
	stats, ok := ComputeRollingStats(buildSeries("AAA", closes), target)
	require.True(t, ok)
	assert.InDelta(t, 90.5, stats.AvgClose, 1e-9)
	assert.Equal(t, 100.0, stats.PrevClose)
}

func TestComputeRollingStats_InsufficientHistory(t *testing.T) {
	closes := append(sequence(1, 19), 20)
	_, ok := ComputeRollingStats(buildSeries("AAA", closes), target)
	assert.False(t, ok)
}

func TestComputeRollingStats_NoTargetRow(t *testing.T) {
	s := buildSeries("AAA", sequence(1, 30))
	_, ok := ComputeRollingStats(s, target.AddDate(0, 0, 1))
	assert.False(t, ok)
}

func TestComputeRollingStats_UnsortedInputAndLaterRows(t *testing.T) {
	s := buildSeries("AAA", append(sequence(81, 20), 5))
	// Rows after the target date must be ignored.
	s.Observations = append(s.Observations, model.PriceObservation{Symbol: "AAA", Date: target.AddDate(0, 0, 3), Close: 9999})
	for i, j := 0, len(s.Observations)-1; i < j; i, j = i+1, j-1 {
		s.Observations[i], s.Observations[j] = s.Observations[j], s.Observations[i]
	}

	stats, ok := ComputeRollingStats(s, target)
	require.True(t, ok)
	assert.InDelta(t, 90.5, stats.AvgClose, 1e-9)
	assert.Equal(t, 100.0, stats.PrevClose)
}

func TestComputeRollingStats_ZeroAverage(t *testing.T) {
	stats, ok := ComputeRollingStats(buildSeries("ZERO", make([]float64, 21)), target)
	require.True(t, ok)
	assert.Equal(t, 0.0, stats.AvgClose)
	assert.False(t, stats.HasBand())
	assert.True(t, math.IsNaN(stats.UpperBound))
}

func TestComputeAll(t *testing.T) {
	var obs []model.PriceObservation
	obs = append(obs, buildSeries("AAA", append(sequence(81, 20), 1)).Observations...)
	obs = append(obs, buildSeries("BBB", sequence(1, 5)).Observations...)

	all := ComputeAll(obs, target)
	require.Len(t, all, 1)
	_, ok := all["AAA"]
	assert.True(t, ok)
	_, ok = all["BBB"]
	assert.False(t, ok)
}
