package calculator

import (
	"errors"
	"math"

	"HeadlineSentinel/internal/model"
)

// Mean returns the arithmetic mean of values.
func Mean(values []float64) (float64, error) {
	if len(values) == 0 {
		return 0, errors.New("no values for mean calculation")
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values)), nil
}

// SampleStdDev returns the standard deviation with an n-1 denominator.
func SampleStdDev(values []float64) (float64, error) {
	if len(values) < 2 {
		return 0, errors.New("sample standard deviation needs at least 2 values")
	}
	mean, err := Mean(values)
	if err != nil {
		return 0, err
	}
	sumSquares := 0.0
	for _, v := range values {
		diff := v - mean
		sumSquares += diff * diff
	}
	return math.Sqrt(sumSquares / float64(len(values)-1)), nil
}

func extractCloses(obs []model.PriceObservation) []float64 {
	closes := make([]float64, len(obs))
	for i, o := range obs {
		closes[i] = o.Close
	}
	return closes
}
