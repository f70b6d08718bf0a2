package metric

import (
	"math"

	"github.com/samber/lo"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Defined returns the values that are not NaN, in order
func Defined(values []float64) []float64 {
	return lo.Filter(values, func(v float64, _ int) bool {
		return !math.IsNaN(v)
	})
}

// Mean calculates the arithmetic mean of the defined values, NaN when there are none
func Mean(values []float64) float64 {
	values = Defined(values)
	if len(values) == 0 {
		return math.NaN()
	}
	return stat.Mean(values, nil)
}

// StdDev calculates the sample standard deviation of the defined values
func StdDev(values []float64) float64 {
	values = Defined(values)
	if len(values) < 2 {
		return 0
	}
	return stat.StdDev(values, nil)
}

// Bounds returns the smallest and largest defined values
func Bounds(values []float64) (low, high float64, ok bool) {
	values = Defined(values)
	if len(values) == 0 {
		return math.NaN(), math.NaN(), false
	}
	return floats.Min(values), floats.Max(values), true
}

// Growth is the relative change between the first and last defined values.
// It is NaN when the series starts at zero or has fewer than two values.
func Growth(values []float64) float64 {
	values = Defined(values)
	if len(values) < 2 || values[0] == 0 {
		return math.NaN()
	}
	return (values[len(values)-1] - values[0]) / math.Abs(values[0])
}

// Trend fits a least squares line through (x, value) pairs and returns its slope
// per unit of x. Pairs with a NaN value are skipped.
func Trend(xs, values []float64) float64 {
	var fx, fy []float64
	for i, v := range values {
		if i >= len(xs) || math.IsNaN(v) {
			continue
		}
		fx = append(fx, xs[i])
		fy = append(fy, v)
	}

	if len(fx) < 2 || floats.Min(fx) == floats.Max(fx) {
		return math.NaN()
	}

	_, slope := stat.LinearRegression(fx, fy, nil, false)
	return slope
}
