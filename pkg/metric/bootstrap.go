package metric

import (
	"sort"

	"github.com/raykavin/trendline/pkg/core"
	"github.com/samber/lo"
	"gonum.org/v1/gonum/stat"
)

// Interval is the spread of a measure over resamples of one series
type Interval struct {
	Series  string
	Low     float64
	High    float64
	Center  float64 // mean of the resampled measures
	Spread  float64 // standard deviation of the resampled measures
	Samples int     // zero when the interval could not be computed
}

// Valid reports whether the interval holds a result
func (i Interval) Valid() bool {
	return i.Samples > 0
}

// Bootstrap resamples the defined values of s with replacement, applies measure to
// each resample and returns the central range covering the confidence level.
// A series without defined values, or zero samples, gives an invalid interval.
func Bootstrap(s core.Series, measure func([]float64) float64, samples int, confidence float64) Interval {
	out := Interval{Series: s.Name}

	values := Defined(s.Values())
	if len(values) == 0 || samples <= 0 {
		return out
	}

	measures := make([]float64, samples)
	draw := make([]float64, len(values))
	for i := range measures {
		for j := range draw {
			draw[j] = lo.Sample(values)
		}
		measures[i] = measure(draw)
	}
	sort.Float64s(measures)

	tail := (1 - confidence) / 2
	out.Low = stat.Quantile(tail, stat.LinInterp, measures, nil)
	out.High = stat.Quantile(1-tail, stat.LinInterp, measures, nil)
	out.Center, out.Spread = stat.MeanStdDev(measures, nil)
	out.Samples = samples

	return out
}
