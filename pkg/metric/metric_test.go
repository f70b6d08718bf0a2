package metric

import (
	"math"
	"testing"

	"github.com/raykavin/trendline/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefinedAndMean(t *testing.T) {
	values := []float64{1, math.NaN(), 3}
	assert.Equal(t, []float64{1, 3}, Defined(values))
	assert.Equal(t, 2.0, Mean(values))
	assert.True(t, math.IsNaN(Mean([]float64{math.NaN()})))
	assert.Equal(t, 0.0, StdDev([]float64{4}))
	assert.InDelta(t, math.Sqrt2, StdDev([]float64{1, 3}), 1e-9)
}

func TestBounds(t *testing.T) {
	low, high, ok := Bounds([]float64{5, math.NaN(), -2, 7})
	require.True(t, ok)
	assert.Equal(t, -2.0, low)
	assert.Equal(t, 7.0, high)

	_, _, ok = Bounds(nil)
	assert.False(t, ok)
}

func TestGrowth(t *testing.T) {
	assert.Equal(t, 1.0, Growth([]float64{2, 3, 4}))
	assert.Equal(t, -0.5, Growth([]float64{math.NaN(), 4, 2}))
	assert.True(t, math.IsNaN(Growth([]float64{0, 3})))
	assert.True(t, math.IsNaN(Growth([]float64{3})))
}

func TestTrend(t *testing.T) {
	assert.InDelta(t, 2.0, Trend([]float64{2010, 2011, 2012}, []float64{1, 3, 5}), 1e-9)
	assert.InDelta(t, 2.0, Trend([]float64{0, 1, 2, 3}, []float64{0, math.NaN(), 4, 6}), 1e-9)
	assert.True(t, math.IsNaN(Trend([]float64{1}, []float64{1})))
	assert.True(t, math.IsNaN(Trend([]float64{1, 1}, []float64{1, 2})))
}

func TestBootstrap(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5, math.NaN()}
	s := core.Series{Name: "Tor"}
	for i, v := range values {
		s.Points = append(s.Points, core.Point{X: float64(2015 + i), Value: v})
	}

	interval := Bootstrap(s, Mean, 500, 0.95)
	require.True(t, interval.Valid())
	assert.Equal(t, "Tor", interval.Series)
	assert.Equal(t, 500, interval.Samples)
	assert.True(t, interval.Low <= interval.Center)
	assert.True(t, interval.Center <= interval.High)
	assert.True(t, interval.Low >= 1 && interval.High <= 5)

	assert.False(t, Bootstrap(core.Series{Name: "empty"}, Mean, 10, 0.95).Valid())
	assert.False(t, Bootstrap(s, Mean, 0, 0.95).Valid())
}
