package core

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestExtent_Include(t *testing.T) {
	var e Extent[float64]
	require.False(t, e.Valid)
	require.True(t, e.Degenerate())

	e = e.Include(3).Include(-1).Include(7)
	require.True(t, e.Valid)
	require.Equal(t, -1.0, e.Min)
	require.Equal(t, 7.0, e.Max)
	require.False(t, e.Degenerate())
}

func TestExtent_Union(t *testing.T) {
	a := Extent[int]{}.Include(1).Include(4)
	b := Extent[int]{}.Include(-2)

	require.Equal(t, Extent[int]{Min: -2, Max: 4, Valid: true}, a.Union(b))
	require.Equal(t, a, a.Union(Extent[int]{}))
	require.Equal(t, b, Extent[int]{}.Union(b))
}

func TestLayout_PlotSize(t *testing.T) {
	layout := DefaultLayout()
	require.Equal(t, 685.0, layout.PlotWidth())
	require.Equal(t, 400.0, layout.PlotHeight())
	require.Equal(t, 550.0, layout.OuterHeight())

	layout.Width = 100
	require.Equal(t, 0.0, layout.PlotWidth())
}

func TestRow_Value(t *testing.T) {
	row := Row{Values: map[string]float64{"A": 2}}
	require.Equal(t, 2.0, row.Value("A"))
	require.True(t, math.IsNaN(row.Value("B")))
}

func TestSeries_Last(t *testing.T) {
	_, ok := Series{}.Last()
	require.False(t, ok)

	s := Series{Name: "A", Points: []Point{{Value: 1}, {Value: 5}}}
	last, ok := s.Last()
	require.True(t, ok)
	require.Equal(t, 5.0, last.Value)
	require.Equal(t, []float64{1, 5}, s.Values())
}

func TestMillisRoundTrip(t *testing.T) {
	ts := time.Date(2020, time.February, 1, 0, 0, 0, 0, time.UTC)
	require.Equal(t, ts, MillisToTime(TimeToMillis(ts)))
}
