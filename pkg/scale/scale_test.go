package scale

import (
	"math"
	"testing"
	"time"

	"github.com/raykavin/trendline/pkg/core"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func month(year int, m time.Month) time.Time {
	return time.Date(year, m, 1, 0, 0, 0, 0, time.UTC)
}

func tickValues(ticks []Tick) []float64 {
	return lo.Map(ticks, func(t Tick, _ int) float64 { return t.Value })
}

func tickLabels(ticks []Tick) []string {
	return lo.Map(ticks, func(t Tick, _ int) string { return t.Label })
}

func TestNiceTicks(t *testing.T) {
	tests := []struct {
		start, stop float64
		count       int
		want        []float64
	}{
		{0, 1, 10, []float64{0, 0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1}},
		{0, 100, 5, []float64{0, 20, 40, 60, 80, 100}},
		{0, 2261, 10, []float64{0, 200, 400, 600, 800, 1000, 1200, 1400, 1600, 1800, 2000, 2200}},
		{2010, 2016, 5, []float64{2010, 2011, 2012, 2013, 2014, 2015, 2016}},
		{2010, 2012, 4, []float64{2010, 2010.5, 2011, 2011.5, 2012}},
		{-10, 10, 5, []float64{-10, -5, 0, 5, 10}},
		{1, 0, 5, []float64{1, 0.8, 0.6, 0.4, 0.2, 0}},
		{3, 3, 5, []float64{3}},
		{0, 1, 0, nil},
	}

	for _, tc := range tests {
		got := niceTicks(tc.start, tc.stop, tc.count)
		require.Len(t, got, len(tc.want), "%v..%v", tc.start, tc.stop)
		for i := range got {
			assert.InDelta(t, tc.want[i], got[i], 1e-9)
		}
	}
}

func TestLinear_MapAndInvert(t *testing.T) {
	s := NewLinear(core.Extent[float64]{}.Include(0).Include(100), [2]float64{400, 0}, LabelGrouped)

	assert.Equal(t, 400.0, s.Map(0))
	assert.Equal(t, 0.0, s.Map(100))
	assert.Equal(t, 200.0, s.Map(50))
	assert.Equal(t, 25.0, s.Invert(300))
}

func TestLinear_Fallbacks(t *testing.T) {
	empty := NewLinear(core.Extent[float64]{}, [2]float64{400, 0}, LabelGrouped)
	require.Equal(t, [2]float64{0, 1}, empty.Domain)
	require.NotEmpty(t, empty.Ticks(5))

	flat := NewLinear(core.Extent[float64]{}.Include(7), [2]float64{400, 0}, LabelGrouped)
	require.True(t, flat.Degenerate())
	require.Equal(t, 200.0, flat.Map(7))
	require.Equal(t, []float64{7}, tickValues(flat.Ticks(5)))
}

func TestLinear_Labels(t *testing.T) {
	grouped := NewLinear(core.Extent[float64]{}.Include(0).Include(3000), [2]float64{0, 1}, LabelGrouped)
	require.Equal(t, []string{"0", "500", "1,000", "1,500", "2,000", "2,500", "3,000"}, tickLabels(grouped.Ticks(5)))

	fractional := NewLinear(core.Extent[float64]{}.Include(0).Include(1), [2]float64{0, 1}, LabelGrouped)
	require.Equal(t, "0.5", fractional.Ticks(2)[1].Label)
	require.Equal(t, "1.0", fractional.Ticks(2)[2].Label)

	years := NewLinear(core.Extent[float64]{}.Include(2010).Include(2016), [2]float64{0, 1}, LabelPlain)
	require.Equal(t, "2010", years.Ticks(5)[0].Label)
}

func TestGroupThousands(t *testing.T) {
	assert.Equal(t, "999", groupThousands("999"))
	assert.Equal(t, "1,000", groupThousands("1000"))
	assert.Equal(t, "-12,345.5", groupThousands("-12345.5"))
	assert.Equal(t, "1,234,567", groupThousands("1234567"))
}

func TestTime_MonthlyTicks(t *testing.T) {
	extent := core.Extent[float64]{}.
		Include(core.TimeToMillis(month(2015, time.January))).
		Include(core.TimeToMillis(month(2020, time.December)))
	s := NewTime(extent, [2]float64{0, 685})

	ticks := s.Ticks(5)
	require.Equal(t, []string{"2015", "2016", "2017", "2018", "2019", "2020"}, tickLabels(ticks))

	assert.Equal(t, 0.0, s.MapTime(month(2015, time.January)))
	assert.InDelta(t, 685.0, s.MapTime(month(2020, time.December)), 1e-9)
}

func TestTime_QuarterTicks(t *testing.T) {
	extent := core.Extent[float64]{}.
		Include(core.TimeToMillis(month(2020, time.January))).
		Include(core.TimeToMillis(month(2020, time.December)))
	s := NewTime(extent, [2]float64{0, 100})

	labels := tickLabels(s.Ticks(5))
	require.Equal(t, []string{"2020", "April", "July", "October"}, labels)
}

func TestTime_MultiYearTicks(t *testing.T) {
	extent := core.Extent[float64]{}.
		Include(core.TimeToMillis(month(1990, time.January))).
		Include(core.TimeToMillis(month(2020, time.January)))
	s := NewTime(extent, [2]float64{0, 100})

	require.Equal(t, []string{"1990", "1995", "2000", "2005", "2010", "2015", "2020"}, tickLabels(s.Ticks(5)))
}

func TestTime_Fallback(t *testing.T) {
	s := NewTime(core.Extent[float64]{}, [2]float64{0, 100})
	require.Equal(t, FallbackTimeDomain, s.Domain)
	require.NotPanics(t, func() { s.Ticks(5) })
	require.Equal(t, 0.0, s.MapTime(FallbackTimeDomain[0]))
}

func TestFormatTime(t *testing.T) {
	assert.Equal(t, "2019", FormatTime(month(2019, time.January)))
	assert.Equal(t, "March", FormatTime(month(2019, time.March)))
	assert.Equal(t, "Mar 03", FormatTime(time.Date(2019, time.March, 3, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "Mon 04", FormatTime(time.Date(2019, time.March, 4, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "03 PM", FormatTime(time.Date(2019, time.March, 4, 15, 0, 0, 0, time.UTC)))
}

func TestSeriesExtent_IgnoresNaN(t *testing.T) {
	series := []core.Series{
		{Name: "A", Points: []core.Point{{Value: 3}, {Value: math.NaN()}, {Value: -2}}},
		{Name: "B", Points: []core.Point{{Value: 10}, {Value: 4}}},
		{Name: "C"},
	}

	extent := SeriesExtent(series)
	require.True(t, extent.Valid)
	require.Equal(t, -2.0, extent.Min)
	require.Equal(t, 10.0, extent.Max)
}

func TestBuild_VerticalDomainCoversAllPoints(t *testing.T) {
	layout := core.DefaultLayout()
	ds := &core.Dataset{Axis: core.AxisTime, Columns: []string{"A", "B"}}
	series := []core.Series{{Name: "A"}, {Name: "B"}}

	for i := 0; i < 24; i++ {
		ts := month(2018, time.January).AddDate(0, i, 0)
		a, b := float64(i*i%17), float64(50-i*3)
		ds.Rows = append(ds.Rows, core.Row{Time: ts, X: core.TimeToMillis(ts), Values: map[string]float64{"A": a, "B": b}})
		series[0].Points = append(series[0].Points, core.Point{Time: ts, X: core.TimeToMillis(ts), Value: a})
		series[1].Points = append(series[1].Points, core.Point{Time: ts, X: core.TimeToMillis(ts), Value: b})
	}

	x, y := Build(ds, series, layout)
	require.IsType(t, &Time{}, x)
	require.Equal(t, [2]float64{-19, 50}, y.Domain)
	require.Equal(t, [2]float64{400, 0}, y.Range())

	for _, s := range series {
		for _, p := range s.Points {
			py := y.Map(p.Value)
			require.GreaterOrEqual(t, py, 0.0)
			require.LessOrEqual(t, py, layout.PlotHeight())

			px := x.Map(p.X)
			require.GreaterOrEqual(t, px, 0.0)
			require.LessOrEqual(t, px, layout.PlotWidth()+1e-9)
		}
	}
}

func TestBuild_NumericAndEmpty(t *testing.T) {
	layout := core.DefaultLayout()

	ds := &core.Dataset{Axis: core.AxisNumber, Rows: []core.Row{{X: 2010}, {X: 2016}}}
	x, _ := Build(ds, nil, layout)
	require.IsType(t, &Linear{}, x)
	require.Equal(t, 0.0, x.Map(2010))
	require.Equal(t, layout.PlotWidth(), x.Map(2016))

	require.NotPanics(t, func() {
		x, y := Build(&core.Dataset{}, nil, layout)
		x.Ticks(5)
		y.Ticks(5)
		require.Equal(t, [2]float64{0, 1}, y.Domain)
	})
	require.NotPanics(t, func() { Build(nil, nil, layout) })
}
