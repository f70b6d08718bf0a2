package scale

import "github.com/raykavin/trendline/pkg/core"

// Build computes the horizontal and vertical scales of a chart.
// The horizontal domain spans every row; the vertical domain spans every point of every series.
// The vertical range is inverted so larger values draw higher.
func Build(ds *core.Dataset, series []core.Series, layout core.Layout) (Scale, *Linear) {
	var rows []core.Row
	axis := core.AxisTime
	if ds != nil {
		rows = ds.Rows
		axis = ds.Axis
	}

	width := [2]float64{0, layout.PlotWidth()}

	var x Scale
	if axis == core.AxisNumber {
		x = NewLinear(RowExtent(rows), width, LabelPlain)
	} else {
		x = NewTime(RowExtent(rows), width)
	}

	y := NewLinear(SeriesExtent(series), [2]float64{layout.PlotHeight(), 0}, LabelGrouped)

	return x, y
}
