package scale

import (
	"math"

	"github.com/raykavin/trendline/pkg/core"
)

// ExtentOf folds accessor over items, skipping NaN results
func ExtentOf[T any](items []T, accessor func(T) float64) core.Extent[float64] {
	var extent core.Extent[float64]
	for _, item := range items {
		v := accessor(item)
		if math.IsNaN(v) {
			continue
		}
		extent = extent.Include(v)
	}
	return extent
}

// SeriesExtent is the global value extent: the min of every series' min and the max of every series' max
func SeriesExtent(series []core.Series) core.Extent[float64] {
	var extent core.Extent[float64]
	for _, s := range series {
		extent = extent.Union(ExtentOf(s.Points, func(p core.Point) float64 { return p.Value }))
	}
	return extent
}

// RowExtent is the extent of the horizontal coordinate of every row
func RowExtent(rows []core.Row) core.Extent[float64] {
	return ExtentOf(rows, func(r core.Row) float64 { return r.X })
}
