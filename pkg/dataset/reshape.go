package dataset

import (
	"github.com/raykavin/trendline/pkg/core"
	"github.com/samber/lo"
)

// Reshape turns row-oriented data into one series per column.
// Points are taken positionally from each row, so every series has exactly
// one point per row and keeps the row order.
func Reshape(ds *core.Dataset) []core.Series {
	if ds == nil {
		return nil
	}

	return lo.Map(ds.Columns, func(name string, _ int) core.Series {
		return core.Series{
			Name: name,
			Points: lo.Map(ds.Rows, func(row core.Row, _ int) core.Point {
				return core.Point{Time: row.Time, X: row.X, Value: row.Value(name)}
			}),
		}
	})
}
