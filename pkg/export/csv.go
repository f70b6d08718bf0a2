package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/raykavin/trendline/pkg/core"
)

// Header is the first line of every long-format export
var Header = []string{"series", "time", "value"}

// FormatX renders the horizontal coordinate of a point for its axis kind
func FormatX(axis core.Axis, p core.Point) string {
	if axis == core.AxisNumber {
		return strconv.FormatFloat(p.X, 'f', -1, 64)
	}
	return p.Time.Format(core.DateLayout)
}

// FormatValue renders a value; NaN is written as an empty cell
func FormatValue(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// WriteCSV writes series in long format, one line per point, series in order
func WriteCSV(w io.Writer, axis core.Axis, series []core.Series) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, s := range series {
		for _, p := range s.Points {
			if err := cw.Write([]string{s.Name, FormatX(axis, p), FormatValue(p.Value)}); err != nil {
				return fmt.Errorf("failed to write %s: %w", s.Name, err)
			}
		}
	}

	cw.Flush()
	return cw.Error()
}
