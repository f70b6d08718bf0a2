package dataset

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/raykavin/trendline/pkg/core"
)

// Sentinel is the token Google Trends exports write for values below one
const Sentinel = "<1"

const (
	MonthLayout = "2006-01"
	YearLayout  = "2006"
	DayLayout   = core.DateLayout
)

// Converter turns one CSV record into a typed row.
// The first header column is the time column; the remaining ones are series.
type Converter interface {
	Axis() core.Axis
	Convert(header []string, record []string) (core.Row, error)
}

// TimeConverter parses the first column with layout and every other column as a number.
// When sentinel is true, the Sentinel token is read as zero.
type TimeConverter struct {
	Layout   string
	Sentinel bool
}

// Axis implements Converter.
func (c TimeConverter) Axis() core.Axis { return core.AxisTime }

// Convert implements Converter.
func (c TimeConverter) Convert(header []string, record []string) (core.Row, error) {
	raw := strings.TrimSpace(cell(record, 0))
	ts, err := time.ParseInLocation(c.Layout, raw, time.UTC)
	if err != nil {
		return core.Row{}, fmt.Errorf("%w: %q does not match layout %q", core.ErrInvalidTime, raw, c.Layout)
	}

	row := core.Row{
		Time:   ts,
		X:      core.TimeToMillis(ts),
		Values: make(map[string]float64, len(header)-1),
	}

	for j := 1; j < len(header); j++ {
		row.Values[header[j]] = parseValue(cell(record, j), c.Sentinel)
	}

	return row, nil
}

// NumericConverter reads every column as a number; the first one becomes X.
// Blank cells read as zero and anything else unparseable as NaN.
type NumericConverter struct{}

// Axis implements Converter.
func (NumericConverter) Axis() core.Axis { return core.AxisNumber }

// Convert implements Converter.
func (NumericConverter) Convert(header []string, record []string) (core.Row, error) {
	row := core.Row{
		X:      parseNumber(cell(record, 0)),
		Values: make(map[string]float64, len(header)-1),
	}

	for j := 1; j < len(header); j++ {
		row.Values[header[j]] = parseNumber(cell(record, j))
	}

	return row, nil
}

var (
	MonthConverter Converter = TimeConverter{Layout: MonthLayout, Sentinel: true}
	YearConverter  Converter = TimeConverter{Layout: YearLayout}
)

// ConverterByName resolves the row rule named in chart definitions
func ConverterByName(name string) (Converter, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "month", "monthly":
		return MonthConverter, nil
	case "year", "yearly":
		return YearConverter, nil
	case "numeric", "number", "raw":
		return NumericConverter{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", core.ErrUnknownConverter, name)
	}
}

func cell(record []string, i int) string {
	if i < len(record) {
		return record[i]
	}
	return ""
}

// parseValue reads a series cell. Malformed tokens become NaN.
func parseValue(token string, sentinel bool) float64 {
	token = strings.TrimSpace(token)
	if sentinel && token == Sentinel {
		return 0
	}

	v, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// parseNumber reads a cell the way a unary plus coercion does: blank is zero.
func parseNumber(token string) float64 {
	token = strings.TrimSpace(token)
	if token == "" {
		return 0
	}

	v, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}
