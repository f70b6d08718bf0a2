package core

import (
	"math"
	"time"
)

// Axis identifies how the horizontal coordinate of a dataset is interpreted
type Axis int

const (
	AxisTime   Axis = iota // AxisTime rows carry a parsed date, X holds Unix milliseconds
	AxisNumber             // AxisNumber rows carry a plain number in X (e.g. a year as 2016)
)

// String returns the axis name used in JSON payloads
func (a Axis) String() string {
	if a == AxisNumber {
		return "number"
	}
	return "time"
}

// Row is one time point of a dataset, keyed by series name
type Row struct {
	Time   time.Time
	X      float64
	Values map[string]float64
}

// Value returns the value of a series in the row, NaN when the column is absent
func (r Row) Value(series string) float64 {
	v, ok := r.Values[series]
	if !ok {
		return math.NaN()
	}
	return v
}

// Point is a single (time, value) pair of a series
type Point struct {
	Time  time.Time `json:"time"`
	X     float64   `json:"x"`
	Value float64   `json:"value"`
}

// Series is one named line of a chart with its points in row order
type Series struct {
	Name   string  `json:"name"`
	Points []Point `json:"points"`
}

// Values returns the raw values of the series
func (s Series) Values() []float64 {
	values := make([]float64, len(s.Points))
	for i, p := range s.Points {
		values[i] = p.Value
	}
	return values
}

// Last returns the last point of the series and whether it exists
func (s Series) Last() (Point, bool) {
	if len(s.Points) == 0 {
		return Point{}, false
	}
	return s.Points[len(s.Points)-1], true
}

// Dataset is the typed content of an input file
type Dataset struct {
	Axis       Axis
	TimeColumn string
	Columns    []string // series names, in file order, without the time column
	Rows       []Row
}

// Len returns the number of rows
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Rows)
}

// Event is a vertical marker drawn at a fixed date
type Event struct {
	Date  time.Time `json:"date"`
	Label string    `json:"label,omitempty"`
}

// DateLayout is how dates are written in exports and event files
const DateLayout = "2006-01-02"

// MillisToTime converts an X value of a time axis back to a time
func MillisToTime(ms float64) time.Time {
	return time.UnixMilli(int64(ms)).UTC()
}

// TimeToMillis converts a time to the X value used by time axes
func TimeToMillis(t time.Time) float64 {
	return float64(t.UnixMilli())
}
