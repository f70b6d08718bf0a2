package plot

import (
	"html/template"
	"math"

	"github.com/raykavin/trendline/pkg/core"
	"github.com/raykavin/trendline/pkg/export"
	"github.com/raykavin/trendline/pkg/toggle"
)

// control is one series toggle as shown on the index page
type control struct {
	ID     string
	Series string
	Class  string
	Color  string
	Style  toggle.Style
}

// chartView is one chart section of the index page
type chartView struct {
	Name     string
	Title    string
	Checkbox bool
	SVG      template.HTML
	Controls []control
	Error    string
}

// point is the JSON form of a series point; missing values encode as null
type point struct {
	Time  string   `json:"time"`
	Value *float64 `json:"value"`
}

type seriesData struct {
	Name    string  `json:"name"`
	Control string  `json:"control"`
	Color   string  `json:"color"`
	Points  []point `json:"points"`
}

type domain struct {
	X [2]any     `json:"x"`
	Y [2]float64 `json:"y"`
}

type dataResponse struct {
	Name     string         `json:"name"`
	Title    string         `json:"title"`
	XLabel   string         `json:"xLabel"`
	YLabel   string         `json:"yLabel"`
	Axis     string         `json:"axis"`
	Series   []seriesData   `json:"series"`
	Domain   domain         `json:"domain"`
	Controls []toggle.Style `json:"controls"`
	Events   []core.Event   `json:"events,omitempty"`
}

func toPoints(axis core.Axis, points []core.Point) []point {
	out := make([]point, len(points))
	for i, p := range points {
		out[i] = point{Time: export.FormatX(axis, p)}
		if !math.IsNaN(p.Value) {
			v := p.Value
			out[i].Value = &v
		}
	}
	return out
}

// frozen is a visibility snapshot, so a document always matches the cache key it is stored under
type frozen map[string]bool

func freeze(hidden []string) frozen {
	f := make(frozen, len(hidden))
	for _, id := range hidden {
		f[id] = true
	}
	return f
}

func (f frozen) StrokeWidth(series string) float64 {
	if f[toggle.ControlID(series)] {
		return 0
	}
	return 1
}
