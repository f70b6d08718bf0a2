package render

import (
	"fmt"
	"math"
	"time"

	"github.com/raykavin/trendline/pkg/core"
	"github.com/raykavin/trendline/pkg/scale"
	"github.com/raykavin/trendline/pkg/toggle"
)

const (
	EventStroke      = "rgba(0, 0, 0, 0.5)"
	EventStrokeWidth = "2px"
)

// Colorer returns the display color of a series
type Colorer interface {
	Color(series string) string
}

// Visibility returns the stroke width a series is currently drawn with
type Visibility interface {
	StrokeWidth(series string) float64
}

// Scene is everything needed to draw one chart
type Scene struct {
	Layout core.Layout
	Title  string
	XLabel string
	YLabel string
	Series []core.Series
	X      scale.Scale
	Y      *scale.Linear
	Colors Colorer
	// Visibility is optional; every series is drawn when nil
	Visibility Visibility
	Events     []core.Event
	// Labels draws the series name at the end of its line
	Labels bool
}

// Renderer draws scenes onto targets
type Renderer struct {
	gridTicks int
	axisTicks int
}

// Option configures a Renderer
type Option func(*Renderer)

// WithGridTicks sets how many grid lines each direction aims for
func WithGridTicks(n int) Option {
	return func(r *Renderer) {
		r.gridTicks = n
	}
}

// WithAxisTicks sets how many labeled ticks each axis aims for
func WithAxisTicks(n int) Option {
	return func(r *Renderer) {
		r.axisTicks = n
	}
}

// New creates a renderer
func New(options ...Option) *Renderer {
	r := &Renderer{
		gridTicks: 5,
		axisTicks: 10,
	}

	for _, option := range options {
		option(r)
	}

	return r
}

// Render draws grid, axes, event markers, titles, series lines and labels, in that order
func (r *Renderer) Render(t Target, s Scene) error {
	if s.X == nil || s.Y == nil {
		return fmt.Errorf("render %q: missing scales", s.Title)
	}
	if s.Layout.PlotWidth() <= 0 || s.Layout.PlotHeight() <= 0 {
		return fmt.Errorf("render %q: %w", s.Title, core.ErrInvalidDimensions)
	}

	r.grid(t, s)
	r.axes(t, s)
	r.events(t, s)
	r.titles(t, s)
	r.lines(t, s)

	return nil
}

func (r *Renderer) grid(t Target, s Scene) {
	axis{orient: bottom, scale: s.X, ticks: r.gridTicks, tickSize: s.Layout.PlotHeight()}.
		draw(t.Group("grid", ""))
	axis{orient: right, scale: s.Y, ticks: r.gridTicks, tickSize: s.Layout.PlotWidth()}.
		draw(t.Group("grid", ""))
}

func (r *Renderer) axes(t Target, s Scene) {
	axis{orient: bottom, scale: s.X, ticks: r.axisTicks, tickSize: defaultTickSize, labels: true}.
		draw(t.Group("x axis", Translate(0, s.Layout.PlotHeight())))
	axis{orient: left, scale: s.Y, ticks: r.axisTicks, tickSize: defaultTickSize, labels: true}.
		draw(t.Group("y axis", ""))
}

func (r *Renderer) events(t Target, s Scene) {
	for _, e := range s.Events {
		x := eventX(s.X, e.Date)
		if math.IsNaN(x) {
			continue
		}

		t.Line(Line{
			Class:       "event",
			X1:          x,
			X2:          x,
			Y1:          0,
			Y2:          s.Layout.PlotHeight(),
			Stroke:      EventStroke,
			StrokeWidth: EventStrokeWidth,
		})
	}
}

func (r *Renderer) titles(t Target, s Scene) {
	w, h := s.Layout.PlotWidth(), s.Layout.PlotHeight()

	if s.Title != "" {
		t.Text(Text{Class: "chart title", X: w / 2, Y: 0, Anchor: "middle", Content: s.Title})
	}
	if s.XLabel != "" {
		t.Text(Text{Class: "axis title", X: w, Y: h, DX: "1.5em", DY: "0.5em", Content: s.XLabel})
	}
	if s.YLabel != "" {
		t.Text(Text{
			Class:     "axis title",
			Anchor:    "middle",
			Transform: fmt.Sprintf("rotate(-90), translate(-%s, -50)", Num(h/2)),
			Content:   s.YLabel,
		})
	}
}

func (r *Renderer) lines(t Target, s Scene) {
	for _, series := range s.Series {
		id := toggle.ControlID(series.Name)
		color := ""
		if s.Colors != nil {
			color = s.Colors.Color(series.Name)
		}

		width := 1.0
		if s.Visibility != nil {
			width = s.Visibility.StrokeWidth(series.Name)
		}

		points := make([]XY, len(series.Points))
		for i, p := range series.Points {
			points[i] = XY{X: s.X.Map(p.X), Y: s.Y.Map(p.Value)}
		}

		g := t.Group("series "+id, "")
		g.Path(Path{
			Class:       "line " + id,
			D:           BasisPath(points),
			Stroke:      color,
			StrokeWidth: Num(width),
			Fill:        "none",
		})

		if s.Labels {
			r.label(g, s, series, id, color, width)
		}
	}
}

// label places the series name right of the last defined point of the line
func (r *Renderer) label(t Target, s Scene, series core.Series, id, color string, width float64) {
	first, last, ok := definedBounds(series)
	if !ok {
		return
	}

	y0 := s.Y.Map(first.Value)
	font := toggle.LabelShown
	if width == 0 {
		font = toggle.LabelHidden
	}

	t.Text(Text{
		Class:     id,
		X:         3,
		Y:         y0,
		DY:        "0.35em",
		Transform: Translate(s.X.Map(last.X), s.Y.Map(last.Value)-y0),
		Fill:      color,
		Font:      font,
		Content:   series.Name,
	})
}

func definedBounds(series core.Series) (first, last core.Point, ok bool) {
	for _, p := range series.Points {
		if math.IsNaN(p.Value) {
			continue
		}
		if !ok {
			first, ok = p, true
		}
		last = p
	}
	return first, last, ok
}

// eventX positions a date on the horizontal scale. Numeric axes read the date
// as a fractional year.
func eventX(x scale.Scale, date time.Time) float64 {
	if ts, ok := x.(*scale.Time); ok {
		return ts.MapTime(date)
	}

	start := time.Date(date.Year(), time.January, 1, 0, 0, 0, 0, date.Location())
	days := float64(start.AddDate(1, 0, 0).Sub(start))
	return x.Map(float64(date.Year()) + float64(date.Sub(start))/days)
}
