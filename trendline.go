package trendline

import (
	"context"
	"fmt"

	"github.com/raykavin/trendline/pkg/core"
	"github.com/raykavin/trendline/pkg/dataset"
	"github.com/raykavin/trendline/pkg/palette"
	"github.com/raykavin/trendline/pkg/render"
	"github.com/raykavin/trendline/pkg/scale"
	"github.com/raykavin/trendline/pkg/toggle"
)

// Chart declares one line chart: where its data lives, how rows are read and how it is labeled
type Chart struct {
	Name    string `mapstructure:"name" yaml:"name" json:"name"`
	Source  string `mapstructure:"source" yaml:"source" json:"source"`
	Rows    string `mapstructure:"rows" yaml:"rows" json:"rows"`
	Title   string `mapstructure:"title" yaml:"title" json:"title"`
	XLabel  string `mapstructure:"x_label" yaml:"x_label" json:"xLabel"`
	YLabel  string `mapstructure:"y_label" yaml:"y_label" json:"yLabel"`
	Control string `mapstructure:"control" yaml:"control" json:"control"`
	Group   string `mapstructure:"group" yaml:"group" json:"group"`
	Labels  bool   `mapstructure:"labels" yaml:"labels" json:"labels"`
	Events  bool   `mapstructure:"events" yaml:"events" json:"events"`
}

// Validate checks that the chart can be prepared
func (c Chart) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("chart without name")
	}
	if c.Source == "" {
		return fmt.Errorf("chart %q: %w", c.Name, core.ErrEmptySource)
	}
	if _, err := dataset.ConverterByName(c.Rows); err != nil {
		return fmt.Errorf("chart %q: %w", c.Name, err)
	}
	if _, err := toggle.KindByName(c.Control); err != nil {
		return fmt.Errorf("chart %q: %w", c.Name, err)
	}
	return nil
}

// ControlGroup returns the class shared by every control of the chart
func (c Chart) ControlGroup() string {
	if c.Group != "" {
		return c.Group
	}
	return toggle.ControlID(c.Name)
}

// Source loads a dataset
type Source interface {
	Load(ctx context.Context, source string, conv dataset.Converter) (*core.Dataset, error)
}

// Prepared is a loaded chart with its scales, colors and controls, ready to draw
type Prepared struct {
	Chart    Chart
	Layout   core.Layout
	Dataset  *core.Dataset
	Series   []core.Series
	X        scale.Scale
	Y        *scale.Linear
	Colors   *palette.Ordinal
	Controls *toggle.Controller
}

// Prepare runs the load, reshape and scale stages of one chart
func Prepare(ctx context.Context, src Source, chart Chart, layout core.Layout) (*Prepared, error) {
	if err := chart.Validate(); err != nil {
		return nil, err
	}
	if layout.PlotWidth() <= 0 || layout.PlotHeight() <= 0 {
		return nil, fmt.Errorf("chart %q: %w", chart.Name, core.ErrInvalidDimensions)
	}

	conv, _ := dataset.ConverterByName(chart.Rows)
	kind, _ := toggle.KindByName(chart.Control)

	ds, err := src.Load(ctx, chart.Source, conv)
	if err != nil {
		return nil, fmt.Errorf("chart %q: %w", chart.Name, err)
	}

	series := dataset.Reshape(ds)
	x, y := scale.Build(ds, series, layout)
	colors := palette.NewOrdinal(nil, ds.Columns...)

	controls, err := toggle.New(ds.Columns, colors, toggle.WithKind(kind), toggle.WithInitial(toggle.Active))
	if err != nil {
		return nil, fmt.Errorf("chart %q: %w", chart.Name, err)
	}

	return &Prepared{
		Chart:    chart,
		Layout:   layout,
		Dataset:  ds,
		Series:   series,
		X:        x,
		Y:        y,
		Colors:   colors,
		Controls: controls,
	}, nil
}

// PrepareAll prepares every chart. A chart that fails is reported in the error map
// and left out of the result; its siblings are unaffected.
func PrepareAll(ctx context.Context, src Source, charts []Chart, layout core.Layout) ([]*Prepared, map[string]error) {
	prepared := make([]*Prepared, 0, len(charts))
	failed := make(map[string]error)

	for _, chart := range charts {
		p, err := Prepare(ctx, src, chart, layout)
		if err != nil {
			failed[chart.Name] = err
			continue
		}
		prepared = append(prepared, p)
	}

	return prepared, failed
}

// Scene builds the drawable scene of the chart in its current toggle state
func (p *Prepared) Scene(events []core.Event) render.Scene {
	s := render.Scene{
		Layout:     p.Layout,
		Title:      p.Chart.Title,
		XLabel:     p.Chart.XLabel,
		YLabel:     p.Chart.YLabel,
		Series:     p.Series,
		X:          p.X,
		Y:          p.Y,
		Colors:     p.Colors,
		Visibility: p.Controls,
		Labels:     p.Chart.Labels,
	}

	if p.Chart.Events {
		s.Events = events
	}

	return s
}

// Draw renders the chart onto target
func (p *Prepared) Draw(target render.Target, events []core.Event, options ...render.Option) error {
	return render.New(options...).Render(target, p.Scene(events))
}

// Document renders the chart into a new SVG document
func (p *Prepared) Document(events []core.Event, options ...render.Option) (*render.Document, error) {
	doc := render.NewDocument(p.Layout)
	if err := p.Draw(doc, events, options...); err != nil {
		return nil, err
	}
	return doc, nil
}
