package core

// Margin is the space reserved around the plot area
type Margin struct {
	Top    float64 `json:"top" mapstructure:"top" yaml:"top"`
	Right  float64 `json:"right" mapstructure:"right" yaml:"right"`
	Bottom float64 `json:"bottom" mapstructure:"bottom" yaml:"bottom"`
	Left   float64 `json:"left" mapstructure:"left" yaml:"left"`
}

// Layout holds the outer size of a chart and its margins
type Layout struct {
	Width  float64 `json:"width" mapstructure:"width" yaml:"width"`
	Height float64 `json:"height" mapstructure:"height" yaml:"height"`
	Margin Margin  `json:"margin" mapstructure:"margin" yaml:"margin"`
}

// DefaultLayout returns the layout used when none is configured
func DefaultLayout() Layout {
	return Layout{
		Width:  960,
		Height: 400,
		Margin: Margin{Top: 75, Right: 200, Bottom: 75, Left: 75},
	}
}

// PlotWidth is the horizontal space left for the plot area
func (l Layout) PlotWidth() float64 {
	w := l.Width - l.Margin.Left - l.Margin.Right
	if w < 0 {
		return 0
	}
	return w
}

// PlotHeight is the vertical space of the plot area
func (l Layout) PlotHeight() float64 {
	return l.Height
}

// OuterHeight is the full height of the SVG element including margins
func (l Layout) OuterHeight() float64 {
	return l.Height + l.Margin.Top + l.Margin.Bottom
}
