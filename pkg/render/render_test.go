package render

import (
	"bytes"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/raykavin/trendline/pkg/core"
	"github.com/raykavin/trendline/pkg/palette"
	"github.com/raykavin/trendline/pkg/scale"
	"github.com/raykavin/trendline/pkg/toggle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBasisPath(t *testing.T) {
	tests := []struct {
		name   string
		points []XY
		want   string
	}{
		{"empty", nil, ""},
		{"single", []XY{{3, 4}}, "M3,4Z"},
		{"two", []XY{{0, 0}, {6, 6}}, "M0,0L6,6"},
		{"three", []XY{{0, 0}, {6, 6}, {12, 0}}, "M0,0L1,1C2,2,4,4,6,4C8,4,10,2,11,1L12,0"},
		{"split", []XY{{0, 0}, {6, 6}, {math.NaN(), 1}, {3, 4}}, "M0,0L6,6M3,4Z"},
		{"only gaps", []XY{{math.NaN(), math.NaN()}}, ""},
		{"rounded", []XY{{0, 0}, {1, 1}, {2, 0}}, "M0,0L0.167,0.167C0.333,0.333,0.667,0.667,1,0.667C1.333,0.667,1.667,0.333,1.833,0.167L2,0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, BasisPath(tt.points))
		})
	}
}

func TestNum(t *testing.T) {
	assert.Equal(t, "0", Num(-0.0001))
	assert.Equal(t, "342.5", Num(342.5))
	assert.Equal(t, "366.667", Num(2200.0/6))
	assert.Equal(t, "translate(75,75)", Translate(75, 75))
}

func TestDocument_Markup(t *testing.T) {
	doc := NewDocument(core.DefaultLayout())
	doc.Text(Text{Class: "chart title", Content: "<1 & more"})

	var buf bytes.Buffer
	n, err := doc.WriteTo(&buf)
	require.NoError(t, err)
	require.Equal(t, int64(buf.Len()), n)

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, `<svg xmlns="http://www.w3.org/2000/svg" width="960" height="550">`))
	assert.Contains(t, out, `<g class="plot" transform="translate(75,75)">`)
	assert.Contains(t, out, `&lt;1 &amp; more`)
	assert.Equal(t, out, doc.String())
}

func scene(t *testing.T) (Scene, *toggle.Controller) {
	t.Helper()

	series := []core.Series{
		{Name: "Duck Duck Go", Points: []core.Point{{X: 2010, Value: 0}, {X: 2015, Value: 50}, {X: 2020, Value: 100}}},
		{Name: "Tor", Points: []core.Point{{X: 2010, Value: 20}, {X: 2015, Value: math.NaN()}, {X: 2020, Value: 30}}},
	}
	colors := palette.NewOrdinal(nil, "Duck Duck Go", "Tor")
	controls, err := toggle.New([]string{"Duck Duck Go", "Tor"}, colors, toggle.WithKind(toggle.Checkbox))
	require.NoError(t, err)

	layout := core.DefaultLayout()
	return Scene{
		Layout:     layout,
		Title:      "Annual Downloads",
		XLabel:     "Year",
		YLabel:     "Downloads",
		Series:     series,
		X:          scale.NewLinear(core.Extent[float64]{Min: 2010, Max: 2020, Valid: true}, [2]float64{0, layout.PlotWidth()}, scale.LabelPlain),
		Y:          scale.NewLinear(core.Extent[float64]{Min: 0, Max: 100, Valid: true}, [2]float64{layout.PlotHeight(), 0}, scale.LabelGrouped),
		Colors:     colors,
		Visibility: controls,
		Events:     []core.Event{{Date: time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC)}},
		Labels:     true,
	}, controls
}

func TestRenderer_Render(t *testing.T) {
	s, _ := scene(t)
	doc := NewDocument(s.Layout)
	require.NoError(t, New().Render(doc, s))

	grids := doc.FindByClass("grid")
	require.Len(t, grids, 2)

	xAxis := doc.FindByClass("x", "axis")
	require.Len(t, xAxis, 1)
	transform, _ := xAxis[0].Attr("transform")
	assert.Equal(t, "translate(0,400)", transform)

	domains := doc.FindByClass("domain")
	require.Len(t, domains, 4)
	d, _ := domains[0].Attr("d")
	assert.Equal(t, "M0,400V0H685V400", d)
	d, _ = domains[2].Attr("d")
	assert.Equal(t, "M0,6V0H685V6", d)
	d, _ = domains[3].Attr("d")
	assert.Equal(t, "M-6,400H0V0H-6", d)

	events := doc.FindByClass("event")
	require.Len(t, events, 1)
	x1, _ := events[0].Attr("x1")
	y2, _ := events[0].Attr("y2")
	assert.Equal(t, "342.5", x1)
	assert.Equal(t, "400", y2)
	stroke, _ := events[0].StyleOf("stroke")
	assert.Equal(t, EventStroke, stroke)

	title := doc.FindByClass("chart", "title")
	require.Len(t, title, 1)
	x, _ := title[0].Attr("x")
	assert.Equal(t, "342.5", x)
	assert.Equal(t, "Annual Downloads", title[0].Content)

	yTitle := doc.FindByClass("axis", "title")
	require.Len(t, yTitle, 2)
	transform, _ = yTitle[1].Attr("transform")
	assert.Equal(t, "rotate(-90), translate(-200, -50)", transform)

	lines := doc.FindByClass("line", "DuckDuckGo")
	require.Len(t, lines, 1)
	d, _ = lines[0].Attr("d")
	assert.Equal(t, BasisPath([]XY{{0, 400}, {342.5, 200}, {685, 0}}), d)
	color, _ := lines[0].StyleOf("stroke")
	assert.Equal(t, palette.Category10[0], color)
	width, _ := lines[0].StyleOf("stroke-width")
	assert.Equal(t, "1", width)

	tor := doc.FindByClass("line", "Tor")
	require.Len(t, tor, 1)
	d, _ = tor[0].Attr("d")
	assert.Equal(t, "M0,320ZM685,280Z", d)
}

func TestRenderer_LabelsAndVisibility(t *testing.T) {
	s, controls := scene(t)
	_, err := controls.Toggle("Tor")
	require.NoError(t, err)

	doc := NewDocument(s.Layout)
	require.NoError(t, New().Render(doc, s))

	width, _ := doc.FindByClass("line", "Tor")[0].StyleOf("stroke-width")
	assert.Equal(t, "0", width)

	label := doc.FindByClass("DuckDuckGo")
	require.Len(t, label, 3) // group, path and label
	text := label[2]
	assert.Equal(t, "text", text.Name)
	assert.Equal(t, "Duck Duck Go", text.Content)
	transform, _ := text.Attr("transform")
	assert.Equal(t, "translate(685,-400)", transform)
	font, _ := text.StyleOf("font")
	assert.Equal(t, toggle.LabelShown, font)

	torLabel := doc.FindByClass("Tor")
	require.Len(t, torLabel, 3)
	font, _ = torLabel[2].StyleOf("font")
	assert.Equal(t, toggle.LabelHidden, font)
}

func TestRenderer_TimeAxisEvents(t *testing.T) {
	layout := core.DefaultLayout()
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2020, 1, 11, 0, 0, 0, 0, time.UTC)

	extent := core.Extent[float64]{}.Include(core.TimeToMillis(start)).Include(core.TimeToMillis(end))
	s := Scene{
		Layout: layout,
		X:      scale.NewTime(extent, [2]float64{0, layout.PlotWidth()}),
		Y:      scale.NewLinear(core.Extent[float64]{}, [2]float64{layout.PlotHeight(), 0}, scale.LabelGrouped),
		Events: []core.Event{{Date: time.Date(2020, 1, 6, 0, 0, 0, 0, time.UTC)}},
	}

	doc := NewDocument(layout)
	require.NoError(t, New().Render(doc, s))

	events := doc.FindByClass("event")
	require.Len(t, events, 1)
	x1, _ := events[0].Attr("x1")
	assert.Equal(t, "342.5", x1)
}

func TestRenderer_Errors(t *testing.T) {
	s, _ := scene(t)

	bad := s
	bad.Layout.Width = 100
	require.ErrorIs(t, New().Render(NewDocument(bad.Layout), bad), core.ErrInvalidDimensions)

	bad = s
	bad.X = nil
	require.Error(t, New().Render(NewDocument(bad.Layout), bad))
}
