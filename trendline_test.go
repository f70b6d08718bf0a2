package trendline

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/raykavin/trendline/pkg/core"
	"github.com/raykavin/trendline/pkg/dataset"
	"github.com/raykavin/trendline/pkg/logger/zerolog"
	"github.com/raykavin/trendline/pkg/palette"
	"github.com/raykavin/trendline/pkg/toggle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCSV(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func awareness(t *testing.T) Chart {
	return Chart{
		Name:    "awareness",
		Source:  writeCSV(t, "awareness.csv", "Month,Tor,Duck Duck Go\n2020-01,<1,5\n2020-02,3,7\n2020-03,4,9\n"),
		Rows:    "month",
		Title:   "Google Trends for Various Privacy Tools",
		XLabel:  "Year",
		YLabel:  "Google Trends Results",
		Control: "button",
		Group:   "app",
		Events:  true,
	}
}

func TestPrepare(t *testing.T) {
	loader := dataset.NewLoader(zerolog.NewNop())
	p, err := Prepare(context.Background(), loader, awareness(t), core.DefaultLayout())
	require.NoError(t, err)

	require.Len(t, p.Series, 2)
	assert.Equal(t, []float64{0, 3, 4}, p.Series[0].Values())
	assert.Equal(t, []float64{0, 9}, p.Y.Domain[:])
	assert.Equal(t, palette.Category10[1], p.Colors.Color("Duck Duck Go"))
	assert.Equal(t, toggle.Button, p.Controls.Kind())

	for _, s := range p.Series {
		for _, pt := range s.Points {
			y := p.Y.Map(pt.Value)
			assert.True(t, y >= 0 && y <= p.Layout.PlotHeight())
		}
	}
}

func TestPrepared_Document(t *testing.T) {
	loader := dataset.NewLoader(zerolog.NewNop())
	p, err := Prepare(context.Background(), loader, awareness(t), core.DefaultLayout())
	require.NoError(t, err)

	events := []core.Event{{Date: time.Date(2020, 2, 1, 0, 0, 0, 0, time.UTC), Label: "launch"}}

	doc, err := p.Document(events)
	require.NoError(t, err)
	require.Len(t, doc.FindByClass("line", "DuckDuckGo"), 1)
	require.Len(t, doc.FindByClass("event"), 1)

	_, err = p.Controls.Toggle("DuckDuckGo")
	require.NoError(t, err)

	doc, err = p.Document(events)
	require.NoError(t, err)
	width, _ := doc.FindByClass("line", "DuckDuckGo")[0].StyleOf("stroke-width")
	assert.Equal(t, "0", width)

	p.Chart.Events = false
	doc, err = p.Document(events)
	require.NoError(t, err)
	require.Empty(t, doc.FindByClass("event"))
}

func TestPrepareAll_IsolatesFailures(t *testing.T) {
	loader := dataset.NewLoader(zerolog.NewNop())

	broken := awareness(t)
	broken.Name = "broken"
	broken.Source = filepath.Join(t.TempDir(), "missing.csv")

	charts := []Chart{awareness(t), broken}
	prepared, failed := PrepareAll(context.Background(), loader, charts, core.DefaultLayout())

	require.Len(t, prepared, 1)
	assert.Equal(t, "awareness", prepared[0].Chart.Name)
	require.Len(t, failed, 1)
	assert.Error(t, failed["broken"])
}

func TestPrepare_EmptyDataset(t *testing.T) {
	loader := dataset.NewLoader(zerolog.NewNop())
	chart := awareness(t)
	chart.Source = writeCSV(t, "header.csv", "Month,Tor,Signal\n")

	p, err := Prepare(context.Background(), loader, chart, core.DefaultLayout())
	require.NoError(t, err)
	assert.Equal(t, [2]float64{0, 1}, p.Y.Domain)

	_, err = p.Document(nil)
	require.NoError(t, err)
}

func TestChart_Validate(t *testing.T) {
	chart := awareness(t)
	require.NoError(t, chart.Validate())

	bad := chart
	bad.Source = ""
	require.ErrorIs(t, bad.Validate(), core.ErrEmptySource)

	bad = chart
	bad.Rows = "weekly"
	require.ErrorIs(t, bad.Validate(), core.ErrUnknownConverter)

	bad = chart
	bad.Control = "slider"
	require.Error(t, bad.Validate())

	bad = chart
	bad.Name = ""
	require.Error(t, bad.Validate())

	_, err := Prepare(context.Background(), dataset.NewLoader(zerolog.NewNop()), chart, core.Layout{
		Width:  100,
		Height: 400,
		Margin: core.Margin{Left: 75, Right: 200},
	})
	require.ErrorIs(t, err, core.ErrInvalidDimensions)
}

func TestChart_ControlGroup(t *testing.T) {
	assert.Equal(t, "app", Chart{Name: "x", Group: "app"}.ControlGroup())
	assert.Equal(t, "SocialMedia", Chart{Name: "Social Media"}.ControlGroup())
}
