package export

import (
	"fmt"
	"io"
	"math"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/raykavin/trendline/pkg/core"
	"github.com/samber/lo"
)

// Colorer returns the display color of a series
type Colorer interface {
	Color(series string) string
}

// Page describes an interactive chart page
type Page struct {
	Title  string
	XLabel string
	YLabel string
	Axis   core.Axis
	Layout core.Layout
	Series []core.Series
	Colors Colorer
	// Hidden lists series names that start deselected in the legend
	Hidden []string
}

// WriteECharts renders the chart as a standalone ECharts page. Clicking a legend
// entry toggles its series.
func WriteECharts(w io.Writer, page Page) error {
	line := charts.NewLine()

	selected := make(map[string]bool, len(page.Series))
	for _, s := range page.Series {
		selected[s.Name] = !lo.Contains(page.Hidden, s.Name)
	}

	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: page.Title,
			Width:     fmt.Sprintf("%dpx", int(page.Layout.Width)),
			Height:    fmt.Sprintf("%dpx", int(page.Layout.OuterHeight())),
		}),
		charts.WithTitleOpts(opts.Title{Title: page.Title}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Right: "0", Orient: "vertical", Selected: selected}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{Name: page.XLabel}),
		charts.WithYAxisOpts(opts.YAxis{Name: page.YLabel}),
	)

	line.SetXAxis(categories(page.Axis, page.Series))

	for _, s := range page.Series {
		data := lo.Map(s.Points, func(p core.Point, _ int) opts.LineData {
			if math.IsNaN(p.Value) {
				return opts.LineData{Value: "-"}
			}
			return opts.LineData{Value: p.Value}
		})

		options := []charts.SeriesOpts{
			charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true), ShowSymbol: opts.Bool(false)}),
		}
		if page.Colors != nil {
			color := page.Colors.Color(s.Name)
			options = append(options,
				charts.WithItemStyleOpts(opts.ItemStyle{Color: color}),
				charts.WithLineStyleOpts(opts.LineStyle{Color: color, Width: 1}),
			)
		}

		line.AddSeries(s.Name, data, options...)
	}

	if err := line.Render(w); err != nil {
		return fmt.Errorf("failed to render %q: %w", page.Title, err)
	}
	return nil
}

// categories labels the horizontal axis from the first series; all series share rows
func categories(axis core.Axis, series []core.Series) []string {
	if len(series) == 0 {
		return []string{}
	}
	return lo.Map(series[0].Points, func(p core.Point, _ int) string {
		return FormatX(axis, p)
	})
}
