package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/raykavin/trendline"
	"github.com/raykavin/trendline/internal/config"
	"github.com/raykavin/trendline/pkg/core"
	"github.com/raykavin/trendline/pkg/export"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var (
	outputDir   string
	withCSV     bool
	interactive bool
)

func buildRenderCmd() *cobra.Command {
	renderCmd := &cobra.Command{
		Use:   "render",
		Short: "Render charts to SVG files",
		RunE:  runRender,
	}

	renderCmd.Flags().StringVarP(&outputDir, "output", "o", ".", "Output directory")
	renderCmd.Flags().StringSliceVar(&chartNames, "chart", nil, "Charts to render (default all)")
	renderCmd.Flags().BoolVar(&withCSV, "csv", false, "Also write the long-format CSV of each chart")
	renderCmd.Flags().BoolVar(&interactive, "interactive", false, "Also write an interactive HTML page of each chart")

	return renderCmd
}

// selectCharts returns the charts named on the command line, or every chart
func selectCharts(cfg *config.Config) ([]trendline.Chart, error) {
	if len(chartNames) == 0 {
		return cfg.Charts, nil
	}

	charts := make([]trendline.Chart, 0, len(chartNames))
	for _, name := range chartNames {
		chart, err := cfg.Chart(name)
		if err != nil {
			return nil, err
		}
		charts = append(charts, chart)
	}
	return charts, nil
}

func runRender(cmd *cobra.Command, _ []string) error {
	cfg, log, loader, err := setup()
	if err != nil {
		return err
	}

	charts, err := selectCharts(cfg)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("could not create output directory: %w", err)
	}

	events := loadEvents(cmd.Context(), cfg, log, loader)

	failed := 0
	progressBar := progressbar.Default(int64(len(charts)), "rendering")
	for _, chart := range charts {
		if err := renderChart(cmd, loader, cfg, chart, events); err != nil {
			log.WithField("chart", chart.Name).WithError(err).Error("render failed")
			failed++
		}

		if err := progressBar.Add(1); err != nil {
			log.Warnf("update progressbar fail: %v", err)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d charts failed", failed, len(charts))
	}
	return nil
}

func renderChart(cmd *cobra.Command, src trendline.Source, cfg *config.Config, chart trendline.Chart, events []core.Event) error {
	p, err := trendline.Prepare(cmd.Context(), src, chart, cfg.Layout)
	if err != nil {
		return err
	}

	doc, err := p.Document(events)
	if err != nil {
		return err
	}

	if err := writeFile(chart.Name+".svg", func(f *os.File) error {
		_, err := doc.WriteTo(f)
		return err
	}); err != nil {
		return err
	}

	if withCSV {
		err := writeFile(chart.Name+".csv", func(f *os.File) error {
			return export.WriteCSV(f, p.Dataset.Axis, p.Series)
		})
		if err != nil {
			return err
		}
	}

	if interactive {
		err := writeFile(chart.Name+".html", func(f *os.File) error {
			return export.WriteECharts(f, export.Page{
				Title:  chart.Title,
				XLabel: chart.XLabel,
				YLabel: chart.YLabel,
				Axis:   p.Dataset.Axis,
				Layout: p.Layout,
				Series: p.Series,
				Colors: p.Colors,
			})
		})
		if err != nil {
			return err
		}
	}

	return nil
}

func writeFile(name string, write func(*os.File) error) error {
	f, err := os.Create(filepath.Join(outputDir, name))
	if err != nil {
		return err
	}

	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("failed writing %s: %w", name, err)
	}
	return f.Close()
}
