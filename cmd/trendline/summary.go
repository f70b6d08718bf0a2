package main

import (
	"context"
	"fmt"
	"io"

	"github.com/raykavin/trendline"
	"github.com/raykavin/trendline/pkg/core"
	"github.com/raykavin/trendline/pkg/logger"
	"github.com/raykavin/trendline/pkg/report"
	"github.com/spf13/cobra"
)

var (
	samples   int
	bins      int
	histogram bool
)

func buildSummaryCmd() *cobra.Command {
	summaryCmd := &cobra.Command{
		Use:   "summary",
		Short: "Print per-series statistics of each chart",
		RunE:  runSummary,
	}

	summaryCmd.Flags().StringSliceVar(&chartNames, "chart", nil, "Charts to summarize (default all)")
	summaryCmd.Flags().IntVar(&samples, "samples", 1000, "Bootstrap samples for the mean confidence interval (0 disables)")
	summaryCmd.Flags().BoolVar(&histogram, "histogram", false, "Also print the value distribution of each chart")
	summaryCmd.Flags().IntVar(&bins, "bins", 10, "Histogram bins")

	return summaryCmd
}

func runSummary(cmd *cobra.Command, _ []string) error {
	cfg, log, loader, err := setup()
	if err != nil {
		return err
	}

	charts, err := selectCharts(cfg)
	if err != nil {
		return err
	}

	return summarize(cmd.Context(), cmd.OutOrStdout(), log, loader, cfg.Layout, charts)
}

// summarize prints the statistics of every chart; a chart that fails is logged and skipped
func summarize(ctx context.Context, out io.Writer, log logger.Logger, src trendline.Source, layout core.Layout, charts []trendline.Chart) error {
	failed := 0
	for _, chart := range charts {
		p, err := trendline.Prepare(ctx, src, chart, layout)
		if err != nil {
			log.WithField("chart", chart.Name).WithError(err).Error("summary failed")
			failed++
			continue
		}

		fmt.Fprintln(out, report.Table(chart.Title, report.Summarize(p.Series, samples)))

		if histogram {
			if err := report.Histogram(out, p.Series, bins); err != nil {
				return err
			}
			fmt.Fprintln(out)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d charts failed", failed, len(charts))
	}
	return nil
}
