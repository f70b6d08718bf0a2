package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/raykavin/trendline/internal/config"
	"github.com/raykavin/trendline/pkg/core"
	"github.com/raykavin/trendline/pkg/dataset"
	"github.com/raykavin/trendline/pkg/logger"
	"github.com/raykavin/trendline/pkg/logger/zerolog"
	"github.com/spf13/cobra"
)

// Command line flags
var (
	configPath string
	logLevel   string
	chartNames []string
)

func main() {
	// Create root command
	rootCmd := &cobra.Command{
		Use:           "trendline",
		Short:         "Line charts from CSV files with toggleable series",
		Version:       "1.0.0",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Configuration file (e.g. ./trendline.yaml)")
	rootCmd.PersistentFlags().StringVarP(&logLevel, "log-level", "l", "", "Log level override (trace, debug, info, warn, error)")

	// Add commands
	rootCmd.AddCommand(
		buildServeCmd(),
		buildRenderCmd(),
		buildSummaryCmd(),
		buildConfigCmd(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Execute
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup loads the configuration and builds the logger and loader every command shares
func setup() (*config.Config, logger.Logger, *dataset.Loader, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, nil, err
	}

	if logLevel != "" {
		cfg.Log.Level = logLevel
	}

	log, err := zerolog.New(zerolog.Options{
		Level:      cfg.Log.Level,
		TimeLayout: cfg.Log.TimeLayout,
		Colored:    cfg.Log.Colored,
		JSON:       cfg.Log.JSON,
	})
	if err != nil {
		return nil, nil, nil, err
	}

	var options []dataset.Option
	if cfg.Sheet != "" {
		options = append(options, dataset.WithSheet(cfg.Sheet))
	}

	return cfg, log, dataset.NewLoader(log, options...), nil
}

// loadEvents reads the event markers; a missing file only disables them
func loadEvents(ctx context.Context, cfg *config.Config, log logger.Logger, loader *dataset.Loader) []core.Event {
	if cfg.Events == "" {
		return nil
	}

	events, err := loader.LoadEvents(ctx, cfg.Events)
	if err != nil {
		log.WithField("source", cfg.Events).WithError(err).Warn("events not loaded")
		return nil
	}

	log.WithField("events", len(events)).Debug("events loaded")
	return events
}
