package main

import (
	"github.com/raykavin/trendline/pkg/plot"
	"github.com/raykavin/trendline/pkg/storage"
	"github.com/spf13/cobra"
)

var (
	port  int
	debug bool
)

func buildServeCmd() *cobra.Command {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve every chart with its toggle controls",
		RunE:  runServe,
	}

	serveCmd.Flags().IntVarP(&port, "port", "p", 0, "HTTP port (overrides the configuration)")
	serveCmd.Flags().BoolVar(&debug, "debug", false, "Serve the page script unminified")

	return serveCmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, log, loader, err := setup()
	if err != nil {
		return err
	}

	if port > 0 {
		cfg.Server.Port = port
	}

	options := []plot.Option{
		plot.WithPort(cfg.Server.Port),
		plot.WithLayout(cfg.Layout),
		plot.WithCharts(cfg.Charts...),
		plot.WithEvents(loadEvents(cmd.Context(), cfg, log, loader)),
	}

	if debug || cfg.Server.Debug {
		options = append(options, plot.WithDebug())
	}

	if cfg.Cache.Enabled {
		ttl, err := cfg.Cache.Duration()
		if err != nil {
			return err
		}

		var cache *storage.BuntCache
		if cfg.Cache.Path == "" {
			cache, err = storage.FromMemory(ttl)
		} else {
			cache, err = storage.NewBuntCache(cfg.Cache.Path, ttl)
		}
		if err != nil {
			return err
		}
		defer func() {
			hits, misses := cache.Stats()
			log.WithFields(map[string]any{"hits": hits, "misses": misses}).Debug("cache closed")
			cache.Close()
		}()

		options = append(options, plot.WithCache(cache))
	}

	server, err := plot.NewServer(log, loader, options...)
	if err != nil {
		return err
	}

	return server.Start(cmd.Context())
}
