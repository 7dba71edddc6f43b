// Command fars analyzes FARS traffic-fatality data: it summarizes accident
// counts by month and year, renders state point maps, and optionally serves
// both over HTTP.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/fars-analysis/internal/buildinfo"
	"github.com/couchcryptid/fars-analysis/internal/config"
	"github.com/couchcryptid/fars-analysis/internal/dataset"
	"github.com/couchcryptid/fars-analysis/internal/observability"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "fars",
		Short:   "FARS traffic-fatality analysis",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newSummarizeCmd(), newMapCmd(), newServeCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// app bundles the config, observability, and loader shared by all commands.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	metrics *observability.Metrics
	loader  *dataset.Loader
}

func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()
	loader := dataset.NewLoader(cfg.DataDir, logger, metrics)

	return &app{cfg: cfg, logger: logger, metrics: metrics, loader: loader}, nil
}
