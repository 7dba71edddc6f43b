package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	httpadapter "github.com/couchcryptid/fars-analysis/internal/adapter/http"
	"github.com/couchcryptid/fars-analysis/internal/analysis"
	"github.com/couchcryptid/fars-analysis/internal/geoplot"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve summaries and state maps over HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}

			summarizer := analysis.NewSummarizer(a.loader, a.logger, a.metrics)
			mapper := geoplot.NewMapper(a.loader, a.logger, a.metrics, a.cfg.MapWidthPt, a.cfg.MapHeightPt)
			srv := httpadapter.NewServer(a.cfg.HTTPAddr, a.loader, summarizer, mapper, a.logger)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
			}()

			select {
			case <-ctx.Done():
			case err := <-errCh:
				return err
			}
			a.logger.Info("shutting down")

			shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				a.logger.Error("http server shutdown error", "error", err)
			}

			a.logger.Info("shutdown complete")
			return nil
		},
	}
}
