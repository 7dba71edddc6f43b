package main

import (
	"bytes"
	"os"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/fars-analysis/internal/geoplot"
)

func newMapCmd() *cobra.Command {
	var (
		stateNum int
		year     int
		out      string
	)

	cmd := &cobra.Command{
		Use:   "map",
		Short: "Render a PNG point map of one state's fatal accidents",
		RunE: func(_ *cobra.Command, _ []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}

			mapper := geoplot.NewMapper(a.loader, a.logger, a.metrics, a.cfg.MapWidthPt, a.cfg.MapHeightPt)

			var buf bytes.Buffer
			if err := mapper.MapState(stateNum, year, &buf); err != nil {
				return err
			}
			if buf.Len() == 0 {
				// Nothing matched; the mapper already logged it.
				return nil
			}
			return os.WriteFile(out, buf.Bytes(), 0o644)
		},
	}

	cmd.Flags().IntVar(&stateNum, "state", 0, "state code (US Census FIPS-style)")
	cmd.Flags().IntVar(&year, "year", 0, "year to map")
	cmd.Flags().StringVar(&out, "out", "map.png", "output PNG path")
	_ = cmd.MarkFlagRequired("state")
	_ = cmd.MarkFlagRequired("year")

	return cmd
}
