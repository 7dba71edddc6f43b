package main

import (
	"github.com/spf13/cobra"

	"github.com/couchcryptid/fars-analysis/internal/analysis"
)

func newSummarizeCmd() *cobra.Command {
	var years []int

	cmd := &cobra.Command{
		Use:   "summarize",
		Short: "Print fatal-accident counts pivoted by month and year",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}

			summarizer := analysis.NewSummarizer(a.loader, a.logger, a.metrics)
			table, err := summarizer.Summarize(years)
			if err != nil {
				return err
			}
			return analysis.WriteText(cmd.OutOrStdout(), table)
		},
	}

	cmd.Flags().IntSliceVar(&years, "years", nil, "years to summarize, e.g. --years 2015,2016")
	_ = cmd.MarkFlagRequired("years")

	return cmd
}
