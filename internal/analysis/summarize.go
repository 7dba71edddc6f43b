// Package analysis aggregates accident records into month-by-year summaries.
package analysis

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"

	"github.com/couchcryptid/fars-analysis/internal/domain"
	"github.com/couchcryptid/fars-analysis/internal/observability"
)

// ErrNoData means no requested year contributed any rows, either because
// every year failed to load or because the year list was empty.
var ErrNoData = errors.New("no accident data for requested years")

// YearReader supplies projected (month, year) pairs per requested year.
type YearReader interface {
	ReadYears(years []int) []domain.YearResult
}

// Summarizer builds sparse month × year accident-count pivots.
type Summarizer struct {
	reader  YearReader
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewSummarizer creates a Summarizer over the given year reader.
func NewSummarizer(reader YearReader, logger *slog.Logger, metrics *observability.Metrics) *Summarizer {
	return &Summarizer{reader: reader, logger: logger, metrics: metrics}
}

// Summarize reads all requested years, discards failed slots, and pivots the
// surviving rows into a month × year count table. A (month, year) cell with
// no accidents has no entry, never a zero. Returns ErrNoData when nothing
// survived.
func (s *Summarizer) Summarize(years []int) (*domain.SummaryTable, error) {
	results := s.reader.ReadYears(years)

	var pairs []domain.MonthYear
	failed := 0
	for _, res := range results {
		if !res.OK() {
			failed++
			continue
		}
		pairs = append(pairs, res.Pairs...)
	}

	if len(pairs) == 0 {
		return nil, fmt.Errorf("%w: %v", ErrNoData, years)
	}

	table := domain.NewSummaryTable(pairs)
	s.metrics.SummariesBuilt.Inc()
	s.logger.Info("summary built",
		"years_requested", len(years),
		"years_failed", failed,
		"accidents", table.Total(),
	)
	return table, nil
}

// WriteText renders the pivot as an aligned text table with months as rows
// and years as columns. Absent cells are left blank, not printed as zero.
func WriteText(w io.Writer, table *domain.SummaryTable) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)

	fmt.Fprint(tw, "MONTH")
	for _, year := range table.Years() {
		fmt.Fprintf(tw, "\t%d", year)
	}
	fmt.Fprintln(tw)

	for _, month := range table.Months() {
		fmt.Fprintf(tw, "%d", month)
		for _, year := range table.Years() {
			if n, ok := table.Count(month, year); ok {
				fmt.Fprintf(tw, "\t%d", n)
			} else {
				fmt.Fprint(tw, "\t")
			}
		}
		fmt.Fprintln(tw)
	}

	return tw.Flush()
}
