// Package dataset resolves, decompresses, and parses the yearly FARS
// accident files.
package dataset

import (
	"compress/bzip2"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/fars-analysis/internal/domain"
	"github.com/couchcryptid/fars-analysis/internal/observability"
)

var (
	// ErrNotFound means the yearly file does not exist in the data directory.
	ErrNotFound = errors.New("accident data file not found")
	// ErrParse means the file exists but its content is not a readable
	// bzip2-compressed CSV with the required columns.
	ErrParse = errors.New("accident data file not parseable")
)

// FilenameForYear returns the fixed yearly file pattern, e.g.
// FilenameForYear(2015) == "accident_2015.csv.bz2". Pure, no I/O.
func FilenameForYear(year int) string {
	return fmt.Sprintf("accident_%d.csv.bz2", year)
}

// Loader reads yearly accident files from a data directory. Every call
// re-reads from disk; there is no cache, so two loads of the same file
// always reflect its current content.
type Loader struct {
	dir     string
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewLoader creates a Loader rooted at the given data directory.
func NewLoader(dir string, logger *slog.Logger, metrics *observability.Metrics) *Loader {
	return &Loader{dir: dir, logger: logger, metrics: metrics}
}

// CheckReadiness returns nil when the data directory exists and is a
// directory, or an error describing why loads would fail.
func (l *Loader) CheckReadiness(_ context.Context) error {
	info, err := os.Stat(l.dir)
	if err != nil {
		return fmt.Errorf("data directory unavailable: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("data path %s is not a directory", l.dir)
	}
	return nil
}

// Load decompresses and parses one yearly file into an immutable table.
// Returns an error wrapping ErrNotFound when the file is missing and one
// wrapping ErrParse when its content cannot be read as tabular data; both
// messages name the offending file.
func (l *Loader) Load(filename string) (*domain.AccidentTable, error) {
	start := time.Now()

	f, err := os.Open(filepath.Join(l.dir, filename))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			l.metrics.LoadErrors.WithLabelValues("not_found").Inc()
			return nil, fmt.Errorf("%w: %s", ErrNotFound, filename)
		}
		return nil, fmt.Errorf("open %s: %w", filename, err)
	}
	defer f.Close() //nolint:errcheck // read-only file

	table, err := parseTable(bzip2.NewReader(f))
	if err != nil {
		l.metrics.LoadErrors.WithLabelValues("parse").Inc()
		return nil, fmt.Errorf("%w: %s: %w", ErrParse, filename, err)
	}

	l.metrics.FilesLoaded.Inc()
	l.metrics.RecordsLoaded.Add(float64(table.Len()))
	l.metrics.LoadDuration.Observe(time.Since(start).Seconds())
	l.logger.Debug("loaded accident file", "file", filename, "rows", table.Len())

	return table, nil
}

// ReadYears loads each requested year and projects it to (month, year)
// pairs, one result slot per year in input order. A year that fails to load
// yields a nil slot and a warning; it never aborts the remaining years, and
// all years failing still returns a full-length result.
func (l *Loader) ReadYears(years []int) []domain.YearResult {
	results := make([]domain.YearResult, len(years))
	for i, year := range years {
		results[i] = domain.YearResult{Year: year}

		table, err := l.Load(FilenameForYear(year))
		if err != nil {
			l.logger.Warn("skipping year, load failed", "year", year, "error", err)
			results[i].Err = err
			continue
		}
		results[i].Pairs = table.MonthYears(year)
	}
	return results
}

// columnIndex locates the required columns in a header row.
type columnIndex struct {
	state, month, lat, lon int
}

func requiredColumns(header []string) (columnIndex, error) {
	idx := columnIndex{state: -1, month: -1, lat: -1, lon: -1}
	for i, name := range header {
		switch strings.ToUpper(strings.TrimSpace(name)) {
		case domain.ColState:
			idx.state = i
		case domain.ColMonth:
			idx.month = i
		case domain.ColLatitude:
			idx.lat = i
		case domain.ColLongitud:
			idx.lon = i
		}
	}

	switch {
	case idx.state < 0:
		return idx, fmt.Errorf("missing required column %s", domain.ColState)
	case idx.month < 0:
		return idx, fmt.Errorf("missing required column %s", domain.ColMonth)
	case idx.lat < 0:
		return idx, fmt.Errorf("missing required column %s", domain.ColLatitude)
	case idx.lon < 0:
		return idx, fmt.Errorf("missing required column %s", domain.ColLongitud)
	}
	return idx, nil
}

func parseTable(r io.Reader) (*domain.AccidentTable, error) {
	cr := csv.NewReader(r)

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	idx, err := requiredColumns(header)
	if err != nil {
		return nil, err
	}

	table := &domain.AccidentTable{Header: header}
	for row := 2; ; row++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}

		table.Raw = append(table.Raw, rec)
		table.Records = append(table.Records, domain.AccidentRecord{
			State:    atoiOrZero(rec[idx.state]),
			Month:    atoiOrZero(rec[idx.month]),
			Latitude: floatOrMissing(rec[idx.lat], domain.MaxValidLatitude),
			Longitud: floatOrMissing(rec[idx.lon], domain.MaxValidLongitude),
		})
	}
	return table, nil
}

// atoiOrZero parses an integer cell, returning 0 on failure. Malformed codes
// propagate as zero rather than failing the whole file.
func atoiOrZero(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

// floatOrMissing parses a coordinate cell. Unparsable or empty cells map to
// a value just past the missing-data threshold so they are treated exactly
// like the FARS sentinel coordinates downstream.
func floatOrMissing(s string, threshold float64) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return threshold + 1
	}
	return v
}
