// Package integration exercises the full load → summarize → map path against
// real bzip2-compressed fixture files on disk.
package integration

import (
	"bytes"
	"encoding/csv"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/dsnet/compress/bzip2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/fars-analysis/internal/analysis"
	"github.com/couchcryptid/fars-analysis/internal/dataset"
	"github.com/couchcryptid/fars-analysis/internal/geoplot"
	"github.com/couchcryptid/fars-analysis/internal/observability"
)

func writeFixture(t *testing.T, dir string, year int, rows [][]string) {
	t.Helper()

	f, err := os.Create(filepath.Join(dir, dataset.FilenameForYear(year)))
	require.NoError(t, err)

	bzw, err := bzip2.NewWriter(f, &bzip2.WriterConfig{Level: bzip2.DefaultCompression})
	require.NoError(t, err)

	cw := csv.NewWriter(bzw)
	require.NoError(t, cw.Write([]string{"STATE", "MONTH", "LATITUDE", "LONGITUD"}))
	require.NoError(t, cw.WriteAll(rows))
	cw.Flush()
	require.NoError(t, cw.Error())
	require.NoError(t, bzw.Close())
	require.NoError(t, f.Close())
}

func TestSummaryAndMapOverRealFiles(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, 2015, [][]string{
		{"48", "1", "31.0200", "-98.4400"},
		{"48", "1", "29.7600", "-95.3700"},
		{"48", "6", "99.9999", "999.9999"},
		{"6", "2", "34.0500", "-118.2400"},
	})
	writeFixture(t, dir, 2016, [][]string{
		{"48", "1", "32.7800", "-96.8000"},
	})

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	metrics := observability.NewMetricsForTesting()
	loader := dataset.NewLoader(dir, logger, metrics)

	summarizer := analysis.NewSummarizer(loader, logger, metrics)
	// 2017 has no file: its slot fails softly and the others still aggregate.
	table, err := summarizer.Summarize([]int{2015, 2016, 2017})
	require.NoError(t, err)

	assert.Equal(t, []int{2015, 2016}, table.Years())
	assert.Equal(t, []int{1, 2, 6}, table.Months())

	n, ok := table.Count(1, 2015)
	require.True(t, ok)
	assert.Equal(t, 2, n)

	_, ok = table.Count(2, 2016)
	assert.False(t, ok, "no zero-filled cells")

	mapper := geoplot.NewMapper(loader, logger, metrics, 576, 432)
	var buf bytes.Buffer
	require.NoError(t, mapper.MapState(48, 2015, &buf))
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, buf.Bytes()[:4])

	err = mapper.MapState(3, 2015, &buf)
	var invalid *geoplot.InvalidStateError
	require.ErrorAs(t, err, &invalid)
}
