// Command genmock generates mock yearly FARS accident files for development
// and testing. Each file is a bzip2-compressed CSV named
// accident_<year>.csv.bz2 with deterministic pseudo-random rows, so repeated
// runs with the same flags produce identical fixtures.
//
// Usage:
//
//	go run ./cmd/genmock -out data/mock -years 2015,2016 -rows 500
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dsnet/compress/bzip2"

	"github.com/couchcryptid/fars-analysis/internal/dataset"
)

// stateBox is a rough bounding box for generating plausible coordinates
// inside one state.
type stateBox struct {
	code           int
	minLat, maxLat float64
	minLon, maxLon float64
}

// A handful of states with real FIPS codes and approximate extents.
var states = []stateBox{
	{code: 1, minLat: 30.2, maxLat: 35.0, minLon: -88.5, maxLon: -84.9},    // Alabama
	{code: 6, minLat: 32.5, maxLat: 42.0, minLon: -124.4, maxLon: -114.1},  // California
	{code: 36, minLat: 40.5, maxLat: 45.0, minLon: -79.8, maxLon: -71.9},   // New York
	{code: 48, minLat: 25.8, maxLat: 36.5, minLon: -106.6, maxLon: -93.5},  // Texas
	{code: 53, minLat: 45.5, maxLat: 49.0, minLon: -124.8, maxLon: -116.9}, // Washington
}

// Sentinel coordinates marking an unrecorded position, as encoded in real
// FARS files.
const (
	sentinelLat = "99.9999"
	sentinelLon = "999.9999"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	outDir := flag.String("out", "", "output directory for mock yearly files")
	yearsFlag := flag.String("years", "2015", "comma-separated years to generate")
	rows := flag.Int("rows", 500, "data rows per yearly file")
	flag.Parse()

	if *outDir == "" {
		flag.Usage()
		return fmt.Errorf("-out is required")
	}
	years, err := parseYears(*yearsFlag)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	for _, year := range years {
		name := dataset.FilenameForYear(year)
		if err := writeYearFile(filepath.Join(*outDir, name), year, *rows); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
		fmt.Printf("wrote %s (%d rows)\n", filepath.Join(*outDir, name), *rows)
	}
	return nil
}

func parseYears(raw string) ([]int, error) {
	var years []int
	for _, part := range strings.Split(raw, ",") {
		year, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("invalid year %q", part)
		}
		years = append(years, year)
	}
	return years, nil
}

func writeYearFile(path string, year, rows int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close() //nolint:errcheck // fatal errors surface via bzw/cw below

	bzw, err := bzip2.NewWriter(f, &bzip2.WriterConfig{Level: bzip2.DefaultCompression})
	if err != nil {
		return err
	}

	cw := csv.NewWriter(bzw)
	header := []string{"STATE", "ST_CASE", "MONTH", "DAY", "HOUR", "LATITUDE", "LONGITUD"}
	if err := cw.Write(header); err != nil {
		return err
	}

	// Seed from the year so each file is reproducible on its own.
	rng := rand.New(rand.NewSource(int64(year)))
	for i := 0; i < rows; i++ {
		box := states[rng.Intn(len(states))]
		lat := fmt.Sprintf("%.4f", box.minLat+rng.Float64()*(box.maxLat-box.minLat))
		lon := fmt.Sprintf("%.4f", box.minLon+rng.Float64()*(box.maxLon-box.minLon))
		// Roughly 5% of real rows have no recorded position.
		if rng.Intn(20) == 0 {
			lat, lon = sentinelLat, sentinelLon
		}

		row := []string{
			strconv.Itoa(box.code),
			strconv.Itoa(box.code*10000 + i + 1),
			strconv.Itoa(1 + rng.Intn(12)),
			strconv.Itoa(1 + rng.Intn(28)),
			strconv.Itoa(rng.Intn(24)),
			lat,
			lon,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}
	if err := bzw.Close(); err != nil {
		return err
	}
	return f.Close()
}
