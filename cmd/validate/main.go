// Command validate checks the integrity of a FARS data directory. It loads
// every accident_<year>.csv.bz2 file it finds, reports row counts and month
// coverage per year, and exits nonzero if any file fails to parse.
//
// Usage:
//
//	go run ./cmd/validate -data-dir data/mock
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/couchcryptid/fars-analysis/internal/dataset"
	"github.com/couchcryptid/fars-analysis/internal/observability"
)

func main() {
	dataDir := flag.String("data-dir", "", "directory containing accident_<year>.csv.bz2 files")
	flag.Parse()

	if *dataDir == "" {
		flag.Usage()
		os.Exit(2)
	}

	ok, err := validate(*dataDir)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if !ok {
		os.Exit(1)
	}
}

func validate(dataDir string) (bool, error) {
	matches, err := filepath.Glob(filepath.Join(dataDir, "accident_*.csv.bz2"))
	if err != nil {
		return false, err
	}
	if len(matches) == 0 {
		return false, fmt.Errorf("no accident_<year>.csv.bz2 files under %s", dataDir)
	}
	sort.Strings(matches)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	loader := dataset.NewLoader(dataDir, logger, observability.NewMetricsForTesting())

	failures := 0
	for _, path := range matches {
		name := filepath.Base(path)
		table, err := loader.Load(name)
		if err != nil {
			fmt.Printf("FAIL %s: %v\n", name, err)
			failures++
			continue
		}

		months := make(map[int]bool)
		for _, r := range table.Records {
			months[r.Month] = true
		}
		fmt.Printf("OK   %s: %d rows, %d states, %d distinct months\n",
			name, table.Len(), len(table.States()), len(months))
	}

	if failures > 0 {
		fmt.Printf("%d of %d files failed\n", failures, len(matches))
		return false, nil
	}
	fmt.Printf("all %d files passed\n", len(matches))
	return true, nil
}
