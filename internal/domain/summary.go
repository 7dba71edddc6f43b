package domain

import (
	"sort"
	"time"
)

// SummaryTable is a sparse month × year pivot of accident counts. A
// (month, year) combination with no accidents has no entry at all rather
// than a zero cell, mirroring the grouped-count semantics of the source
// aggregation.
type SummaryTable struct {
	months      []int // ascending, only months that occur
	years       []int // ascending, only years that contributed rows
	counts      map[MonthYear]int
	GeneratedAt time.Time
}

// NewSummaryTable groups the projected pairs by (year, month) and counts
// rows per group.
func NewSummaryTable(pairs []MonthYear) *SummaryTable {
	counts := make(map[MonthYear]int, len(pairs))
	monthSet := make(map[int]bool)
	yearSet := make(map[int]bool)
	for _, p := range pairs {
		counts[p]++
		monthSet[p.Month] = true
		yearSet[p.Year] = true
	}

	return &SummaryTable{
		months:      sortedKeys(monthSet),
		years:       sortedKeys(yearSet),
		counts:      counts,
		GeneratedAt: clock.Now(),
	}
}

// Months returns the distinct months present, ascending.
func (t *SummaryTable) Months() []int { return append([]int(nil), t.months...) }

// Years returns the distinct years present, ascending.
func (t *SummaryTable) Years() []int { return append([]int(nil), t.years...) }

// Count returns the number of accidents for a (month, year) cell. The second
// return value is false when the combination has no entry.
func (t *SummaryTable) Count(month, year int) (int, bool) {
	n, ok := t.counts[MonthYear{Month: month, Year: year}]
	return n, ok
}

// Total returns the number of accidents across all cells.
func (t *SummaryTable) Total() int {
	total := 0
	for _, n := range t.counts {
		total += n
	}
	return total
}

func sortedKeys(set map[int]bool) []int {
	keys := make([]int, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
