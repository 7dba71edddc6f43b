package domain

// Column names required in every yearly accident file.
const (
	ColState    = "STATE"
	ColMonth    = "MONTH"
	ColLatitude = "LATITUDE"
	ColLongitud = "LONGITUD" // FARS spells it without the final E
)

// Coordinate sentinel thresholds from the FARS encoding. Values beyond
// these mark an unrecorded position.
const (
	MaxValidLatitude  = 90.0
	MaxValidLongitude = 900.0
)

// AccidentRecord is the typed projection of one accident row.
type AccidentRecord struct {
	State    int
	Month    int
	Latitude float64
	Longitud float64
}

// HasLatitude reports whether the latitude is a recorded value rather than
// the missing-data sentinel.
func (r AccidentRecord) HasLatitude() bool { return r.Latitude <= MaxValidLatitude }

// HasLongitude reports whether the longitude is a recorded value rather than
// the missing-data sentinel.
func (r AccidentRecord) HasLongitude() bool { return r.Longitud <= MaxValidLongitude }

// AccidentTable holds every record of one year's file. It is built once by
// the loader and never mutated afterwards; two loads of the same file return
// independent tables.
type AccidentTable struct {
	Header  []string
	Records []AccidentRecord
	Raw     [][]string // full rows, including columns the typed projection drops
}

// Len returns the number of data rows.
func (t *AccidentTable) Len() int { return len(t.Records) }

// States returns the set of distinct STATE codes present in the table.
func (t *AccidentTable) States() map[int]bool {
	states := make(map[int]bool)
	for _, r := range t.Records {
		states[r.State] = true
	}
	return states
}

// MonthYear is the (MONTH, YEAR) projection used for aggregation. Year is
// injected from the requested year, not read from the file.
type MonthYear struct {
	Month int
	Year  int
}

// MonthYears projects every record to its month paired with the given year.
func (t *AccidentTable) MonthYears(year int) []MonthYear {
	pairs := make([]MonthYear, 0, len(t.Records))
	for _, r := range t.Records {
		pairs = append(pairs, MonthYear{Month: r.Month, Year: year})
	}
	return pairs
}

// YearResult is one slot of a multi-year read: the projected pairs for a
// year, or the soft failure that emptied the slot. Slot order matches the
// requested year order so callers can line results up with their input.
type YearResult struct {
	Year  int
	Pairs []MonthYear // nil when Err is non-nil
	Err   error       // load failure for this year, already logged as a warning
}

// OK reports whether the year loaded successfully.
func (r YearResult) OK() bool { return r.Err == nil }
