// Package domain models FARS (Fatality Analysis Reporting System) accident
// data.
//
// # Data Source
//
// Accident records originate from the NHTSA FARS yearly archives. Each year
// is distributed as a single bzip2-compressed CSV named accident_<year>.csv.bz2
// with one row per fatal accident. Files are read from a local data directory;
// no download or network access is involved.
//
// # FARS Data Conventions
//
// Required columns (all other columns are carried through untouched):
//
//	STATE     integer state code per the US Census FIPS assignment, e.g. 48 = Texas.
//	          No local code table is kept; a code is valid for a year exactly
//	          when it appears in that year's file.
//	MONTH     integer month 1–12. Not validated on load; malformed data
//	          propagates as-is into aggregation.
//	LATITUDE  decimal degrees.
//	LONGITUD  decimal degrees. The column name has no final E in the source files.
//
// Coordinate sentinels:
//
//	FARS marks an unrecorded position with out-of-range values such as
//	99.9999 / 999.9999. Any LATITUDE above 90 (the valid maximum latitude
//	magnitude) and any LONGITUD above 900 is treated as missing. These
//	thresholds come from the source data encoding and are fixed constants,
//	see [MaxValidLatitude] and [MaxValidLongitude].
//
// # Year Injection
//
// The source files carry no YEAR column. The year of every record is the year
// that was requested when the file was resolved, injected during projection,
// see [AccidentTable.MonthYears].
package domain
