// Package domain models the earthquake catalogue explored by the dashboard.
//
// # Data Source
//
// The dashboard reads a single static CSV export of significant earthquakes
// (by default data/earthquake_1995-2023.csv). One row is one event. The file
// is never written back; every view the dashboard shows is derived from it
// on request.
//
// # Columns
//
// The columns the dashboard depends on:
//
//	latitude, longitude   WGS-84 epicentre in decimal degrees
//	magnitude             event magnitude (any magType)
//	depth                 hypocentre depth in km
//	date_time             event time, day-first: "16-08-2023 12:47"
//	country, continent    free text, frequently empty
//	tsunami               0 or 1
//
// Any other column typed as int or float by the CSV reader is kept as a
// numeric column and is available to the statistics and clustering views
// (cdi, mmi, sig, nst, dmin, gap in the upstream export).
//
// # Missing Values
//
// Missing or unparseable numeric values are NaN. Missing text is the empty
// string and is treated as null when grouping. A date_time that cannot be
// parsed with any known layout yields the zero time and year 0, which the
// yearly views skip.
//
// # Derived Columns
//
// "year" is derived from date_time and exposed as a numeric column
// alongside the file's own columns.
package domain
