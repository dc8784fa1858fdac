package domain

import (
	"errors"
	"math"
	"slices"
	"time"
)

// Column names the dashboard reads by name.
const (
	ColLatitude  = "latitude"
	ColLongitude = "longitude"
	ColMagnitude = "magnitude"
	ColDepth     = "depth"
	ColDateTime  = "date_time"
	ColCountry   = "country"
	ColContinent = "continent"
	ColTsunami   = "tsunami"
	ColYear      = "year"
)

// RequiredMapColumns must all be present for the map page to render.
var RequiredMapColumns = []string{ColLatitude, ColLongitude, ColMagnitude}

var (
	// ErrDatasetNotFound is returned when the CSV file does not exist.
	ErrDatasetNotFound = errors.New("dataset file not found")
	// ErrMissingColumns is returned when a view needs columns the file lacks.
	ErrMissingColumns = errors.New("dataset is missing required columns")
	// ErrNotEnoughData is returned when a derivation has too few rows to be meaningful.
	ErrNotEnoughData = errors.New("not enough data")
)

// Quake is one earthquake record. Missing numeric values are NaN.
type Quake struct {
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Magnitude float64   `json:"magnitude"`
	Depth     float64   `json:"depth"`
	DateTime  time.Time `json:"date_time"`
	Country   string    `json:"country,omitempty"`
	Continent string    `json:"continent,omitempty"`
	Tsunami   float64   `json:"tsunami"`
}

// Year returns the calendar year of the event, or 0 when the date is unknown.
func (q Quake) Year() int {
	if q.DateTime.IsZero() {
		return 0
	}
	return q.DateTime.Year()
}

// HasLocation reports whether latitude, longitude and magnitude are all known.
func (q Quake) HasLocation() bool {
	return !math.IsNaN(q.Latitude) && !math.IsNaN(q.Longitude) && !math.IsNaN(q.Magnitude)
}

// Dataset is the in-memory table loaded from the CSV file.
type Dataset struct {
	Path     string
	Columns  []string
	Records  []Quake
	LoadedAt time.Time

	numericNames []string
	numeric      map[string][]float64
}

// NewDataset assembles a dataset. numericNames fixes the column order of
// numeric; names missing from numeric are ignored. The derived year column is
// appended when records carry dates.
func NewDataset(path string, columns []string, records []Quake, numericNames []string, numeric map[string][]float64) *Dataset {
	ds := &Dataset{
		Path:     path,
		Columns:  columns,
		Records:  records,
		LoadedAt: clock.Now(),
		numeric:  make(map[string][]float64, len(numeric)+1),
	}
	for _, name := range numericNames {
		vals, ok := numeric[name]
		if !ok || name == ColYear {
			continue
		}
		ds.numericNames = append(ds.numericNames, name)
		ds.numeric[name] = vals
	}

	if slices.Contains(columns, ColDateTime) {
		years := make([]float64, len(records))
		for i, r := range records {
			if y := r.Year(); y != 0 {
				years[i] = float64(y)
			} else {
				years[i] = math.NaN()
			}
		}
		ds.numericNames = append(ds.numericNames, ColYear)
		ds.numeric[ColYear] = years
	}
	return ds
}

// Len returns the number of records.
func (d *Dataset) Len() int { return len(d.Records) }

// HasColumns reports whether every named column is in the file header.
func (d *Dataset) HasColumns(names ...string) bool {
	for _, n := range names {
		if !slices.Contains(d.Columns, n) {
			return false
		}
	}
	return true
}

// NumericColumns lists numeric column names in file order, derived columns last.
func (d *Dataset) NumericColumns() []string {
	return slices.Clone(d.numericNames)
}

// Numeric returns the values of a numeric column. The slice is shared and
// must not be modified.
func (d *Dataset) Numeric(name string) ([]float64, bool) {
	v, ok := d.numeric[name]
	return v, ok
}
