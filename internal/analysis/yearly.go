package analysis

import (
	"maps"
	"slices"

	"github.com/couchcryptid/quake-dashboard/internal/domain"
)

// YearCount is the number of records for one calendar year.
type YearCount struct {
	Year  int `json:"year" yaml:"year"`
	Count int `json:"count" yaml:"count"`
}

// CountByYear groups records by year in ascending year order. Records with
// an unknown date are skipped.
func CountByYear(records []domain.Quake) []YearCount {
	counts := make(map[int]int)
	for _, q := range records {
		if y := q.Year(); y != 0 {
			counts[y]++
		}
	}
	years := slices.Sorted(maps.Keys(counts))
	out := make([]YearCount, len(years))
	for i, y := range years {
		out[i] = YearCount{Year: y, Count: counts[y]}
	}
	return out
}

// Years lists the distinct known years in ascending order.
func Years(records []domain.Quake) []int {
	counts := CountByYear(records)
	years := make([]int, len(counts))
	for i, c := range counts {
		years[i] = c.Year
	}
	return years
}

// FilterByYear returns the records dated in year.
func FilterByYear(records []domain.Quake, year int) []domain.Quake {
	var out []domain.Quake
	for _, q := range records {
		if q.Year() == year {
			out = append(out, q)
		}
	}
	return out
}

// Magnitudes returns the known magnitudes of the records.
func Magnitudes(records []domain.Quake) []float64 {
	out := make([]float64, 0, len(records))
	for _, q := range records {
		if !isNaN(q.Magnitude) {
			out = append(out, q.Magnitude)
		}
	}
	return out
}
