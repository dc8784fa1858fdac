package analysis

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/couchcryptid/quake-dashboard/internal/domain"
)

// GroupBy selects the text column records are grouped on.
type GroupBy string

const (
	GroupByCountry   GroupBy = "Country"
	GroupByContinent GroupBy = "Continent"
)

// CountryLimit caps the number of countries returned by GroupCounts.
const CountryLimit = 10

// GroupCount is the number of records sharing one group value.
type GroupCount struct {
	Name  string `json:"name" yaml:"name"`
	Count int    `json:"count" yaml:"count"`
}

// ParseGroupBy accepts the radio value, case-insensitively.
func ParseGroupBy(s string) (GroupBy, error) {
	switch {
	case strings.EqualFold(s, string(GroupByCountry)):
		return GroupByCountry, nil
	case strings.EqualFold(s, string(GroupByContinent)):
		return GroupByContinent, nil
	default:
		return "", fmt.Errorf("unknown grouping %q", s)
	}
}

// GroupCounts counts records per country or continent, most frequent first
// with ties ordered by name. Empty values are skipped. Countries are capped
// at CountryLimit; continents are returned in full.
func GroupCounts(records []domain.Quake, by GroupBy) []GroupCount {
	counts := make(map[string]int)
	for _, q := range records {
		name := q.Country
		if by == GroupByContinent {
			name = q.Continent
		}
		if name == "" {
			continue
		}
		counts[name]++
	}

	out := make([]GroupCount, 0, len(counts))
	for name, n := range counts {
		out = append(out, GroupCount{Name: name, Count: n})
	}
	slices.SortFunc(out, func(a, b GroupCount) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})

	if by == GroupByCountry && len(out) > CountryLimit {
		out = out[:CountryLimit]
	}
	return out
}
