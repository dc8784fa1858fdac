package dashboard

import (
	"math"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/quake-dashboard/internal/adapter/csvfile"
	"github.com/couchcryptid/quake-dashboard/internal/analysis"
	"github.com/couchcryptid/quake-dashboard/internal/domain"
)

func TestMapGroups_SkipsRowsWithoutLocation(t *testing.T) {
	f, err := os.Open("../adapter/csvfile/testdata/quakes.csv")
	require.NoError(t, err)
	defer f.Close()
	ds, err := csvfile.Parse(f, "quakes.csv")
	require.NoError(t, err)

	continents := mapGroups(ds, analysis.GroupByContinent)
	require.NotEmpty(t, continents)
	assert.Equal(t, analysis.GroupCount{Name: "Asia", Count: 14}, continents[0])

	for _, g := range mapGroups(ds, analysis.GroupByCountry) {
		if g.Name == "Philippines" {
			t.Fatalf("Philippines row has no latitude but was counted: %+v", g)
		}
	}
}

func TestMapGroups_MissingColumnsCountsEveryRecord(t *testing.T) {
	records := []domain.Quake{
		{Magnitude: 6, Latitude: math.NaN(), Longitude: math.NaN(), Continent: "Asia"},
		{Magnitude: 7, Latitude: math.NaN(), Longitude: math.NaN(), Continent: "Asia"},
	}
	ds := domain.NewDataset("x.csv", []string{"magnitude", "continent"}, records,
		[]string{"magnitude"}, map[string][]float64{"magnitude": {6, 7}})

	assert.Equal(t, []analysis.GroupCount{{Name: "Asia", Count: 2}}, mapGroups(ds, analysis.GroupByContinent))
}
