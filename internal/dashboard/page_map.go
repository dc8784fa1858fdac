package dashboard

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/couchcryptid/quake-dashboard/internal/analysis"
	"github.com/couchcryptid/quake-dashboard/internal/chart"
	"github.com/couchcryptid/quake-dashboard/internal/domain"
)

// MapZoom is the initial zoom of the marker map.
const MapZoom = 2

func renderMap(d *Dashboard, v *View, ds *domain.Dataset, q url.Values) {
	if !ds.HasColumns(domain.RequiredMapColumns...) {
		v.fail("The dataset does not contain the required columns: " +
			strings.Join(domain.RequiredMapColumns, ", ") + ".")
	} else {
		located := analysis.Located(ds.Records)

		v.subheader("Map of Earthquake Magnitudes")
		if center, ok := analysis.Centroid(located); ok {
			v.mapView(&MapView{Lat: center.Lat(), Lon: center.Lon(), Zoom: MapZoom, MarkersURL: MarkersURL})
		} else {
			v.warning("No records have a complete location to show on the map.")
		}

		v.subheader("Scatter Plot: Magnitude vs. Geographic Location")
		lat, lon, mag := analysis.LocationColumns(located)
		svg, err := chart.MagnitudeScatter(lat, lon, mag)
		d.addChart(v, svg, err)

		v.subheader("Correlation Analysis")
		v.text("Correlation Matrix:")
		v.table(correlationTable(analysis.CorrelationMatrix(domain.RequiredMapColumns, [][]float64{lat, lon, mag})))
	}

	v.title("Comparison of the number of earthquakes by country or continent")
	by := pickGroupBy(q)
	v.control(&Control{
		Kind:  ControlRadio,
		Name:  ParamGroupBy,
		Label: "Sort by:",
		Options: []Option{
			{Value: string(analysis.GroupByCountry), Label: string(analysis.GroupByCountry), Selected: by == analysis.GroupByCountry},
			{Value: string(analysis.GroupByContinent), Label: string(analysis.GroupByContinent), Selected: by == analysis.GroupByContinent},
		},
		Hidden: hiddenFields(v.Page.Slug, q, ParamGroupBy),
	})

	groups := mapGroups(ds, by)
	title := "Number of earthquakes by continent"
	if by == analysis.GroupByCountry {
		title = fmt.Sprintf("Number of earthquakes by country (Top %d)", analysis.CountryLimit)
	}
	svg, err := chart.GroupBars(groups, title, string(by))
	d.addChart(v, svg, err)
}

// mapGroups counts the records the map shows, or every record when the
// location columns are missing.
func mapGroups(ds *domain.Dataset, by analysis.GroupBy) []analysis.GroupCount {
	if !ds.HasColumns(domain.RequiredMapColumns...) {
		return analysis.GroupCounts(ds.Records, by)
	}
	return analysis.GroupCounts(analysis.Located(ds.Records), by)
}

func correlationTable(m analysis.Matrix) *Table {
	t := &Table{Header: append([]string{""}, m.Names...), RowHeaders: true}
	for i, name := range m.Names {
		row := []string{name}
		for _, r := range m.Values[i] {
			row = append(row, analysis.FormatFixed(r, 6))
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}
