package dashboard

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/couchcryptid/quake-dashboard/internal/analysis"
	"github.com/couchcryptid/quake-dashboard/internal/chart"
	"github.com/couchcryptid/quake-dashboard/internal/domain"
)

func renderTrends(d *Dashboard, v *View, ds *domain.Dataset, q url.Values) {
	slug := v.Page.Slug

	v.title("Histogram of earthquake magnitude distribution")
	years := analysis.Years(ds.Records)
	if len(years) == 0 {
		v.warning("The dataset has no records with a valid date.")
	} else {
		year := pickYear(q, years)
		labels := make([]string, len(years))
		for i, y := range years {
			labels[i] = strconv.Itoa(y)
		}
		v.control(selectControl(slug, q, ParamYear, "Select a year", labels, strconv.Itoa(year)))

		filtered := analysis.FilterByYear(ds.Records, year)
		svg, err := chart.Histogram(analysis.Magnitudes(filtered), HistogramBins,
			fmt.Sprintf("Distribution of earthquake magnitudes in %d", year), "Magnitude")
		d.addChart(v, svg, err)
	}

	v.title("Trend in the number of earthquakes by year")
	counts := analysis.CountByYear(ds.Records)
	svg, err := chart.YearlyLine(counts)
	d.addChart(v, svg, err)
	v.text("Earthquake Counts by Year:")
	v.table(yearCountTable(counts))

	v.title("Statistical Analysis of Earthquake Data")
	columns := ds.NumericColumns()
	if len(columns) == 0 {
		v.text("Please select a numeric column for analysis.")
		return
	}
	column := pickColumn(q, columns)
	v.control(selectControl(slug, q, ParamColumn, "Select a numeric column for analysis:", columns, column))

	values, _ := ds.Numeric(column)
	summary, err := analysis.Describe(column, values)
	if err != nil {
		v.warning(fmt.Sprintf("The column %s has no values to analyse.", column))
		return
	}
	v.header("Statistical Summary")
	v.table(summaryTable(summary))

	v.header("Distribution of the Selected Column")
	svg, err = chart.Distribution(analysis.ValueCounts(values), column)
	d.addChart(v, svg, err)

	v.link("Download statistics workbook (.xlsx)", ExportURL+"?"+url.Values{ParamColumn: {column}}.Encode())
}

// yearCountTable lays the yearly counts out horizontally: one column per year.
func yearCountTable(counts []analysis.YearCount) *Table {
	years := []string{"year"}
	totals := []string{"count"}
	for _, c := range counts {
		years = append(years, strconv.Itoa(c.Year))
		totals = append(totals, strconv.Itoa(c.Count))
	}
	return &Table{Rows: [][]string{years, totals}, RowHeaders: true}
}

func summaryTable(s analysis.Summary) *Table {
	t := &Table{Header: []string{"Statistic", "Value"}}
	for _, st := range s.Rows() {
		value := analysis.FormatFixed(st.Value, 6)
		if st.Name == "Count" {
			value = strconv.Itoa(s.Count)
		}
		t.Rows = append(t.Rows, []string{st.Name, value})
	}
	return t
}
