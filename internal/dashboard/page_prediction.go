package dashboard

import (
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strconv"

	"github.com/couchcryptid/quake-dashboard/internal/analysis"
	"github.com/couchcryptid/quake-dashboard/internal/chart"
	"github.com/couchcryptid/quake-dashboard/internal/domain"
)

// Messages of the clustering section.
const (
	MsgSelectTwoColumns = "Please select exactly 2 columns to visualize the clusters."
	MsgNoRowsAfterClean = "No data available for the selected columns after cleaning."
)

func renderPrediction(d *Dashboard, v *View, ds *domain.Dataset, q url.Values) {
	renderForecast(d, v, ds)
	renderClusters(d, v, ds, q)
}

func renderForecast(d *Dashboard, v *View, ds *domain.Dataset) {
	opts := d.opts.Forecast
	trend, err := analysis.FitYearlyTrend(analysis.CountByYear(ds.Records), opts)
	switch {
	case errors.Is(err, domain.ErrNotEnoughData):
		v.warning(fmt.Sprintf("At least %d years of data are needed for a forecast.", analysis.MinForecastYears))
		return
	case err != nil:
		d.logger.Error("forecast failed", "error", err)
		v.fail("The forecast could not be computed: " + err.Error())
		return
	}

	v.text(fmt.Sprintf("Mean Squared Error (MSE): %.2f", trend.MSE))

	v.header(fmt.Sprintf("Predictions for %d–%d", opts.FromYear, opts.ToYear))
	t := &Table{Header: []string{"Year", "Predicted_Earthquakes"}}
	for _, p := range trend.Predictions {
		t.Rows = append(t.Rows, []string{strconv.Itoa(p.Year), strconv.Itoa(p.Count)})
	}
	v.table(t)

	svg, err := chart.Forecast(trend, fmt.Sprintf("Earthquake Predictions (%d–%d)", opts.FromYear, opts.ToYear))
	d.addChart(v, svg, err)
}

func renderClusters(d *Dashboard, v *View, ds *domain.Dataset, q url.Values) {
	slug := v.Page.Slug

	v.title("K-Means Clustering for Earthquake Dataset")
	v.header("Clustering Parameters")

	numeric := ds.NumericColumns()
	selected := pickColumns(q, numeric)
	opts := make([]Option, len(numeric))
	for i, c := range numeric {
		opts[i] = Option{Value: c, Label: c, Selected: slices.Contains(selected, c)}
	}
	v.control(&Control{
		Kind:    ControlMultiSelect,
		Name:    ParamColumns,
		Label:   "Select columns for clustering:",
		Options: opts,
		Hidden:  hiddenFields(slug, q, ParamColumns),
	})

	k := pickK(q)
	v.control(&Control{
		Kind:   ControlSlider,
		Name:   ParamK,
		Label:  "Number of Clusters (k):",
		Min:    analysis.MinClusters,
		Max:    analysis.MaxClusters,
		Value:  k,
		Hidden: hiddenFields(slug, q, ParamK),
	})

	if len(selected) == 0 {
		v.text(MsgSelectTwoColumns)
		return
	}

	kopts := analysis.DefaultKMeansOptions(k)
	kopts.Seed = d.opts.ClusterSeed
	c, err := analysis.Cluster(ds, selected, kopts)
	switch {
	case errors.Is(err, analysis.ErrNoRowsAfterCleaning):
		v.fail(MsgNoRowsAfterClean)
		return
	case err != nil:
		v.fail("Clustering failed: " + err.Error())
		return
	}

	v.subheader("Cluster Statistics")
	v.table(clusterTable(c))

	if !c.Plottable() {
		v.text(MsgSelectTwoColumns)
		return
	}
	v.subheader(fmt.Sprintf("Visualization of Clusters (k=%d)", k))
	svg, err := chart.Clusters(c)
	d.addChart(v, svg, err)
}

func clusterTable(c analysis.Clustering) *Table {
	t := &Table{Header: append(append([]string{"Cluster"}, c.Columns...), "Size"), RowHeaders: true}
	for _, m := range c.Means {
		row := []string{strconv.Itoa(m.Cluster)}
		for _, mean := range m.Means {
			row = append(row, analysis.FormatFixed(mean, 6))
		}
		row = append(row, strconv.Itoa(m.Size))
		t.Rows = append(t.Rows, row)
	}
	return t
}
