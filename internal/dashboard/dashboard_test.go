package dashboard_test

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"net/url"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/quake-dashboard/internal/adapter/csvfile"
	"github.com/couchcryptid/quake-dashboard/internal/analysis"
	"github.com/couchcryptid/quake-dashboard/internal/dashboard"
	"github.com/couchcryptid/quake-dashboard/internal/domain"
	"github.com/couchcryptid/quake-dashboard/internal/observability"
)

const fixture = "../adapter/csvfile/testdata/quakes.csv"

// --- mocks ---

type staticSource struct {
	ds  *domain.Dataset
	err error
}

func (s *staticSource) Load(_ context.Context) (*domain.Dataset, error) {
	return s.ds, s.err
}

type recordingPublisher struct {
	mu    sync.Mutex
	views []domain.PageView
	err   error
}

func (p *recordingPublisher) Publish(_ context.Context, pv domain.PageView) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.views = append(p.views, pv)
	return p.err
}

func testOptions(path string) dashboard.Options {
	return dashboard.Options{
		DatasetPath: path,
		Forecast:    analysis.DefaultForecastOptions(),
		ClusterSeed: 42,
	}
}

func newFixtureDashboard(t *testing.T) (*dashboard.Dashboard, *recordingPublisher, *observability.Metrics) {
	t.Helper()
	metrics := observability.NewMetricsForTesting()
	loader := csvfile.NewCachedLoader(
		csvfile.NewLoader(fixture, nil, slog.Default(), metrics),
		slog.Default(), metrics,
	)
	pub := &recordingPublisher{}
	return dashboard.New(loader, pub, testOptions(fixture), slog.Default(), metrics), pub, metrics
}

func newStaticDashboard(ds *domain.Dataset, err error) *dashboard.Dashboard {
	return dashboard.New(&staticSource{ds: ds, err: err}, nil, testOptions("data/quakes.csv"),
		slog.Default(), observability.NewMetricsForTesting())
}

func render(t *testing.T, d *dashboard.Dashboard, slug string, q url.Values) *dashboard.View {
	t.Helper()
	v, err := d.Render(context.Background(), slug, q)
	require.NoError(t, err)
	return v
}

func control(t *testing.T, v *dashboard.View, name string) *dashboard.Control {
	t.Helper()
	for _, s := range v.Find(dashboard.KindControl) {
		if s.Control.Name == name {
			return s.Control
		}
	}
	t.Fatalf("control %q not found", name)
	return nil
}

func selected(c *dashboard.Control) []string {
	var out []string
	for _, o := range c.Options {
		if o.Selected {
			out = append(out, o.Value)
		}
	}
	return out
}

// --- navigation ---

func TestMenu_OrderAndHighlight(t *testing.T) {
	menu := dashboard.Menu(dashboard.PageMap)

	require.Len(t, menu, 4)
	assert.Equal(t, []string{"Data Analysis", "Interactive Map", "Relationships", "Forecasting"},
		[]string{menu[0].Label, menu[1].Label, menu[2].Label, menu[3].Label})
	assert.Equal(t, "/?page=trends", menu[0].Href)
	assert.False(t, menu[0].Active)
	assert.True(t, menu[1].Active)
	assert.Equal(t, dashboard.PageTrends, dashboard.DefaultPage)
}

func TestRender_UnknownPage(t *testing.T) {
	d, pub, _ := newFixtureDashboard(t)

	_, err := d.Render(context.Background(), "nope", nil)

	require.ErrorIs(t, err, dashboard.ErrUnknownPage)
	assert.Empty(t, pub.views)
}

func TestRender_EveryPage(t *testing.T) {
	d, pub, metrics := newFixtureDashboard(t)

	for _, p := range dashboard.Pages() {
		t.Run(p.Slug, func(t *testing.T) {
			v := render(t, d, p.Slug, url.Values{})
			assert.Equal(t, p.Heading(d), v.Sections[0].Text)
			assert.Equal(t, dashboard.KindTitle, v.Sections[0].Kind)
			assert.False(t, v.Failed(), "unexpected errors: %v", v.Notices(dashboard.LevelError))
			assert.NotEmpty(t, v.Find(dashboard.KindChart))
		})
	}

	require.Len(t, pub.views, 4)
	assert.Equal(t, dashboard.PageTrends, pub.views[0].Page)
	assert.Equal(t, domain.OutcomeOK, pub.views[0].Outcome)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.PageRenders.WithLabelValues(dashboard.PageMap, domain.OutcomeOK)), 0)
}

func TestRender_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.csv")
	metrics := observability.NewMetricsForTesting()
	loader := csvfile.NewCachedLoader(csvfile.NewLoader(path, nil, slog.Default(), metrics), slog.Default(), metrics)
	pub := &recordingPublisher{}
	d := dashboard.New(loader, pub, testOptions(path), slog.Default(), metrics)

	v := render(t, d, dashboard.PageMap, nil)

	assert.Equal(t, []string{"The file was not found at the specified path: " + path}, v.Notices(dashboard.LevelError))
	assert.Empty(t, v.Find(dashboard.KindMap))
	assert.Empty(t, v.Find(dashboard.KindChart))
	require.Len(t, pub.views, 1)
	assert.Equal(t, domain.OutcomeError, pub.views[0].Outcome)

	assert.ErrorIs(t, d.CheckReadiness(context.Background()), domain.ErrDatasetNotFound)
}

func TestRender_OtherLoadError(t *testing.T) {
	d := newStaticDashboard(nil, errors.New("permission denied"))

	v := render(t, d, dashboard.PageTrends, nil)

	require.Len(t, v.Notices(dashboard.LevelError), 1)
	assert.Contains(t, v.Notices(dashboard.LevelError)[0], "permission denied")
}

func TestRender_PublishFailureDoesNotFailPage(t *testing.T) {
	metrics := observability.NewMetricsForTesting()
	pub := &recordingPublisher{err: errors.New("broker down")}
	loader := csvfile.NewLoader(fixture, nil, slog.Default(), metrics)
	d := dashboard.New(loader, pub, testOptions(fixture), slog.Default(), metrics)

	v := render(t, d, dashboard.PageRelationships, nil)

	assert.False(t, v.Failed())
	assert.Len(t, pub.views, 1)
}

// --- trends ---

func TestTrends_DefaultYearIsEarliest(t *testing.T) {
	d, _, _ := newFixtureDashboard(t)

	v := render(t, d, dashboard.PageTrends, nil)

	year := control(t, v, dashboard.ParamYear)
	assert.Equal(t, []string{"2001"}, selected(year))
	assert.Len(t, year.Options, 5)
	assert.Equal(t, []dashboard.Field{{Name: "page", Value: "trends"}}, year.Hidden)
}

func TestTrends_SelectedYearAndColumn(t *testing.T) {
	d, _, _ := newFixtureDashboard(t)
	q := url.Values{"year": {"2004"}, "column": {"depth"}}

	v := render(t, d, dashboard.PageTrends, q)

	assert.Equal(t, []string{"2004"}, selected(control(t, v, dashboard.ParamYear)))
	col := control(t, v, dashboard.ParamColumn)
	assert.Equal(t, []string{"depth"}, selected(col))
	assert.Contains(t, col.Hidden, dashboard.Field{Name: "year", Value: "2004"})
	assert.NotContains(t, col.Hidden, dashboard.Field{Name: "column", Value: "depth"})

	links := v.Find(dashboard.KindLink)
	require.Len(t, links, 1)
	assert.Equal(t, "/export/summary.xlsx?column=depth", links[0].Href)
}

func TestTrends_InvalidParamsFallBack(t *testing.T) {
	d, _, _ := newFixtureDashboard(t)

	v := render(t, d, dashboard.PageTrends, url.Values{"year": {"1900"}, "column": {"title"}})

	assert.Equal(t, []string{"2001"}, selected(control(t, v, dashboard.ParamYear)))
	assert.Equal(t, []string{"magnitude"}, selected(control(t, v, dashboard.ParamColumn)))
}

func TestTrends_Tables(t *testing.T) {
	d, _, _ := newFixtureDashboard(t)

	v := render(t, d, dashboard.PageTrends, nil)

	tables := v.Find(dashboard.KindTable)
	require.Len(t, tables, 2)

	yearly := tables[0].Table
	assert.Equal(t, []string{"year", "2001", "2002", "2003", "2004", "2005"}, yearly.Rows[0])
	assert.Equal(t, []string{"count", "4", "5", "4", "7", "4"}, yearly.Rows[1])

	stats := tables[1].Table
	require.Len(t, stats.Rows, 8)
	assert.Equal(t, "Count", stats.Rows[7][0])
	assert.Equal(t, "25", stats.Rows[7][1])
}

// --- map ---

func TestMap_RendersMapScatterAndCorrelation(t *testing.T) {
	d, _, _ := newFixtureDashboard(t)

	v := render(t, d, dashboard.PageMap, nil)

	maps := v.Find(dashboard.KindMap)
	require.Len(t, maps, 1)
	assert.Equal(t, dashboard.MapZoom, maps[0].Map.Zoom)
	assert.Equal(t, dashboard.MarkersURL, maps[0].Map.MarkersURL)
	assert.False(t, math.IsNaN(maps[0].Map.Lat))

	assert.True(t, v.HasText("Correlation Analysis"))
	corr := v.Find(dashboard.KindTable)[0].Table
	assert.Equal(t, []string{"", "latitude", "longitude", "magnitude"}, corr.Header)
	assert.Equal(t, "1.000000", corr.Rows[0][1])

	assert.Len(t, v.Find(dashboard.KindChart), 2)
	assert.Equal(t, []string{"Country"}, selected(control(t, v, dashboard.ParamGroupBy)))
}

func TestMap_GroupByContinent(t *testing.T) {
	d, _, _ := newFixtureDashboard(t)

	v := render(t, d, dashboard.PageMap, url.Values{"group_by": {"Continent"}})

	radio := control(t, v, dashboard.ParamGroupBy)
	assert.Equal(t, dashboard.ControlRadio, radio.Kind)
	assert.Equal(t, []string{"Continent"}, selected(radio))
}

func TestMap_MissingRequiredColumns(t *testing.T) {
	records := []domain.Quake{{Magnitude: 6, Latitude: math.NaN(), Longitude: math.NaN(), Country: "Chile"}}
	ds := domain.NewDataset("x.csv", []string{"magnitude", "country"}, records,
		[]string{"magnitude"}, map[string][]float64{"magnitude": {6}})

	v := render(t, newStaticDashboard(ds, nil), dashboard.PageMap, nil)

	assert.Equal(t,
		[]string{"The dataset does not contain the required columns: latitude, longitude, magnitude."},
		v.Notices(dashboard.LevelError))
	assert.Empty(t, v.Find(dashboard.KindMap))
	assert.False(t, v.HasText("Correlation Analysis"))
	assert.False(t, v.HasText("Scatter Plot: Magnitude vs. Geographic Location"))
}

func TestMarkers(t *testing.T) {
	d, _, _ := newFixtureDashboard(t)

	fc, err := d.Markers(context.Background())
	require.NoError(t, err)
	assert.Len(t, fc.Features, 24)
}

func TestMarkers_MissingColumns(t *testing.T) {
	ds := domain.NewDataset("x.csv", []string{"magnitude"}, nil, nil, nil)

	_, err := newStaticDashboard(ds, nil).Markers(context.Background())

	assert.ErrorIs(t, err, domain.ErrMissingColumns)
}

// --- relationships ---

func TestRelationships_TwoCharts(t *testing.T) {
	d, _, _ := newFixtureDashboard(t)

	v := render(t, d, dashboard.PageRelationships, nil)

	assert.Len(t, v.Find(dashboard.KindChart), 2)
	assert.True(t, v.HasText("Tsunami vs Depth and Magnitude"))
}

// --- prediction ---

func TestPrediction_Forecast(t *testing.T) {
	d, _, _ := newFixtureDashboard(t)

	v := render(t, d, dashboard.PagePrediction, nil)

	assert.Equal(t, "Earthquake Prediction for 2025–2030 Using Machine Learning", v.Sections[0].Text)
	assert.True(t, v.HasText("Predictions for 2025–2030"))

	var mse bool
	for _, text := range v.Texts() {
		if len(text) > 25 && text[:25] == "Mean Squared Error (MSE):" {
			mse = true
		}
	}
	assert.True(t, mse)

	pred := v.Find(dashboard.KindTable)[0].Table
	assert.Equal(t, []string{"Year", "Predicted_Earthquakes"}, pred.Header)
	require.Len(t, pred.Rows, 6)
	assert.Equal(t, "2025", pred.Rows[0][0])
	assert.Equal(t, "2030", pred.Rows[5][0])
}

func TestPrediction_NotEnoughYears(t *testing.T) {
	records := []domain.Quake{
		{DateTime: time.Date(2001, 1, 1, 0, 0, 0, 0, time.UTC), Magnitude: 6},
		{DateTime: time.Date(2002, 1, 1, 0, 0, 0, 0, time.UTC), Magnitude: 7},
	}
	ds := domain.NewDataset("x.csv", []string{"magnitude", "date_time"}, records,
		[]string{"magnitude"}, map[string][]float64{"magnitude": {6, 7}})

	v := render(t, newStaticDashboard(ds, nil), dashboard.PagePrediction, nil)

	assert.Equal(t, []string{"At least 3 years of data are needed for a forecast."}, v.Notices(dashboard.LevelWarning))
	assert.False(t, v.HasText("Predictions for 2025–2030"))
}

func TestClusters_NoSelectionPrompts(t *testing.T) {
	d, _, _ := newFixtureDashboard(t)

	v := render(t, d, dashboard.PagePrediction, nil)

	assert.True(t, v.HasText(dashboard.MsgSelectTwoColumns))
	assert.False(t, v.HasText("Cluster Statistics"))
	k := control(t, v, dashboard.ParamK)
	assert.Equal(t, dashboard.ControlSlider, k.Kind)
	assert.Equal(t, 3, k.Value)
	assert.Equal(t, 2, k.Min)
	assert.Equal(t, 10, k.Max)
}

func TestClusters_TwoColumnsDrawsChart(t *testing.T) {
	d, _, _ := newFixtureDashboard(t)
	q := url.Values{"columns": {"magnitude", "depth"}, "k": {"2"}}

	v := render(t, d, dashboard.PagePrediction, q)

	assert.False(t, v.Failed(), "unexpected errors: %v", v.Notices(dashboard.LevelError))
	assert.True(t, v.HasText("Cluster Statistics"))
	assert.True(t, v.HasText("Visualization of Clusters (k=2)"))
	assert.False(t, v.HasText(dashboard.MsgSelectTwoColumns))
	// forecast chart + cluster chart
	assert.Len(t, v.Find(dashboard.KindChart), 2)

	multi := control(t, v, dashboard.ParamColumns)
	assert.Equal(t, []string{"magnitude", "depth"}, selected(multi))
	assert.Contains(t, multi.Hidden, dashboard.Field{Name: "k", Value: "2"})

	stats := v.Find(dashboard.KindTable)[1].Table
	assert.Equal(t, []string{"Cluster", "magnitude", "depth", "Size"}, stats.Header)
	assert.Len(t, stats.Rows, 2)
}

func TestClusters_OneOrThreeColumnsPrompt(t *testing.T) {
	d, _, _ := newFixtureDashboard(t)

	for _, cols := range [][]string{{"magnitude"}, {"magnitude", "depth", "sig"}} {
		v := render(t, d, dashboard.PagePrediction, url.Values{"columns": cols})

		assert.True(t, v.HasText("Cluster Statistics"))
		assert.True(t, v.HasText(dashboard.MsgSelectTwoColumns))
		assert.Len(t, v.Find(dashboard.KindChart), 1, "only the forecast chart")
	}
}

func TestClusters_KIsClamped(t *testing.T) {
	d, _, _ := newFixtureDashboard(t)

	v := render(t, d, dashboard.PagePrediction, url.Values{"k": {"50"}})
	assert.Equal(t, 10, control(t, v, dashboard.ParamK).Value)

	v = render(t, d, dashboard.PagePrediction, url.Values{"k": {"x"}})
	assert.Equal(t, 3, control(t, v, dashboard.ParamK).Value)
}

func TestClusters_NoRowsAfterCleaning(t *testing.T) {
	nan := math.NaN()
	ds := domain.NewDataset("x.csv", []string{"a", "b"}, make([]domain.Quake, 2),
		[]string{"a", "b"}, map[string][]float64{"a": {nan, 1}, "b": {2, nan}})

	v := render(t, newStaticDashboard(ds, nil), dashboard.PagePrediction, url.Values{"columns": {"a", "b"}})

	assert.Equal(t, []string{dashboard.MsgNoRowsAfterClean}, v.Notices(dashboard.LevelError))
	assert.False(t, v.HasText("Cluster Statistics"))
}

func TestClusters_KGreaterThanRows(t *testing.T) {
	ds := domain.NewDataset("x.csv", []string{"a", "b"}, make([]domain.Quake, 2),
		[]string{"a", "b"}, map[string][]float64{"a": {1, 2}, "b": {3, 4}})

	v := render(t, newStaticDashboard(ds, nil), dashboard.PagePrediction, url.Values{"columns": {"a", "b"}, "k": {"3"}})

	require.Len(t, v.Notices(dashboard.LevelError), 1)
	assert.Contains(t, v.Notices(dashboard.LevelError)[0], "greater than the number of rows")
}

func TestReport(t *testing.T) {
	d, _, _ := newFixtureDashboard(t)

	r, err := d.Report(context.Background(), "depth")
	require.NoError(t, err)

	assert.Equal(t, "depth", r.Summary.Column)
	assert.Len(t, r.Countries, analysis.CountryLimit)
	assert.Equal(t, "Indonesia", r.Countries[0].Name)
	assert.Len(t, r.Continents, 4)
}
