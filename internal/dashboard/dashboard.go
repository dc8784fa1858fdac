package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/paulmach/orb/geojson"

	"github.com/couchcryptid/quake-dashboard/internal/analysis"
	"github.com/couchcryptid/quake-dashboard/internal/chart"
	"github.com/couchcryptid/quake-dashboard/internal/domain"
	"github.com/couchcryptid/quake-dashboard/internal/observability"
)

// MarkersURL serves the GeoJSON markers drawn on the map page.
const MarkersURL = "/api/quakes.geojson"

// ExportURL serves the statistics workbook.
const ExportURL = "/export/summary.xlsx"

// HistogramBins is the number of magnitude bins on the trends page.
const HistogramBins = 20

// DatasetSource provides the loaded dataset.
type DatasetSource interface {
	Load(ctx context.Context) (*domain.Dataset, error)
}

// PageViewPublisher receives one event per rendered page.
type PageViewPublisher interface {
	Publish(ctx context.Context, view domain.PageView) error
}

// Options tunes the derived views.
type Options struct {
	DatasetPath string
	Forecast    analysis.ForecastOptions
	ClusterSeed uint64
}

// Dashboard renders pages from the dataset.
type Dashboard struct {
	source    DatasetSource
	publisher PageViewPublisher
	opts      Options
	logger    *slog.Logger
	metrics   *observability.Metrics
}

// New creates a Dashboard. publisher may be nil.
func New(source DatasetSource, publisher PageViewPublisher, opts Options, logger *slog.Logger, metrics *observability.Metrics) *Dashboard {
	return &Dashboard{
		source:    source,
		publisher: publisher,
		opts:      opts,
		logger:    logger,
		metrics:   metrics,
	}
}

// CheckReadiness returns nil once the dataset can be loaded.
func (d *Dashboard) CheckReadiness(ctx context.Context) error {
	if _, err := d.source.Load(ctx); err != nil {
		return fmt.Errorf("dataset not loaded: %w", err)
	}
	return nil
}

// Render draws one page from the current widget values. Data problems are
// reported as notices inside the view; only an unknown slug is an error.
func (d *Dashboard) Render(ctx context.Context, slug string, params url.Values) (*View, error) {
	page, ok := Lookup(slug)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPage, slug)
	}
	start := time.Now()

	v := newView(page, params)
	v.title(page.Heading(d))
	ds, err := d.source.Load(ctx)
	if err != nil {
		d.loadFailed(v, err)
	} else {
		page.render(d, v, ds, params)
	}

	took := time.Since(start)
	outcome := domain.OutcomeOK
	if v.Failed() {
		outcome = domain.OutcomeError
	}
	d.metrics.PageRenders.WithLabelValues(slug, outcome).Inc()
	d.metrics.PageRenderDuration.WithLabelValues(slug).Observe(took.Seconds())
	for _, s := range v.Find(KindNotice) {
		d.metrics.PageNotices.WithLabelValues(slug, string(s.Level)).Inc()
	}
	d.logger.Debug("page rendered", "page", slug, "outcome", outcome, "sections", len(v.Sections), "duration", took)

	d.publish(ctx, domain.NewPageView(slug, params, took, outcome))
	return v, nil
}

// Markers returns the map markers of the located records.
func (d *Dashboard) Markers(ctx context.Context) (*geojson.FeatureCollection, error) {
	ds, err := d.source.Load(ctx)
	if err != nil {
		return nil, err
	}
	if !ds.HasColumns(domain.RequiredMapColumns...) {
		return nil, fmt.Errorf("%w: %v", domain.ErrMissingColumns, domain.RequiredMapColumns)
	}
	return analysis.Markers(ds.Records), nil
}

// Report gathers the workbook contents for column. An empty column selects
// the first numeric column.
func (d *Dashboard) Report(ctx context.Context, column string) (analysis.Report, error) {
	ds, err := d.source.Load(ctx)
	if err != nil {
		return analysis.Report{}, err
	}
	return analysis.BuildReport(ds, column)
}

func (d *Dashboard) loadFailed(v *View, err error) {
	if errors.Is(err, domain.ErrDatasetNotFound) {
		v.fail("The file was not found at the specified path: " + d.opts.DatasetPath)
		return
	}
	d.logger.Error("dataset load failed", "error", err)
	v.fail("The dataset could not be loaded: " + err.Error())
}

// addChart appends a rendered chart, or a notice when rendering failed.
func (d *Dashboard) addChart(v *View, svg chart.SVG, err error) {
	switch {
	case err == nil:
		v.chart(svg)
	case errors.Is(err, chart.ErrNoData):
		v.warning("No data available to plot.")
	default:
		d.logger.Error("chart rendering failed", "page", v.Page.Slug, "error", err)
		v.fail("The chart could not be rendered.")
	}
}

// publish hands the page view to the publisher. Failures never affect the page.
func (d *Dashboard) publish(ctx context.Context, pv domain.PageView) {
	if d.publisher == nil {
		return
	}
	if err := d.publisher.Publish(ctx, pv); err != nil {
		d.logger.Warn("page view not published", "page", pv.Page, "error", err)
	}
}
