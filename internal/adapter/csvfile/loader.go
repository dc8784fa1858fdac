package csvfile

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"math"
	"os"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/couchcryptid/quake-dashboard/internal/domain"
	"github.com/couchcryptid/quake-dashboard/internal/observability"
)

// knownTypes pins the columns the dashboard reads by name so that a column of
// whole numbers (or an empty one) is not inferred as int or string.
var knownTypes = map[string]series.Type{
	domain.ColLatitude:  series.Float,
	domain.ColLongitude: series.Float,
	domain.ColMagnitude: series.Float,
	domain.ColDepth:     series.Float,
	domain.ColTsunami:   series.Float,
	domain.ColDateTime:  series.String,
	domain.ColCountry:   series.String,
	domain.ColContinent: series.String,
}

// Loader reads the earthquake CSV from a fixed path.
type Loader struct {
	path     string
	geocoder domain.Geocoder
	logger   *slog.Logger
	metrics  *observability.Metrics
}

// NewLoader creates a Loader for path. Pass a nil geocoder to disable
// country enrichment.
func NewLoader(path string, geocoder domain.Geocoder, logger *slog.Logger, metrics *observability.Metrics) *Loader {
	return &Loader{
		path:     path,
		geocoder: geocoder,
		logger:   logger,
		metrics:  metrics,
	}
}

// Load reads and parses the file. A missing file yields an error wrapping
// domain.ErrDatasetNotFound.
func (l *Loader) Load(ctx context.Context) (*domain.Dataset, error) {
	f, err := os.Open(l.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			l.metrics.DatasetLoads.WithLabelValues("not_found").Inc()
			return nil, fmt.Errorf("%w: %s", domain.ErrDatasetNotFound, l.path)
		}
		l.metrics.DatasetLoads.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	ds, err := Parse(f, l.path)
	if err != nil {
		l.metrics.DatasetLoads.WithLabelValues("error").Inc()
		return nil, err
	}

	if l.geocoder != nil {
		n := domain.EnrichWithGeocoding(ctx, ds.Records, l.geocoder, l.logger)
		l.logger.Info("country enrichment finished", "enriched", n)
	}

	l.metrics.DatasetLoads.WithLabelValues("success").Inc()
	l.logger.Info("dataset loaded", "path", l.path, "rows", ds.Len(), "columns", len(ds.Columns))
	return ds, nil
}

// Parse reads CSV content into a dataset. Every int or float column becomes a
// numeric column; the columns named in the domain package also populate the
// typed records.
func Parse(r io.Reader, path string) (*domain.Dataset, error) {
	df := dataframe.ReadCSV(r, dataframe.WithTypes(knownTypes))
	if df.Err != nil {
		return nil, fmt.Errorf("parse dataset: %w", df.Err)
	}

	names := df.Names()
	types := df.Types()
	rows := df.Nrow()

	numeric := make(map[string][]float64)
	var numericNames []string
	for i, name := range names {
		if types[i] != series.Float && types[i] != series.Int {
			continue
		}
		numeric[name] = df.Col(name).Float()
		numericNames = append(numericNames, name)
	}

	text := func(name string) []string {
		for _, n := range names {
			if n == name {
				return df.Col(name).Records()
			}
		}
		return nil
	}
	dates := text(domain.ColDateTime)
	countries := text(domain.ColCountry)
	continents := text(domain.ColContinent)

	records := make([]domain.Quake, rows)
	for i := range records {
		records[i] = domain.Quake{
			Latitude:  valueAt(numeric[domain.ColLatitude], i),
			Longitude: valueAt(numeric[domain.ColLongitude], i),
			Magnitude: valueAt(numeric[domain.ColMagnitude], i),
			Depth:     valueAt(numeric[domain.ColDepth], i),
			Tsunami:   valueAt(numeric[domain.ColTsunami], i),
			DateTime:  domain.ParseDateTime(cleanText(textAt(dates, i))),
			Country:   cleanText(textAt(countries, i)),
			Continent: cleanText(textAt(continents, i)),
		}
	}

	return domain.NewDataset(path, names, records, numericNames, numeric), nil
}

func valueAt(col []float64, i int) float64 {
	if i >= len(col) {
		return math.NaN()
	}
	return col[i]
}

func textAt(col []string, i int) string {
	if i >= len(col) {
		return ""
	}
	return col[i]
}

// cleanText maps the reader's null markers to the empty string.
func cleanText(s string) string {
	s = strings.TrimSpace(s)
	if s == "NaN" || s == "NA" || s == "<nil>" {
		return ""
	}
	return s
}
