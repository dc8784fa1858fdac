package domain

import (
	"context"
	"log/slog"
	"math"
)

// EnrichWithGeocoding fills in the country of records that have coordinates
// but no country. Records are updated in place. Geocoding failures are logged
// and leave the record unchanged. Returns the number of records enriched.
func EnrichWithGeocoding(ctx context.Context, records []Quake, geocoder Geocoder, logger *slog.Logger) int {
	if geocoder == nil {
		return 0
	}

	enriched := 0
	for i := range records {
		q := &records[i]
		if q.Country != "" || math.IsNaN(q.Latitude) || math.IsNaN(q.Longitude) {
			continue
		}
		if ctx.Err() != nil {
			logger.Warn("geocoding interrupted", "error", ctx.Err(), "enriched", enriched)
			return enriched
		}

		result, err := geocoder.ReverseGeocode(ctx, q.Latitude, q.Longitude)
		if err != nil {
			logger.Warn("reverse geocoding failed",
				"lat", q.Latitude,
				"lon", q.Longitude,
				"error", err,
			)
			continue
		}
		if result.Country == "" {
			continue
		}
		q.Country = result.Country
		enriched++
	}
	return enriched
}
