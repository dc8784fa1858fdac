package analysis

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"

	"github.com/couchcryptid/quake-dashboard/internal/domain"
)

// Located returns the records with latitude, longitude and magnitude all known.
func Located(records []domain.Quake) []domain.Quake {
	out := make([]domain.Quake, 0, len(records))
	for _, q := range records {
		if q.HasLocation() {
			out = append(out, q)
		}
	}
	return out
}

// Centroid returns the mean epicentre of the located records as (lon, lat).
// ok is false when no record has a location.
func Centroid(records []domain.Quake) (center orb.Point, ok bool) {
	located := Located(records)
	if len(located) == 0 {
		return orb.Point{}, false
	}
	mp := make(orb.MultiPoint, len(located))
	for i, q := range located {
		mp[i] = orb.Point{q.Longitude, q.Latitude}
	}
	center, _ = planar.CentroidArea(mp)
	return center, true
}

// MarkerRadius is the map marker radius for a magnitude, never below 1.
func MarkerRadius(magnitude float64) float64 {
	return max(1, magnitude/2)
}

// Markers builds a GeoJSON feature per located record. Each feature carries
// the magnitude, the marker radius and the popup text.
func Markers(records []domain.Quake) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, q := range Located(records) {
		f := geojson.NewFeature(orb.Point{q.Longitude, q.Latitude})
		f.Properties["magnitude"] = q.Magnitude
		f.Properties["radius"] = MarkerRadius(q.Magnitude)
		f.Properties["popup"] = PopupText(q.Magnitude)
		if q.Country != "" {
			f.Properties["country"] = q.Country
		}
		if y := q.Year(); y != 0 {
			f.Properties["year"] = y
		}
		fc.Append(f)
	}
	return fc
}
