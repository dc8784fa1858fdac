package domain

import "context"

// GeocodingResult contains location data returned by a geocoding provider.
type GeocodingResult struct {
	Country     string
	CountryCode string // ISO 3166-1 alpha-2, upper case
}

// Geocoder resolves coordinates to the country containing them.
type Geocoder interface {
	ReverseGeocode(ctx context.Context, lat, lon float64) (GeocodingResult, error)
}
