package analysis

import "github.com/couchcryptid/quake-dashboard/internal/domain"

// Point is one (x, y) observation.
type Point struct {
	X, Y float64
}

// DepthMagnitude returns (depth, magnitude) for every record with both known.
func DepthMagnitude(records []domain.Quake) []Point {
	var out []Point
	for _, q := range records {
		if isNaN(q.Magnitude) || isNaN(q.Depth) {
			continue
		}
		out = append(out, Point{X: q.Depth, Y: q.Magnitude})
	}
	return out
}

// TsunamiSplit partitions (depth, magnitude) points by the tsunami flag.
// Records missing magnitude or depth, or flagged other than 0 or 1, are
// dropped.
func TsunamiSplit(records []domain.Quake) (none, tsunami []Point) {
	for _, q := range records {
		if isNaN(q.Magnitude) || isNaN(q.Depth) {
			continue
		}
		p := Point{X: q.Depth, Y: q.Magnitude}
		switch q.Tsunami {
		case 0:
			none = append(none, p)
		case 1:
			tsunami = append(tsunami, p)
		}
	}
	return none, tsunami
}

// LocationColumns returns the latitude, longitude and magnitude of the
// located records as parallel slices.
func LocationColumns(records []domain.Quake) (lat, lon, mag []float64) {
	for _, q := range Located(records) {
		lat = append(lat, q.Latitude)
		lon = append(lon, q.Longitude)
		mag = append(mag, q.Magnitude)
	}
	return lat, lon, mag
}
