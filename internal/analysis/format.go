package analysis

import (
	"math"
	"strconv"
)

// PopupText is the marker popup for a magnitude.
func PopupText(magnitude float64) string {
	return "Magnitude: " + FormatNumber(magnitude)
}

// FormatNumber renders a value with the shortest exact representation, or
// "NaN" for missing values.
func FormatNumber(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatFixed renders a value with a fixed number of decimals.
func FormatFixed(v float64, decimals int) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return strconv.FormatFloat(v, 'f', decimals, 64)
}
