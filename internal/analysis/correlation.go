package analysis

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Matrix is a square Pearson correlation matrix; Values[i][j] correlates
// Names[i] with Names[j].
type Matrix struct {
	Names  []string
	Values [][]float64
}

// CorrelationMatrix computes pairwise Pearson correlations. Each pair uses
// the rows where both values are known; a pair with fewer than two such rows
// or zero variance is NaN.
func CorrelationMatrix(names []string, columns [][]float64) Matrix {
	m := Matrix{Names: names, Values: make([][]float64, len(names))}
	for i := range names {
		m.Values[i] = make([]float64, len(names))
	}
	for i := range names {
		for j := i; j < len(names); j++ {
			r := pairCorrelation(columns[i], columns[j])
			m.Values[i][j] = r
			m.Values[j][i] = r
		}
	}
	return m
}

func pairCorrelation(a, b []float64) float64 {
	n := min(len(a), len(b))
	x := make([]float64, 0, n)
	y := make([]float64, 0, n)
	for k := 0; k < n; k++ {
		if isNaN(a[k]) || isNaN(b[k]) {
			continue
		}
		x = append(x, a[k])
		y = append(y, b[k])
	}
	if len(x) < 2 {
		return math.NaN()
	}
	if stat.Variance(x, nil) == 0 || stat.Variance(y, nil) == 0 {
		return math.NaN()
	}
	return stat.Correlation(x, y, nil)
}
