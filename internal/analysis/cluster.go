package analysis

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/stat"

	"github.com/couchcryptid/quake-dashboard/internal/domain"
)

// ErrNoRowsAfterCleaning is returned when every row has a missing value in
// at least one selected column.
var ErrNoRowsAfterCleaning = errors.New("no rows left after dropping missing values")

// MinClusters and MaxClusters bound the k slider.
const (
	MinClusters     = 2
	MaxClusters     = 10
	DefaultClusters = 3
)

// Clustering is the k-means grouping of a column selection, in original units.
type Clustering struct {
	Columns []string      `json:"columns" yaml:"columns"`
	K       int           `json:"k" yaml:"k"`
	Rows    [][]float64   `json:"-" yaml:"-"`
	Labels  []int         `json:"-" yaml:"-"`
	Means   []ClusterMean `json:"means" yaml:"means"`
	Inertia float64       `json:"inertia" yaml:"inertia"`
}

// ClusterMean is the per-column mean of one cluster's rows.
type ClusterMean struct {
	Cluster int       `json:"cluster" yaml:"cluster"`
	Size    int       `json:"size" yaml:"size"`
	Means   []float64 `json:"means" yaml:"means"`
}

// Plottable reports whether the selection can be drawn as a 2-D scatter.
func (c Clustering) Plottable() bool { return len(c.Columns) == 2 }

// Cluster drops rows with a missing value in any selected column,
// standardizes the rest and runs k-means on them.
func Cluster(ds *domain.Dataset, columns []string, opts KMeansOptions) (Clustering, error) {
	if len(columns) == 0 {
		return Clustering{}, errors.New("no columns selected")
	}
	cols := make([][]float64, len(columns))
	for i, name := range columns {
		vals, ok := ds.Numeric(name)
		if !ok {
			return Clustering{}, fmt.Errorf("%w: %s is not a numeric column", domain.ErrMissingColumns, name)
		}
		cols[i] = vals
	}

	rows := completeRows(cols)
	if len(rows) == 0 {
		return Clustering{}, ErrNoRowsAfterCleaning
	}

	res, err := KMeans(StandardScale(rows), opts)
	if err != nil {
		return Clustering{}, err
	}

	return Clustering{
		Columns: columns,
		K:       opts.K,
		Rows:    rows,
		Labels:  res.Labels,
		Means:   clusterMeans(rows, res.Labels, opts.K),
		Inertia: res.Inertia,
	}, nil
}

// completeRows transposes columns into rows, skipping any row with a NaN.
func completeRows(cols [][]float64) [][]float64 {
	n := len(cols[0])
	for _, c := range cols[1:] {
		n = min(n, len(c))
	}
	var rows [][]float64
	for i := 0; i < n; i++ {
		row := make([]float64, len(cols))
		complete := true
		for j, c := range cols {
			if isNaN(c[i]) {
				complete = false
				break
			}
			row[j] = c[i]
		}
		if complete {
			rows = append(rows, row)
		}
	}
	return rows
}

func clusterMeans(rows [][]float64, labels []int, k int) []ClusterMean {
	dims := len(rows[0])
	var out []ClusterMean
	for c := 0; c < k; c++ {
		cols := make([][]float64, dims)
		for i, r := range rows {
			if labels[i] != c {
				continue
			}
			for d := range dims {
				cols[d] = append(cols[d], r[d])
			}
		}
		if len(cols[0]) == 0 {
			continue
		}
		m := ClusterMean{Cluster: c, Size: len(cols[0]), Means: make([]float64, dims)}
		for d := range dims {
			m.Means[d] = stat.Mean(cols[d], nil)
		}
		out = append(out, m)
	}
	return out
}
