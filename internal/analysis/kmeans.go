package analysis

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// KMeansOptions controls the k-means search.
type KMeansOptions struct {
	K       int
	NInit   int
	MaxIter int
	// Tol is relative to the mean per-feature variance of the data.
	Tol  float64
	Seed uint64
}

// DefaultKMeansOptions returns ten k-means++ restarts of up to 300 iterations.
func DefaultKMeansOptions(k int) KMeansOptions {
	return KMeansOptions{K: k, NInit: 10, MaxIter: 300, Tol: 1e-4, Seed: 42}
}

// KMeansResult is the best of all restarts.
type KMeansResult struct {
	Labels  []int
	Centers [][]float64
	Inertia float64
}

// StandardScale centres every feature on zero and scales it to unit
// population standard deviation. A constant feature is only centred.
func StandardScale(rows [][]float64) [][]float64 {
	if len(rows) == 0 {
		return nil
	}
	dims := len(rows[0])
	out := make([][]float64, len(rows))
	for i := range rows {
		out[i] = make([]float64, dims)
	}

	col := make([]float64, len(rows))
	for d := 0; d < dims; d++ {
		for i, r := range rows {
			col[i] = r[d]
		}
		mean, std := stat.PopMeanStdDev(col, nil)
		if std == 0 || math.IsNaN(std) {
			std = 1
		}
		for i, r := range rows {
			out[i][d] = (r[d] - mean) / std
		}
	}
	return out
}

// KMeans clusters rows with Lloyd's algorithm from k-means++ seeds, restarting
// NInit times and keeping the lowest inertia. The result depends only on the
// data and the options.
func KMeans(rows [][]float64, opts KMeansOptions) (KMeansResult, error) {
	if opts.K < 1 {
		return KMeansResult{}, errors.New("k must be at least 1")
	}
	if len(rows) < opts.K {
		return KMeansResult{}, fmt.Errorf("k=%d is greater than the number of rows (%d)", opts.K, len(rows))
	}
	nInit := max(opts.NInit, 1)
	maxIter := max(opts.MaxIter, 1)
	tol := opts.Tol * meanVariance(rows)

	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed))
	best := KMeansResult{Inertia: math.Inf(1)}
	for range nInit {
		centers := seedCenters(rows, opts.K, rng)
		res := lloyd(rows, centers, maxIter, tol)
		if res.Inertia < best.Inertia {
			best = res
		}
	}
	return best, nil
}

// seedCenters picks k initial centres with k-means++ weighting.
func seedCenters(rows [][]float64, k int, rng *rand.Rand) [][]float64 {
	centers := make([][]float64, 0, k)
	centers = append(centers, clone(rows[rng.IntN(len(rows))]))

	dist := make([]float64, len(rows))
	for len(centers) < k {
		for i, r := range rows {
			dist[i] = nearest(r, centers).dist
		}
		total := floats.Sum(dist)
		if total == 0 {
			// Every row coincides with a centre; any row will do.
			centers = append(centers, clone(rows[rng.IntN(len(rows))]))
			continue
		}
		target := rng.Float64() * total
		idx := len(rows) - 1
		var acc float64
		for i, d := range dist {
			acc += d
			if acc >= target && d > 0 {
				idx = i
				break
			}
		}
		centers = append(centers, clone(rows[idx]))
	}
	return centers
}

func lloyd(rows, centers [][]float64, maxIter int, tol float64) KMeansResult {
	k := len(centers)
	dims := len(rows[0])
	labels := make([]int, len(rows))

	for range maxIter {
		for i, r := range rows {
			labels[i] = nearest(r, centers).index
		}

		next := make([][]float64, k)
		sizes := make([]int, k)
		for c := range next {
			next[c] = make([]float64, dims)
		}
		for i, r := range rows {
			floats.Add(next[labels[i]], r)
			sizes[labels[i]]++
		}
		for c := range next {
			if sizes[c] == 0 {
				// Empty cluster keeps its previous centre.
				copy(next[c], centers[c])
				continue
			}
			floats.Scale(1/float64(sizes[c]), next[c])
		}

		var shift float64
		for c := range centers {
			d := floats.Distance(centers[c], next[c], 2)
			shift += d * d
		}
		centers = next
		if shift <= tol {
			break
		}
	}

	var inertia float64
	for i, r := range rows {
		n := nearest(r, centers)
		labels[i] = n.index
		inertia += n.dist
	}
	return KMeansResult{Labels: labels, Centers: centers, Inertia: inertia}
}

type match struct {
	index int
	dist  float64 // squared Euclidean
}

func nearest(row []float64, centers [][]float64) match {
	best := match{dist: math.Inf(1)}
	for c, center := range centers {
		d := floats.Distance(row, center, 2)
		if d*d < best.dist {
			best = match{index: c, dist: d * d}
		}
	}
	return best
}

func meanVariance(rows [][]float64) float64 {
	dims := len(rows[0])
	col := make([]float64, len(rows))
	var sum float64
	for d := 0; d < dims; d++ {
		for i, r := range rows {
			col[i] = r[d]
		}
		_, std := stat.PopMeanStdDev(col, nil)
		sum += std * std
	}
	return sum / float64(dims)
}

func clone(v []float64) []float64 {
	out := make([]float64, len(v))
	copy(out, v)
	return out
}
