package analysis

import (
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat"

	"github.com/couchcryptid/quake-dashboard/internal/domain"
)

// MinForecastYears is the fewest distinct years a trend is fitted on.
const MinForecastYears = 3

// ForecastOptions controls the train/test split and the predicted range.
type ForecastOptions struct {
	FromYear int
	ToYear   int
	TestSize float64
	Seed     uint64
}

// DefaultForecastOptions predicts 2025 through 2030 from an 80/20 split.
func DefaultForecastOptions() ForecastOptions {
	return ForecastOptions{FromYear: 2025, ToYear: 2030, TestSize: 0.2, Seed: 42}
}

// Prediction is the predicted count for a future year. Count is the model
// output truncated toward zero.
type Prediction struct {
	Year  int     `json:"year" yaml:"year"`
	Value float64 `json:"value" yaml:"value"`
	Count int     `json:"count" yaml:"count"`
}

// Trend is a least-squares line count = Intercept + Slope*year.
type Trend struct {
	Intercept   float64      `json:"intercept" yaml:"intercept"`
	Slope       float64      `json:"slope" yaml:"slope"`
	MSE         float64      `json:"mse" yaml:"mse"`
	Train       []YearCount  `json:"train" yaml:"train"`
	Test        []YearCount  `json:"test" yaml:"test"`
	History     []YearCount  `json:"history" yaml:"history"`
	Predictions []Prediction `json:"predictions" yaml:"predictions"`
}

// At evaluates the line at year.
func (t Trend) At(year float64) float64 {
	return t.Intercept + t.Slope*year
}

// FitYearlyTrend fits the yearly counts on a seeded shuffled split, scores
// the held-out years with the mean squared error and predicts the configured
// future range. Fewer than MinForecastYears years yields
// domain.ErrNotEnoughData.
func FitYearlyTrend(counts []YearCount, opts ForecastOptions) (Trend, error) {
	n := len(counts)
	if n < MinForecastYears {
		return Trend{}, fmt.Errorf("forecast needs %d years, have %d: %w", MinForecastYears, n, domain.ErrNotEnoughData)
	}
	if opts.TestSize <= 0 || opts.TestSize >= 1 {
		return Trend{}, fmt.Errorf("test size %v must be between 0 and 1", opts.TestSize)
	}

	train, test := splitYears(counts, opts.TestSize, opts.Seed)

	x, y := yearColumns(train)
	intercept, slope := stat.LinearRegression(x, y, nil, false)

	t := Trend{
		Intercept: intercept,
		Slope:     slope,
		Train:     train,
		Test:      test,
		History:   counts,
	}
	t.MSE = MeanSquaredError(test, t.At)

	for year := opts.FromYear; year <= opts.ToYear; year++ {
		v := t.At(float64(year))
		t.Predictions = append(t.Predictions, Prediction{Year: year, Value: v, Count: int(v)})
	}
	return t, nil
}

// MeanSquaredError scores predict against the observed counts.
func MeanSquaredError(observed []YearCount, predict func(year float64) float64) float64 {
	if len(observed) == 0 {
		return math.NaN()
	}
	var sum float64
	for _, o := range observed {
		d := float64(o.Count) - predict(float64(o.Year))
		sum += d * d
	}
	return sum / float64(len(observed))
}

// splitYears shuffles with a fixed seed and holds out ceil(testSize*n) years,
// keeping at least two years to fit on.
func splitYears(counts []YearCount, testSize float64, seed uint64) (train, test []YearCount) {
	n := len(counts)
	nTest := int(math.Ceil(testSize * float64(n)))
	nTest = min(max(nTest, 1), n-2)

	rng := rand.New(rand.NewPCG(seed, seed))
	perm := rng.Perm(n)

	test = make([]YearCount, 0, nTest)
	train = make([]YearCount, 0, n-nTest)
	for i, idx := range perm {
		if i < nTest {
			test = append(test, counts[idx])
		} else {
			train = append(train, counts[idx])
		}
	}
	return train, test
}

func yearColumns(counts []YearCount) (x, y []float64) {
	x = make([]float64, len(counts))
	y = make([]float64, len(counts))
	for i, c := range counts {
		x[i] = float64(c.Year)
		y[i] = float64(c.Count)
	}
	return x, y
}
