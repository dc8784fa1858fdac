package analysis

import (
	"encoding/json"
	"fmt"
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/couchcryptid/quake-dashboard/internal/domain"
)

// Summary holds the descriptive statistics of one numeric column. Standard
// deviation and variance are sample statistics (n-1 denominator).
type Summary struct {
	Column   string  `json:"column" yaml:"column"`
	Mean     float64 `json:"mean" yaml:"mean"`
	Median   float64 `json:"median" yaml:"median"`
	Mode     float64 `json:"mode" yaml:"mode"`
	Min      float64 `json:"min" yaml:"min"`
	Max      float64 `json:"max" yaml:"max"`
	StdDev   float64 `json:"std_dev" yaml:"std_dev"`
	Variance float64 `json:"variance" yaml:"variance"`
	Count    int     `json:"count" yaml:"count"`
}

// summaryDoc is the encoded form of a Summary. Undefined statistics are null.
type summaryDoc struct {
	Column   string   `json:"column" yaml:"column"`
	Mean     *float64 `json:"mean" yaml:"mean"`
	Median   *float64 `json:"median" yaml:"median"`
	Mode     *float64 `json:"mode" yaml:"mode"`
	Min      *float64 `json:"min" yaml:"min"`
	Max      *float64 `json:"max" yaml:"max"`
	StdDev   *float64 `json:"std_dev" yaml:"std_dev"`
	Variance *float64 `json:"variance" yaml:"variance"`
	Count    int      `json:"count" yaml:"count"`
}

func (s Summary) doc() summaryDoc {
	return summaryDoc{
		Column:   s.Column,
		Mean:     nullable(s.Mean),
		Median:   nullable(s.Median),
		Mode:     nullable(s.Mode),
		Min:      nullable(s.Min),
		Max:      nullable(s.Max),
		StdDev:   nullable(s.StdDev),
		Variance: nullable(s.Variance),
		Count:    s.Count,
	}
}

// MarshalJSON encodes NaN statistics as null.
func (s Summary) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.doc())
}

// UnmarshalJSON decodes null statistics as NaN.
func (s *Summary) UnmarshalJSON(data []byte) error {
	var d summaryDoc
	if err := json.Unmarshal(data, &d); err != nil {
		return err
	}
	*s = d.summary()
	return nil
}

// MarshalYAML encodes NaN statistics as null.
func (s Summary) MarshalYAML() (any, error) {
	return s.doc(), nil
}

func (d summaryDoc) summary() Summary {
	return Summary{
		Column:   d.Column,
		Mean:     orNaN(d.Mean),
		Median:   orNaN(d.Median),
		Mode:     orNaN(d.Mode),
		Min:      orNaN(d.Min),
		Max:      orNaN(d.Max),
		StdDev:   orNaN(d.StdDev),
		Variance: orNaN(d.Variance),
		Count:    d.Count,
	}
}

func nullable(v float64) *float64 {
	if isNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func orNaN(p *float64) float64 {
	if p == nil {
		return math.NaN()
	}
	return *p
}

// Statistic is one labelled row of a summary table.
type Statistic struct {
	Name  string
	Value float64
}

// Rows lists the statistics in display order.
func (s Summary) Rows() []Statistic {
	return []Statistic{
		{"Mean", s.Mean},
		{"Median", s.Median},
		{"Mode", s.Mode},
		{"Minimum", s.Min},
		{"Maximum", s.Max},
		{"Standard Deviation", s.StdDev},
		{"Variance", s.Variance},
		{"Count", float64(s.Count)},
	}
}

// DropNaN returns the non-NaN values in their original order.
func DropNaN(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !isNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

// Describe summarizes the known values of a column. A column with no known
// values yields domain.ErrNotEnoughData.
func Describe(column string, values []float64) (Summary, error) {
	vals := DropNaN(values)
	if len(vals) == 0 {
		return Summary{}, fmt.Errorf("describe %s: %w", column, domain.ErrNotEnoughData)
	}
	sorted := slices.Clone(vals)
	slices.Sort(sorted)

	s := Summary{
		Column:   column,
		Mean:     stat.Mean(vals, nil),
		Median:   median(sorted),
		Mode:     mode(sorted),
		Min:      floats.Min(vals),
		Max:      floats.Max(vals),
		StdDev:   math.NaN(),
		Variance: math.NaN(),
		Count:    len(vals),
	}
	if len(vals) > 1 {
		s.Variance = stat.Variance(vals, nil)
		s.StdDev = math.Sqrt(s.Variance)
	}
	return s, nil
}

func median(sorted []float64) float64 {
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// mode returns the most frequent value, the smallest one on ties.
func mode(sorted []float64) float64 {
	best, bestN := sorted[0], 0
	for i := 0; i < len(sorted); {
		j := i
		for j < len(sorted) && sorted[j] == sorted[i] {
			j++
		}
		if j-i > bestN {
			best, bestN = sorted[i], j-i
		}
		i = j
	}
	return best
}

// ValueCount is the number of occurrences of one distinct value.
type ValueCount struct {
	Value float64
	Count int
}

// ValueCounts tallies the known values, ordered by value.
func ValueCounts(values []float64) []ValueCount {
	sorted := DropNaN(values)
	slices.Sort(sorted)

	var out []ValueCount
	for _, v := range sorted {
		if n := len(out); n > 0 && out[n-1].Value == v {
			out[n-1].Count++
			continue
		}
		out = append(out, ValueCount{Value: v, Count: 1})
	}
	return out
}

func isNaN(v float64) bool { return math.IsNaN(v) }
