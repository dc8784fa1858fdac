package analysis

import (
	"fmt"
	"slices"

	"github.com/couchcryptid/quake-dashboard/internal/domain"
)

// Report bundles the aggregates exported as a workbook.
type Report struct {
	Source     string       `json:"source" yaml:"source"`
	Summary    Summary      `json:"summary" yaml:"summary"`
	Yearly     []YearCount  `json:"yearly" yaml:"yearly"`
	Countries  []GroupCount `json:"countries" yaml:"countries"`
	Continents []GroupCount `json:"continents" yaml:"continents"`
}

// BuildReport summarizes column together with the yearly and group counts.
// An empty column selects the first numeric column.
func BuildReport(ds *domain.Dataset, column string) (Report, error) {
	cols := ds.NumericColumns()
	if len(cols) == 0 {
		return Report{}, fmt.Errorf("report: %w: no numeric columns", domain.ErrMissingColumns)
	}
	if column == "" {
		column = cols[0]
	}
	if !slices.Contains(cols, column) {
		return Report{}, fmt.Errorf("report: %w: %s is not a numeric column", domain.ErrMissingColumns, column)
	}

	values, _ := ds.Numeric(column)
	summary, err := Describe(column, values)
	if err != nil {
		return Report{}, fmt.Errorf("report: %w", err)
	}
	return Report{
		Source:     ds.Path,
		Summary:    summary,
		Yearly:     CountByYear(ds.Records),
		Countries:  GroupCounts(ds.Records, GroupByCountry),
		Continents: GroupCounts(ds.Records, GroupByContinent),
	}, nil
}
