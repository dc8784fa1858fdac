package main

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/quake-dashboard/internal/domain"
)

// errValidationFailed is returned when any phase records an error.
var errValidationFailed = errors.New("validation failed")

// expectedColumns are read by name somewhere in the dashboard.
var expectedColumns = []string{
	domain.ColLatitude, domain.ColLongitude, domain.ColMagnitude, domain.ColDepth,
	domain.ColDateTime, domain.ColCountry, domain.ColContinent, domain.ColTsunami,
}

// phase tracks pass/fail for one validation phase. Warnings describe missing
// values the dashboard tolerates; errors describe data it would misreport.
type phase struct {
	Name     string   `json:"name" yaml:"name"`
	Errors   []string `json:"errors,omitempty" yaml:"errors,omitempty"`
	Warnings []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

func (p *phase) errorf(format string, args ...any) {
	p.Errors = append(p.Errors, fmt.Sprintf(format, args...))
}

func (p *phase) warnf(format string, args ...any) {
	p.Warnings = append(p.Warnings, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.Errors) == 0 }

type validation struct {
	Path   string   `json:"path" yaml:"path"`
	Rows   int      `json:"rows" yaml:"rows"`
	Phases []*phase `json:"phases" yaml:"phases"`
}

func (v validation) passed() bool {
	for _, p := range v.Phases {
		if !p.passed() {
			return false
		}
	}
	return true
}

func newValidateCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the CSV for missing columns and out-of-range values",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ds, err := g.load()
			if err != nil {
				return err
			}
			v := validate(ds)
			err = render(cmd.OutOrStdout(), g.format, v, func(w io.Writer) {
				fmt.Fprintf(w, "Dataset\t%s (%d rows)\n", v.Path, v.Rows)
				for _, p := range v.Phases {
					status := "PASS"
					if !p.passed() {
						status = fmt.Sprintf("FAIL (%d errors)", len(p.Errors))
					}
					fmt.Fprintf(w, "%s\t%s\n", p.Name, status)
					for _, e := range p.Errors {
						fmt.Fprintf(w, "\terror: %s\n", e)
					}
					for _, m := range p.Warnings {
						fmt.Fprintf(w, "\twarning: %s\n", m)
					}
				}
			})
			if err != nil {
				return err
			}
			if !v.passed() {
				return errValidationFailed
			}
			return nil
		},
	}
}

func validate(ds *domain.Dataset) validation {
	return validation{
		Path: ds.Path,
		Rows: ds.Len(),
		Phases: []*phase{
			validateColumns(ds),
			validateDates(ds),
			validateCoordinates(ds),
			validateGroups(ds),
			validateTsunami(ds),
		},
	}
}

func validateColumns(ds *domain.Dataset) *phase {
	p := &phase{Name: "Columns"}
	if ds.Len() == 0 {
		p.errorf("no data rows")
	}
	for _, c := range expectedColumns {
		if !ds.HasColumns(c) {
			p.errorf("missing column %q", c)
		}
	}
	return p
}

func validateDates(ds *domain.Dataset) *phase {
	p := &phase{Name: "Dates"}
	if !ds.HasColumns(domain.ColDateTime) {
		return p
	}
	for i, q := range ds.Records {
		if q.Year() == 0 {
			p.warnf("row %d: date_time could not be parsed", i+1)
		}
	}
	return p
}

func validateCoordinates(ds *domain.Dataset) *phase {
	p := &phase{Name: "Coordinates"}
	if !ds.HasColumns(domain.RequiredMapColumns...) {
		return p
	}
	for i, q := range ds.Records {
		row := i + 1
		switch {
		case !q.HasLocation():
			p.warnf("row %d: latitude, longitude or magnitude is missing", row)
			continue
		case math.Abs(q.Latitude) > 90:
			p.errorf("row %d: latitude %v out of range", row, q.Latitude)
		case math.Abs(q.Longitude) > 180:
			p.errorf("row %d: longitude %v out of range", row, q.Longitude)
		}
		if q.Magnitude < 0 {
			p.errorf("row %d: negative magnitude %v", row, q.Magnitude)
		}
	}
	return p
}

func validateGroups(ds *domain.Dataset) *phase {
	p := &phase{Name: "Groups"}
	var noCountry, noContinent int
	for _, q := range ds.Records {
		if q.Country == "" {
			noCountry++
		}
		if q.Continent == "" {
			noContinent++
		}
	}
	if noCountry > 0 && ds.HasColumns(domain.ColCountry) {
		p.warnf("%d rows without a country", noCountry)
	}
	if noContinent > 0 && ds.HasColumns(domain.ColContinent) {
		p.warnf("%d rows without a continent", noContinent)
	}
	return p
}

func validateTsunami(ds *domain.Dataset) *phase {
	p := &phase{Name: "Tsunami flag"}
	if !ds.HasColumns(domain.ColTsunami) {
		return p
	}
	for i, q := range ds.Records {
		if math.IsNaN(q.Tsunami) {
			p.warnf("row %d: tsunami is missing", i+1)
			continue
		}
		if q.Tsunami != 0 && q.Tsunami != 1 {
			p.errorf("row %d: tsunami is %v, want 0 or 1", i+1, q.Tsunami)
		}
	}
	return p
}
