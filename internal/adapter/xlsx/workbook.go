// Package xlsx writes dashboard statistics as an Excel workbook.
package xlsx

import (
	"fmt"
	"io"
	"math"

	"github.com/xuri/excelize/v2"

	"github.com/couchcryptid/quake-dashboard/internal/analysis"
)

// Sheet names, in workbook order.
const (
	SheetSummary = "Summary"
	SheetYearly  = "Yearly"
	SheetGroups  = "Groups"
)

// ContentType is the MIME type of the workbook.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Write encodes the report as a workbook to w.
func Write(w io.Writer, r analysis.Report) error {
	f, err := Build(r)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// Build lays the report out on three sheets: the column summary, the yearly
// counts and the country/continent counts side by side.
func Build(r analysis.Report) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		f.Close()
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	for _, name := range []string{SheetYearly, SheetGroups} {
		if _, err := f.NewSheet(name); err != nil {
			f.Close()
			return nil, fmt.Errorf("create sheet %s: %w", name, err)
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("create style: %w", err)
	}

	s := sheetWriter{f: f, bold: bold}
	s.summary(r)
	s.yearly(r.Yearly)
	s.groups(r.Countries, r.Continents)
	if s.err != nil {
		f.Close()
		return nil, s.err
	}
	return f, nil
}

// sheetWriter records the first cell error so the layout code stays linear.
type sheetWriter struct {
	f    *excelize.File
	bold int
	err  error
}

func (s *sheetWriter) set(sheet string, col, row int, v any) {
	if s.err != nil {
		return
	}
	if fv, ok := v.(float64); ok && (math.IsNaN(fv) || math.IsInf(fv, 0)) {
		v = ""
	}
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		s.err = err
		return
	}
	if err := s.f.SetCellValue(sheet, cell, v); err != nil {
		s.err = fmt.Errorf("set %s!%s: %w", sheet, cell, err)
	}
}

func (s *sheetWriter) header(sheet string, row int, titles ...string) {
	for i, t := range titles {
		s.set(sheet, i+1, row, t)
	}
	if s.err != nil {
		return
	}
	first, _ := excelize.CoordinatesToCellName(1, row)
	last, _ := excelize.CoordinatesToCellName(len(titles), row)
	if err := s.f.SetCellStyle(sheet, first, last, s.bold); err != nil {
		s.err = fmt.Errorf("style %s header: %w", sheet, err)
		return
	}
	lastCol, _ := excelize.ColumnNumberToName(len(titles))
	if err := s.f.SetColWidth(sheet, "A", lastCol, 20); err != nil {
		s.err = fmt.Errorf("size %s columns: %w", sheet, err)
	}
}

func (s *sheetWriter) summary(r analysis.Report) {
	s.set(SheetSummary, 1, 1, "Source")
	s.set(SheetSummary, 2, 1, r.Source)
	s.set(SheetSummary, 1, 2, "Column")
	s.set(SheetSummary, 2, 2, r.Summary.Column)
	s.header(SheetSummary, 4, "Statistic", "Value")
	for i, st := range r.Summary.Rows() {
		s.set(SheetSummary, 1, 5+i, st.Name)
		if st.Name == "Count" {
			s.set(SheetSummary, 2, 5+i, r.Summary.Count)
			continue
		}
		s.set(SheetSummary, 2, 5+i, st.Value)
	}
}

func (s *sheetWriter) yearly(counts []analysis.YearCount) {
	s.header(SheetYearly, 1, "Year", "Count")
	for i, c := range counts {
		s.set(SheetYearly, 1, 2+i, c.Year)
		s.set(SheetYearly, 2, 2+i, c.Count)
	}
}

func (s *sheetWriter) groups(countries, continents []analysis.GroupCount) {
	s.header(SheetGroups, 1, "Country", "Count", "", "Continent", "Count")
	for i, g := range countries {
		s.set(SheetGroups, 1, 2+i, g.Name)
		s.set(SheetGroups, 2, 2+i, g.Count)
	}
	for i, g := range continents {
		s.set(SheetGroups, 4, 2+i, g.Name)
		s.set(SheetGroups, 5, 2+i, g.Count)
	}
}
