package dashboard

import (
	"net/url"
	"slices"
	"sort"
	"strconv"

	"github.com/couchcryptid/quake-dashboard/internal/analysis"
)

// Widget parameter names.
const (
	ParamPage    = "page"
	ParamYear    = "year"
	ParamColumn  = "column"
	ParamGroupBy = "group_by"
	ParamColumns = "columns"
	ParamK       = "k"
)

// pickYear returns the requested year when it is one of years, else the
// earliest. years must be non-empty and sorted.
func pickYear(q url.Values, years []int) int {
	if y, err := strconv.Atoi(q.Get(ParamYear)); err == nil && slices.Contains(years, y) {
		return y
	}
	return years[0]
}

// pickColumn returns the requested column when it is one of columns, else
// the first.
func pickColumn(q url.Values, columns []string) string {
	if c := q.Get(ParamColumn); slices.Contains(columns, c) {
		return c
	}
	return columns[0]
}

func pickGroupBy(q url.Values) analysis.GroupBy {
	by, err := analysis.ParseGroupBy(q.Get(ParamGroupBy))
	if err != nil {
		return analysis.GroupByCountry
	}
	return by
}

// pickColumns keeps the requested columns that exist, in request order and
// without duplicates.
func pickColumns(q url.Values, columns []string) []string {
	var out []string
	for _, c := range q[ParamColumns] {
		if slices.Contains(columns, c) && !slices.Contains(out, c) {
			out = append(out, c)
		}
	}
	return out
}

// pickK clamps the requested cluster count to the slider range.
func pickK(q url.Values) int {
	k, err := strconv.Atoi(q.Get(ParamK))
	if err != nil {
		return analysis.DefaultClusters
	}
	return min(max(k, analysis.MinClusters), analysis.MaxClusters)
}

// hiddenFields carries the page and every other widget value into a form.
func hiddenFields(slug string, q url.Values, except string) []Field {
	fields := []Field{{Name: ParamPage, Value: slug}}
	keys := make([]string, 0, len(q))
	for k := range q {
		if k != ParamPage && k != except {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		for _, v := range q[k] {
			fields = append(fields, Field{Name: k, Value: v})
		}
	}
	return fields
}

func selectControl(slug string, q url.Values, name, label string, values []string, selected string) *Control {
	opts := make([]Option, len(values))
	for i, v := range values {
		opts[i] = Option{Value: v, Label: v, Selected: v == selected}
	}
	return &Control{
		Kind:    ControlSelect,
		Name:    name,
		Label:   label,
		Options: opts,
		Hidden:  hiddenFields(slug, q, name),
	}
}
