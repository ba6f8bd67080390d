package model

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// RawRow is one grouped row as returned by a source, before normalization
type RawRow struct {
	Key      []interface{}
	Measures []decimal.NullDecimal
}

// Row is one normalized output row
type Row struct {
	Key      []interface{}     `json:"key"`
	Measures []decimal.Decimal `json:"measures"`
}

// Label joins the key parts for display
func (r Row) Label() string {
	parts := make([]string, len(r.Key))
	for i, k := range r.Key {
		parts[i] = fmt.Sprintf("%v", k)
	}
	return strings.Join(parts, " / ")
}

// Result is a normalized aggregation result. It is built once per request
// and treated as read-only afterwards.
type Result struct {
	Table    string   `json:"table"`
	GroupBy  []string `json:"groupBy"`
	Measures []string `json:"measures"`
	Rows     []Row    `json:"rows"`
}

// Empty reports whether the result has no rows
func (r *Result) Empty() bool {
	return r == nil || len(r.Rows) == 0
}

// MeasureIndex returns the position of the named measure, or -1
func (r *Result) MeasureIndex(name string) int {
	for i, m := range r.Measures {
		if m == name {
			return i
		}
	}
	return -1
}

// KeyIndex returns the position of the named group-by column, or -1
func (r *Result) KeyIndex(name string) int {
	for i, k := range r.GroupBy {
		if k == name {
			return i
		}
	}
	return -1
}

// Value returns a measure of a row by name; unknown measures read as zero
func (r *Result) Value(row int, measure string) decimal.Decimal {
	idx := r.MeasureIndex(measure)
	if idx < 0 || row < 0 || row >= len(r.Rows) {
		return decimal.Zero
	}
	return r.Rows[row].Measures[idx]
}

// Total sums a measure over all rows
func (r *Result) Total(measure string) decimal.Decimal {
	total := decimal.Zero
	for i := range r.Rows {
		total = total.Add(r.Value(i, measure))
	}
	return total
}

// WithRows returns a copy of r carrying different rows
func (r *Result) WithRows(rows []Row) *Result {
	return &Result{
		Table:    r.Table,
		GroupBy:  append([]string(nil), r.GroupBy...),
		Measures: append([]string(nil), r.Measures...),
		Rows:     rows,
	}
}
