package model

import "strings"

// Record is a schema-agnostic row as read from a CSV source
type Record map[string]interface{}

// ColumnKind is the storage class of a dataset column
type ColumnKind string

const (
	Text    ColumnKind = "text"
	Integer ColumnKind = "integer"
	Numeric ColumnKind = "numeric"
	Date    ColumnKind = "date"
)

// Column describes a single dataset column
type Column struct {
	Name    string     `json:"name"`
	Kind    ColumnKind `json:"kind"`
	MonthOf string     `json:"monthOf,omitempty"` // derived at load time from a yyyy-mm-dd column
}

// Table describes a queryable dataset. GeoColumn holds the region codes that
// are translated to display names; it is empty for non-geographic datasets.
type Table struct {
	Name            string   `json:"name"`
	Title           string   `json:"title"`
	Columns         []Column `json:"columns"`
	GeoColumn       string   `json:"geoColumn,omitempty"`
	SubRegionColumn string   `json:"subRegionColumn,omitempty"`
	YearColumn      string   `json:"yearColumn,omitempty"`
	QuarterColumn   string   `json:"quarterColumn,omitempty"`
}

// Column returns the column definition by name
func (t Table) Column(name string) (Column, bool) {
	for _, c := range t.Columns {
		if strings.EqualFold(c.Name, name) {
			return c, true
		}
	}
	return Column{}, false
}

// ColumnNames returns the column names in declaration order
func (t Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// Reduction combines the measure values of one group into a single value
type Reduction string

const (
	Sum   Reduction = "sum"
	Count Reduction = "count"
	Avg   Reduction = "avg"
	Min   Reduction = "min"
	Max   Reduction = "max"
)

// Valid reports whether r is a supported reduction
func (r Reduction) Valid() bool {
	switch r {
	case Sum, Count, Avg, Min, Max:
		return true
	}
	return false
}

// Measure pairs a numeric column with its reduction. Count may leave Column
// empty to count rows.
type Measure struct {
	Column    string    `json:"column"`
	Reduction Reduction `json:"reduction"`
	As        string    `json:"as,omitempty"`
}

// SumOf is shorthand for a SUM measure named after its column
func SumOf(column string) Measure {
	return Measure{Column: column, Reduction: Sum}
}

// Name is the output column name of the measure
func (m Measure) Name() string {
	switch {
	case m.As != "":
		return m.As
	case m.Column == "":
		return string(m.Reduction)
	case m.Reduction == Sum:
		return m.Column
	default:
		return string(m.Reduction) + "_" + m.Column
	}
}

// Condition is a single equality constraint
type Condition struct {
	Column string      `json:"column"`
	Value  interface{} `json:"value"`
}

// Filter is an immutable conjunction of equality conditions
type Filter struct {
	conds []Condition
}

// NewFilter builds a filter from the given conditions
func NewFilter(conds ...Condition) Filter {
	return Filter{conds: append([]Condition(nil), conds...)}
}

// Where returns a copy of f with one more condition
func (f Filter) Where(column string, value interface{}) Filter {
	conds := make([]Condition, 0, len(f.conds)+1)
	conds = append(conds, f.conds...)
	return Filter{conds: append(conds, Condition{Column: column, Value: value})}
}

// Conditions returns a copy of the filter's conditions
func (f Filter) Conditions() []Condition {
	return append([]Condition(nil), f.conds...)
}

// Len returns the number of conditions
func (f Filter) Len() int { return len(f.conds) }

// Query is an aggregation request: filters, group-by keys and measures.
// Keys lists group keys that must be present in the result even when no
// row matched them.
type Query struct {
	Filter   Filter          `json:"-"`
	GroupBy  []string        `json:"groupBy"`
	Measures []Measure       `json:"measures"`
	Keys     [][]interface{} `json:"keys,omitempty"`
}
