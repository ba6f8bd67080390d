package store

import (
	"fmt"
	"strings"

	"pulse-dashboard/internal/model"
)

// aggregateSQL renders q as a single SELECT ... GROUP BY statement with
// positional placeholders. Column names are assumed validated.
func aggregateSQL(t model.Table, q model.Query) (string, []interface{}) {
	var sb strings.Builder
	var args []interface{}

	sel := make([]string, 0, len(q.GroupBy)+len(q.Measures))
	for _, g := range q.GroupBy {
		sel = append(sel, quoteIdent(g))
	}
	for _, m := range q.Measures {
		sel = append(sel, fmt.Sprintf("%s AS %s", reductionSQL(m), quoteIdent(m.Name())))
	}

	sb.WriteString("SELECT ")
	sb.WriteString(strings.Join(sel, ", "))
	sb.WriteString(" FROM ")
	sb.WriteString(quoteIdent(t.Name))

	if conds := q.Filter.Conditions(); len(conds) > 0 {
		where := make([]string, len(conds))
		for i, c := range conds {
			where[i] = quoteIdent(c.Column) + " = ?"
			args = append(args, c.Value)
		}
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(where, " AND "))
	}

	if len(q.GroupBy) > 0 {
		keys := make([]string, len(q.GroupBy))
		for i, g := range q.GroupBy {
			keys[i] = quoteIdent(g)
		}
		sb.WriteString(" GROUP BY ")
		sb.WriteString(strings.Join(keys, ", "))
		sb.WriteString(" ORDER BY ")
		sb.WriteString(strings.Join(keys, ", "))
	}
	return sb.String(), args
}

func reductionSQL(m model.Measure) string {
	if m.Column == "" {
		return "COUNT(*)"
	}
	return fmt.Sprintf("%s(%s)", strings.ToUpper(string(m.Reduction)), quoteIdent(m.Column))
}

func distinctSQL(t model.Table, column string) string {
	col := quoteIdent(column)
	return fmt.Sprintf("SELECT DISTINCT %s FROM %s WHERE %s IS NOT NULL ORDER BY %s", col, quoteIdent(t.Name), col, col)
}

func insertSQL(t model.Table) string {
	cols := make([]string, len(t.Columns))
	marks := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		cols[i] = quoteIdent(c.Name)
		marks[i] = "?"
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", quoteIdent(t.Name), strings.Join(cols, ", "), strings.Join(marks, ", "))
}
