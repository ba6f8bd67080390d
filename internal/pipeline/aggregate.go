package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"pulse-dashboard/internal/model"
)

// Aggregate filters table by q.Filter, groups by q.GroupBy and reduces every
// measure. Null reductions read as zero. Without group-by columns the result
// always holds exactly one row; keys listed in q.Keys are always present.
// Rows are ordered ascending by their key tuple after region naming.
func (p *Pipeline) Aggregate(ctx context.Context, table model.Table, q model.Query) (*model.Result, error) {
	q, err := prepareQuery(table, q)
	if err != nil {
		return nil, err
	}

	p.logger.DebugContext(ctx, "aggregate",
		slog.String("table", table.Name),
		slog.Any("group_by", q.GroupBy),
		slog.Int("filters", q.Filter.Len()),
		slog.Int("measures", len(q.Measures)))

	raw, err := p.source.Aggregate(ctx, table, q)
	if err != nil {
		return nil, asDataAccess("aggregate", table.Name, err)
	}

	res := &model.Result{
		Table:    table.Name,
		GroupBy:  q.GroupBy,
		Measures: make([]string, len(q.Measures)),
		Rows:     make([]model.Row, 0, len(raw)),
	}
	for i, m := range q.Measures {
		res.Measures[i] = m.Name()
	}

	geo := -1
	if table.GeoColumn != "" {
		geo = indexOf(q.GroupBy, table.GeoColumn)
	}

	seen := make(map[string]bool, len(raw))
	for _, rr := range raw {
		if len(rr.Measures) != len(q.Measures) || len(rr.Key) != len(q.GroupBy) {
			return nil, &model.DataAccessError{
				Op:    "aggregate",
				Table: table.Name,
				Err:   fmt.Errorf("source returned %d keys and %d measures, want %d and %d", len(rr.Key), len(rr.Measures), len(q.GroupBy), len(q.Measures)),
			}
		}
		row := model.Row{
			Key:      p.normalizeKey(rr.Key, geo),
			Measures: make([]decimal.Decimal, len(rr.Measures)),
		}
		for i, m := range rr.Measures {
			if m.Valid {
				row.Measures[i] = m.Decimal
			} else {
				row.Measures[i] = decimal.Zero
			}
		}
		seen[keyString(row.Key)] = true
		res.Rows = append(res.Rows, row)
	}

	if len(q.GroupBy) == 0 && len(res.Rows) == 0 {
		res.Rows = append(res.Rows, zeroRow(nil, len(q.Measures)))
	}
	for _, k := range q.Keys {
		key := p.normalizeKey(k, geo)
		if ks := keyString(key); !seen[ks] {
			seen[ks] = true
			res.Rows = append(res.Rows, zeroRow(key, len(q.Measures)))
		}
	}

	sort.SliceStable(res.Rows, func(i, j int) bool {
		return model.CompareKeys(res.Rows[i].Key, res.Rows[j].Key) < 0
	})
	return res, nil
}

// Total reduces measures over every row matching filter
func (p *Pipeline) Total(ctx context.Context, table model.Table, filter model.Filter, measures ...model.Measure) (model.Row, error) {
	res, err := p.Aggregate(ctx, table, model.Query{Filter: filter, Measures: measures})
	if err != nil {
		return model.Row{}, err
	}
	return res.Rows[0], nil
}

func (p *Pipeline) normalizeKey(key []interface{}, geo int) []interface{} {
	out := make([]interface{}, len(key))
	for i, v := range key {
		v = model.NormalizeValue(v)
		if i == geo {
			if s, ok := v.(string); ok {
				v = p.names.Name(s)
			}
		}
		out[i] = v
	}
	return out
}

// prepareQuery checks q against the table schema and coerces filter values
// and explicit keys to the column kinds
func prepareQuery(table model.Table, q model.Query) (model.Query, error) {
	if len(q.Measures) == 0 {
		return q, fmt.Errorf("%w: at least one measure is required", model.ErrInvalidQuery)
	}

	out := model.Query{
		GroupBy:  make([]string, len(q.GroupBy)),
		Measures: make([]model.Measure, len(q.Measures)),
	}

	for _, c := range q.Filter.Conditions() {
		col, ok := table.Column(c.Column)
		if !ok {
			return q, fmt.Errorf("%w: %s.%s", model.ErrUnknownColumn, table.Name, c.Column)
		}
		v, err := col.Coerce(c.Value)
		if err != nil {
			return q, err
		}
		out.Filter = out.Filter.Where(col.Name, v)
	}

	groupCols := make([]model.Column, len(q.GroupBy))
	for i, name := range q.GroupBy {
		col, ok := table.Column(name)
		if !ok {
			return q, fmt.Errorf("%w: %s.%s", model.ErrUnknownColumn, table.Name, name)
		}
		if indexOf(out.GroupBy[:i], col.Name) >= 0 {
			return q, fmt.Errorf("%w: duplicate group-by column %s", model.ErrInvalidQuery, col.Name)
		}
		out.GroupBy[i] = col.Name
		groupCols[i] = col
	}

	names := make(map[string]bool, len(q.Measures))
	for i, m := range q.Measures {
		if !m.Reduction.Valid() {
			return q, fmt.Errorf("%w: unsupported reduction %q", model.ErrInvalidQuery, m.Reduction)
		}
		if m.Column == "" && m.Reduction != model.Count {
			return q, fmt.Errorf("%w: %s needs a column", model.ErrInvalidQuery, m.Reduction)
		}
		if m.Column != "" {
			col, ok := table.Column(m.Column)
			if !ok {
				return q, fmt.Errorf("%w: %s.%s", model.ErrUnknownColumn, table.Name, m.Column)
			}
			if m.Reduction != model.Count && col.Kind != model.Integer && col.Kind != model.Numeric {
				return q, fmt.Errorf("%w: %s of non-numeric column %s", model.ErrInvalidQuery, m.Reduction, col.Name)
			}
			m.Column = col.Name
		}
		if names[m.Name()] {
			return q, fmt.Errorf("%w: duplicate measure name %s", model.ErrInvalidQuery, m.Name())
		}
		names[m.Name()] = true
		out.Measures[i] = m
	}

	for _, k := range q.Keys {
		if len(k) != len(groupCols) {
			return q, fmt.Errorf("%w: key %v does not match group-by %v", model.ErrInvalidQuery, k, out.GroupBy)
		}
		key := make([]interface{}, len(k))
		for i, v := range k {
			cv, err := groupCols[i].Coerce(v)
			if err != nil {
				return q, err
			}
			key[i] = cv
		}
		out.Keys = append(out.Keys, key)
	}
	return out, nil
}

func zeroRow(key []interface{}, measures int) model.Row {
	if key == nil {
		key = []interface{}{}
	}
	row := model.Row{Key: key, Measures: make([]decimal.Decimal, measures)}
	for i := range row.Measures {
		row.Measures[i] = decimal.Zero
	}
	return row
}

func keyString(key []interface{}) string {
	parts := make([]string, len(key))
	for i, k := range key {
		parts[i] = fmt.Sprintf("%T=%v", k, k)
	}
	return strings.Join(parts, "\x1f")
}

func indexOf(list []string, s string) int {
	for i, v := range list {
		if v == s {
			return i
		}
	}
	return -1
}
