package store

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"pulse-dashboard/internal/model"
)

// SQLSource runs aggregation queries against a relational database
type SQLSource struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewSQLSource wraps an open database handle
func NewSQLSource(db *sqlx.DB, logger *slog.Logger) *SQLSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &SQLSource{db: db, logger: logger}
}

// Distinct returns the distinct non-null values of column, ascending
func (s *SQLSource) Distinct(ctx context.Context, t model.Table, column string) ([]interface{}, error) {
	query := distinctSQL(t, column)
	s.logger.DebugContext(ctx, "distinct", slog.String("sql", query))

	rows, err := s.db.QueryxContext(ctx, query)
	if err != nil {
		return nil, &model.DataAccessError{Op: "distinct", Table: t.Name, Err: err}
	}
	defer rows.Close()

	var values []interface{}
	for rows.Next() {
		var v interface{}
		if err := rows.Scan(&v); err != nil {
			return nil, &model.DataAccessError{Op: "distinct", Table: t.Name, Err: err}
		}
		values = append(values, model.NormalizeValue(v))
	}
	if err := rows.Err(); err != nil {
		return nil, &model.DataAccessError{Op: "distinct", Table: t.Name, Err: err}
	}
	return values, nil
}

// Aggregate runs q as one GROUP BY statement
func (s *SQLSource) Aggregate(ctx context.Context, t model.Table, q model.Query) ([]model.RawRow, error) {
	query, args := aggregateSQL(t, q)
	query = s.db.Rebind(query)
	s.logger.DebugContext(ctx, "aggregate", slog.String("sql", query), slog.Any("args", args))

	rows, err := s.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, &model.DataAccessError{Op: "aggregate", Table: t.Name, Err: err}
	}
	defer rows.Close()

	var out []model.RawRow
	for rows.Next() {
		cols, err := rows.SliceScan()
		if err != nil {
			return nil, &model.DataAccessError{Op: "aggregate", Table: t.Name, Err: err}
		}
		if len(cols) != len(q.GroupBy)+len(q.Measures) {
			return nil, &model.DataAccessError{Op: "aggregate", Table: t.Name, Err: fmt.Errorf("got %d columns", len(cols))}
		}

		row := model.RawRow{
			Key:      make([]interface{}, len(q.GroupBy)),
			Measures: make([]decimal.NullDecimal, len(q.Measures)),
		}
		for i := range q.GroupBy {
			row.Key[i] = model.NormalizeValue(cols[i])
		}
		for i := range q.Measures {
			m, err := scanMeasure(cols[len(q.GroupBy)+i])
			if err != nil {
				return nil, &model.DataAccessError{Op: "aggregate", Table: t.Name, Err: err}
			}
			row.Measures[i] = m
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, &model.DataAccessError{Op: "aggregate", Table: t.Name, Err: err}
	}
	return out, nil
}

// scanMeasure converts a driver value to a nullable decimal. DuckDB returns
// HUGEINT sums as *big.Int and DECIMAL values as a struct with Float64.
func scanMeasure(v interface{}) (decimal.NullDecimal, error) {
	switch val := v.(type) {
	case *big.Int:
		if val == nil {
			return decimal.NullDecimal{}, nil
		}
		return decimal.NewNullDecimal(decimal.NewFromBigInt(val, 0)), nil
	case interface{ Float64() float64 }:
		return decimal.NewNullDecimal(decimal.NewFromFloat(val.Float64())), nil
	}

	var d decimal.NullDecimal
	if err := d.Scan(v); err != nil {
		return decimal.NullDecimal{}, fmt.Errorf("scan measure %v: %w", v, err)
	}
	return d, nil
}
