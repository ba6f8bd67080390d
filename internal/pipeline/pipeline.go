// Package pipeline is the query -> aggregate -> label flow shared by every
// dashboard page: filter enumeration, aggregation, ranking and region naming.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"pulse-dashboard/internal/model"
	"pulse-dashboard/internal/region"
)

// Source executes grouped reductions against a dataset. Implementations
// return raw rows; null handling, naming and ordering happen in Pipeline.
type Source interface {
	Distinct(ctx context.Context, table model.Table, column string) ([]interface{}, error)
	Aggregate(ctx context.Context, table model.Table, q model.Query) ([]model.RawRow, error)
}

// Pipeline runs aggregation requests against a single Source
type Pipeline struct {
	source Source
	names  *region.Normalizer
	logger *slog.Logger
}

// Option configures a Pipeline
type Option func(*Pipeline)

// WithLogger sets the pipeline logger
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) { p.logger = logger }
}

// WithNormalizer sets the region normalizer
func WithNormalizer(n *region.Normalizer) Option {
	return func(p *Pipeline) { p.names = n }
}

// New creates a pipeline over src
func New(src Source, opts ...Option) *Pipeline {
	p := &Pipeline{source: src}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	if p.names == nil {
		p.names = region.NewNormalizer(p.logger)
	}
	return p
}

// DistinctValues returns every distinct value of column present in table,
// ascending. Callers build their filter choices from it.
func (p *Pipeline) DistinctValues(ctx context.Context, table model.Table, column string) ([]interface{}, error) {
	col, ok := table.Column(column)
	if !ok {
		return nil, fmt.Errorf("%w: %s.%s", model.ErrUnknownColumn, table.Name, column)
	}

	values, err := p.source.Distinct(ctx, table, col.Name)
	if err != nil {
		return nil, asDataAccess("distinct", table.Name, err)
	}

	out := make([]interface{}, 0, len(values))
	for _, v := range values {
		if v = model.NormalizeValue(v); v != nil {
			out = append(out, v)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return model.CompareValues(out[i], out[j]) < 0 })
	return out, nil
}

// asDataAccess wraps source errors that are not already classified
func asDataAccess(op, table string, err error) error {
	if errors.Is(err, model.ErrDataAccess) {
		return err
	}
	return &model.DataAccessError{Op: op, Table: table, Err: err}
}
