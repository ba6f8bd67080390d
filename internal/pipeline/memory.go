package pipeline

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"pulse-dashboard/internal/model"
)

// MemorySource is a Source over records held in memory. It backs the csv
// driver and serves as the test fixture dataset.
type MemorySource struct {
	mu     sync.RWMutex
	tables map[string][]model.Record
}

// NewMemorySource returns an empty in-memory source
func NewMemorySource() *MemorySource {
	return &MemorySource{tables: make(map[string][]model.Record)}
}

// Add appends records to a table
func (s *MemorySource) Add(table string, records ...model.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tables[table] = append(s.tables[table], records...)
}

// Distinct implements Source
func (s *MemorySource) Distinct(ctx context.Context, table model.Table, column string) ([]interface{}, error) {
	records, err := s.records(ctx, table)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var out []interface{}
	for _, rec := range records {
		v := model.NormalizeValue(rec[column])
		if v == nil {
			continue
		}
		k := keyString([]interface{}{v})
		if !seen[k] {
			seen[k] = true
			out = append(out, v)
		}
	}
	return out, nil
}

// Aggregate implements Source
func (s *MemorySource) Aggregate(ctx context.Context, table model.Table, q model.Query) ([]model.RawRow, error) {
	records, err := s.records(ctx, table)
	if err != nil {
		return nil, err
	}

	w := &aggregationWorker{groupBy: q.GroupBy, measures: q.Measures, groups: make(map[string]*group)}
	for _, rec := range records {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if matches(rec, q.Filter) {
			w.processRecord(rec)
		}
	}

	if len(q.GroupBy) == 0 && len(w.order) == 0 {
		// SQL semantics: a reduction without GROUP BY yields one row
		w.group(nil)
	}
	return w.rows(), nil
}

func (s *MemorySource) records(ctx context.Context, table model.Table) ([]model.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	records, ok := s.tables[table.Name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", model.ErrUnknownTable, table.Name)
	}
	return records, nil
}

func matches(rec model.Record, f model.Filter) bool {
	for _, c := range f.Conditions() {
		v := model.NormalizeValue(rec[c.Column])
		if v == nil || model.CompareValues(v, c.Value) != 0 {
			return false
		}
	}
	return true
}

// group accumulates the reductions of one key
type group struct {
	key    []interface{}
	sums   []decimal.Decimal
	counts []int64
	mins   []decimal.Decimal
	maxs   []decimal.Decimal
}

type aggregationWorker struct {
	groupBy  []string
	measures []model.Measure
	groups   map[string]*group
	order    []string
}

func (w *aggregationWorker) group(key []interface{}) *group {
	k := keyString(key)
	g, ok := w.groups[k]
	if !ok {
		n := len(w.measures)
		g = &group{
			key:    key,
			sums:   make([]decimal.Decimal, n),
			counts: make([]int64, n),
			mins:   make([]decimal.Decimal, n),
			maxs:   make([]decimal.Decimal, n),
		}
		w.groups[k] = g
		w.order = append(w.order, k)
	}
	return g
}

func (w *aggregationWorker) processRecord(rec model.Record) {
	key := make([]interface{}, len(w.groupBy))
	for i, col := range w.groupBy {
		key[i] = model.NormalizeValue(rec[col])
	}
	g := w.group(key)

	for i, m := range w.measures {
		if m.Column == "" {
			g.counts[i]++
			continue
		}
		raw, ok := rec[m.Column]
		if !ok || raw == nil {
			continue
		}
		if m.Reduction == model.Count {
			g.counts[i]++
			continue
		}
		d, ok := toDecimal(raw)
		if !ok {
			continue
		}
		if g.counts[i] == 0 {
			g.mins[i], g.maxs[i] = d, d
		} else {
			if d.LessThan(g.mins[i]) {
				g.mins[i] = d
			}
			if d.GreaterThan(g.maxs[i]) {
				g.maxs[i] = d
			}
		}
		g.sums[i] = g.sums[i].Add(d)
		g.counts[i]++
	}
}

func (w *aggregationWorker) rows() []model.RawRow {
	out := make([]model.RawRow, 0, len(w.order))
	for _, k := range w.order {
		g := w.groups[k]
		row := model.RawRow{Key: g.key, Measures: make([]decimal.NullDecimal, len(w.measures))}
		if row.Key == nil {
			row.Key = []interface{}{}
		}
		for i, m := range w.measures {
			if m.Reduction == model.Count {
				row.Measures[i] = decimal.NewNullDecimal(decimal.NewFromInt(g.counts[i]))
				continue
			}
			if g.counts[i] == 0 {
				continue
			}
			var v decimal.Decimal
			switch m.Reduction {
			case model.Sum:
				v = g.sums[i]
			case model.Avg:
				v = g.sums[i].DivRound(decimal.NewFromInt(g.counts[i]), 8)
			case model.Min:
				v = g.mins[i]
			case model.Max:
				v = g.maxs[i]
			}
			row.Measures[i] = decimal.NewNullDecimal(v)
		}
		out = append(out, row)
	}
	return out
}

func toDecimal(v interface{}) (decimal.Decimal, bool) {
	switch val := v.(type) {
	case decimal.Decimal:
		return val, true
	case int:
		return decimal.NewFromInt(int64(val)), true
	case int64:
		return decimal.NewFromInt(val), true
	case int32:
		return decimal.NewFromInt(int64(val)), true
	case float64:
		return decimal.NewFromFloat(val), true
	case float32:
		return decimal.NewFromFloat32(val), true
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(val))
		return d, err == nil
	case []byte:
		d, err := decimal.NewFromString(strings.TrimSpace(string(val)))
		return d, err == nil
	}
	return decimal.Zero, false
}
