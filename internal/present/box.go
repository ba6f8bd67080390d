package present

import (
	"fmt"
	"sort"

	"pulse-dashboard/internal/model"
)

// renderBox draws one box per value of the first group-by column over the
// rows sharing it. With a single group-by column every box holds one value.
func renderBox(res *model.Result, style Style) (*Artifact, error) {
	if len(res.GroupBy) == 0 {
		return nil, fmt.Errorf("%w: box plot needs a group-by column", model.ErrInvalidQuery)
	}
	idx, err := measureIndex(res, style.Value)
	if err != nil {
		return nil, err
	}

	a := newArtifact(KindBox, res, style)
	if a.YAxis == "" {
		a.YAxis = res.Measures[idx]
	}

	values := make(map[string][]float64)
	var order []string
	for _, row := range res.Rows {
		label := fmt.Sprintf("%v", row.Key[0])
		if _, ok := values[label]; !ok {
			order = append(order, label)
		}
		values[label] = append(values[label], row.Measures[idx].InexactFloat64())
	}

	a.Boxes = make([]Box, 0, len(order))
	for _, label := range order {
		a.Boxes = append(a.Boxes, boxOf(label, values[label]))
	}
	return a, nil
}

func boxOf(label string, v []float64) Box {
	sort.Float64s(v)
	return Box{
		Label:  label,
		Count:  len(v),
		Min:    v[0],
		Q1:     quantile(v, 0.25),
		Median: quantile(v, 0.5),
		Q3:     quantile(v, 0.75),
		Max:    v[len(v)-1],
	}
}

// quantile expects sorted, non-empty input
func quantile(sorted []float64, q float64) float64 {
	pos := q * float64(len(sorted)-1)
	lo := int(pos)
	if lo+1 >= len(sorted) {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}
