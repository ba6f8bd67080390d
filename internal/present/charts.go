package present

import (
	"fmt"

	"pulse-dashboard/internal/model"
)

var defaultColors = []string{
	"#4F46E5", "#10B981", "#F59E0B", "#EF4444", "#8B5CF6",
	"#06B6D4", "#EC4899", "#84CC16", "#F97316", "#6366F1",
}

func singleSeries(kind string, res *model.Result, style Style) (*Artifact, error) {
	idx, err := measureIndex(res, style.Value)
	if err != nil {
		return nil, err
	}

	a := newArtifact(kind, res, style)
	points := make([]Point, 0, len(res.Rows))
	for _, row := range res.Rows {
		points = append(points, Point{Label: row.Label(), Y: row.Measures[idx].InexactFloat64()})
	}
	a.Series = []Series{{Name: res.Measures[idx], Color: defaultColors[0], Points: points}}
	return a, nil
}

func renderBar(res *model.Result, style Style) (*Artifact, error) {
	return singleSeries(KindBar, res, style)
}

func renderLine(res *model.Result, style Style) (*Artifact, error) {
	return singleSeries(KindLine, res, style)
}

// renderPie assigns one palette color per slice
func renderPie(res *model.Result, style Style) (*Artifact, error) {
	a, err := singleSeries(KindPie, res, style)
	if err != nil {
		return nil, err
	}
	a.Series[0].Color = ""
	return a, nil
}

// renderScatter plots style.X against style.Value. Defaults: first measure
// on x, second (or first) on y.
func renderScatter(res *model.Result, style Style) (*Artifact, error) {
	if style.Value == "" && len(res.Measures) > 1 {
		style.Value = res.Measures[1]
	}
	yIdx, err := measureIndex(res, style.Value)
	if err != nil {
		return nil, err
	}
	xIdx, err := measureIndex(res, style.X)
	if err != nil {
		return nil, err
	}

	a := newArtifact(KindScatter, res, style)
	if a.XAxis == "" {
		a.XAxis = res.Measures[xIdx]
	}
	if a.YAxis == "" {
		a.YAxis = res.Measures[yIdx]
	}

	points := make([]Point, 0, len(res.Rows))
	for _, row := range res.Rows {
		x := row.Measures[xIdx].InexactFloat64()
		points = append(points, Point{Label: row.Label(), X: &x, Y: row.Measures[yIdx].InexactFloat64()})
	}
	a.Series = []Series{{Name: res.Measures[yIdx], Color: defaultColors[0], Points: points}}
	return a, nil
}

// renderTreemap nests the last key under the first one
func renderTreemap(res *model.Result, style Style) (*Artifact, error) {
	if len(res.GroupBy) < 2 {
		return nil, fmt.Errorf("%w: treemap needs two group-by columns, got %d", model.ErrInvalidQuery, len(res.GroupBy))
	}
	idx, err := measureIndex(res, style.Value)
	if err != nil {
		return nil, err
	}

	a := newArtifact(KindTreemap, res, style)
	points := make([]Point, 0, len(res.Rows))
	for _, row := range res.Rows {
		points = append(points, Point{
			Label:  fmt.Sprintf("%v", row.Key[len(row.Key)-1]),
			Parent: fmt.Sprintf("%v", row.Key[0]),
			Y:      row.Measures[idx].InexactFloat64(),
		})
	}
	a.Series = []Series{{Name: res.Measures[idx], Points: points}}
	return a, nil
}

func renderTable(res *model.Result, style Style) (*Artifact, error) {
	a := newArtifact(KindTable, res, style)
	a.Table = tableOf(res)
	return a, nil
}

func tableOf(res *model.Result) *Table {
	t := &Table{
		Columns: append(append([]string(nil), res.GroupBy...), res.Measures...),
		Rows:    make([][]interface{}, 0, len(res.Rows)),
	}
	for _, row := range res.Rows {
		cells := make([]interface{}, 0, len(row.Key)+len(row.Measures))
		cells = append(cells, row.Key...)
		for _, m := range row.Measures {
			cells = append(cells, m.String())
		}
		t.Rows = append(t.Rows, cells)
	}
	return t
}
