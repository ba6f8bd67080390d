package pipeline

import (
	"fmt"
	"sort"
	"strings"

	"pulse-dashboard/internal/model"
)

// Direction orders a ranking
type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// ParseDirection accepts asc/ascending/bottom and desc/descending/top
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "asc", "ascending", "bottom":
		return Ascending, nil
	case "", "desc", "descending", "top":
		return Descending, nil
	}
	return "", fmt.Errorf("%w: unknown direction %q", model.ErrInvalidQuery, s)
}

// TopN returns the first n rows of res ordered by measure. Ties keep their
// original order. n <= 0 keeps every row. res is not modified.
func TopN(res *model.Result, by string, n int, dir Direction) (*model.Result, error) {
	idx := res.MeasureIndex(by)
	if idx < 0 {
		return nil, fmt.Errorf("%w: measure %s not in result", model.ErrUnknownColumn, by)
	}

	rows := make([]model.Row, len(res.Rows))
	copy(rows, res.Rows)

	sort.SliceStable(rows, func(i, j int) bool {
		c := rows[i].Measures[idx].Cmp(rows[j].Measures[idx])
		if dir == Ascending {
			return c < 0
		}
		return c > 0
	})

	if n > 0 && n < len(rows) {
		rows = rows[:n]
	}
	return res.WithRows(rows), nil
}

// Head keeps the first n rows in their current order
func Head(res *model.Result, n int) *model.Result {
	rows := res.Rows
	if n > 0 && n < len(rows) {
		rows = rows[:n]
	}
	return res.WithRows(append([]model.Row(nil), rows...))
}

// Reverse returns res with its rows in the opposite order
func Reverse(res *model.Result) *model.Result {
	rows := make([]model.Row, len(res.Rows))
	for i, row := range res.Rows {
		rows[len(rows)-1-i] = row
	}
	return res.WithRows(rows)
}

// DropZero removes the rows whose measure is zero
func DropZero(res *model.Result, by string) (*model.Result, error) {
	idx := res.MeasureIndex(by)
	if idx < 0 {
		return nil, fmt.Errorf("%w: measure %s not in result", model.ErrUnknownColumn, by)
	}
	rows := make([]model.Row, 0, len(res.Rows))
	for _, row := range res.Rows {
		if !row.Measures[idx].IsZero() {
			rows = append(rows, row)
		}
	}
	return res.WithRows(rows), nil
}
