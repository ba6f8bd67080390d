package pipeline

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pulse-dashboard/internal/model"
)

func ranked(values ...int64) *model.Result {
	res := &model.Result{Table: "t", GroupBy: []string{"state"}, Measures: []string{"amount"}}
	for i, v := range values {
		res.Rows = append(res.Rows, model.Row{
			Key:      []interface{}{fmt.Sprintf("s%02d", i)},
			Measures: []decimal.Decimal{decimal.NewFromInt(v)},
		})
	}
	return res
}

func labels(res *model.Result) []string {
	out := make([]string, len(res.Rows))
	for i, r := range res.Rows {
		out[i] = r.Label()
	}
	return out
}

func TestTopN(t *testing.T) {
	res := ranked(5, 9, 1, 9, 3)

	top, err := TopN(res, "amount", 3, Descending)
	require.NoError(t, err)
	assert.Equal(t, []string{"s01", "s03", "s00"}, labels(top))

	bottom, err := TopN(res, "amount", 2, Ascending)
	require.NoError(t, err)
	assert.Equal(t, []string{"s02", "s04"}, labels(bottom))

	all, err := TopN(res, "amount", 0, Ascending)
	require.NoError(t, err)
	assert.Len(t, all.Rows, 5)

	more, err := TopN(res, "amount", 50, Descending)
	require.NoError(t, err)
	assert.Len(t, more.Rows, 5)

	assert.Equal(t, []string{"s00", "s01", "s02", "s03", "s04"}, labels(res), "input must not be reordered")
}

func TestTopNTiesKeepInputOrder(t *testing.T) {
	res := ranked(4, 4, 4, 4)

	for _, dir := range []Direction{Ascending, Descending} {
		out, err := TopN(res, "amount", 3, dir)
		require.NoError(t, err)
		assert.Equal(t, []string{"s00", "s01", "s02"}, labels(out))
	}
}

func TestTopNPartition(t *testing.T) {
	tests := []struct {
		name    string
		values  []int64
		overlap bool
	}{
		{"twelve distinct rows", []int64{12, 3, 44, 5, 67, 8, 90, 1, 23, 4, 56, 7}, false},
		{"ten distinct rows", []int64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100}, false},
		{"seven rows", []int64{3, 1, 4, 1, 5, 9, 2}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := ranked(tt.values...)
			top, err := TopN(res, "amount", 5, Descending)
			require.NoError(t, err)
			bottom, err := TopN(res, "amount", 5, Ascending)
			require.NoError(t, err)

			seen := make(map[string]bool)
			for _, l := range labels(top) {
				seen[l] = true
			}
			overlap := false
			for _, l := range labels(bottom) {
				overlap = overlap || seen[l]
			}
			assert.Equal(t, tt.overlap, overlap)
		})
	}
}

func TestTopNUnknownMeasure(t *testing.T) {
	_, err := TopN(ranked(1), "volume", 1, Descending)
	assert.ErrorIs(t, err, model.ErrUnknownColumn)
}

func TestParseDirection(t *testing.T) {
	for in, want := range map[string]Direction{"": Descending, "top": Descending, "DESC": Descending, "bottom": Ascending, "asc": Ascending} {
		got, err := ParseDirection(in)
		require.NoError(t, err)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseDirection("sideways")
	assert.ErrorIs(t, err, model.ErrInvalidQuery)
}

func TestHead(t *testing.T) {
	res := ranked(1, 2, 3)
	assert.Equal(t, []string{"s00", "s01"}, labels(Head(res, 2)))
	assert.Len(t, Head(res, 0).Rows, 3)
}

func TestReverse(t *testing.T) {
	res := ranked(5, 9, 1)
	bottom, err := TopN(res, "amount", 2, Ascending)
	require.NoError(t, err)

	assert.Equal(t, []string{"s00", "s02"}, labels(Reverse(bottom)))
	assert.Equal(t, []string{"s02", "s00"}, labels(bottom))
}

func TestDropZero(t *testing.T) {
	kept, err := DropZero(ranked(0, 4, 0, 2), "amount")
	require.NoError(t, err)
	assert.Equal(t, []string{"s01", "s03"}, labels(kept))

	_, err = DropZero(ranked(1), "count")
	assert.ErrorIs(t, err, model.ErrUnknownColumn)
}
