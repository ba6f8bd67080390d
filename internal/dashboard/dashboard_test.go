package dashboard

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pulse-dashboard/internal/catalog"
	"pulse-dashboard/internal/model"
	"pulse-dashboard/internal/pipeline"
	"pulse-dashboard/internal/present"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

func txn(state string, year, quarter int64, area string, count, amount int64) model.Record {
	return model.Record{
		catalog.State: state, catalog.Year: year, catalog.Quarter: quarter,
		catalog.TransactionArea: area, catalog.TransactionCount: count, catalog.TransactionAmount: amount,
	}
}

func fixtureSource() *pipeline.MemorySource {
	src := pipeline.NewMemorySource()
	for _, t := range catalog.Tables() {
		src.Add(t.Name)
	}
	src.Add(catalog.MapTransactionTable,
		txn("maharashtra", 2023, 1, "pune", 10, 100),
		txn("maharashtra", 2023, 1, "mumbai", 5, 50),
		txn("goa", 2023, 1, "north goa", 3, 30),
		txn("goa", 2022, 4, "south goa", 1, 7),
	)
	return src
}

func newRunner(src pipeline.Source) *Runner {
	p := pipeline.New(src, pipeline.WithLogger(quietLogger()))
	return NewRunner(p, present.NewRegistry(present.WithLocale("en")), quietLogger())
}

func panel(t *testing.T, v *View, id string) *present.Artifact {
	t.Helper()
	for _, p := range v.Panels {
		if p.ID == id {
			return p.Artifact
		}
	}
	t.Fatalf("panel %s not rendered", id)
	return nil
}

func TestRenderUserEngagement(t *testing.T) {
	page, err := Lookup("user-engagement")
	require.NoError(t, err)

	v, err := newRunner(fixtureSource()).Render(context.Background(), page, map[string]string{"year": "2023", "quarter": "1"})
	require.NoError(t, err)
	assert.NotEmpty(t, v.ID)
	assert.Equal(t, int64(2023), v.Selections["year"])
	require.Len(t, v.Panels, len(page.Panels))

	kpi := panel(t, v, "totals")
	assert.Equal(t, "180", kpi.KPIs[0].Raw)
	assert.Equal(t, "18", kpi.KPIs[1].Raw)

	m := panel(t, v, "amount-map")
	assert.Equal(t, "State-wise Transaction Amount - 2023 Q1", m.Title)
	assert.Equal(t, []string{"Goa", "Maharashtra"}, m.Map.Locations)
	assert.Equal(t, []float64{30, 150}, m.Map.Values)

	bar := panel(t, v, "amount-bar")
	assert.Equal(t, "Maharashtra", bar.Series[0].Points[0].Label)
	assert.Equal(t, "Goa", bar.Series[0].Points[1].Label)

	tree := panel(t, v, "district-treemap")
	assert.Len(t, tree.Series[0].Points, 3)

	box := panel(t, v, "amount-distribution")
	assert.Equal(t, []present.Box{
		{Label: "Goa", Count: 1, Min: 30, Q1: 30, Median: 30, Q3: 30, Max: 30},
		{Label: "Maharashtra", Count: 2, Min: 50, Q1: 62.5, Median: 75, Q3: 87.5, Max: 100},
	}, box.Boxes)
}

func weather(city, date string, temp interface{}) model.Record {
	return model.Record{
		catalog.City: city, catalog.ObservedOn: date, catalog.Month: int64(3),
		catalog.TemperatureC: temp, catalog.HumidityPct: 70.0, catalog.WindSpeedKmh: 12.0,
		catalog.WeatherCondition: "Sunny",
	}
}

func weatherSource() *pipeline.MemorySource {
	src := fixtureSource()
	src.Add(catalog.WeatherTable,
		weather("Chennai", "2024-03-05", 31.5),
		weather("Chennai", "2024-03-06", 29.0),
		weather("Delhi", "2024-03-05", 18.25),
		weather("Delhi", "2024-03-07", nil),
	)
	return src
}

func TestRenderWeatherDay(t *testing.T) {
	page, err := Lookup("weather-day")
	require.NoError(t, err)

	v, err := newRunner(weatherSource()).Render(context.Background(), page, map[string]string{"city": "Chennai", "date": "2024-03-06"})
	require.NoError(t, err)
	assert.Equal(t, "Observations for Chennai on 2024-03-06", panel(t, v, "observations").Title)

	obs := panel(t, v, "observations").Table
	require.Len(t, obs.Rows, 1)
	assert.Equal(t, []interface{}{"2024-03-06", "Sunny", "29", "70", "12"}, obs.Rows[0])

	_, err = newRunner(weatherSource()).Render(context.Background(), page, map[string]string{"date": "2025-01-01"})
	assert.ErrorIs(t, err, model.ErrInvalidFilter)
}

func TestLowestTemperatureIsGlobal(t *testing.T) {
	page, err := Lookup("weather-queries")
	require.NoError(t, err)

	v, err := newRunner(weatherSource()).Render(context.Background(), page, nil)
	require.NoError(t, err)

	// the Delhi reading without a temperature must not win as zero
	low := panel(t, v, "min-temperature").Table
	assert.Equal(t, []string{catalog.City, catalog.ObservedOn, "min_temperature", "readings"}, low.Columns)
	require.Len(t, low.Rows, 1)
	assert.Equal(t, []interface{}{"Delhi", "2024-03-05", "18.25", "1"}, low.Rows[0])
}

func TestBottomScatterListsLargestFirst(t *testing.T) {
	src := fixtureSource()
	for i, state := range []string{"goa", "kerala", "punjab", "sikkim", "assam", "bihar"} {
		src.Add(catalog.TopTransactionTable, model.Record{
			catalog.State: state, catalog.Year: int64(2023), catalog.Quarter: int64(1),
			catalog.District: "d", catalog.TransactionCount: int64(1), catalog.TransactionAmount: float64(10 * (i + 1)),
		})
	}
	page, err := Lookup("transaction-analysis")
	require.NoError(t, err)

	v, err := newRunner(src).Render(context.Background(), page, nil)
	require.NoError(t, err)

	var amounts []float64
	for _, p := range panel(t, v, "bottom-amount-scatter").Series[0].Points {
		amounts = append(amounts, p.Y)
	}
	assert.Equal(t, []float64{50, 40, 30, 20, 10}, amounts)
}

func TestRenderDefaultsToFirstOption(t *testing.T) {
	page, err := Lookup("user-engagement")
	require.NoError(t, err)

	v, err := newRunner(fixtureSource()).Render(context.Background(), page, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(2022), v.Selections["year"])
	assert.Equal(t, int64(1), v.Selections["quarter"])

	// 2022 Q1 holds no rows: totals read zero and charts carry the notice
	assert.Equal(t, "0", panel(t, v, "totals").KPIs[0].Raw)
	assert.Equal(t, present.NoDataNotice, panel(t, v, "amount-map").Notice)
	assert.Equal(t, present.NoDataNotice, panel(t, v, "amount-bar").Notice)
}

func TestRenderRejectsUnknownOption(t *testing.T) {
	page, err := Lookup("user-engagement")
	require.NoError(t, err)

	_, err = newRunner(fixtureSource()).Render(context.Background(), page, map[string]string{"year": "1999"})
	assert.ErrorIs(t, err, model.ErrInvalidFilter)
}

func TestRenderAbortsOnDataAccess(t *testing.T) {
	page, err := Lookup("insurance-engagement")
	require.NoError(t, err)

	_, err = newRunner(brokenSource{}).Render(context.Background(), page, nil)
	assert.ErrorIs(t, err, model.ErrDataAccess)
}

func TestEveryPageRendersOnEmptyTables(t *testing.T) {
	src := pipeline.NewMemorySource()
	for _, tbl := range catalog.Tables() {
		src.Add(tbl.Name)
	}
	r := newRunner(src)

	for _, page := range Pages() {
		v, err := r.Render(context.Background(), page, nil)
		require.NoError(t, err, page.ID)
		require.Len(t, v.Panels, len(page.Panels), page.ID)
		for _, p := range v.Panels {
			if p.Artifact.Kind == present.KindKPI {
				continue
			}
			assert.Equal(t, present.NoDataNotice, p.Artifact.Notice, "%s/%s", page.ID, p.ID)
		}
	}
}

func TestFilters(t *testing.T) {
	page, err := Lookup("user-engagement")
	require.NoError(t, err)

	opts, err := newRunner(fixtureSource()).Filters(context.Background(), page, map[string]string{"quarter": "4"})
	require.NoError(t, err)
	require.Len(t, opts, 2)
	assert.Equal(t, []interface{}{int64(2022), int64(2023)}, opts[0].Values)
	assert.Equal(t, int64(2022), opts[0].Selected)
	assert.Equal(t, []interface{}{int64(1), int64(4)}, opts[1].Values)
	assert.Equal(t, int64(4), opts[1].Selected)
}

func TestLookupUnknownPage(t *testing.T) {
	_, err := Lookup("nope")
	assert.ErrorIs(t, err, model.ErrUnknownPage)
}

func TestPageCatalogIsConsistent(t *testing.T) {
	ids := make(map[string]bool)
	for _, page := range Pages() {
		assert.False(t, ids[page.ID], "duplicate page %s", page.ID)
		ids[page.ID] = true

		for _, s := range page.Selectors {
			_, ok := s.Table.Column(s.Column)
			assert.True(t, ok, "%s selector %s", page.ID, s.Name)
		}
		panels := make(map[string]bool)
		for _, p := range page.Panels {
			assert.False(t, panels[p.ID], "duplicate panel %s/%s", page.ID, p.ID)
			panels[p.ID] = true
		}
	}
	assert.Len(t, ids, 8)
}

type brokenSource struct{}

func (brokenSource) Distinct(context.Context, model.Table, string) ([]interface{}, error) {
	return nil, errors.New("connection refused")
}

func (brokenSource) Aggregate(context.Context, model.Table, model.Query) ([]model.RawRow, error) {
	return nil, errors.New("connection refused")
}
