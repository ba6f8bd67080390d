package present

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"

	"pulse-dashboard/internal/model"
)

func stateResult() *model.Result {
	return &model.Result{
		Table:    "map_transaction",
		GroupBy:  []string{"state"},
		Measures: []string{"transaction_amount", "transaction_count"},
		Rows: []model.Row{
			{Key: []interface{}{"Goa"}, Measures: []decimal.Decimal{decimal.NewFromInt(30), decimal.NewFromInt(3)}},
			{Key: []interface{}{"Maharashtra"}, Measures: []decimal.Decimal{decimal.NewFromInt(150), decimal.NewFromInt(15)}},
		},
	}
}

func boundary() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, name := range []string{"Goa", "Kerala"} {
		f := geojson.NewFeature(orb.Point{0, 0})
		f.Properties["ST_NM"] = name
		fc.Append(f)
	}
	return fc
}

func TestBarSeries(t *testing.T) {
	a, err := NewRegistry().Render(KindBar, stateResult(), Style{Title: "Amount", Value: "transaction_count"})
	require.NoError(t, err)

	assert.Equal(t, KindBar, a.Kind)
	assert.Equal(t, "Amount", a.Title)
	assert.Empty(t, a.Notice)
	require.Len(t, a.Series, 1)
	assert.Equal(t, "transaction_count", a.Series[0].Name)
	assert.Equal(t, []Point{{Label: "Goa", Y: 3}, {Label: "Maharashtra", Y: 15}}, a.Series[0].Points)
}

func TestEmptyResultCarriesNotice(t *testing.T) {
	res := stateResult().WithRows(nil)
	for _, kind := range []string{KindBar, KindPie, KindLine, KindTable, KindChoropleth, KindBox} {
		a, err := NewRegistry().Render(kind, res, Style{})
		require.NoError(t, err, kind)
		assert.Equal(t, NoDataNotice, a.Notice, kind)
	}
}

func TestRenderErrors(t *testing.T) {
	r := NewRegistry()

	_, err := r.Render("sankey", stateResult(), Style{})
	assert.Error(t, err)

	_, err = r.Render(KindBar, stateResult(), Style{Value: "app_opens"})
	assert.ErrorIs(t, err, model.ErrUnknownColumn)

	_, err = r.Render(KindTreemap, stateResult(), Style{})
	assert.ErrorIs(t, err, model.ErrInvalidQuery)
}

func TestScatterDefaults(t *testing.T) {
	a, err := NewRegistry().Render(KindScatter, stateResult(), Style{})
	require.NoError(t, err)

	assert.Equal(t, "transaction_amount", a.XAxis)
	assert.Equal(t, "transaction_count", a.YAxis)
	p := a.Series[0].Points[1]
	require.NotNil(t, p.X)
	assert.Equal(t, 150.0, *p.X)
	assert.Equal(t, 15.0, p.Y)
}

func TestTreemapParents(t *testing.T) {
	res := &model.Result{
		GroupBy:  []string{"state", "district"},
		Measures: []string{"transaction_amount"},
		Rows: []model.Row{
			{Key: []interface{}{"Goa", "north goa"}, Measures: []decimal.Decimal{decimal.NewFromInt(30)}},
		},
	}
	a, err := NewRegistry().Render(KindTreemap, res, Style{})
	require.NoError(t, err)
	assert.Equal(t, []Point{{Label: "north goa", Parent: "Goa", Y: 30}}, a.Series[0].Points)
}

func TestBoxQuartiles(t *testing.T) {
	row := func(state, district string, amount float64) model.Row {
		return model.Row{Key: []interface{}{state, district}, Measures: []decimal.Decimal{decimal.NewFromFloat(amount)}}
	}
	res := &model.Result{
		GroupBy:  []string{"state", "transaction_area"},
		Measures: []string{"transaction_amount"},
		Rows: []model.Row{
			row("Maharashtra", "pune", 40),
			row("Goa", "north goa", 7),
			row("Maharashtra", "mumbai", 10),
			row("Maharashtra", "nagpur", 30),
			row("Maharashtra", "thane", 20),
		},
	}

	a, err := NewRegistry().Render(KindBox, res, Style{XTitle: "State"})
	require.NoError(t, err)
	assert.Equal(t, "transaction_amount", a.YAxis)
	assert.Equal(t, []Box{
		{Label: "Maharashtra", Count: 4, Min: 10, Q1: 17.5, Median: 25, Q3: 32.5, Max: 40},
		{Label: "Goa", Count: 1, Min: 7, Q1: 7, Median: 7, Q3: 7, Max: 7},
	}, a.Boxes)

	_, err = NewRegistry().Render(KindBox, &model.Result{Measures: []string{"transaction_amount"}}, Style{})
	assert.ErrorIs(t, err, model.ErrInvalidQuery)
}

func TestChoroplethJoin(t *testing.T) {
	r := NewRegistry(WithBoundary(boundary(), DefaultFeatureKey))
	a, err := r.Render(KindChoropleth, stateResult(), Style{})
	require.NoError(t, err)
	require.NotNil(t, a.Map)

	assert.Equal(t, "properties.ST_NM", a.Map.FeatureIDKey)
	assert.Equal(t, []string{"Goa", "Maharashtra"}, a.Map.Locations)
	assert.Equal(t, []float64{30, 150}, a.Map.Values)
	assert.Equal(t, []string{"Maharashtra"}, a.Map.Unmatched)

	require.Len(t, a.Map.GeoJSON.Features, 2)
	assert.Equal(t, 30.0, a.Map.GeoJSON.Features[0].Properties["value"])
	assert.NotContains(t, a.Map.GeoJSON.Features[1].Properties, "value")

	// the shared boundary is left untouched
	assert.NotContains(t, boundary().Features[0].Properties, "value")
}

func TestKPIFormatting(t *testing.T) {
	res := &model.Result{
		Measures: []string{"transaction_amount", "transaction_count"},
		Rows: []model.Row{
			{Key: []interface{}{}, Measures: []decimal.Decimal{decimal.RequireFromString("1234567"), decimal.RequireFromString("30.25")}},
		},
	}
	r := NewRegistry(WithLocale("en"))
	a, err := r.Render(KindKPI, res, Style{
		Labels:   map[string]string{"transaction_amount": "Total Amount"},
		Currency: "₹",
	})
	require.NoError(t, err)
	require.Len(t, a.KPIs, 2)

	assert.Equal(t, KPI{Label: "Total Amount", Value: "₹1,234,567", Raw: "1234567"}, a.KPIs[0])
	assert.Equal(t, "transaction_count", a.KPIs[1].Label)
	assert.Equal(t, "₹30.25", a.KPIs[1].Value)
}

func TestTableArtifact(t *testing.T) {
	a, err := NewRegistry().Render(KindTable, stateResult(), Style{})
	require.NoError(t, err)
	assert.Equal(t, []string{"state", "transaction_amount", "transaction_count"}, a.Table.Columns)
	assert.Equal(t, []interface{}{"Maharashtra", "150", "15"}, a.Table.Rows[1])
}

func TestEncode(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, FormatCSV, stateResult()))
	assert.Equal(t, "state,transaction_amount,transaction_count\nGoa,30,3\nMaharashtra,150,15\n", buf.String())

	buf.Reset()
	require.NoError(t, Encode(&buf, "", stateResult()))
	var decoded ExportTable
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "map_transaction", decoded.Table)
	assert.Len(t, decoded.Rows, 2)

	buf.Reset()
	require.NoError(t, Encode(&buf, FormatMsgpack, stateResult()))
	var packed ExportTable
	require.NoError(t, msgpack.Unmarshal(buf.Bytes(), &packed))
	assert.Equal(t, decoded.Columns, packed.Columns)

	assert.ErrorIs(t, Encode(&buf, "xml", stateResult()), model.ErrInvalidQuery)
	assert.Equal(t, "text/csv", ContentType("CSV"))
}
