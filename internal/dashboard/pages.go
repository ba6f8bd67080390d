// Package dashboard declares the dashboard pages and renders them
package dashboard

import (
	"fmt"
	"strings"

	"pulse-dashboard/internal/catalog"
	"pulse-dashboard/internal/model"
	"pulse-dashboard/internal/pipeline"
	"pulse-dashboard/internal/present"
)

// Selector is a page filter whose options are enumerated from a table column
type Selector struct {
	Name   string      `json:"name"`
	Label  string      `json:"label"`
	Table  model.Table `json:"-"`
	Column string      `json:"column"`
}

// Rank keeps the first N rows after ordering by a measure. Reverse shows
// the kept rows in the opposite order.
type Rank struct {
	By        string
	N         int
	Direction pipeline.Direction
	Reverse   bool
}

// Panel is one view of a page. A scoped panel is filtered by the page's
// current selections; an unscoped one covers all periods. Rows whose Require
// measure is zero are dropped before ranking.
type Panel struct {
	ID       string
	Kind     string
	Table    model.Table
	Scoped   bool
	GroupBy  []string
	Measures []model.Measure
	Require  string
	Rank     *Rank
	Limit    int
	Style    present.Style
}

// Query builds the aggregation query of the panel under filter
func (p Panel) Query(filter model.Filter) model.Query {
	q := model.Query{GroupBy: p.GroupBy, Measures: p.Measures}
	if p.Scoped {
		q.Filter = filter
	}
	return q
}

// Page is a named set of panels sharing selectors
type Page struct {
	ID        string
	Title     string
	Selectors []Selector
	Panels    []Panel
}

func periodSelectors(t model.Table) []Selector {
	return []Selector{
		{Name: "year", Label: "Select Year", Table: t, Column: catalog.Year},
		{Name: "quarter", Label: "Select Quarter", Table: t, Column: catalog.Quarter},
	}
}

func top(by string, n int) *Rank {
	return &Rank{By: by, N: n, Direction: pipeline.Descending}
}

func bottom(by string, n int) *Rank {
	return &Rank{By: by, N: n, Direction: pipeline.Ascending}
}

const periodTitle = " - {year} Q{quarter}"

var (
	amountAndCount = []model.Measure{model.SumOf(catalog.TransactionAmount), model.SumOf(catalog.TransactionCount)}
	byState        = []string{catalog.State}
	// one row per weather reading
	observationMeasures = []model.Measure{
		{Column: catalog.TemperatureC, Reduction: model.Avg, As: "temperature_c"},
		{Column: catalog.HumidityPct, Reduction: model.Avg, As: "humidity_percentage"},
		{Column: catalog.WindSpeedKmh, Reduction: model.Avg, As: "wind_speed_kmh"},
	}
	transactionKPI = present.Style{
		Labels: map[string]string{
			catalog.TransactionAmount: "Total Transaction Amount",
			catalog.TransactionCount:  "Total Transaction Count",
		},
	}
)

var pages = []*Page{
	{
		ID:        "user-engagement",
		Title:     "User Engagement and Growth Strategy",
		Selectors: periodSelectors(catalog.MapTransaction),
		Panels: []Panel{
			{ID: "totals", Kind: present.KindKPI, Table: catalog.MapTransaction, Scoped: true, Measures: amountAndCount, Style: transactionKPI},
			{
				ID: "amount-map", Kind: present.KindChoropleth, Table: catalog.MapTransaction, Scoped: true,
				GroupBy: byState, Measures: []model.Measure{model.SumOf(catalog.TransactionAmount)},
				Style: present.Style{Title: "State-wise Transaction Amount" + periodTitle, ColorScale: "Purples"},
			},
			{
				ID: "amount-bar", Kind: present.KindBar, Table: catalog.MapTransaction, Scoped: true,
				GroupBy: byState, Measures: []model.Measure{model.SumOf(catalog.TransactionAmount)},
				Rank: top(catalog.TransactionAmount, 0),
				Style: present.Style{
					Title: "State-wise Transaction Amount (₹)" + periodTitle, ColorScale: "Purples",
					XTitle: "State", YTitle: "Transaction Amount (₹)",
				},
			},
			{
				ID: "district-treemap", Kind: present.KindTreemap, Table: catalog.MapTransaction, Scoped: true,
				GroupBy: []string{catalog.State, catalog.TransactionArea}, Measures: []model.Measure{model.SumOf(catalog.TransactionAmount)},
				Style: present.Style{Title: "Treemap: State → District by Transaction Amount" + periodTitle, ColorScale: "Purples"},
			},
			{
				ID: "amount-distribution", Kind: present.KindBox, Table: catalog.MapTransaction, Scoped: true,
				GroupBy: []string{catalog.State, catalog.TransactionArea}, Measures: []model.Measure{model.SumOf(catalog.TransactionAmount)},
				Style: present.Style{
					Title: "Box Plot: Transaction Amount Distribution by State" + periodTitle, ColorScale: "Purples",
					XTitle: "State", YTitle: "Transaction Amount (₹)",
				},
			},
		},
	},
	{
		ID:        "insurance-engagement",
		Title:     "Insurance Engagement Analysis",
		Selectors: periodSelectors(catalog.MapUsers),
		Panels: []Panel{
			{
				ID: "totals", Kind: present.KindKPI, Table: catalog.MapUsers, Scoped: true,
				Measures: []model.Measure{model.SumOf(catalog.RegisteredUsers), model.SumOf(catalog.AppOpens)},
				Style: present.Style{Labels: map[string]string{
					catalog.RegisteredUsers: "Total Registered Users",
					catalog.AppOpens:        "Total App Opens",
				}},
			},
			{
				ID: "users-map", Kind: present.KindChoropleth, Table: catalog.MapUsers, Scoped: true,
				GroupBy: byState, Measures: []model.Measure{model.SumOf(catalog.RegisteredUsers)},
				Style: present.Style{Title: "State-wise Registered Users" + periodTitle, ColorScale: "Brwnyl"},
			},
			{
				ID: "top-users-pie", Kind: present.KindPie, Table: catalog.MapUsers,
				GroupBy: byState, Measures: []model.Measure{model.SumOf(catalog.RegisteredUsers)},
				Rank:  top(catalog.RegisteredUsers, 10),
				Style: present.Style{Title: "Top 10 States by Registered Users", ColorScale: "RdBu"},
			},
			{
				ID: "users-vs-opens", Kind: present.KindScatter, Table: catalog.MapUsers,
				GroupBy:  byState,
				Measures: []model.Measure{model.SumOf(catalog.RegisteredUsers), model.SumOf(catalog.AppOpens)},
				Limit:    15,
				Style: present.Style{
					Title: "User Registration vs App Opens - least 15",
					X:     catalog.RegisteredUsers, Value: catalog.AppOpens,
					XTitle: "Registered Users", YTitle: "App Opens",
				},
			},
			{
				ID: "top-users-bar", Kind: present.KindBar, Table: catalog.MapUsers,
				GroupBy: byState, Measures: []model.Measure{model.SumOf(catalog.RegisteredUsers)},
				Rank:  top(catalog.RegisteredUsers, 10),
				Style: present.Style{Title: "Top 10 States by Insurance Registered Users", ColorScale: "Blues"},
			},
			{
				ID: "bottom-users-bar", Kind: present.KindBar, Table: catalog.MapUsers,
				GroupBy: byState, Measures: []model.Measure{model.SumOf(catalog.RegisteredUsers)},
				Rank:  bottom(catalog.RegisteredUsers, 10),
				Style: present.Style{Title: "Bottom 10 States by Insurance Registered Users", ColorScale: "Oranges"},
			},
		},
	},
	{
		ID:        "transaction-analysis",
		Title:     "Transaction Analysis Across States and Districts",
		Selectors: periodSelectors(catalog.TopTransaction),
		Panels: []Panel{
			{ID: "totals", Kind: present.KindKPI, Table: catalog.TopTransaction, Scoped: true, Measures: amountAndCount, Style: transactionKPI},
			{
				ID: "amount-map", Kind: present.KindChoropleth, Table: catalog.TopTransaction, Scoped: true,
				GroupBy: byState, Measures: amountAndCount,
				Style: present.Style{Title: "State-wise Transaction Amount" + periodTitle, ColorScale: "Reds"},
			},
			{
				ID: "lowest-count-bar", Kind: present.KindBar, Table: catalog.TopTransaction,
				GroupBy: byState, Measures: []model.Measure{model.SumOf(catalog.TransactionCount)},
				Rank: bottom(catalog.TransactionCount, 12),
				Style: present.Style{
					Title: "States to be marketed to increase the Transaction Amount", ColorScale: "Purples",
					XTitle: "State", YTitle: "Transaction Count (Units)",
				},
			},
			{
				ID: "top-amount-scatter", Kind: present.KindScatter, Table: catalog.TopTransaction,
				GroupBy: byState, Measures: []model.Measure{model.SumOf(catalog.TransactionAmount)},
				Rank:  top(catalog.TransactionAmount, 5),
				Style: present.Style{Title: "Top 5 States - Transaction Amount", ColorScale: "Blues"},
			},
			{
				ID: "bottom-amount-scatter", Kind: present.KindScatter, Table: catalog.TopTransaction,
				GroupBy: byState, Measures: []model.Measure{model.SumOf(catalog.TransactionAmount)},
				Rank:  &Rank{By: catalog.TransactionAmount, N: 5, Direction: pipeline.Ascending, Reverse: true},
				Style: present.Style{Title: "Bottom 5 States - Transaction Amount", ColorScale: "Reds"},
			},
		},
	},
	{
		ID:        "user-registration",
		Title:     "User Registration Analysis",
		Selectors: periodSelectors(catalog.TopUser),
		Panels: []Panel{
			{
				ID: "totals", Kind: present.KindKPI, Table: catalog.TopUser, Scoped: true,
				Measures: []model.Measure{model.SumOf(catalog.RegisteredUsers)},
				Style:    present.Style{Labels: map[string]string{catalog.RegisteredUsers: "Total Registered Users"}},
			},
			{
				ID: "users-map", Kind: present.KindChoropleth, Table: catalog.TopUser, Scoped: true,
				GroupBy: byState, Measures: []model.Measure{model.SumOf(catalog.RegisteredUsers)},
				Style: present.Style{Title: "State-wise Registered Users" + periodTitle, ColorScale: "Greens"},
			},
			{
				ID: "users-bar", Kind: present.KindBar, Table: catalog.TopUser, Scoped: true,
				GroupBy: byState, Measures: []model.Measure{model.SumOf(catalog.RegisteredUsers)},
				Rank:  top(catalog.RegisteredUsers, 0),
				Style: present.Style{Title: "Registered Users by State" + periodTitle},
			},
			{
				ID: "users-trend", Kind: present.KindLine, Table: catalog.TopUser,
				GroupBy: []string{catalog.Year, catalog.Quarter}, Measures: []model.Measure{model.SumOf(catalog.RegisteredUsers)},
				Style: present.Style{Title: "Registered Users Trend Over All Year-Quarter", XTitle: "Year - Quarter", YTitle: "Registered Users"},
			},
		},
	},
	{
		ID:        "insurance-transactions",
		Title:     "Insurance Transactions Analysis",
		Selectors: periodSelectors(catalog.TopInsurance),
		Panels: []Panel{
			{ID: "totals", Kind: present.KindKPI, Table: catalog.TopInsurance, Scoped: true, Measures: amountAndCount, Style: transactionKPI},
			{
				ID: "amount-map", Kind: present.KindChoropleth, Table: catalog.TopInsurance, Scoped: true,
				GroupBy: byState, Measures: amountAndCount,
				Style: present.Style{Title: "State-wise Transaction Amount" + periodTitle, ColorScale: "Reds"},
			},
			{
				ID: "top-count-table", Kind: present.KindTable, Table: catalog.TopInsurance,
				GroupBy: byState, Measures: amountAndCount,
				Rank:  top(catalog.TransactionCount, 10),
				Style: present.Style{Title: "Top 10 States by Total Transaction Count"},
			},
			{
				ID: "bottom-count-table", Kind: present.KindTable, Table: catalog.TopInsurance,
				GroupBy: byState, Measures: amountAndCount,
				Rank:  bottom(catalog.TransactionCount, 10),
				Style: present.Style{Title: "Bottom 10 States by Total Transaction Counts"},
			},
			{
				ID: "amount-by-year", Kind: present.KindPie, Table: catalog.TopInsurance,
				GroupBy: []string{catalog.Year}, Measures: []model.Measure{model.SumOf(catalog.TransactionAmount)},
				Style: present.Style{Title: "Year-wise Sales Distribution"},
			},
		},
	},
	{
		ID:    "weather-trends",
		Title: "Weather Data Visualizer",
		Selectors: []Selector{
			{Name: "city", Label: "Select City", Table: catalog.Weather, Column: catalog.City},
			{Name: "month", Label: "Select Month", Table: catalog.Weather, Column: catalog.Month},
		},
		Panels: []Panel{
			{
				ID: "temperature-trend", Kind: present.KindLine, Table: catalog.Weather, Scoped: true,
				GroupBy:  []string{catalog.ObservedOn},
				Measures: []model.Measure{{Column: catalog.TemperatureC, Reduction: model.Avg}},
				Style:    present.Style{Title: "Temperature in {city}, month {month}", XTitle: "Date", YTitle: "Temperature (°C)"},
			},
			{
				ID: "observations", Kind: present.KindTable, Table: catalog.Weather, Scoped: true,
				GroupBy:  []string{catalog.ObservedOn, catalog.WeatherCondition},
				Measures: observationMeasures,
				Style:    present.Style{Title: "Observations for {city}"},
			},
		},
	},
	{
		ID:    "weather-day",
		Title: "Weather Data Visualizer",
		Selectors: []Selector{
			{Name: "city", Label: "Select City", Table: catalog.Weather, Column: catalog.City},
			{Name: "date", Label: "Choose a Date", Table: catalog.Weather, Column: catalog.ObservedOn},
		},
		Panels: []Panel{
			{
				ID: "temperature-trend", Kind: present.KindLine, Table: catalog.Weather, Scoped: true,
				GroupBy:  []string{catalog.ObservedOn},
				Measures: []model.Measure{{Column: catalog.TemperatureC, Reduction: model.Avg}},
				Style:    present.Style{Title: "Temperature in {city} on {date}", XTitle: "Date", YTitle: "Temperature (°C)"},
			},
			{
				ID: "observations", Kind: present.KindTable, Table: catalog.Weather, Scoped: true,
				GroupBy:  []string{catalog.ObservedOn, catalog.WeatherCondition},
				Measures: observationMeasures,
				Style:    present.Style{Title: "Observations for {city} on {date}"},
			},
		},
	},
	{
		ID:    "weather-queries",
		Title: "SQL Query Results",
		Panels: []Panel{
			{
				ID: "avg-temperature", Kind: present.KindTable, Table: catalog.Weather,
				GroupBy: []string{catalog.City}, Measures: []model.Measure{{Column: catalog.TemperatureC, Reduction: model.Avg, As: "avg_temperature"}},
				Style: present.Style{Title: "Average Temperature per City"},
			},
			{
				ID: "max-humidity", Kind: present.KindTable, Table: catalog.Weather,
				GroupBy: []string{catalog.City}, Measures: []model.Measure{{Column: catalog.HumidityPct, Reduction: model.Max, As: "max_humidity"}},
				Style: present.Style{Title: "Highest Humidity per City"},
			},
			{
				ID: "min-temperature", Kind: present.KindTable, Table: catalog.Weather,
				GroupBy: []string{catalog.City, catalog.ObservedOn},
				Measures: []model.Measure{
					{Column: catalog.TemperatureC, Reduction: model.Min, As: "min_temperature"},
					{Column: catalog.TemperatureC, Reduction: model.Count, As: "readings"},
				},
				Require: "readings",
				Rank:    bottom("min_temperature", 1),
				Style:   present.Style{Title: "Lowest Temperature Recorded"},
			},
			{
				ID: "wind-speed", Kind: present.KindTable, Table: catalog.Weather,
				GroupBy: []string{catalog.City}, Measures: []model.Measure{{Column: catalog.WindSpeedKmh, Reduction: model.Avg, As: "avg_wind_speed"}},
				Style: present.Style{Title: "Wind Speed Trends"},
			},
			{
				ID: "common-condition", Kind: present.KindTable, Table: catalog.Weather,
				GroupBy: []string{catalog.WeatherCondition}, Measures: []model.Measure{{Reduction: model.Count, As: "frequency"}},
				Rank:  top("frequency", 1),
				Style: present.Style{Title: "Most Common Weather Condition"},
			},
		},
	},
}

// Pages returns every page in menu order
func Pages() []*Page {
	return pages
}

// Lookup finds a page by id
func Lookup(id string) (*Page, error) {
	for _, p := range pages {
		if strings.EqualFold(p.ID, id) {
			return p, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", model.ErrUnknownPage, id)
}
