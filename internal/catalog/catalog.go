// Package catalog declares the datasets the dashboard reads: the PhonePe
// Pulse aggregate tables and the weather observations table.
package catalog

import (
	"fmt"
	"strings"

	"pulse-dashboard/internal/model"
)

// Table names
const (
	MapTransactionTable = "map_transaction"
	MapUsersTable       = "map_users"
	TopTransactionTable = "top_transaction"
	TopUserTable        = "top_user"
	TopInsuranceTable   = "top_insurance"
	WeatherTable        = "weather_data"
)

// Column names shared by the Pulse tables. The quarter column keeps the
// spelling used by the published CSV files.
const (
	State             = "state"
	Year              = "year"
	Quarter           = "quater"
	District          = "district"
	TransactionArea   = "transaction_area"
	TransactionCount  = "transaction_count"
	TransactionAmount = "transaction_amount"
	RegisteredUsers   = "registered_users"
	AppOpens          = "app_opens"
)

// Weather columns
const (
	City             = "city"
	ObservedOn       = "date"
	Month            = "month"
	TemperatureC     = "temperature_c"
	HumidityPct      = "humidity_percentage"
	WindSpeedKmh     = "wind_speed_kmh"
	WeatherCondition = "weather_condition"
)

// Amounts are rupee values with paise, every other measure is a count
var amountCol = model.Column{Name: TransactionAmount, Kind: model.Numeric}

func countCol(name string) model.Column {
	return model.Column{Name: name, Kind: model.Integer}
}

func pulseTable(name, title, subRegion string, measures ...model.Column) model.Table {
	cols := []model.Column{
		{Name: State, Kind: model.Text},
		{Name: Year, Kind: model.Integer},
		{Name: Quarter, Kind: model.Integer},
		{Name: subRegion, Kind: model.Text},
	}
	cols = append(cols, measures...)
	return model.Table{
		Name:            name,
		Title:           title,
		Columns:         cols,
		GeoColumn:       State,
		SubRegionColumn: subRegion,
		YearColumn:      Year,
		QuarterColumn:   Quarter,
	}
}

var (
	MapTransaction = pulseTable(MapTransactionTable, "Transactions by district", TransactionArea, countCol(TransactionCount), amountCol)
	MapUsers       = pulseTable(MapUsersTable, "Registered users by district", District, countCol(RegisteredUsers), countCol(AppOpens))
	TopTransaction = pulseTable(TopTransactionTable, "Top transaction districts", District, countCol(TransactionCount), amountCol)
	TopUser        = pulseTable(TopUserTable, "Top user districts", District, countCol(RegisteredUsers))
	TopInsurance   = pulseTable(TopInsuranceTable, "Top insurance districts", District, countCol(TransactionCount), amountCol)

	Weather = model.Table{
		Name:  WeatherTable,
		Title: "Weather observations",
		Columns: []model.Column{
			{Name: City, Kind: model.Text},
			{Name: ObservedOn, Kind: model.Date},
			{Name: Month, Kind: model.Integer, MonthOf: ObservedOn},
			{Name: TemperatureC, Kind: model.Numeric},
			{Name: HumidityPct, Kind: model.Numeric},
			{Name: WindSpeedKmh, Kind: model.Numeric},
			{Name: WeatherCondition, Kind: model.Text},
		},
	}
)

// Tables returns every known table
func Tables() []model.Table {
	return []model.Table{MapTransaction, MapUsers, TopTransaction, TopUser, TopInsurance, Weather}
}

// Lookup finds a table by name
func Lookup(name string) (model.Table, error) {
	for _, t := range Tables() {
		if strings.EqualFold(t.Name, name) {
			return t, nil
		}
	}
	return model.Table{}, fmt.Errorf("%w: %s", model.ErrUnknownTable, name)
}
