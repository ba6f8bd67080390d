package store

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"pulse-dashboard/internal/model"
	"pulse-dashboard/pkg/utils"
)

// ReadCSV parses a CSV file with a header row into records of table t.
// Headers match columns case-insensitively; spaces count as underscores and
// headers with no matching column are ignored. Columns with MonthOf set are
// derived from their source date column.
func ReadCSV(r io.Reader, t model.Table) ([]model.Record, error) {
	csvReader := csv.NewReader(r)
	csvReader.LazyQuotes = true
	csvReader.TrimLeadingSpace = true

	headers, err := csvReader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	// position of each table column in the CSV, -1 when absent
	positions := make([]int, len(t.Columns))
	for i, c := range t.Columns {
		positions[i] = -1
		for j, h := range headers {
			if cleanHeader(h) == c.Name {
				positions[i] = j
				break
			}
		}
	}
	for _, required := range []string{t.GeoColumn, t.YearColumn, t.QuarterColumn} {
		if required == "" {
			continue
		}
		if positions[columnIndex(t, required)] < 0 {
			return nil, fmt.Errorf("CSV for %s is missing column %s", t.Name, required)
		}
	}

	var records []model.Record
	line := 1
	for {
		fields, err := csvReader.Read()
		if errors.Is(err, io.EOF) {
			return records, nil
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("CSV read error on line %d: %w", line, err)
		}

		rec := make(model.Record, len(t.Columns))
		for i, c := range t.Columns {
			if positions[i] < 0 || positions[i] >= len(fields) {
				rec[c.Name] = nil
				continue
			}
			v, err := parseField(fields[positions[i]], c)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			rec[c.Name] = v
		}
		for i, c := range t.Columns {
			if c.MonthOf != "" && positions[i] < 0 {
				rec[c.Name] = monthOf(rec[c.MonthOf])
			}
		}
		records = append(records, rec)
	}
}

// Load inserts records into table t inside a single transaction
func Load(ctx context.Context, db *sqlx.DB, t model.Table, records []model.Record, logger *slog.Logger) (int, error) {
	if logger == nil {
		logger = slog.Default()
	}
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, &model.DataAccessError{Op: "load", Table: t.Name, Err: err}
	}
	defer tx.Rollback()

	stmt, err := tx.PreparexContext(ctx, tx.Rebind(insertSQL(t)))
	if err != nil {
		return 0, &model.DataAccessError{Op: "load", Table: t.Name, Err: err}
	}
	defer stmt.Close()

	args := make([]interface{}, len(t.Columns))
	for n, rec := range records {
		for i, c := range t.Columns {
			args[i] = rec[c.Name]
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return n, &model.DataAccessError{Op: "load", Table: t.Name, Err: fmt.Errorf("record %d: %w", n+1, err)}
		}
		if (n+1)%1000 == 0 {
			logger.Info("loading", slog.String("table", t.Name), slog.Int("records", n+1))
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, &model.DataAccessError{Op: "load", Table: t.Name, Err: err}
	}
	return len(records), nil
}

// cleanHeader trims whitespace, removes quotes and lower-cases a header
func cleanHeader(h string) string {
	h = strings.TrimPrefix(h, "\ufeff")
	h = strings.TrimSpace(strings.ReplaceAll(h, `"`, ""))
	return strings.ToLower(strings.ReplaceAll(h, " ", "_"))
}

func parseField(raw string, c model.Column) (interface{}, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	switch c.Kind {
	case model.Integer:
		switch v := utils.ParseValue(raw).(type) {
		case int:
			return int64(v), nil
		case float64:
			if v == float64(int64(v)) {
				return int64(v), nil
			}
		}
		return nil, fmt.Errorf("column %s: %q is not an integer", c.Name, raw)
	case model.Numeric:
		switch v := utils.ParseValue(raw).(type) {
		case int:
			return float64(v), nil
		case float64:
			return v, nil
		}
		return nil, fmt.Errorf("column %s: %q is not a number", c.Name, raw)
	default:
		return raw, nil
	}
}

func monthOf(v interface{}) interface{} {
	s, ok := v.(string)
	if !ok {
		return nil
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339, "2006-01-02 15:04:05"} {
		if ts, err := time.Parse(layout, s); err == nil {
			return int64(ts.Month())
		}
	}
	return nil
}

func columnIndex(t model.Table, name string) int {
	for i, c := range t.Columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}
