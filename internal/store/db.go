package store

import (
	"context"
	"fmt"
	"strings"

	_ "github.com/duckdb/duckdb-go/v2"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"pulse-dashboard/internal/model"
)

// Open connects to the dataset database and verifies the connection.
// The pool is capped at maxOpenConns (1 when unset) so the process shares a
// single connection.
func Open(ctx context.Context, driver, dsn string, maxOpenConns int) (*sqlx.DB, error) {
	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, &model.DataAccessError{Op: "open", Table: driver, Err: err}
	}

	if maxOpenConns <= 0 {
		maxOpenConns = 1
	}
	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxOpenConns)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, &model.DataAccessError{Op: "ping", Table: driver, Err: err}
	}
	return db, nil
}

// CreateTable creates the table if it does not exist
func CreateTable(ctx context.Context, db *sqlx.DB, t model.Table) error {
	if _, err := db.ExecContext(ctx, createTableSQL(t)); err != nil {
		return &model.DataAccessError{Op: "create", Table: t.Name, Err: err}
	}
	return nil
}

func createTableSQL(t model.Table) string {
	cols := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		cols[i] = fmt.Sprintf("%s %s", quoteIdent(c.Name), columnType(c.Kind))
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n\t%s\n)", quoteIdent(t.Name), strings.Join(cols, ",\n\t"))
}

func columnType(k model.ColumnKind) string {
	switch k {
	case model.Integer:
		return "BIGINT"
	case model.Numeric:
		return "DOUBLE PRECISION"
	default:
		return "TEXT"
	}
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
