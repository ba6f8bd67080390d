package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"pulse-dashboard/internal/catalog"
	"pulse-dashboard/internal/config"
	"pulse-dashboard/internal/store"
)

func main() {
	fs := flag.NewFlagSet("loader", flag.ExitOnError)
	tableName := fs.String("table", "", "target table: "+tableNames())
	csvPath := fs.String("csv", "", "CSV file to load")
	create := fs.Bool("create", true, "create the table when missing")

	cfg, err := config.LoadFlags(fs, os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	logger := cfg.Logger(os.Stderr)

	if err := load(context.Background(), cfg, *tableName, *csvPath, *create, logger); err != nil {
		logger.Error("load failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func load(ctx context.Context, cfg *config.Config, tableName, csvPath string, create bool, logger *slog.Logger) error {
	if tableName == "" || csvPath == "" {
		return errors.New("both -table and -csv are required")
	}
	if cfg.DB.Driver == config.DriverCSV {
		return errors.New("the csv driver reads files directly; pick a database driver to load into")
	}
	t, err := catalog.Lookup(tableName)
	if err != nil {
		return err
	}

	f, err := os.Open(csvPath)
	if err != nil {
		return fmt.Errorf("failed to open CSV: %w", err)
	}
	defer f.Close()
	records, err := store.ReadCSV(f, t)
	if err != nil {
		return err
	}

	db, err := store.Open(ctx, cfg.DB.Driver, cfg.DSN(), cfg.DB.MaxOpenConns)
	if err != nil {
		return err
	}
	defer db.Close()

	if create {
		if err := store.CreateTable(ctx, db, t); err != nil {
			return err
		}
	}
	n, err := store.Load(ctx, db, t, records, logger)
	if err != nil {
		return err
	}
	logger.Info("load complete", slog.String("table", t.Name), slog.Int("records", n), slog.String("csv", csvPath))
	return nil
}

func tableNames() string {
	names := make([]string, 0, len(catalog.Tables()))
	for _, t := range catalog.Tables() {
		names = append(names, t.Name)
	}
	return strings.Join(names, ", ")
}
