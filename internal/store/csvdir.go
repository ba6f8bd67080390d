package store

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"pulse-dashboard/internal/catalog"
	"pulse-dashboard/internal/pipeline"
)

// ReadDir loads every <table>.csv in dir into an in-memory source. File
// names match table names case-insensitively; tables without a file are
// registered empty.
func ReadDir(dir string, logger *slog.Logger) (*pipeline.MemorySource, error) {
	if logger == nil {
		logger = slog.Default()
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read data directory: %w", err)
	}
	files := make(map[string]string, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			files[strings.ToLower(e.Name())] = filepath.Join(dir, e.Name())
		}
	}

	src := pipeline.NewMemorySource()
	for _, t := range catalog.Tables() {
		src.Add(t.Name)
		path, ok := files[t.Name+".csv"]
		if !ok {
			logger.Warn("no CSV for table", slog.String("table", t.Name), slog.String("dir", dir))
			continue
		}

		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", path, err)
		}
		records, err := ReadCSV(f, t)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		src.Add(t.Name, records...)
		logger.Info("table loaded", slog.String("table", t.Name), slog.Int("records", len(records)))
	}
	return src, nil
}
