package config

import (
	"bytes"
	"flag"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, DriverPostgres, cfg.DB.Driver)
	assert.Equal(t, 1, cfg.DB.MaxOpenConns)
	assert.NotEmpty(t, cfg.Locale)
	assert.Equal(t, "host=localhost port=5432 user=postgres dbname=phonepe_pulse sslmode=disable", cfg.DSN())
}

func TestFlagsOverrideEnvironment(t *testing.T) {
	t.Setenv("PULSE_ADDR", ":9000")
	t.Setenv("PULSE_DB_PORT", "6543")
	t.Setenv("PULSE_DB_PASSWORD", "secret")
	t.Setenv("PULSE_LOCALE", "hi-IN")
	t.Setenv("PULSE_BOUNDARY_TIMEOUT", "5s")

	cfg, err := Load([]string{"-addr", ":7000", "-log-format", "json"})
	require.NoError(t, err)

	assert.Equal(t, ":7000", cfg.Addr)
	assert.Equal(t, 6543, cfg.DB.Port)
	assert.Equal(t, "hi-IN", cfg.Locale)
	assert.Equal(t, 5*time.Second, cfg.BoundaryTimeout)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Contains(t, cfg.DSN(), "port=6543")
	assert.Contains(t, cfg.DSN(), "password=secret")
}

func TestDSNPerDriver(t *testing.T) {
	cfg, err := Load([]string{"-db-driver", "sqlite3"})
	require.NoError(t, err)
	assert.Equal(t, ":memory:", cfg.DSN())

	cfg, err = Load([]string{"-db-driver", "duckdb", "-db-path", "pulse.duckdb"})
	require.NoError(t, err)
	assert.Equal(t, "pulse.duckdb", cfg.DSN())
}

func TestLoadErrors(t *testing.T) {
	_, err := Load([]string{"-db-driver", "oracle"})
	assert.ErrorContains(t, err, "unsupported database driver")

	_, err = Load([]string{"-db-driver", "csv"})
	assert.ErrorContains(t, err, "data directory")

	_, err = Load([]string{"-log-level", "loud"})
	assert.ErrorContains(t, err, "log level")

	_, err = Load([]string{"-db-max-conns", "0"})
	assert.Error(t, err)

	_, err = Load([]string{"-no-such-flag"})
	assert.ErrorContains(t, err, "invalid arguments")

	t.Setenv("PULSE_DB_PORT", "five")
	_, err = Load(nil)
	assert.ErrorContains(t, err, "PULSE_DB_PORT")
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	cfg := Default()
	cfg.LogFormat = "json"
	cfg.LogLevel = "warn"

	logger := cfg.Logger(&buf)
	logger.Info("hidden")
	logger.Warn("shown", slog.String("k", "v"))

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)
}

func TestLoadFlagsSharesFlagSet(t *testing.T) {
	fs := flag.NewFlagSet("loader", flag.ContinueOnError)
	table := fs.String("table", "", "table")

	cfg, err := LoadFlags(fs, []string{"-table", "map_users", "-db-driver", "sqlite3", "-db-path", "pulse.db"})
	require.NoError(t, err)
	assert.Equal(t, "map_users", *table)
	assert.Equal(t, "pulse.db", cfg.DSN())
}
