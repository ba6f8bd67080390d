// Package config resolves dashboard settings from defaults, the environment
// and command-line flags, in increasing order of precedence.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/jeandeaual/go-locale"

	"pulse-dashboard/internal/boundary"
	"pulse-dashboard/pkg/utils"
)

// Supported database drivers
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite3"
	DriverDuckDB   = "duckdb"
	DriverCSV      = "csv"
)

const (
	fallbackLocale         = "en-IN"
	defaultBoundaryTimeout = 30 * time.Second
)

// DB holds database connection settings
type DB struct {
	Driver       string
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	Path         string // sqlite/duckdb file, or the CSV directory for the csv driver
	MaxOpenConns int
}

// Config is the resolved dashboard configuration
type Config struct {
	Addr            string
	DB              DB
	BoundaryURL     string
	BoundaryTimeout time.Duration
	Locale          string
	LogLevel        string
	LogFormat       string
}

// Default returns the built-in settings
func Default() *Config {
	return &Config{
		Addr: ":8080",
		DB: DB{
			Driver:       DriverPostgres,
			Host:         "localhost",
			Port:         5432,
			User:         "postgres",
			Name:         "phonepe_pulse",
			SSLMode:      "disable",
			MaxOpenConns: 1,
		},
		BoundaryURL:     boundary.DefaultURL,
		BoundaryTimeout: defaultBoundaryTimeout,
		LogLevel:        "info",
		LogFormat:       "text",
	}
}

// Load resolves the configuration. A nil args reads no flags.
func Load(args []string) (*Config, error) {
	fs := flag.NewFlagSet("dashboard", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return LoadFlags(fs, args)
}

// LoadFlags is Load over a caller-owned flag set, so commands can register
// flags of their own next to the shared ones
func LoadFlags(fs *flag.FlagSet, args []string) (*Config, error) {
	cfg := Default()
	if err := cfg.fromEnv(); err != nil {
		return nil, err
	}

	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "listen address")
	fs.StringVar(&cfg.DB.Driver, "db-driver", cfg.DB.Driver, "database driver: postgres, sqlite3, duckdb or csv")
	fs.StringVar(&cfg.DB.Host, "db-host", cfg.DB.Host, "database host")
	fs.IntVar(&cfg.DB.Port, "db-port", cfg.DB.Port, "database port")
	fs.StringVar(&cfg.DB.User, "db-user", cfg.DB.User, "database user")
	fs.StringVar(&cfg.DB.Password, "db-password", cfg.DB.Password, "database password")
	fs.StringVar(&cfg.DB.Name, "db-name", cfg.DB.Name, "database name")
	fs.StringVar(&cfg.DB.SSLMode, "db-sslmode", cfg.DB.SSLMode, "postgres sslmode")
	fs.StringVar(&cfg.DB.Path, "db-path", cfg.DB.Path, "database file, or CSV directory for the csv driver")
	fs.IntVar(&cfg.DB.MaxOpenConns, "db-max-conns", cfg.DB.MaxOpenConns, "maximum open connections")
	fs.StringVar(&cfg.BoundaryURL, "boundary", cfg.BoundaryURL, "states boundary GeoJSON URL or path, empty to disable")
	fs.DurationVar(&cfg.BoundaryTimeout, "boundary-timeout", cfg.BoundaryTimeout, "boundary download timeout")
	fs.StringVar(&cfg.Locale, "locale", cfg.Locale, "number formatting locale")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug, info, warn or error")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "text or json")
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("invalid arguments: %w", err)
	}

	if cfg.Locale == "" {
		cfg.Locale = defaultLocale()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) fromEnv() error {
	str := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok {
			*dst = v
		}
	}
	str("PULSE_ADDR", &c.Addr)
	str("PULSE_DB_DRIVER", &c.DB.Driver)
	str("PULSE_DB_HOST", &c.DB.Host)
	str("PULSE_DB_USER", &c.DB.User)
	str("PULSE_DB_PASSWORD", &c.DB.Password)
	str("PULSE_DB_NAME", &c.DB.Name)
	str("PULSE_DB_SSLMODE", &c.DB.SSLMode)
	str("PULSE_DB_PATH", &c.DB.Path)
	str("PULSE_BOUNDARY_URL", &c.BoundaryURL)
	str("PULSE_LOCALE", &c.Locale)
	str("PULSE_LOG_LEVEL", &c.LogLevel)
	str("PULSE_LOG_FORMAT", &c.LogFormat)

	if v, ok := os.LookupEnv("PULSE_BOUNDARY_TIMEOUT"); ok {
		c.BoundaryTimeout = utils.ParseDuration(v, defaultBoundaryTimeout)
	}
	if v, ok := os.LookupEnv("PULSE_DB_PORT"); ok {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("PULSE_DB_PORT: %w", err)
		}
		c.DB.Port = port
	}
	return nil
}

// Validate checks the settings that have a closed set of values
func (c *Config) Validate() error {
	var errs []error
	switch c.DB.Driver {
	case DriverPostgres, DriverSQLite, DriverDuckDB:
	case DriverCSV:
		if c.DB.Path == "" {
			errs = append(errs, errors.New("csv driver needs a data directory (PULSE_DB_PATH)"))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported database driver %q", c.DB.Driver))
	}
	if c.DB.MaxOpenConns < 1 {
		errs = append(errs, fmt.Errorf("max open connections must be at least 1, got %d", c.DB.MaxOpenConns))
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if f := strings.ToLower(c.LogFormat); f != "text" && f != "json" {
		errs = append(errs, fmt.Errorf("unsupported log format %q", c.LogFormat))
	}
	return errors.Join(errs...)
}

// DSN returns the data source name for the configured driver
func (c *Config) DSN() string {
	switch c.DB.Driver {
	case DriverPostgres:
		parts := []string{
			"host=" + c.DB.Host,
			"port=" + strconv.Itoa(c.DB.Port),
			"user=" + c.DB.User,
			"dbname=" + c.DB.Name,
			"sslmode=" + c.DB.SSLMode,
		}
		if c.DB.Password != "" {
			parts = append(parts, "password="+c.DB.Password)
		}
		return strings.Join(parts, " ")
	case DriverSQLite:
		if c.DB.Path == "" {
			return ":memory:"
		}
		return c.DB.Path
	default:
		return c.DB.Path
	}
}

// Logger builds the process logger writing to w
func (c *Config) Logger(w io.Writer) *slog.Logger {
	level, _ := parseLevel(c.LogLevel)
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(c.LogFormat, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("unsupported log level %q", s)
	}
	return level, nil
}

// defaultLocale is the OS locale, or en-IN when it cannot be read
func defaultLocale() string {
	if ln, err := locale.GetLocale(); err == nil && ln != "" {
		return ln
	}
	return fallbackLocale
}
