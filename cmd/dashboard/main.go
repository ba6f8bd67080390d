package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	_ "pulse-dashboard/docs"
	"pulse-dashboard/internal/api"
	"pulse-dashboard/internal/api/handler"
	"pulse-dashboard/internal/boundary"
	"pulse-dashboard/internal/config"
	"pulse-dashboard/internal/dashboard"
	"pulse-dashboard/internal/pipeline"
	"pulse-dashboard/internal/present"
	"pulse-dashboard/internal/region"
	"pulse-dashboard/internal/store"
	"pulse-dashboard/pkg/router"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		slog.Error("invalid configuration", slog.Any("error", err))
		os.Exit(2)
	}
	logger := cfg.Logger(os.Stderr)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("dashboard stopped", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	var (
		src      pipeline.Source
		handlers []handler.Option
	)
	if cfg.DB.Driver == config.DriverCSV {
		mem, err := store.ReadDir(cfg.DB.Path, logger)
		if err != nil {
			return err
		}
		src = mem
	} else {
		db, err := store.Open(ctx, cfg.DB.Driver, cfg.DSN(), cfg.DB.MaxOpenConns)
		if err != nil {
			return err
		}
		defer db.Close()
		src = store.NewSQLSource(db, logger)
		handlers = append(handlers, handler.WithPing(db.PingContext))
	}

	registryOpts := []present.RegistryOption{present.WithLocale(cfg.Locale)}
	if cfg.BoundaryURL != "" {
		fc, err := boundary.Fetch(ctx, &http.Client{Timeout: cfg.BoundaryTimeout}, cfg.BoundaryURL)
		if err != nil {
			// choropleths still render locations and values
			logger.Warn("boundary unavailable", slog.String("url", cfg.BoundaryURL), slog.Any("error", err))
		} else {
			registryOpts = append(registryOpts, present.WithBoundary(fc, present.DefaultFeatureKey))
		}
	}

	names := region.NewNormalizer(logger)
	p := pipeline.New(src, pipeline.WithLogger(logger), pipeline.WithNormalizer(names))
	runner := dashboard.NewRunner(p, present.NewRegistry(registryOpts...), logger)

	handlers = append(handlers, handler.WithLogger(logger), handler.WithNormalizer(names))
	r := router.New(logger)
	api.RegisterRoutes(r, handler.New(p, runner, handlers...))

	logger.Info("dashboard ready",
		slog.String("driver", cfg.DB.Driver),
		slog.String("locale", cfg.Locale),
		slog.String("region_table", region.TableVersion))
	return r.Start(ctx, cfg.Addr)
}
