package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/quake-dashboard/internal/adapter/csvfile"
	httpadapter "github.com/couchcryptid/quake-dashboard/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/quake-dashboard/internal/adapter/kafka"
	"github.com/couchcryptid/quake-dashboard/internal/adapter/mapbox"
	"github.com/couchcryptid/quake-dashboard/internal/analysis"
	"github.com/couchcryptid/quake-dashboard/internal/config"
	"github.com/couchcryptid/quake-dashboard/internal/dashboard"
	"github.com/couchcryptid/quake-dashboard/internal/domain"
	"github.com/couchcryptid/quake-dashboard/internal/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	// Initialize geocoder (feature-flagged via MAPBOX_ENABLED / MAPBOX_TOKEN).
	var geocoder domain.Geocoder
	if cfg.MapboxEnabled {
		client := mapbox.NewClient(cfg.MapboxToken, cfg.MapboxTimeout, logger, metrics)
		geocoder = mapbox.NewCachedGeocoder(client, cfg.MapboxCacheSize, metrics)
		metrics.GeocodeEnabled.Set(1)
		logger.Info("mapbox country enrichment enabled", "cache_size", cfg.MapboxCacheSize, "timeout", cfg.MapboxTimeout)
	} else {
		logger.Info("mapbox country enrichment disabled")
	}

	loader := csvfile.NewCachedLoader(
		csvfile.NewLoader(cfg.DatasetPath, geocoder, logger, metrics),
		logger, metrics,
	)

	// Page-view events are optional; a nil publisher disables them.
	var (
		publisher dashboard.PageViewPublisher
		writer    *kafkaadapter.Writer
	)
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg, logger, metrics)
		publisher = writer
		logger.Info("page-view events enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaPageViewTopic)
	}

	dash := dashboard.New(loader, publisher, dashboard.Options{
		DatasetPath: cfg.DatasetPath,
		Forecast: analysis.ForecastOptions{
			FromYear: cfg.ForecastFromYear,
			ToYear:   cfg.ForecastToYear,
			TestSize: cfg.ForecastTestSize,
			Seed:     cfg.ForecastSeed,
		},
		ClusterSeed: cfg.ForecastSeed,
	}, logger, metrics)

	srv := httpadapter.NewServer(cfg.HTTPAddr, dash, dash, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Warm the dataset so the first page is fast. A missing file is reported
	// on every page until it appears.
	if ds, err := loader.Load(ctx); err != nil {
		logger.Warn("dataset not loaded at startup", "path", cfg.DatasetPath, "error", err)
	} else {
		logger.Info("dataset loaded", "path", cfg.DatasetPath, "rows", ds.Len())
	}

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
