package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonboulle/clockwork"

	httpadapter "github.com/couchcryptid/notam-feed-service/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/notam-feed-service/internal/adapter/kafka"
	"github.com/couchcryptid/notam-feed-service/internal/adapter/probe"
	s3adapter "github.com/couchcryptid/notam-feed-service/internal/adapter/s3"
	"github.com/couchcryptid/notam-feed-service/internal/catalog"
	"github.com/couchcryptid/notam-feed-service/internal/config"
	"github.com/couchcryptid/notam-feed-service/internal/domain"
	"github.com/couchcryptid/notam-feed-service/internal/observability"
	"github.com/couchcryptid/notam-feed-service/internal/pipeline"
	"github.com/couchcryptid/notam-feed-service/internal/sources"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()
	clock := clockwork.NewRealClock()

	cat, err := catalog.LoadFile(cfg.CatalogPath)
	if err != nil {
		logger.Error("failed to load catalog", "path", cfg.CatalogPath, "error", err)
		os.Exit(1)
	}
	logger.Info("catalog loaded", "records", len(cat.Records), "sources", len(cat.Sources), "regions", len(cat.Regions))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Source status connector (SOURCE_CONNECT_MODE).
	var connector sources.Connector
	switch cfg.SourceConnectMode {
	case config.ConnectModeProbe:
		connector = probe.NewClient(cfg.SourceProbeTimeout, logger, metrics)
	case config.ConnectModeOff:
		logger.Info("source connections disabled")
	default:
		connector = sources.NewSimulated(clock, cfg.SourceConnectDelay, cfg.SourceSuccessRatio)
	}
	registry := cat.Registry()
	monitor := sources.NewMonitor(registry, connector, clock, logger, metrics)

	opts := pipeline.Options{
		Views: domain.ViewOptions{
			RawFormat:       domain.ParseRawFormat(cfg.RawFormat),
			SummaryDisabled: !cfg.SummaryEnabled,
		},
		CacheSize:       cfg.ProjectionCacheSize,
		RefreshInterval: cfg.AutoRefreshInterval,
	}

	// Working set publishing (KAFKA_ENABLED).
	var writer *kafkaadapter.Writer
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg, logger)
		opts.Publisher = writer
		logger.Info("kafka publishing enabled", "topic", cfg.KafkaTopic, "brokers", cfg.KafkaBrokers)
	}

	// CSV export archive (EXPORT_S3_BUCKET).
	if cfg.ExportS3Bucket != "" {
		archive, err := s3adapter.New(ctx, s3adapter.Config{
			Bucket:    cfg.ExportS3Bucket,
			Region:    cfg.ExportS3Region,
			Endpoint:  cfg.ExportS3Endpoint,
			PathStyle: cfg.ExportS3PathStyle,
			Prefix:    cfg.ExportS3Prefix,
		}, logger)
		if err != nil {
			logger.Error("failed to configure export archive", "error", err)
			os.Exit(1)
		}
		opts.Archive = archive
		logger.Info("export archive enabled", "bucket", cfg.ExportS3Bucket)
	}

	p := pipeline.New(cat.Store(), registry, monitor, clock, logger, metrics, opts)

	srv := httpadapter.NewServer(cfg.HTTPAddr, p, logger, metrics, httpadapter.Options{
		Regions:   cat.Regions,
		RateLimit: cfg.APIRateLimit,
		RateBurst: cfg.APIRateBurst,
		Clock:     clock,
	})

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Connect sources and run auto-refresh.
	go func() {
		if err := p.Run(ctx); err != nil {
			logger.Error("pipeline error", "error", err)
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
