package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"

	"github.com/couchcryptid/home-data-enrichment/internal/adapter/httpadapter"
	kafkaadapter "github.com/couchcryptid/home-data-enrichment/internal/adapter/kafka"
	"github.com/couchcryptid/home-data-enrichment/internal/app"
	"github.com/couchcryptid/home-data-enrichment/internal/config"
	"github.com/couchcryptid/home-data-enrichment/internal/observability"
	"github.com/couchcryptid/home-data-enrichment/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := sharedobs.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	svc, err := app.New(ctx, cfg, logger, metrics)
	if err != nil {
		logger.Error("failed to initialise service", "error", err)
		os.Exit(1)
	}

	srv := httpadapter.NewServer(cfg.HTTPAddr, svc.Enricher, svc, logger)

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start the bulk pipeline (feature-flagged via KAFKA_ENABLED).
	var (
		reader *kafkaadapter.Reader
		writer *kafkaadapter.Writer
	)
	pipelineDone := make(chan struct{})
	if cfg.KafkaEnabled {
		reader = kafkaadapter.NewReader(cfg, logger)
		writer = kafkaadapter.NewWriter(cfg, logger)
		transformer := pipeline.NewTransformer(svc.Enricher, logger)
		p := pipeline.New(reader, transformer, writer, logger, metrics, cfg.BatchSize)

		go func() {
			defer close(pipelineDone)
			if err := p.Run(ctx); err != nil {
				logger.Error("pipeline error", "error", err)
			}
		}()
	} else {
		close(pipelineDone)
		logger.Info("kafka pipeline disabled")
	}

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	select {
	case <-pipelineDone:
	case <-shutdownCtx.Done():
		logger.Warn("pipeline did not stop before shutdown timeout")
	}
	if reader != nil {
		if err := reader.Close(); err != nil {
			logger.Error("kafka reader close error", "error", err)
		}
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}
	if err := svc.Close(); err != nil {
		logger.Error("cache backend close error", "error", err)
	}

	logger.Info("shutdown complete")
}
