package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"datalayer/internal/bootstrap"
	"datalayer/internal/config"
	"datalayer/internal/logger"
	"datalayer/internal/worker"
	"datalayer/internal/worker/processors"
	"datalayer/internal/worker/processors/export"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Initialize logger
	logger := logger.New(cfg.LogLevel)
	defer logger.Sync()

	if len(cfg.Brokers()) == 0 {
		logger.Fatal("KAFKA_BROKERS is required for the worker")
	}

	// Wait for interrupt signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	markers, closeMarkers, err := bootstrap.MarkerStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to open marker store: %v", err)
	}
	defer closeMarkers()

	exporter := export.New(cfg, logger)
	defer exporter.Close()

	processor := processors.NewEventProcessor(cfg, logger, bootstrap.Dispatcher(cfg, logger), markers, exporter)

	// Initialize worker
	w := worker.New(cfg, logger, processor)

	logger.Info("Starting worker...")
	w.Start(ctx)

	logger.Info("Shutting down worker...")
	w.Stop()
}
