package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"datalayer/internal/api"
	"datalayer/internal/bootstrap"
	"datalayer/internal/config"
	"datalayer/internal/logger"
	"datalayer/internal/sink"
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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize marker store
	markers, closeMarkers, err := bootstrap.MarkerStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to open marker store: %v", err)
	}
	defer closeMarkers()

	// Optional event stream
	var events *sink.Kafka
	if brokers := cfg.Brokers(); len(brokers) > 0 {
		events = sink.NewAsyncKafka(brokers, cfg.KafkaEventsTopic, func(err error) {
			logger.Error("Event stream: %v", err)
		})
		defer events.Close()
		logger.Info("Publishing events to %s", cfg.KafkaEventsTopic)
	}

	// Initialize API server
	server := api.New(cfg, logger, bootstrap.Dispatcher(cfg, logger), markers, events)

	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server stopped: %v", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Stop(shutdownCtx); err != nil {
		logger.Error("Failed to shut down cleanly: %v", err)
	}
}
