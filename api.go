package handler

import (
	"context"
	"net/http"
	"sync"

	"datalayer/internal/api"
	"datalayer/internal/bootstrap"
	"datalayer/internal/config"
	"datalayer/internal/logger"
	"datalayer/internal/sink"
)

// Serverless instances share nothing in memory, so MARKER_STORE should be
// redis or sql here.
var (
	once     sync.Once
	router   http.Handler
	setupErr error
)

func setup() {
	cfg, err := config.Load()
	if err != nil {
		setupErr = err
		return
	}
	log := logger.New(cfg.LogLevel)

	markers, _, err := bootstrap.MarkerStore(context.Background(), cfg, log)
	if err != nil {
		setupErr = err
		return
	}

	var events *sink.Kafka
	if brokers := cfg.Brokers(); len(brokers) > 0 {
		events = sink.NewAsyncKafka(brokers, cfg.KafkaEventsTopic, func(err error) {
			log.Error("Event stream: %v", err)
		})
	}

	router = api.New(cfg, log, bootstrap.Dispatcher(cfg, log), markers, events).Handler()
}

// Handler is the serverless entry point.
func Handler(w http.ResponseWriter, r *http.Request) {
	once.Do(setup)
	if setupErr != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"service misconfigured"}`))
		return
	}

	// Serve the request
	router.ServeHTTP(w, r)
}
