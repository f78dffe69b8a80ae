package worker

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"datalayer/internal/config"
	"datalayer/internal/logger"
	"datalayer/internal/worker/processors"

	"github.com/segmentio/kafka-go"
)

// messageReader is the part of *kafka.Reader the worker uses.
type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Worker struct {
	config    *config.Config
	logger    *logger.Logger
	reader    messageReader
	processor *processors.EventProcessor
}

func New(cfg *config.Config, logger *logger.Logger, processor *processors.EventProcessor) *Worker {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        cfg.Brokers(),
		GroupID:        cfg.KafkaGroupID,
		Topic:          cfg.KafkaTriggersTopic,
		MinBytes:       10e3, // 10KB
		MaxBytes:       cfg.KafkaMaxBytes,
		CommitInterval: time.Second,
	})

	return &Worker{
		config:    cfg,
		logger:    logger,
		reader:    reader,
		processor: processor,
	}
}

// Start consumes trigger envelopes until ctx is cancelled. Every message is
// committed once handled, including ones that fail: a failed trigger is
// never retried.
func (w *Worker) Start(ctx context.Context) {
	w.logger.Info("Worker started, listening on %s", w.config.KafkaTriggersTopic)

	for {
		message, err := w.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				return
			}
			w.logger.Error("Failed to read message: %v", err)
			continue
		}

		w.handle(ctx, message)

		if err := w.reader.CommitMessages(ctx, message); err != nil && ctx.Err() == nil {
			w.logger.Error("Failed to commit offset %d: %v", message.Offset, err)
		}
	}
}

func (w *Worker) handle(ctx context.Context, message kafka.Message) {
	w.logger.Debug("Received message at offset %d: %s", message.Offset, string(message.Value))

	// Parse envelope
	var env processors.Envelope
	if err := json.Unmarshal(message.Value, &env); err != nil {
		w.logger.Error("Failed to parse envelope at offset %d: %v", message.Offset, err)
		return
	}

	log := w.logger.With("envelope_id", env.ID.String(), "trigger", env.Trigger.String())

	// Process envelope
	if err := w.processor.Process(ctx, env); err != nil {
		log.Error("Failed to process envelope: %v", err)
		return
	}

	log.Debug("Envelope processed successfully")
}

func (w *Worker) Stop() {
	w.logger.Info("Stopping worker...")
	if err := w.reader.Close(); err != nil {
		w.logger.Error("Failed to close reader: %v", err)
	}
}
