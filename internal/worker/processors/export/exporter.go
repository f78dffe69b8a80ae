package export

import (
	"datalayer/internal/config"
	"datalayer/internal/logger"
	"datalayer/internal/sink"

	"github.com/segmentio/kafka-go"
)

// Exporter publishes built records to the events topic.
type Exporter struct {
	config *config.Config
	logger *logger.Logger
	events *sink.Kafka
}

func New(cfg *config.Config, logger *logger.Logger) *Exporter {
	return NewWithSink(cfg, logger, sink.NewKafka(cfg.Brokers(), cfg.KafkaEventsTopic))
}

// NewWithSink publishes through an existing Kafka sink.
func NewWithSink(cfg *config.Config, logger *logger.Logger, events *sink.Kafka) *Exporter {
	return &Exporter{
		config: cfg,
		logger: logger,
		events: events,
	}
}

// For returns a sink tagging every record with the envelope and session it
// was built from.
func (e *Exporter) For(envelopeID, sessionID string) sink.Sink {
	return e.events.WithHeaders(
		kafka.Header{Key: "envelope_id", Value: []byte(envelopeID)},
		kafka.Header{Key: "session_id", Value: []byte(sessionID)},
	)
}

func (e *Exporter) Close() error {
	e.logger.Info("Closing events publisher")
	return e.events.Close()
}
