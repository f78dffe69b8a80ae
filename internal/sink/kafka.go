package sink

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"datalayer/internal/datalayer"
)

// MessageWriter is the part of *kafka.Writer the sink uses.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Kafka publishes each record as one JSON message keyed by event name.
type Kafka struct {
	writer  MessageWriter
	headers []kafka.Header
}

// NewKafka publishes synchronously. A failed write is reported once and
// not retried.
func NewKafka(brokers []string, topic string) *Kafka {
	return &Kafka{writer: newWriter(brokers, topic)}
}

// NewAsyncKafka never waits on the brokers: Push only enqueues, and write
// failures go to onErr.
func NewAsyncKafka(brokers []string, topic string, onErr func(error)) *Kafka {
	w := newWriter(brokers, topic)
	w.Async = true
	w.Completion = func(msgs []kafka.Message, err error) {
		if err != nil {
			onErr(fmt.Errorf("publish %d messages: %w", len(msgs), err))
		}
	}
	return &Kafka{writer: w}
}

func newWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 50 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
		MaxAttempts:  1,
	}
}

// NewKafkaWithWriter publishes through w.
func NewKafkaWithWriter(w MessageWriter) *Kafka {
	return &Kafka{writer: w}
}

// WithHeaders returns a sink sharing the writer that adds headers to every
// message, e.g. the session or envelope id.
func (k *Kafka) WithHeaders(headers ...kafka.Header) *Kafka {
	return &Kafka{writer: k.writer, headers: append(append([]kafka.Header{}, k.headers...), headers...)}
}

func (k *Kafka) Push(ctx context.Context, r datalayer.Record) error {
	value, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("encode %s: %w", r.EventName(), err)
	}
	msg := kafka.Message{
		Key:     []byte(r.EventName()),
		Value:   value,
		Headers: k.headers,
		Time:    time.Now(),
	}
	if err := k.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish %s: %w", r.EventName(), err)
	}
	return nil
}

func (k *Kafka) Close() error {
	return k.writer.Close()
}
