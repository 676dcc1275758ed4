package event

import (
	"context"
	"fmt"
	"time"

	"github.com/erp/supplychain/internal/domain/shared"
	"github.com/erp/supplychain/internal/infrastructure/config"
	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.uber.org/zap"
)

// MessageWriter is the subset of *kafka.Writer the forwarder needs
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// NewKafkaWriter builds a producer for the events topic. Messages are keyed
// by aggregate ID so the hash balancer keeps each aggregate on one partition.
func NewKafkaWriter(cfg config.KafkaConfig) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.Hash{},
		BatchTimeout:           cfg.BatchTimeout,
		WriteTimeout:           cfg.WriteTimeout,
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}
}

// KafkaForwarder is a wildcard bus subscriber that copies every committed
// domain event to Kafka
type KafkaForwarder struct {
	writer  MessageWriter
	timeout time.Duration
	logger  *zap.Logger
}

// NewKafkaForwarder creates a forwarder writing through w
func NewKafkaForwarder(w MessageWriter, timeout time.Duration, logger *zap.Logger) *KafkaForwarder {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &KafkaForwarder{writer: w, timeout: timeout, logger: logger}
}

// EventTypes subscribes to all events
func (f *KafkaForwarder) EventTypes() []string {
	return nil
}

// Handle encodes e and writes it synchronously. The request context may be
// cancelled as soon as the response is sent, so the write runs detached from
// it with its own deadline.
func (f *KafkaForwarder) Handle(ctx context.Context, e shared.DomainEvent) error {
	value, err := Encode(e)
	if err != nil {
		return err
	}

	headers := []kafka.Header{
		{Key: "event_type", Value: []byte(e.EventType())},
		{Key: "aggregate_type", Value: []byte(e.AggregateType())},
	}
	carrier := headerCarrier{headers: &headers}
	otel.GetTextMapPropagator().Inject(ctx, carrier)

	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), f.timeout)
	defer cancel()

	err = f.writer.WriteMessages(writeCtx, kafka.Message{
		Key:     []byte(e.AggregateID().String()),
		Value:   value,
		Headers: headers,
		Time:    e.OccurredAt(),
	})
	if err != nil {
		return fmt.Errorf("forward %s to kafka: %w", e.EventType(), err)
	}
	f.logger.Debug("event forwarded",
		zap.String("event_type", e.EventType()),
		zap.String("aggregate_id", e.AggregateID().String()),
	)
	return nil
}

// Close flushes and closes the writer
func (f *KafkaForwarder) Close() error {
	return f.writer.Close()
}

// headerCarrier adapts Kafka headers to the OpenTelemetry propagator
type headerCarrier struct {
	headers *[]kafka.Header
}

func (c headerCarrier) Get(key string) string {
	for _, h := range *c.headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func (c headerCarrier) Set(key, value string) {
	for i, h := range *c.headers {
		if h.Key == key {
			(*c.headers)[i].Value = []byte(value)
			return
		}
	}
	*c.headers = append(*c.headers, kafka.Header{Key: key, Value: []byte(value)})
}

func (c headerCarrier) Keys() []string {
	keys := make([]string, len(*c.headers))
	for i, h := range *c.headers {
		keys[i] = h.Key
	}
	return keys
}

var (
	_ shared.EventHandler        = (*KafkaForwarder)(nil)
	_ propagation.TextMapCarrier = headerCarrier{}
	_ MessageWriter              = (*kafka.Writer)(nil)
)
