package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/sanspareilsmyn/moltlens/internal/config"
)

// Event is one report handed to the publisher.
type Event struct {
	Type    string // "gaps" or "anomalies"
	Key     string // run date
	Payload any
}

// Publisher ships finished reports downstream once per run.
type Publisher interface {
	Publish(ctx context.Context, events ...Event) error
	Close() error
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, ...Event) error { return nil }
func (nopPublisher) Close() error                            { return nil }

type kafkaZapLogger struct {
	log *zap.Logger
}

func (l kafkaZapLogger) Printf(msg string, args ...interface{}) {
	l.log.Debug(fmt.Sprintf(msg, args...))
}

type kafkaZapErrorLogger struct {
	log *zap.Logger
}

func (l kafkaZapErrorLogger) Printf(msg string, args ...interface{}) {
	l.log.Error(fmt.Sprintf(msg, args...))
}

// messageWriter is the part of *kafka.Writer the publisher uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes each event as a JSON message keyed by date.
type KafkaPublisher struct {
	writer  messageWriter
	topic   string
	timeout time.Duration
	logger  *zap.Logger
}

// NewKafkaPublisher creates a synchronous kafka-go writer for cfg.
func NewKafkaPublisher(cfg config.PublishConfig, logger *zap.Logger) (*KafkaPublisher, error) {
	if len(cfg.Brokers) == 0 || cfg.Topic == "" {
		logger.Error("Kafka publish configuration validation failed",
			zap.Strings("brokers", cfg.Brokers),
			zap.String("topic", cfg.Topic),
		)
		return nil, ErrPublisherSetup
	}

	w := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.LeastBytes{},
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
		Logger:                 kafkaZapLogger{logger.Named("kafka-writer").WithOptions(zap.AddCallerSkip(1))},
		ErrorLogger:            kafkaZapErrorLogger{logger.Named("kafka-writer-error").WithOptions(zap.AddCallerSkip(1))},
	}

	logger.Info("Kafka publisher created",
		zap.String("topic", cfg.Topic),
		zap.Strings("brokers", cfg.Brokers),
		zap.Duration("timeout", cfg.Timeout),
	)
	return newKafkaPublisher(w, cfg.Topic, cfg.Timeout, logger), nil
}

func newKafkaPublisher(w messageWriter, topic string, timeout time.Duration, logger *zap.Logger) *KafkaPublisher {
	return &KafkaPublisher{writer: w, topic: topic, timeout: timeout, logger: logger}
}

func (p *KafkaPublisher) Publish(ctx context.Context, events ...Event) error {
	if len(events) == 0 {
		return nil
	}

	msgs := make([]kafka.Message, 0, len(events))
	for _, ev := range events {
		value, err := json.Marshal(ev.Payload)
		if err != nil {
			return fmt.Errorf("%w: encode %s: %w", ErrPublishFailed, ev.Type, err)
		}
		msgs = append(msgs, kafka.Message{
			Key:     []byte(ev.Key),
			Value:   value,
			Headers: []kafka.Header{{Key: "type", Value: []byte(ev.Type)}},
		})
	}

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		p.logger.Error("Failed to publish reports", zap.String("topic", p.topic), zap.Error(err))
		return fmt.Errorf("%w: %w", ErrPublishFailed, err)
	}
	p.logger.Info("Reports published", zap.String("topic", p.topic), zap.Int("messages", len(msgs)))
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
