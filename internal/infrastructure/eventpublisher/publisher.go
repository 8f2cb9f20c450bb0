// Package eventpublisher emits a JSON event for every accepted
// movement. Delivery is best-effort: a failed publish is logged and
// never fails the recording itself.
package eventpublisher

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"

	"github.com/iho/tinyledger/internal/domain"
)

// messageWriter is the subset of kafka.Writer the publisher needs.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher publishes movement events to a Kafka topic.
type KafkaPublisher struct {
	writer messageWriter
	logger zerolog.Logger
}

// NewKafkaPublisher creates a publisher writing to the given brokers and topic.
func NewKafkaPublisher(brokers []string, topic string, logger zerolog.Logger) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafka.LeastBytes{},
		},
		logger: logger,
	}
}

// MovementRecorded publishes the event for an accepted movement.
func (p *KafkaPublisher) MovementRecorded(ctx context.Context, m domain.Movement) {
	payload, err := json.Marshal(domain.NewMovementRecordedEvent(m))
	if err != nil {
		p.logger.Error().Err(err).Int64("movement_id", m.ID).Msg("failed to encode movement event")
		return
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(strconv.FormatInt(m.ID, 10)),
		Value: payload,
	})
	if err != nil {
		p.logger.Error().Err(err).Int64("movement_id", m.ID).Msg("failed to publish movement event")
		return
	}

	p.logger.Debug().Int64("movement_id", m.ID).Msg("movement event published")
}

// Close flushes and closes the underlying writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// LogPublisher logs movement events instead of publishing them. Used
// when no broker is configured.
type LogPublisher struct {
	logger zerolog.Logger
}

// NewLogPublisher creates a new LogPublisher.
func NewLogPublisher(logger zerolog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

// MovementRecorded logs the event.
func (p *LogPublisher) MovementRecorded(ctx context.Context, m domain.Movement) {
	p.logger.Debug().
		Int64("movement_id", m.ID).
		Str("type", string(m.Type)).
		Int64("amount_cents", m.AmountCents).
		Msg("movement recorded")
}
