// Package events publishes payment session transitions for downstream
// consumers (ticket issuance, receipts, analytics).
package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"

	"github.com/tikiti/ticketing-system/payment-confirm/internal/models"
)

// Topic carries every session phase transition, keyed by booking reference so
// one booking's events stay ordered.
const Topic = "payment.session.changed"

type KafkaPublisher struct {
	writer *kafka.Writer
}

func NewKafkaPublisher(brokers string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers),
			Topic:    Topic,
			Balancer: &kafka.LeastBytes{},
		},
	}
}

func (p *KafkaPublisher) PublishTransition(ctx context.Context, event models.SessionEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal session event: %w", err)
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.BookingReference),
		Value: value,
	})
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NopPublisher drops events. Used when Kafka is not configured.
type NopPublisher struct{}

func (NopPublisher) PublishTransition(ctx context.Context, event models.SessionEvent) error {
	return nil
}
