// Package notify implements the fire-and-forget UI feedback surface. The web
// frontend subscribes to booking-scoped NATS subjects through a websocket
// bridge; deployments without NATS fall back to the log notifier.
package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/tikiti/ticketing-system/payment-confirm/internal/interfaces"
)

type LogNotifier struct {
	logger *zap.Logger
}

func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(ctx context.Context, bookingReference string, level interfaces.Level, message string) {
	n.logger.Info("User notification",
		zap.String("booking_reference", bookingReference),
		zap.String("level", string(level)),
		zap.String("message", message),
	)
}

type NatsNotifier struct {
	nc     *nats.Conn
	logger *zap.Logger
}

func NewNatsNotifier(nc *nats.Conn, logger *zap.Logger) *NatsNotifier {
	return &NatsNotifier{nc: nc, logger: logger}
}

type notification struct {
	BookingReference string `json:"booking_reference"`
	Level            string `json:"level"`
	Message          string `json:"message"`
}

// Notify publishes to tickets.notifications.<reference>. Publish failures are
// logged and dropped; a missed toast must never fail a payment flow.
func (n *NatsNotifier) Notify(ctx context.Context, bookingReference string, level interfaces.Level, message string) {
	payload, err := json.Marshal(notification{
		BookingReference: bookingReference,
		Level:            string(level),
		Message:          message,
	})
	if err != nil {
		return
	}

	subject := fmt.Sprintf("tickets.notifications.%s", bookingReference)
	if err := n.nc.Publish(subject, payload); err != nil {
		n.logger.Warn("Failed to publish notification",
			zap.String("booking_reference", bookingReference),
			zap.Error(err),
		)
	}
}
