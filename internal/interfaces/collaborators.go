package interfaces

import (
	"context"

	"github.com/tikiti/ticketing-system/payment-confirm/internal/models"
)

// Notification levels for the UI surface.
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// BookingFetcher reads a booking's current state from the booking service.
type BookingFetcher interface {
	FetchBooking(ctx context.Context, reference string) (*models.Booking, error)
}

// PaymentInitiator triggers a push-payment prompt on the payer's phone.
// Fire-and-acknowledge: the final outcome arrives later via the booking's
// payment_status, never from this call.
type PaymentInitiator interface {
	InitiatePush(ctx context.Context, bookingReference, phone string) error
}

// Notifier is the fire-and-forget UI feedback surface (toast, websocket
// bridge, log).
type Notifier interface {
	Notify(ctx context.Context, bookingReference string, level Level, message string)
}

// EventPublisher emits a session phase-transition event for downstream
// consumers (ticket issuance, analytics).
type EventPublisher interface {
	PublishTransition(ctx context.Context, event models.SessionEvent) error
}

// InFlightLocker guards against two instances pushing the same booking at
// once. Acquire returns false when another attempt already holds the lock.
type InFlightLocker interface {
	Acquire(ctx context.Context, bookingReference string) (bool, error)
	Release(ctx context.Context, bookingReference string)
}
