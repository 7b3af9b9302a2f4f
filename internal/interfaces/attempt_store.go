package interfaces

import (
	"context"

	"github.com/tikiti/ticketing-system/payment-confirm/internal/models"
)

// AttemptStore defines the contract for the payment attempt audit trail.
type AttemptStore interface {
	RecordInitiated(ctx context.Context, session *models.Session) error
	RecordTerminal(ctx context.Context, session *models.Session) error
	GetLatestByBooking(ctx context.Context, bookingReference string) (*models.Session, error)
}
