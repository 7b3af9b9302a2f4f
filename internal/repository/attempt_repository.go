package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/tikiti/ticketing-system/payment-confirm/internal/models"
)

var ErrNoAttempts = errors.New("repository: no payment attempts for booking")

// AttemptRepository is the audit trail of push-payment attempts. One row per
// session; the row is written when the push is initiated and finalized when
// the session reaches a terminal phase.
type AttemptRepository struct {
	db *sql.DB
}

func NewAttemptRepository(db *sql.DB) *AttemptRepository {
	return &AttemptRepository{db: db}
}

func (r *AttemptRepository) InitDB() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS payment_attempts (
			session_id VARCHAR(64) PRIMARY KEY,
			booking_reference VARCHAR(255) NOT NULL,
			phone VARCHAR(20) NOT NULL,
			phase VARCHAR(50) NOT NULL,
			outcome VARCHAR(50),
			failure_reason TEXT,
			attempt_count INT NOT NULL DEFAULT 0,
			started_at TIMESTAMP NOT NULL,
			finished_at TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_payment_attempts_booking ON payment_attempts(booking_reference)`,
	}

	for _, query := range queries {
		if _, err := r.db.Exec(query); err != nil {
			return err
		}
	}

	return nil
}

func (r *AttemptRepository) RecordInitiated(ctx context.Context, session *models.Session) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO payment_attempts (session_id, booking_reference, phone, phase, started_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (session_id) DO NOTHING
	`, session.ID, session.BookingReference, session.Phone, session.Phase, session.StartedAt)
	return err
}

func (r *AttemptRepository) RecordTerminal(ctx context.Context, session *models.Session) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE payment_attempts
		SET phase = $1, outcome = $2, failure_reason = $3, attempt_count = $4, finished_at = $5
		WHERE session_id = $6
	`, session.Phase, session.Outcome, session.FailureReason, session.AttemptCount, session.FinishedAt, session.ID)
	return err
}

func (r *AttemptRepository) GetLatestByBooking(ctx context.Context, bookingReference string) (*models.Session, error) {
	var (
		s        models.Session
		outcome  sql.NullString
		reason   sql.NullString
		finished sql.NullTime
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT session_id, booking_reference, phone, phase, outcome, failure_reason, attempt_count, started_at, finished_at
		FROM payment_attempts
		WHERE booking_reference = $1
		ORDER BY started_at DESC
		LIMIT 1
	`, bookingReference).Scan(&s.ID, &s.BookingReference, &s.Phone, &s.Phase, &outcome, &reason, &s.AttemptCount, &s.StartedAt, &finished)
	if err == sql.ErrNoRows {
		return nil, ErrNoAttempts
	}
	if err != nil {
		return nil, err
	}

	s.Outcome = outcome.String
	s.FailureReason = reason.String
	if finished.Valid {
		s.FinishedAt = finished.Time
	}
	return &s, nil
}
