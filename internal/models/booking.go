package models

import "time"

// Booking is the booking service's view of a booking. It is read-only here:
// payment_status is mutated only by the payment backend's webhook, and this
// service observes it by re-fetching.
type Booking struct {
	Reference     string `json:"reference"`
	Name          string `json:"name"`
	Phone         string `json:"phone"`
	Amount        string `json:"amount"` // decimal string, never parsed to float
	Currency      string `json:"currency"`
	PaymentStatus string `json:"payment_status"`
	EventID       string `json:"event_id"`
}

type Phase string

const (
	PhaseIdle       Phase = "IDLE"
	PhaseInitiating Phase = "INITIATING"
	PhaseAwaiting   Phase = "AWAITING_CONFIRMATION"
	PhaseResolved   Phase = "RESOLVED"
	PhaseTimedOut   Phase = "TIMED_OUT"
	PhaseCancelled  Phase = "CANCELLED"
)

// Terminal reports whether no further transition is expected without a new
// payment attempt.
func (p Phase) Terminal() bool {
	switch p {
	case PhaseResolved, PhaseTimedOut, PhaseCancelled:
		return true
	}
	return false
}

// Session tracks one booking's payment attempt from submission to resolution.
// At most one non-terminal Session exists per booking reference.
type Session struct {
	ID               string    `json:"id"`
	BookingReference string    `json:"booking_reference"`
	Phone            string    `json:"phone"`
	Phase            Phase     `json:"phase"`
	Outcome          string    `json:"outcome,omitempty"` // set once Phase is RESOLVED
	FailureReason    string    `json:"failure_reason,omitempty"`
	AttemptCount     int       `json:"attempt_count"`
	StartedAt        time.Time `json:"started_at"`
	FinishedAt       time.Time `json:"finished_at,omitempty"`
}

// SessionEvent is published on every phase transition.
type SessionEvent struct {
	SessionID        string    `json:"session_id"`
	BookingReference string    `json:"booking_reference"`
	Phase            Phase     `json:"phase"`
	PreviousPhase    Phase     `json:"previous_phase"`
	Outcome          string    `json:"outcome,omitempty"`
	Timestamp        time.Time `json:"timestamp"`
}
