package service

import "errors"

var (
	// ErrAlreadyInFlight means a non-terminal payment session already exists
	// for the booking; the new push request is rejected, not queued.
	ErrAlreadyInFlight = errors.New("service: a payment is already in flight for this booking")

	// ErrInitiationFailed means the push gateway could not be reached or
	// rejected the request. The session returns to idle and the user may
	// resubmit.
	ErrInitiationFailed = errors.New("service: could not send the payment request")

	// ErrNoSession means no payment attempt, live or recorded, exists for
	// the booking.
	ErrNoSession = errors.New("service: no payment session for this booking")
)
