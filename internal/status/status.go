// Package status maps the payment backend's raw status strings onto the
// closed set of outcomes the confirmation flow branches on.
package status

import "strings"

type Outcome string

const (
	OutcomePending   Outcome = "PENDING"
	OutcomeCompleted Outcome = "COMPLETED"
	OutcomeFailed    Outcome = "FAILED"
	OutcomeCancelled Outcome = "CANCELLED"
	OutcomeReversed  Outcome = "REVERSED"
	OutcomeUnknown   Outcome = "UNKNOWN"

	// OutcomeTimedOut is synthesized by the poller when the attempt or
	// wall-clock budget runs out. The backend never reports it.
	OutcomeTimedOut Outcome = "TIMED_OUT"
)

// Classify normalizes a raw payment_status value into an Outcome. Values
// outside the closed set come back as OutcomeUnknown; callers decide what to
// do with those.
func Classify(raw string) Outcome {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "PENDING":
		return OutcomePending
	case "COMPLETED":
		return OutcomeCompleted
	case "FAILED":
		return OutcomeFailed
	case "CANCELLED":
		return OutcomeCancelled
	case "REVERSED":
		return OutcomeReversed
	default:
		return OutcomeUnknown
	}
}

// Terminal reports whether the backend will not move the payment any further.
// OutcomeTimedOut is terminal for the session but is not a backend state.
func (o Outcome) Terminal() bool {
	switch o {
	case OutcomeCompleted, OutcomeFailed, OutcomeCancelled, OutcomeReversed, OutcomeTimedOut:
		return true
	}
	return false
}

// FailureReason returns a user-facing reason for payment-side terminal
// failures, and "" for everything else.
func (o Outcome) FailureReason() string {
	switch o {
	case OutcomeFailed:
		return "payment failed"
	case OutcomeCancelled:
		return "payment was cancelled on the phone"
	case OutcomeReversed:
		return "payment was reversed"
	}
	return ""
}

// Label and Color drive the booking status badge in the UI.

func (o Outcome) Label() string {
	switch o {
	case OutcomePending:
		return "Awaiting payment"
	case OutcomeCompleted:
		return "Paid"
	case OutcomeFailed:
		return "Failed"
	case OutcomeCancelled:
		return "Cancelled"
	case OutcomeReversed:
		return "Reversed"
	case OutcomeTimedOut:
		return "Timed out"
	default:
		return "Unknown"
	}
}

func (o Outcome) Color() string {
	switch o {
	case OutcomeCompleted:
		return "green"
	case OutcomePending:
		return "amber"
	case OutcomeUnknown:
		return "grey"
	default:
		return "red"
	}
}
