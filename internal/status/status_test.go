package status

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected Outcome
	}{
		{name: "pending", raw: "PENDING", expected: OutcomePending},
		{name: "completed", raw: "COMPLETED", expected: OutcomeCompleted},
		{name: "failed", raw: "FAILED", expected: OutcomeFailed},
		{name: "cancelled", raw: "CANCELLED", expected: OutcomeCancelled},
		{name: "reversed", raw: "REVERSED", expected: OutcomeReversed},
		{name: "lowercase", raw: "completed", expected: OutcomeCompleted},
		{name: "mixed case", raw: "Pending", expected: OutcomePending},
		{name: "surrounding whitespace", raw: "  FAILED  ", expected: OutcomeFailed},
		{name: "empty", raw: "", expected: OutcomeUnknown},
		{name: "unrecognized value", raw: "PROCESSING", expected: OutcomeUnknown},
		{name: "garbage", raw: "??!", expected: OutcomeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Classify(tt.raw))
		})
	}
}

func TestOutcomeTerminal(t *testing.T) {
	assert.False(t, OutcomePending.Terminal())
	assert.False(t, OutcomeUnknown.Terminal())

	assert.True(t, OutcomeCompleted.Terminal())
	assert.True(t, OutcomeFailed.Terminal())
	assert.True(t, OutcomeCancelled.Terminal())
	assert.True(t, OutcomeReversed.Terminal())
	assert.True(t, OutcomeTimedOut.Terminal())
}

func TestFailureReason(t *testing.T) {
	assert.NotEmpty(t, OutcomeFailed.FailureReason())
	assert.NotEmpty(t, OutcomeCancelled.FailureReason())
	assert.NotEmpty(t, OutcomeReversed.FailureReason())

	assert.Empty(t, OutcomePending.FailureReason())
	assert.Empty(t, OutcomeCompleted.FailureReason())
	assert.Empty(t, OutcomeTimedOut.FailureReason())
}

func TestPresentation(t *testing.T) {
	assert.Equal(t, "Paid", OutcomeCompleted.Label())
	assert.Equal(t, "green", OutcomeCompleted.Color())
	assert.Equal(t, "amber", OutcomePending.Color())
	assert.Equal(t, "grey", OutcomeUnknown.Color())
	assert.Equal(t, "red", OutcomeReversed.Color())
}
