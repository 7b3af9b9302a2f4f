package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/tikiti/ticketing-system/payment-confirm/internal/models"
	"github.com/tikiti/ticketing-system/payment-confirm/internal/status"
)

// fakeBookingFetcher serves a scripted sequence of payment statuses, one per
// call; the last entry repeats. Individual calls can be failed or gated.
type fakeBookingFetcher struct {
	mu       sync.Mutex
	statuses []string
	errAt    map[int]error // 1-based call number -> error
	calls    int

	enterCh chan struct{} // if set, signaled when a fetch begins
	blockCh chan struct{} // if set, fetches wait here before returning
}

func (f *fakeBookingFetcher) FetchBooking(ctx context.Context, reference string) (*models.Booking, error) {
	f.mu.Lock()
	f.calls++
	n := f.calls
	f.mu.Unlock()

	if f.enterCh != nil {
		f.enterCh <- struct{}{}
	}
	if f.blockCh != nil {
		<-f.blockCh
	}

	if err := f.errAt[n]; err != nil {
		return nil, err
	}

	idx := n - 1
	if idx >= len(f.statuses) {
		idx = len(f.statuses) - 1
	}
	return &models.Booking{
		Reference:     reference,
		Name:          "Asha Mrema",
		Amount:        "25000.00",
		Currency:      "TZS",
		PaymentStatus: f.statuses[idx],
	}, nil
}

func (f *fakeBookingFetcher) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type resultCollector struct {
	mu       sync.Mutex
	outcomes []status.Outcome
	attempts []int
}

func (r *resultCollector) collect(outcome status.Outcome, attempt int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes = append(r.outcomes, outcome)
	r.attempts = append(r.attempts, attempt)
}

func (r *resultCollector) Outcomes() []status.Outcome {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]status.Outcome(nil), r.outcomes...)
}

func (r *resultCollector) Count(outcome status.Outcome) int {
	n := 0
	for _, o := range r.Outcomes() {
		if o == outcome {
			n++
		}
	}
	return n
}

// fastConfig pins MaxWallClock high so slow test machines cannot trip the
// wall-clock bound before the attempt bound under scrutiny.
func fastConfig(maxAttempts int) PollConfig {
	return PollConfig{
		Interval:     time.Millisecond,
		MaxAttempts:  maxAttempts,
		MaxWallClock: time.Hour,
	}
}

func waitDone(t *testing.T, p *Poller) {
	t.Helper()
	select {
	case <-p.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("poller did not finish in time")
	}
}

func TestPoller_StopsExactlyAtCompletion(t *testing.T) {
	fetcher := &fakeBookingFetcher{statuses: []string{"PENDING", "PENDING", "COMPLETED"}}
	collector := &resultCollector{}

	p := NewPoller(fastConfig(24), fetcher, zap.NewNop())
	p.Start(context.Background(), "BK123", collector.collect)
	waitDone(t, p)

	assert.Equal(t, 3, fetcher.Calls())
	assert.Equal(t, []status.Outcome{
		status.OutcomePending,
		status.OutcomePending,
		status.OutcomeCompleted,
	}, collector.Outcomes())
	assert.Equal(t, 1, collector.Count(status.OutcomeCompleted))
}

func TestPoller_FailureOnFirstPollStopsImmediately(t *testing.T) {
	fetcher := &fakeBookingFetcher{statuses: []string{"FAILED"}}
	collector := &resultCollector{}

	p := NewPoller(fastConfig(24), fetcher, zap.NewNop())
	p.Start(context.Background(), "BK456", collector.collect)
	waitDone(t, p)

	assert.Equal(t, 1, fetcher.Calls())
	assert.Equal(t, []status.Outcome{status.OutcomeFailed}, collector.Outcomes())
}

func TestPoller_TimesOutAfterMaxAttempts(t *testing.T) {
	fetcher := &fakeBookingFetcher{statuses: []string{"PENDING"}}
	collector := &resultCollector{}

	p := NewPoller(fastConfig(5), fetcher, zap.NewNop())
	p.Start(context.Background(), "BK789", collector.collect)
	waitDone(t, p)

	// Exactly maxAttempts fetches, then one synthetic timeout. No attempt 6.
	assert.Equal(t, 5, fetcher.Calls())
	assert.Equal(t, 5, collector.Count(status.OutcomePending))
	assert.Equal(t, 1, collector.Count(status.OutcomeTimedOut))

	outcomes := collector.Outcomes()
	assert.Equal(t, status.OutcomeTimedOut, outcomes[len(outcomes)-1])
}

func TestPoller_FetchErrorsDoNotStopTheLoop(t *testing.T) {
	fetcher := &fakeBookingFetcher{
		statuses: []string{"PENDING", "COMPLETED"},
		errAt:    map[int]error{1: errors.New("connection reset")},
	}
	collector := &resultCollector{}

	p := NewPoller(fastConfig(24), fetcher, zap.NewNop())
	p.Start(context.Background(), "BK123", collector.collect)
	waitDone(t, p)

	// The failed cycle delivers nothing but still burns one attempt.
	assert.Equal(t, 2, fetcher.Calls())
	assert.Equal(t, []status.Outcome{status.OutcomeCompleted}, collector.Outcomes())
}

func TestPoller_FetchErrorsCountTowardTheBudget(t *testing.T) {
	fetcher := &fakeBookingFetcher{
		statuses: []string{"PENDING"},
		errAt: map[int]error{
			1: errors.New("timeout"),
			2: errors.New("timeout"),
			3: errors.New("timeout"),
		},
	}
	collector := &resultCollector{}

	p := NewPoller(fastConfig(3), fetcher, zap.NewNop())
	p.Start(context.Background(), "BK123", collector.collect)
	waitDone(t, p)

	assert.Equal(t, 3, fetcher.Calls())
	assert.Equal(t, []status.Outcome{status.OutcomeTimedOut}, collector.Outcomes())
}

func TestPoller_UnknownStatusKeepsPolling(t *testing.T) {
	fetcher := &fakeBookingFetcher{statuses: []string{"AWAITING_SETTLEMENT", "COMPLETED"}}
	collector := &resultCollector{}

	p := NewPoller(fastConfig(24), fetcher, zap.NewNop())
	p.Start(context.Background(), "BK123", collector.collect)
	waitDone(t, p)

	assert.Equal(t, []status.Outcome{status.OutcomeUnknown, status.OutcomeCompleted}, collector.Outcomes())
}

func TestPoller_WallClockBudget(t *testing.T) {
	fetcher := &fakeBookingFetcher{statuses: []string{"PENDING"}}
	collector := &resultCollector{}

	cfg := PollConfig{
		Interval:     time.Millisecond,
		MaxAttempts:  1000,
		MaxWallClock: time.Nanosecond,
	}
	p := NewPoller(cfg, fetcher, zap.NewNop())
	p.Start(context.Background(), "BK123", collector.collect)
	waitDone(t, p)

	assert.Equal(t, 1, fetcher.Calls())
	assert.Equal(t, []status.Outcome{status.OutcomePending, status.OutcomeTimedOut}, collector.Outcomes())
}

func TestPoller_StopIsIdempotent(t *testing.T) {
	fetcher := &fakeBookingFetcher{statuses: []string{"PENDING"}}
	collector := &resultCollector{}

	p := NewPoller(fastConfig(1000), fetcher, zap.NewNop())
	p.Start(context.Background(), "BK123", collector.collect)

	p.Stop()
	p.Stop()
	p.Stop()
	waitDone(t, p)
}

func TestPoller_InFlightFetchDiscardedAfterStop(t *testing.T) {
	fetcher := &fakeBookingFetcher{
		statuses: []string{"COMPLETED"},
		enterCh:  make(chan struct{}, 1),
		blockCh:  make(chan struct{}),
	}
	collector := &resultCollector{}

	p := NewPoller(fastConfig(24), fetcher, zap.NewNop())
	p.Start(context.Background(), "BK123", collector.collect)

	// Wait until the first fetch is in flight, stop, then let it resolve.
	<-fetcher.enterCh
	p.Stop()
	close(fetcher.blockCh)
	waitDone(t, p)

	assert.Empty(t, collector.Outcomes())
}
