package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/tikiti/ticketing-system/payment-confirm/internal/interfaces"
	"github.com/tikiti/ticketing-system/payment-confirm/internal/metrics"
	"github.com/tikiti/ticketing-system/payment-confirm/internal/status"
)

// PollConfig bounds a single poll run.
type PollConfig struct {
	Interval     time.Duration
	MaxAttempts  int
	MaxWallClock time.Duration // defaults to Interval * MaxAttempts
}

func (c PollConfig) withDefaults() PollConfig {
	if c.Interval <= 0 {
		c.Interval = 5 * time.Second
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 24
	}
	if c.MaxWallClock <= 0 {
		c.MaxWallClock = c.Interval * time.Duration(c.MaxAttempts)
	}
	return c
}

// Poller re-fetches a booking at a fixed interval and classifies its payment
// status until a terminal outcome, Stop, or the attempt/wall-clock budget runs
// out. Polls are sequential: the next tick is not scheduled until the current
// fetch has completed, so at most one fetch is in flight at a time.
//
// A Poller runs once. On a terminal classification it delivers the result and
// stops itself; Stop is for external cancellation and is safe to call
// repeatedly and concurrently. After Stop returns no new delivery begins, and
// the result of a fetch that was already in flight is discarded.
type Poller struct {
	cfg     PollConfig
	fetcher interfaces.BookingFetcher
	logger  *zap.Logger

	mu       sync.Mutex
	stopped  bool
	stopOnce sync.Once
	stopCh   chan struct{}
	done     chan struct{}
}

func NewPoller(cfg PollConfig, fetcher interfaces.BookingFetcher, logger *zap.Logger) *Poller {
	return &Poller{
		cfg:     cfg.withDefaults(),
		fetcher: fetcher,
		logger:  logger,
		stopCh:  make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// Start launches the poll loop in its own goroutine. onResult is invoked from
// that goroutine; a terminal outcome (including the synthetic timeout) is
// delivered exactly once.
func (p *Poller) Start(ctx context.Context, bookingReference string, onResult func(outcome status.Outcome, attempt int)) {
	go p.run(ctx, bookingReference, onResult)
}

func (p *Poller) run(ctx context.Context, bookingReference string, onResult func(status.Outcome, int)) {
	defer close(p.done)

	start := time.Now()
	for attempt := 1; ; attempt++ {
		select {
		case <-p.stopCh:
			return
		case <-ctx.Done():
			return
		case <-time.After(p.cfg.Interval):
		}

		booking, err := p.fetcher.FetchBooking(ctx, bookingReference)
		metrics.PollAttemptsTotal.Inc()

		if err != nil {
			// Transient; the blip still burns one attempt so the overall
			// bound holds.
			metrics.PollFetchErrorsTotal.Inc()
			p.logger.Warn("Booking fetch failed during poll",
				zap.String("booking_reference", bookingReference),
				zap.Int("attempt", attempt),
				zap.Error(err),
			)
		} else {
			outcome := status.Classify(booking.PaymentStatus)
			if outcome == status.OutcomeUnknown {
				p.logger.Warn("Unrecognized payment status",
					zap.String("booking_reference", bookingReference),
					zap.String("payment_status", booking.PaymentStatus),
				)
			}
			if !p.deliver(onResult, outcome, attempt) {
				return
			}
			if outcome.Terminal() {
				return
			}
		}

		if attempt >= p.cfg.MaxAttempts || time.Since(start) >= p.cfg.MaxWallClock {
			p.deliver(onResult, status.OutcomeTimedOut, attempt)
			return
		}
	}
}

// deliver hands the outcome to the callback unless the poller has been
// stopped. The callback runs outside the lock so it may itself call Stop.
func (p *Poller) deliver(onResult func(status.Outcome, int), outcome status.Outcome, attempt int) bool {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return false
	}
	p.mu.Unlock()

	onResult(outcome, attempt)
	return true
}

// Stop cancels the poll run. Idempotent.
func (p *Poller) Stop() {
	p.mu.Lock()
	p.stopped = true
	p.mu.Unlock()

	p.stopOnce.Do(func() { close(p.stopCh) })
}

// Done is closed when the poll loop has exited.
func (p *Poller) Done() <-chan struct{} {
	return p.done
}
