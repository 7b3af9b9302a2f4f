package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tikiti/ticketing-system/payment-confirm/internal/interfaces"
	"github.com/tikiti/ticketing-system/payment-confirm/internal/metrics"
	"github.com/tikiti/ticketing-system/payment-confirm/internal/models"
	"github.com/tikiti/ticketing-system/payment-confirm/internal/phone"
	"github.com/tikiti/ticketing-system/payment-confirm/internal/status"
)

// Controller drives a booking's payment attempt from submission to
// resolution: it validates the payer's number, triggers the push prompt,
// starts the status poller and owns every phase transition of the session.
//
// One Controller serves all bookings; each booking reference has at most one
// non-terminal session at a time.
type Controller struct {
	cfg       PollConfig
	fetcher   interfaces.BookingFetcher
	initiator interfaces.PaymentInitiator
	notifier  interfaces.Notifier
	store     interfaces.AttemptStore
	events    interfaces.EventPublisher
	locker    interfaces.InFlightLocker
	logger    *zap.Logger

	mu       sync.Mutex
	sessions map[string]*activeSession
}

type activeSession struct {
	session models.Session
	poller  *Poller
}

func NewController(
	cfg PollConfig,
	fetcher interfaces.BookingFetcher,
	initiator interfaces.PaymentInitiator,
	notifier interfaces.Notifier,
	store interfaces.AttemptStore,
	events interfaces.EventPublisher,
	locker interfaces.InFlightLocker,
	logger *zap.Logger,
) *Controller {
	return &Controller{
		cfg:       cfg.withDefaults(),
		fetcher:   fetcher,
		initiator: initiator,
		notifier:  notifier,
		store:     store,
		events:    events,
		locker:    locker,
		logger:    logger,
		sessions:  make(map[string]*activeSession),
	}
}

// Initiate validates the phone number locally, triggers the push prompt and
// starts polling for the outcome. On success the returned session is in
// AWAITING_CONFIRMATION.
func (c *Controller) Initiate(ctx context.Context, bookingReference, rawPhone string) (*models.Session, error) {
	msisdn, err := phone.Validate(rawPhone)
	if err != nil {
		metrics.InitiationsTotal.WithLabelValues("invalid_phone").Inc()
		return nil, err
	}

	// Claim the booking's session slot before any network call so a second
	// submit cannot race past the duplicate check.
	c.mu.Lock()
	if existing, ok := c.sessions[bookingReference]; ok && !existing.session.Phase.Terminal() {
		c.mu.Unlock()
		metrics.InitiationsTotal.WithLabelValues("duplicate").Inc()
		return nil, ErrAlreadyInFlight
	}
	active := &activeSession{
		session: models.Session{
			ID:               uuid.New().String(),
			BookingReference: bookingReference,
			Phone:            msisdn,
			Phase:            models.PhaseInitiating,
		},
	}
	c.sessions[bookingReference] = active
	c.mu.Unlock()

	acquired, err := c.locker.Acquire(ctx, bookingReference)
	if err != nil {
		// The local session map still guards within this instance; a lock
		// backend outage must not block payments.
		c.logger.Warn("In-flight lock unavailable, proceeding",
			zap.String("booking_reference", bookingReference),
			zap.Error(err),
		)
	} else if !acquired {
		c.dropSession(bookingReference)
		metrics.InitiationsTotal.WithLabelValues("duplicate").Inc()
		return nil, ErrAlreadyInFlight
	}

	if err := c.initiator.InitiatePush(ctx, bookingReference, msisdn); err != nil {
		c.dropSession(bookingReference)
		c.locker.Release(ctx, bookingReference)
		metrics.InitiationsTotal.WithLabelValues("gateway_error").Inc()
		c.logger.Error("Push payment initiation failed",
			zap.String("booking_reference", bookingReference),
			zap.Error(err),
		)
		c.notifier.Notify(ctx, bookingReference, interfaces.LevelError,
			"We could not send the payment request. Please try again.")
		return nil, fmt.Errorf("%w: %v", ErrInitiationFailed, err)
	}

	c.mu.Lock()
	if active.session.Phase.Terminal() {
		// Cancelled while the push acknowledgment was in flight. Terminal
		// phases never regress, so do not start polling.
		snapshot := active.session
		c.mu.Unlock()
		return &snapshot, nil
	}
	active.session.StartedAt = time.Now()
	active.session.AttemptCount = 0
	c.transitionLocked(&active.session, models.PhaseAwaiting)
	poller := NewPoller(c.cfg, c.fetcher, c.logger)
	active.poller = poller
	snapshot := active.session
	c.mu.Unlock()

	if err := c.store.RecordInitiated(ctx, &snapshot); err != nil {
		c.logger.Error("Failed to record payment attempt",
			zap.String("booking_reference", bookingReference),
			zap.Error(err),
		)
	}

	c.notifier.Notify(ctx, bookingReference, interfaces.LevelInfo,
		"Payment request sent. Check your phone and enter your PIN to confirm.")
	metrics.InitiationsTotal.WithLabelValues("accepted").Inc()

	poller.Start(context.Background(), bookingReference, func(outcome status.Outcome, attempt int) {
		c.onPollResult(bookingReference, outcome, attempt)
	})

	return &snapshot, nil
}

// Cancel stops any active poller for the booking and marks the session
// cancelled. Cancelling a terminal or unknown session is a no-op.
func (c *Controller) Cancel(bookingReference string) {
	c.mu.Lock()
	active, ok := c.sessions[bookingReference]
	if !ok || active.session.Phase.Terminal() {
		c.mu.Unlock()
		return
	}
	poller := active.poller
	active.session.FinishedAt = time.Now()
	c.transitionLocked(&active.session, models.PhaseCancelled)
	snapshot := active.session
	c.mu.Unlock()

	if poller != nil {
		// Synchronous: no poll result is delivered once Cancel returns.
		poller.Stop()
	}

	c.finishSession(&snapshot, "cancelled_by_user")
}

// Session returns the booking's current payment session: the live one when a
// poller is active or was recently resolved, otherwise the latest recorded
// attempt.
func (c *Controller) Session(ctx context.Context, bookingReference string) (*models.Session, error) {
	c.mu.Lock()
	if active, ok := c.sessions[bookingReference]; ok {
		snapshot := active.session
		c.mu.Unlock()
		return &snapshot, nil
	}
	c.mu.Unlock()

	recorded, err := c.store.GetLatestByBooking(ctx, bookingReference)
	if err != nil {
		return nil, ErrNoSession
	}
	return recorded, nil
}

// Close cancels every active poller. Called on service shutdown.
func (c *Controller) Close() {
	c.mu.Lock()
	pollers := make([]*Poller, 0, len(c.sessions))
	for _, active := range c.sessions {
		if !active.session.Phase.Terminal() && active.poller != nil {
			pollers = append(pollers, active.poller)
		}
	}
	c.mu.Unlock()

	for _, p := range pollers {
		p.Stop()
	}
}

// onPollResult is invoked from the poll goroutine with each classified
// outcome. The phase re-check makes a late result for an already-terminal
// session a no-op regardless of poller timing.
func (c *Controller) onPollResult(bookingReference string, outcome status.Outcome, attempt int) {
	c.mu.Lock()
	active, ok := c.sessions[bookingReference]
	if !ok || active.session.Phase.Terminal() {
		c.mu.Unlock()
		return
	}

	session := &active.session
	session.AttemptCount = attempt

	switch outcome {
	case status.OutcomePending, status.OutcomeUnknown:
		// Unknown is fail-open: the backend may report statuses this client
		// does not know yet, and abandoning a live payment is worse than
		// waiting out the budget. The poller already logged the raw value.
		c.mu.Unlock()
		return

	case status.OutcomeCompleted:
		session.Outcome = string(outcome)
		session.FinishedAt = time.Now()
		c.transitionLocked(session, models.PhaseResolved)
		snapshot := *session
		c.mu.Unlock()

		c.notifier.Notify(context.Background(), bookingReference, interfaces.LevelSuccess,
			"Payment received. Your tickets are ready.")
		c.finishSession(&snapshot, string(outcome))
		return

	case status.OutcomeFailed, status.OutcomeCancelled, status.OutcomeReversed:
		session.Outcome = string(outcome)
		session.FailureReason = outcome.FailureReason()
		session.FinishedAt = time.Now()
		c.transitionLocked(session, models.PhaseResolved)
		snapshot := *session
		c.mu.Unlock()

		c.notifier.Notify(context.Background(), bookingReference, interfaces.LevelError,
			fmt.Sprintf("Your %s. You can try paying again.", snapshot.FailureReason))
		c.finishSession(&snapshot, string(outcome))
		return

	case status.OutcomeTimedOut:
		session.Outcome = string(outcome)
		session.FinishedAt = time.Now()
		c.transitionLocked(session, models.PhaseTimedOut)
		snapshot := *session
		c.mu.Unlock()

		c.notifier.Notify(context.Background(), bookingReference, interfaces.LevelInfo,
			"We have not received a payment confirmation yet. If you approved the payment, refresh in a moment or contact support.")
		c.finishSession(&snapshot, string(outcome))
		return

	default:
		c.mu.Unlock()
	}
}

func (c *Controller) dropSession(bookingReference string) {
	c.mu.Lock()
	delete(c.sessions, bookingReference)
	c.mu.Unlock()
}

// transitionLocked advances the phase, logs it and publishes the transition
// event. Caller holds c.mu.
func (c *Controller) transitionLocked(session *models.Session, to models.Phase) {
	from := session.Phase
	session.Phase = to

	c.logger.Info("Payment session transition",
		zap.String("booking_reference", session.BookingReference),
		zap.String("from_phase", string(from)),
		zap.String("to_phase", string(to)),
		zap.Int("attempts", session.AttemptCount),
	)

	event := models.SessionEvent{
		SessionID:        session.ID,
		BookingReference: session.BookingReference,
		Phase:            to,
		PreviousPhase:    from,
		Outcome:          session.Outcome,
		Timestamp:        time.Now(),
	}
	go func() {
		if err := c.events.PublishTransition(context.Background(), event); err != nil {
			c.logger.Error("Failed to publish session transition",
				zap.String("booking_reference", event.BookingReference),
				zap.Error(err),
			)
		}
	}()
}

// finishSession records the terminal session, releases the cross-instance
// lock and updates the outcome metrics.
func (c *Controller) finishSession(snapshot *models.Session, outcomeLabel string) {
	ctx := context.Background()

	if err := c.store.RecordTerminal(ctx, snapshot); err != nil {
		c.logger.Error("Failed to record terminal payment attempt",
			zap.String("booking_reference", snapshot.BookingReference),
			zap.Error(err),
		)
	}

	c.locker.Release(ctx, snapshot.BookingReference)

	metrics.SessionOutcomesTotal.WithLabelValues(outcomeLabel).Inc()
	if !snapshot.StartedAt.IsZero() {
		metrics.ConfirmationSeconds.Observe(snapshot.FinishedAt.Sub(snapshot.StartedAt).Seconds())
	}
}
