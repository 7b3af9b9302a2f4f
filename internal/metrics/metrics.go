package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	InitiationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "payment_confirm_initiations_total",
		Help: "Push payment initiation requests, by result.",
	}, []string{"result"})

	PollAttemptsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "payment_confirm_poll_attempts_total",
		Help: "Booking status poll cycles issued.",
	})

	PollFetchErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "payment_confirm_poll_fetch_errors_total",
		Help: "Booking fetches that failed during polling.",
	})

	SessionOutcomesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "payment_confirm_session_outcomes_total",
		Help: "Terminal payment session outcomes.",
	}, []string{"outcome"})

	ConfirmationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "payment_confirm_confirmation_seconds",
		Help:    "Time from push initiation to a terminal session phase.",
		Buckets: prometheus.ExponentialBuckets(1, 2, 9),
	})
)
