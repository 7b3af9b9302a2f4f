package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tikiti/ticketing-system/payment-confirm/internal/phone"
	"github.com/tikiti/ticketing-system/payment-confirm/internal/service"
	"github.com/tikiti/ticketing-system/payment-confirm/internal/telemetry"
)

type PaymentHandler struct {
	controller *service.Controller
}

func NewPaymentHandler(controller *service.Controller) *PaymentHandler {
	return &PaymentHandler{controller: controller}
}

type initiateRequest struct {
	PhoneNumber string `json:"phone_number" binding:"required"`
}

// InitiatePayment handles POST /bookings/:reference/payment.
func (h *PaymentHandler) InitiatePayment(c *gin.Context) {
	reference := c.Param("reference")

	var req initiateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "phone_number is required"})
		return
	}

	session, err := h.controller.Initiate(c.Request.Context(), reference, req.PhoneNumber)
	switch {
	case errors.Is(err, phone.ErrInvalidPhone):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "invalid phone number: expected 12 digits starting 25575 or 25571",
		})
		return
	case errors.Is(err, service.ErrAlreadyInFlight):
		c.JSON(http.StatusConflict, gin.H{
			"error":             "a payment is already being processed for this booking",
			"booking_reference": reference,
		})
		return
	case err != nil:
		telemetry.Logger.Error("Payment initiation failed",
			zap.String("booking_reference", reference),
			zap.Error(err),
		)
		c.JSON(http.StatusBadGateway, gin.H{
			"error":             "could not send the payment request, please try again",
			"booking_reference": reference,
		})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"booking_reference": reference,
		"phase":             session.Phase,
		"started_at":        session.StartedAt,
	})
}

// GetPaymentSession handles GET /bookings/:reference/payment.
func (h *PaymentHandler) GetPaymentSession(c *gin.Context) {
	reference := c.Param("reference")

	session, err := h.controller.Session(c.Request.Context(), reference)
	if errors.Is(err, service.ErrNoSession) {
		c.JSON(http.StatusNotFound, gin.H{"error": "no payment session for booking"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch payment session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"booking_reference": session.BookingReference,
		"phase":             session.Phase,
		"outcome":           session.Outcome,
		"failure_reason":    session.FailureReason,
		"attempt_count":     session.AttemptCount,
		"started_at":        session.StartedAt,
	})
}

// CancelPayment handles DELETE /bookings/:reference/payment. Idempotent:
// cancelling a finished or unknown session is still a 200.
func (h *PaymentHandler) CancelPayment(c *gin.Context) {
	reference := c.Param("reference")

	h.controller.Cancel(reference)

	c.JSON(http.StatusOK, gin.H{
		"booking_reference": reference,
		"status":            "cancelled",
	})
}
