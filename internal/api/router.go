package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tikiti/ticketing-system/payment-confirm/internal/handlers"
	"github.com/tikiti/ticketing-system/payment-confirm/internal/service"
	"github.com/tikiti/ticketing-system/payment-confirm/internal/telemetry"
)

func NewRouter(controller *service.Controller) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(telemetry.TracingMiddleware())

	// Prometheus metrics
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "payment-confirm"})
	})

	// Payment confirmation routes
	paymentHandler := handlers.NewPaymentHandler(controller)
	r.POST("/bookings/:reference/payment", paymentHandler.InitiatePayment)
	r.GET("/bookings/:reference/payment", paymentHandler.GetPaymentSession)
	r.DELETE("/bookings/:reference/payment", paymentHandler.CancelPayment)

	return r
}
