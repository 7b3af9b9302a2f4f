package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/tikiti/ticketing-system/payment-confirm/internal/api"
	"github.com/tikiti/ticketing-system/payment-confirm/internal/clients"
	"github.com/tikiti/ticketing-system/payment-confirm/internal/config"
	"github.com/tikiti/ticketing-system/payment-confirm/internal/events"
	"github.com/tikiti/ticketing-system/payment-confirm/internal/interfaces"
	"github.com/tikiti/ticketing-system/payment-confirm/internal/locks"
	"github.com/tikiti/ticketing-system/payment-confirm/internal/notify"
	"github.com/tikiti/ticketing-system/payment-confirm/internal/repository"
	"github.com/tikiti/ticketing-system/payment-confirm/internal/service"
	"github.com/tikiti/ticketing-system/payment-confirm/internal/telemetry"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize telemetry
	if err := telemetry.Init("payment-confirm"); err != nil {
		panic(fmt.Sprintf("Failed to initialize telemetry: %v", err))
	}
	defer telemetry.Shutdown(context.Background())

	telemetry.Logger.Info("Starting payment confirmation service")

	// Attempt audit trail: PostgreSQL when configured, in-memory otherwise
	var store interfaces.AttemptStore = repository.NewInMemoryAttemptStore()
	if cfg.DatabaseURL != "" {
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			telemetry.Logger.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer db.Close()

		repo := repository.NewAttemptRepository(db)
		if err := repo.InitDB(); err != nil {
			telemetry.Logger.Fatal("Failed to initialize database", zap.Error(err))
		}
		store = repo
	}

	// Cross-instance in-flight lock via Redis when configured
	var locker interfaces.InFlightLocker = locks.NopLocker{}
	if cfg.RedisURL != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr: cfg.RedisURL,
		})
		locker = locks.NewRedisLocker(redisClient)
	}

	// Session transition events to Kafka when configured
	var publisher interfaces.EventPublisher = events.NopPublisher{}
	if cfg.KafkaBrokers != "" {
		kafkaPublisher := events.NewKafkaPublisher(cfg.KafkaBrokers)
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
	}

	// UI notifications over NATS when configured, log otherwise
	var notifier interfaces.Notifier = notify.NewLogNotifier(telemetry.Logger)
	if cfg.NatsURL != "" {
		nc, err := nats.Connect(cfg.NatsURL)
		if err != nil {
			telemetry.Logger.Fatal("Failed to connect to NATS", zap.Error(err))
		}
		defer nc.Close()
		notifier = notify.NewNatsNotifier(nc, telemetry.Logger)
	}

	// Collaborator clients
	bookingClient := clients.NewBookingClient(cfg.BookingServiceURL)
	paymentClient := clients.NewPaymentClient(cfg.PaymentServiceURL, cfg.InitiateTimeout)

	// Payment session controller
	controller := service.NewController(
		service.PollConfig{
			Interval:    cfg.PollInterval,
			MaxAttempts: cfg.PollMaxAttempts,
		},
		bookingClient,
		paymentClient,
		notifier,
		store,
		publisher,
		locker,
		telemetry.Logger,
	)
	defer controller.Close()

	// Setup HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: api.NewRouter(controller),
	}

	// Start server in goroutine
	go func() {
		telemetry.Logger.Info("Payment confirmation service starting", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			telemetry.Logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	telemetry.Logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		telemetry.Logger.Error("Server forced to shutdown", zap.Error(err))
	}

	telemetry.Logger.Info("Server exited")
}
