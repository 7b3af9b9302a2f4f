package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port              string
	BookingServiceURL string
	PaymentServiceURL string
	DatabaseURL       string
	RedisURL          string
	KafkaBrokers      string
	NatsURL           string
	JaegerEndpoint    string

	PollInterval    time.Duration
	PollMaxAttempts int
	InitiateTimeout time.Duration
}

func Load() *Config {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	return &Config{
		Port:              getEnv("PORT", "8084"),
		BookingServiceURL: getEnv("BOOKING_SERVICE_URL", "http://localhost:8080"),
		PaymentServiceURL: getEnv("PAYMENT_SERVICE_URL", "http://localhost:8085"),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		RedisURL:          os.Getenv("REDIS_URL"),
		KafkaBrokers:      os.Getenv("KAFKA_BROKERS"),
		NatsURL:           os.Getenv("NATS_URL"),
		JaegerEndpoint:    os.Getenv("JAEGER_ENDPOINT"),
		PollInterval:      getDuration("POLL_INTERVAL", 5*time.Second),
		PollMaxAttempts:   getInt("POLL_MAX_ATTEMPTS", 24),
		InitiateTimeout:   getDuration("INITIATE_TIMEOUT", 30*time.Second),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return fallback
}
