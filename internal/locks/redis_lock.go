// Package locks prevents two service instances from pushing the same booking
// at the same time. In a single-instance deployment the no-op locker is
// enough; the controller's own session map already rejects duplicates there.
package locks

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/tikiti/ticketing-system/payment-confirm/internal/telemetry"
)

// Lock TTL covers the longest possible poll run plus slack, so a crashed
// instance cannot wedge a booking forever.
const lockTTL = 5 * time.Minute

type RedisLocker struct {
	client *redis.Client
}

func NewRedisLocker(client *redis.Client) *RedisLocker {
	return &RedisLocker{client: client}
}

func (l *RedisLocker) Acquire(ctx context.Context, bookingReference string) (bool, error) {
	key := fmt.Sprintf("payment_lock:%s", bookingReference)
	ok, err := l.client.SetNX(ctx, key, "1", lockTTL).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire payment lock: %w", err)
	}
	return ok, nil
}

func (l *RedisLocker) Release(ctx context.Context, bookingReference string) {
	key := fmt.Sprintf("payment_lock:%s", bookingReference)
	if err := l.client.Del(ctx, key).Err(); err != nil {
		telemetry.Logger.Warn("Failed to release payment lock",
			zap.String("booking_reference", bookingReference),
			zap.Error(err),
		)
	}
}

// NopLocker always grants the lock.
type NopLocker struct{}

func (NopLocker) Acquire(ctx context.Context, bookingReference string) (bool, error) {
	return true, nil
}

func (NopLocker) Release(ctx context.Context, bookingReference string) {}
