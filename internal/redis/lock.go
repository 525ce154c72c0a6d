package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// NotificationLockTTL bounds how long a delivery may hold the claim on a gateway payment id.
const NotificationLockTTL = 30 * time.Second

// LockStore handles short-lived claims in Redis.
type LockStore struct {
	client *redis.Client
}

// NewLockStore creates a new LockStore.
func NewLockStore(client *redis.Client) *LockStore {
	return &LockStore{client: client}
}

func notificationLockKey(gatewayPaymentID string) string {
	return fmt.Sprintf("lock:itn:%s", gatewayPaymentID)
}

// AcquireNotificationLock claims the given gateway payment id for the calling delivery.
// Returns true if the claim was taken, false if another delivery holds it.
func (s *LockStore) AcquireNotificationLock(ctx context.Context, gatewayPaymentID string, ttl time.Duration) (bool, error) {
	ok, err := s.client.SetNX(ctx, notificationLockKey(gatewayPaymentID), "1", ttl).Result()
	if err != nil {
		return false, err
	}

	return ok, nil
}

// ReleaseNotificationLock drops the claim on the given gateway payment id.
func (s *LockStore) ReleaseNotificationLock(ctx context.Context, gatewayPaymentID string) error {
	return s.client.Del(ctx, notificationLockKey(gatewayPaymentID)).Err()
}
