package redis

import (
	"context"
	"time"
)

// NotificationLocker defines the claim operations used while a notification is processed.
type NotificationLocker interface {
	AcquireNotificationLock(ctx context.Context, gatewayPaymentID string, ttl time.Duration) (bool, error)
	ReleaseNotificationLock(ctx context.Context, gatewayPaymentID string) error
}

var _ NotificationLocker = (*LockStore)(nil)
