package redis

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

// Lock serializes deposit attempts per order so a double-clicked checkout
// button can't charge twice. Locks expire on their own if a holder dies
// mid-payment.
type Lock struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewLock(client *redis.Client, ttl time.Duration) *Lock {
	if ttl <= 0 {
		ttl = 2 * time.Minute
	}
	return &Lock{Client: client, TTL: ttl}
}

func key(orderID string) string {
	return "deposit_lock:" + orderID
}

// Acquire takes the lock for one order, storing the payment id as the owner.
func (l *Lock) Acquire(orderID, paymentID string) (bool, error) {
	return l.Client.SetNX(context.Background(), key(orderID), paymentID, l.TTL).Result()
}

// Release frees the lock, but only if this payment still owns it.
func (l *Lock) Release(orderID, paymentID string) error {
	ctx := context.Background()
	val, err := l.Client.Get(ctx, key(orderID)).Result()
	if err == redis.Nil {
		return nil // already released or expired
	}
	if err != nil {
		return err
	}
	if val == paymentID {
		_, err := l.Client.Del(ctx, key(orderID)).Result()
		return err
	}
	return nil
}
