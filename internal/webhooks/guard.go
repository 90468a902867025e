package webhooks

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/adeyemimuse/sproutvest-backend/pkg/enums"
)

// GuardStore is the slice of the Redis client the delivery guard uses.
type GuardStore interface {
	EventGuardKey(processor, eventID string) string
	Get(ctx context.Context, key string) (string, error)
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
}

// DeliveryGuard short-circuits replayed deliveries with a Redis key before
// the engine runs. It is advisory only; the durable gate is the unique
// processed-event row. Callers mark a delivery seen only after it was
// applied, so a crash mid-processing never locks out the provider's retry.
type DeliveryGuard struct {
	store GuardStore
	ttl   time.Duration
}

// NewDeliveryGuard builds a guard that remembers applied deliveries for the TTL.
func NewDeliveryGuard(store GuardStore, ttl time.Duration) (*DeliveryGuard, error) {
	if store == nil {
		return nil, errors.New("guard store is required")
	}
	if ttl <= 0 {
		return nil, errors.New("ttl must be positive")
	}
	return &DeliveryGuard{store: store, ttl: ttl}, nil
}

// Seen reports whether the delivery was already applied.
func (g *DeliveryGuard) Seen(ctx context.Context, processor enums.PaymentProcessor, eventID string) (bool, error) {
	key, err := g.key(processor, eventID)
	if err != nil {
		return false, err
	}
	if _, err := g.store.Get(ctx, key); err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Mark records the delivery as applied for the guard's TTL.
func (g *DeliveryGuard) Mark(ctx context.Context, processor enums.PaymentProcessor, eventID string) error {
	key, err := g.key(processor, eventID)
	if err != nil {
		return err
	}
	_, err = g.store.SetNX(ctx, key, "1", g.ttl)
	return err
}

func (g *DeliveryGuard) key(processor enums.PaymentProcessor, eventID string) (string, error) {
	if !processor.IsValid() {
		return "", errors.New("processor is required")
	}
	if strings.TrimSpace(eventID) == "" {
		return "", errors.New("event id is required")
	}
	return g.store.EventGuardKey(string(processor), eventID), nil
}
