// Package platform declares the infrastructure ports shared by use cases.
package platform

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-backoffice-service/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Transactor runs fn as one unit of work. Nested calls join the outer unit.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type EventPublisher interface {
	Publish(ctx context.Context, eventID, eventType, key string, payload interface{}) error
}

type Locker interface {
	AcquireLock(ctx context.Context, key, value string, ttl time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, key, value string) error
}

// Event types written to the back-office topic.
const (
	EventOrderPlaced      = "OrderPlaced"
	EventOrderCompleted   = "OrderCompleted"
	EventOrderCancelled   = "OrderCancelled"
	EventArrivalClosed    = "ArrivalClosed"
	EventDeliveryAdvanced = "DeliveryAdvanced"
	EventStockAdjusted    = "StockAdjusted"
	EventAlertRaised      = "AlertRaised"
	EventPaymentConfirmed = "PaymentConfirmed"
)

// Emit publishes an event once the unit of work is done. Failures are logged, never returned.
func Emit(ctx context.Context, pub EventPublisher, log logger.ZapLogger, eventType, key string, payload interface{}) {
	if pub == nil {
		return
	}
	if err := pub.Publish(ctx, uuid.New().String(), eventType, key, payload); err != nil {
		log.Warn("failed to publish event",
			zap.String("event_type", eventType),
			zap.String("key", key),
			zap.Error(err),
		)
	}
}

// CacheInvalidator drops cached read models after a write.
type CacheInvalidator interface {
	Invalidate(ctx context.Context)
}
