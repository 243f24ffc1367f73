package listener

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fekuna/omnipos-backoffice-service/internal/alert"
	alertdto "github.com/fekuna/omnipos-backoffice-service/internal/alert/dto"
	"github.com/fekuna/omnipos-backoffice-service/internal/payment"
	"github.com/fekuna/omnipos-backoffice-service/internal/payment/dto"
	"github.com/fekuna/omnipos-backoffice-service/internal/platform"
	"github.com/fekuna/omnipos-backoffice-service/pkg/broker"
	"github.com/fekuna/omnipos-backoffice-service/pkg/logger"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const AlertTypePayment = "payment"

// MessageReader is satisfied by *broker.KafkaConsumer.
type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

type PaymentListener struct {
	consumer MessageReader
	payments payment.UseCase
	alerts   alert.UseCase
	logger   logger.ZapLogger
	backoff  time.Duration
}

func NewPaymentListener(consumer MessageReader, payments payment.UseCase, alerts alert.UseCase, logger logger.ZapLogger) *PaymentListener {
	return &PaymentListener{
		consumer: consumer,
		payments: payments,
		alerts:   alerts,
		logger:   logger,
		backoff:  time.Second,
	}
}

func (l *PaymentListener) Start(ctx context.Context) {
	l.logger.Info("Starting Payment Kafka Listener")
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("Stopping Payment Kafka Listener")
			return
		default:
			msg, err := l.consumer.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				l.logger.Error("Failed to read kafka message", zap.Error(err))
				time.Sleep(l.backoff)
				continue
			}
			l.processMessage(ctx, msg.Value)
		}
	}
}

type PaymentConfirmedPayload struct {
	Reference      string     `json:"reference"`
	OrderID        string     `json:"order_id"`
	OrderReference string     `json:"order_reference"`
	Mode           string     `json:"mode"`
	Details        string     `json:"details"`
	PayedAt        *time.Time `json:"payed_at"`
}

func (l *PaymentListener) processMessage(ctx context.Context, value []byte) {
	var event broker.Event
	if err := json.Unmarshal(value, &event); err != nil {
		l.logger.Error("Failed to unmarshal event", zap.Error(err))
		return
	}

	if event.EventType != platform.EventPaymentConfirmed {
		return
	}

	var p PaymentConfirmedPayload
	if err := json.Unmarshal(event.Payload, &p); err != nil {
		l.raise(ctx, fmt.Sprintf("event %s: malformed payload: %v", event.EventID, err))
		return
	}

	l.logger.Info("Processing PaymentConfirmed event",
		zap.String("reference", p.Reference),
		zap.String("order_id", p.OrderID),
		zap.String("order_reference", p.OrderReference),
	)

	// Redelivered events find their payment already stored.
	if existing, err := l.payments.GetPaymentByReference(ctx, p.Reference); err == nil && existing != nil {
		l.logger.Debug("payment already recorded", zap.String("reference", p.Reference))
		return
	}

	_, err := l.payments.RecordPayment(ctx, &dto.RecordPaymentInput{
		Reference:      p.Reference,
		OrderID:        p.OrderID,
		OrderReference: p.OrderReference,
		Mode:           p.Mode,
		Details:        p.Details,
		PayedAt:        p.PayedAt,
	})
	if err != nil {
		l.logger.Error("Failed to record payment",
			zap.String("reference", p.Reference),
			zap.Error(err),
		)
		l.raise(ctx, fmt.Sprintf("payment %s for order %s: %v", p.Reference, orderKey(&p), err))
	}
}

func (l *PaymentListener) raise(ctx context.Context, details string) {
	if _, err := l.alerts.CreateAlert(ctx, &alertdto.CreateAlertInput{
		Type:    AlertTypePayment,
		Details: details,
		UserID:  "system",
	}); err != nil {
		l.logger.Error("Failed to raise payment alert", zap.String("details", details), zap.Error(err))
	}
}

func orderKey(p *PaymentConfirmedPayload) string {
	if p.OrderID != "" {
		return p.OrderID
	}
	return p.OrderReference
}
