package listener

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/fekuna/omnipos-backoffice-service/internal/alert"
	alertdto "github.com/fekuna/omnipos-backoffice-service/internal/alert/dto"
	"github.com/fekuna/omnipos-backoffice-service/internal/apperror"
	"github.com/fekuna/omnipos-backoffice-service/internal/model"
	"github.com/fekuna/omnipos-backoffice-service/internal/payment/dto"
	"github.com/fekuna/omnipos-backoffice-service/internal/platform"
	"github.com/fekuna/omnipos-backoffice-service/pkg/broker"
	"github.com/fekuna/omnipos-backoffice-service/pkg/logger"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeReader serves queued messages, then cancels the listener.
type fakeReader struct {
	mu       sync.Mutex
	messages []kafka.Message
	failOnce bool
	cancel   context.CancelFunc
}

func (r *fakeReader) ReadMessage(ctx context.Context) (kafka.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failOnce {
		r.failOnce = false
		return kafka.Message{}, errors.New("broker unavailable")
	}
	if len(r.messages) == 0 {
		r.cancel()
		return kafka.Message{}, ctx.Err()
	}
	msg := r.messages[0]
	r.messages = r.messages[1:]
	return msg, nil
}

type fakePayments struct {
	recorded []dto.RecordPaymentInput
	known    map[string]bool
	err      error
}

func (f *fakePayments) RecordPayment(ctx context.Context, input *dto.RecordPaymentInput) (*model.Payment, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.recorded = append(f.recorded, *input)
	f.known[input.Reference] = true
	return &model.Payment{ID: "pay-" + input.Reference, Reference: input.Reference}, nil
}

func (f *fakePayments) GetPayment(ctx context.Context, id string) (*model.Payment, error) {
	return nil, apperror.NotFound("payment", id)
}

func (f *fakePayments) GetPaymentByReference(ctx context.Context, reference string) (*model.Payment, error) {
	if f.known[reference] {
		return &model.Payment{Reference: reference}, nil
	}
	return nil, apperror.NotFound("payment", reference)
}

func (f *fakePayments) ListPayments(ctx context.Context, filters *dto.PaymentFilters) ([]model.Payment, int, error) {
	return nil, 0, nil
}

type fakeAlerts struct {
	alert.UseCase
	raised []alertdto.CreateAlertInput
}

func (f *fakeAlerts) CreateAlert(ctx context.Context, input *alertdto.CreateAlertInput) (*model.Alert, error) {
	f.raised = append(f.raised, *input)
	return &model.Alert{Type: input.Type, Details: input.Details}, nil
}

func eventMessage(t *testing.T, eventType string, payload interface{}) kafka.Message {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	value, err := json.Marshal(broker.Event{EventID: "evt-1", EventType: eventType, Payload: body, Timestamp: time.Now()})
	require.NoError(t, err)
	return kafka.Message{Value: value}
}

func run(t *testing.T, reader *fakeReader, payments *fakePayments, alerts *fakeAlerts) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	reader.cancel = cancel

	l := NewPaymentListener(reader, payments, alerts, logger.NewNop())
	l.backoff = time.Millisecond

	done := make(chan struct{})
	go func() {
		l.Start(ctx)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("listener did not stop")
	}
}

func TestListenerRecordsConfirmedPayments(t *testing.T) {
	payments := &fakePayments{known: map[string]bool{}}
	alerts := &fakeAlerts{}
	reader := &fakeReader{
		failOnce: true,
		messages: []kafka.Message{
			eventMessage(t, platform.EventPaymentConfirmed, PaymentConfirmedPayload{
				Reference: "PAY-1", OrderReference: "CMD-1", Mode: "card",
			}),
			eventMessage(t, platform.EventOrderPlaced, map[string]string{"id": "o1"}),
			// Redelivery of the first event.
			eventMessage(t, platform.EventPaymentConfirmed, PaymentConfirmedPayload{
				Reference: "PAY-1", OrderReference: "CMD-1", Mode: "card",
			}),
			{Value: []byte("not json")},
		},
	}

	run(t, reader, payments, alerts)

	require.Len(t, payments.recorded, 1)
	assert.Equal(t, "PAY-1", payments.recorded[0].Reference)
	assert.Equal(t, "CMD-1", payments.recorded[0].OrderReference)
	assert.Empty(t, alerts.raised)
}

func TestListenerRaisesAlertOnFailure(t *testing.T) {
	payments := &fakePayments{known: map[string]bool{}, err: apperror.NotFound("order", "CMD-404")}
	alerts := &fakeAlerts{}
	reader := &fakeReader{
		messages: []kafka.Message{
			eventMessage(t, platform.EventPaymentConfirmed, PaymentConfirmedPayload{
				Reference: "PAY-9", OrderReference: "CMD-404", Mode: "card",
			}),
			eventMessage(t, platform.EventPaymentConfirmed, "not an object"),
		},
	}

	run(t, reader, payments, alerts)

	require.Len(t, alerts.raised, 2)
	assert.Equal(t, AlertTypePayment, alerts.raised[0].Type)
	assert.Equal(t, "system", alerts.raised[0].UserID)
	assert.Contains(t, alerts.raised[0].Details, "PAY-9")
	assert.Contains(t, alerts.raised[0].Details, "CMD-404")
	assert.Contains(t, alerts.raised[1].Details, "malformed payload")
}
