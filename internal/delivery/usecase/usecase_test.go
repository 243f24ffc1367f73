package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/fekuna/omnipos-backoffice-service/internal/apperror"
	"github.com/fekuna/omnipos-backoffice-service/internal/auth"
	"github.com/fekuna/omnipos-backoffice-service/internal/delivery"
	"github.com/fekuna/omnipos-backoffice-service/internal/delivery/dto"
	"github.com/fekuna/omnipos-backoffice-service/internal/memstore"
	"github.com/fekuna/omnipos-backoffice-service/internal/model"
	"github.com/fekuna/omnipos-backoffice-service/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUseCase(t *testing.T) (delivery.UseCase, *memstore.Store) {
	t.Helper()
	s := memstore.New()
	return NewDeliveryUseCase(s.Deliveries(), s.Orders(), s, nil, logger.NewNop()), s
}

func placeOrder(t *testing.T, s *memstore.Store, id string) {
	t.Helper()
	require.NoError(t, s.Orders().Create(context.Background(), &model.Order{
		BaseModel:  model.BaseModel{ID: id, CreatedAt: time.Now()},
		Reference:  "REF-" + id,
		CustomerID: "cust-1",
	}))
}

func createInput(orderID string) *dto.CreateDeliveryInput {
	return &dto.CreateDeliveryInput{
		OrderID: orderID,
		Address: " 1 rue de la Paix ",
		Zipcode: "75002",
		City:    "Paris",
		Country: "FR",
		Price:   decimal.RequireFromString("4.90"),
	}
}

func TestDeliveryLifecycle(t *testing.T) {
	uc, s := newUseCase(t)
	placeOrder(t, s, "o1")

	d, err := uc.CreateDelivery(context.Background(), createInput("o1"))
	require.NoError(t, err)
	assert.Equal(t, model.DeliveryPending, d.State)
	assert.Equal(t, "1 rue de la Paix", d.Address)
	assert.Nil(t, d.DeliveredBy)

	_, err = uc.AdvanceDelivery(context.Background(), d.ID)
	var verr *apperror.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "delivered_by", verr.Field)

	courier := auth.WithStaffID(context.Background(), "staff-1")
	d, err = uc.AdvanceDelivery(courier, d.ID)
	require.NoError(t, err)
	assert.Equal(t, model.DeliveryInTransit, d.State)
	assert.Equal(t, "staff-1", *d.DeliveredBy)
	assert.Nil(t, d.DeliveredAt)

	_, err = uc.UpdateDelivery(context.Background(), &dto.UpdateDeliveryInput{
		ID: d.ID, Address: "2 avenue Foch", City: "Paris", Country: "FR", Zipcode: "75116",
	})
	var serr *apperror.InvalidStateError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, model.DeliveryInTransit, serr.State)

	other := auth.WithStaffID(context.Background(), "staff-2")
	d, err = uc.AdvanceDelivery(other, d.ID)
	require.NoError(t, err)
	assert.Equal(t, model.DeliveryDelivered, d.State)
	assert.Equal(t, "staff-2", *d.DeliveredBy)
	require.NotNil(t, d.DeliveredAt)

	_, err = uc.AdvanceDelivery(other, d.ID)
	require.ErrorAs(t, err, &serr)

	delivered, total, err := uc.ListDeliveries(context.Background(), &dto.DeliveryFilters{DeliveredBy: "staff-2"})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, d.ID, delivered[0].ID)
}

func TestCreateDeliveryValidation(t *testing.T) {
	uc, s := newUseCase(t)
	placeOrder(t, s, "o1")

	var verr *apperror.ValidationError

	_, err := uc.CreateDelivery(context.Background(), createInput("ghost"))
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "order_id", verr.Field)

	in := createInput("o1")
	in.City = " "
	_, err = uc.CreateDelivery(context.Background(), in)
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "city", verr.Field)

	in = createInput("o1")
	in.Price = decimal.RequireFromString("1.999")
	_, err = uc.CreateDelivery(context.Background(), in)
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "price", verr.Field)

	in = createInput("o1")
	in.Price = decimal.NewFromInt(-1)
	_, err = uc.CreateDelivery(context.Background(), in)
	require.ErrorAs(t, err, &verr)

	_, err = uc.CreateDelivery(context.Background(), createInput("o1"))
	require.NoError(t, err)
	_, err = uc.CreateDelivery(context.Background(), createInput("o1"))
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "order_id", verr.Field)
}

func TestUpdateDeliveryPrice(t *testing.T) {
	uc, s := newUseCase(t)
	placeOrder(t, s, "o1")
	d, err := uc.CreateDelivery(context.Background(), createInput("o1"))
	require.NoError(t, err)

	cheaper := decimal.RequireFromString("2.50")
	updated, err := uc.UpdateDelivery(context.Background(), &dto.UpdateDeliveryInput{
		ID: d.ID, Address: "3 quai Voltaire", Zipcode: "75007", City: "Paris", Country: "FR", Price: &cheaper,
	})
	require.NoError(t, err)
	assert.True(t, updated.Price.Equal(cheaper))
	assert.Equal(t, "3 quai Voltaire", updated.Address)

	require.NoError(t, s.Orders().MarkCompleted(context.Background(), "o1", time.Now()))

	free := decimal.Zero
	_, err = uc.UpdateDelivery(context.Background(), &dto.UpdateDeliveryInput{
		ID: d.ID, Address: "3 quai Voltaire", Zipcode: "75007", City: "Paris", Country: "FR", Price: &free,
	})
	var serr *apperror.InvalidStateError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "order", serr.Entity)

	got, err := uc.GetDelivery(context.Background(), d.ID)
	require.NoError(t, err)
	assert.True(t, got.Price.Equal(cheaper))

	_, err = uc.GetDelivery(context.Background(), "ghost")
	assert.True(t, apperror.IsNotFound(err))
}

func TestCreateDeliveryForCompletedOrder(t *testing.T) {
	uc, s := newUseCase(t)
	placeOrder(t, s, "o1")
	require.NoError(t, s.Orders().MarkCompleted(context.Background(), "o1", time.Now()))

	_, err := uc.CreateDelivery(context.Background(), createInput("o1"))
	var serr *apperror.InvalidStateError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "order", serr.Entity)
	assert.Equal(t, "completed", serr.State)

	d, err := s.Deliveries().FindByOrderID(context.Background(), "o1")
	require.NoError(t, err)
	assert.Nil(t, d)
}
