package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/fekuna/omnipos-backoffice-service/internal/apperror"
	coupondto "github.com/fekuna/omnipos-backoffice-service/internal/coupon/dto"
	couponUCPkg "github.com/fekuna/omnipos-backoffice-service/internal/coupon/usecase"
	"github.com/fekuna/omnipos-backoffice-service/internal/memstore"
	"github.com/fekuna/omnipos-backoffice-service/internal/model"
	"github.com/fekuna/omnipos-backoffice-service/internal/order"
	orderdto "github.com/fekuna/omnipos-backoffice-service/internal/order/dto"
	orderUCPkg "github.com/fekuna/omnipos-backoffice-service/internal/order/usecase"
	"github.com/fekuna/omnipos-backoffice-service/internal/payment"
	"github.com/fekuna/omnipos-backoffice-service/internal/payment/dto"
	stockUCPkg "github.com/fekuna/omnipos-backoffice-service/internal/stock/usecase"
	"github.com/fekuna/omnipos-backoffice-service/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	store  *memstore.Store
	orders order.UseCase
	uc     payment.UseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	s := memstore.New()
	log := logger.NewNop()
	stockUC := stockUCPkg.NewStockUseCase(s.Stock(), s, nil, nil, log)
	couponUC := couponUCPkg.NewCouponUseCase(s.Coupons(), s, log)
	orderUC := orderUCPkg.NewOrderUseCase(s.Orders(), stockUC, couponUC, s.Deliveries(), s, nil, nil, "CMD", log)

	require.NoError(t, s.Products().Create(context.Background(), &model.Product{
		BaseModel: model.BaseModel{ID: "p1"},
		Name:      "p1",
		Slug:      "p1",
		Price:     decimal.NewFromInt(10),
		Stock:     10,
		IsActive:  true,
	}))
	_, err := couponUC.CreateCoupon(context.Background(), &coupondto.CreateCouponInput{
		Code: "ONCE", Discount: decimal.RequireFromString("0.1"), MaxUsage: 1,
	})
	require.NoError(t, err)

	return &fixture{
		store:  s,
		orders: orderUC,
		uc:     NewPaymentUseCase(s.Payments(), orderUC, s, log),
	}
}

func (f *fixture) place(t *testing.T, reference, couponCode string) *model.Order {
	t.Helper()
	o, err := f.orders.PlaceOrder(context.Background(), &orderdto.PlaceOrderInput{
		Reference:  reference,
		CustomerID: "cust-1",
		CouponCode: couponCode,
		Lines:      []orderdto.OrderLineInput{{ProductID: "p1", Quantity: 1}},
	})
	require.NoError(t, err)
	return o
}

func TestRecordPaymentCompletesOrder(t *testing.T) {
	f := newFixture(t)
	o := f.place(t, "CMD-1", "")
	payedAt := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	p, err := f.uc.RecordPayment(context.Background(), &dto.RecordPaymentInput{
		Reference:      " PAY-1 ",
		OrderReference: "CMD-1",
		Mode:           "Card",
		PayedAt:        &payedAt,
	})
	require.NoError(t, err)
	assert.Equal(t, "PAY-1", p.Reference)
	assert.Equal(t, model.PaymentCard, p.Mode)
	assert.Equal(t, o.ID, p.OrderID)
	assert.True(t, payedAt.Equal(p.PayedAt))

	got, err := f.orders.GetOrder(context.Background(), o.ID)
	require.NoError(t, err)
	assert.True(t, got.Completed)

	byRef, err := f.uc.GetPaymentByReference(context.Background(), "PAY-1")
	require.NoError(t, err)
	assert.Equal(t, p.ID, byRef.ID)

	_, err = f.uc.RecordPayment(context.Background(), &dto.RecordPaymentInput{
		Reference: "PAY-2", OrderID: o.ID, Mode: "cash",
	})
	var serr *apperror.InvalidStateError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "paid", serr.State)

	payments, total, err := f.uc.ListPayments(context.Background(), &dto.PaymentFilters{OrderID: o.ID})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "PAY-1", payments[0].Reference)
}

func TestRecordPaymentValidation(t *testing.T) {
	f := newFixture(t)
	o := f.place(t, "CMD-1", "")

	var verr *apperror.ValidationError
	_, err := f.uc.RecordPayment(context.Background(), &dto.RecordPaymentInput{OrderID: o.ID, Mode: "card"})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "reference", verr.Field)

	_, err = f.uc.RecordPayment(context.Background(), &dto.RecordPaymentInput{Reference: "PAY-1", OrderID: o.ID, Mode: "cheque"})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "mode", verr.Field)

	_, err = f.uc.RecordPayment(context.Background(), &dto.RecordPaymentInput{Reference: "PAY-1", Mode: "card"})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "order_id", verr.Field)

	_, err = f.uc.RecordPayment(context.Background(), &dto.RecordPaymentInput{Reference: "PAY-1", OrderID: "ghost", Mode: "card"})
	assert.True(t, apperror.IsNotFound(err))

	_, err = f.uc.GetPaymentByReference(context.Background(), "PAY-1")
	assert.True(t, apperror.IsNotFound(err), "failed payments are not stored")
}

func TestRecordPaymentRollsBackWhenCouponExhausted(t *testing.T) {
	f := newFixture(t)
	first := f.place(t, "CMD-1", "ONCE")
	second := f.place(t, "CMD-2", "ONCE")

	_, err := f.uc.RecordPayment(context.Background(), &dto.RecordPaymentInput{Reference: "PAY-1", OrderID: first.ID, Mode: "card"})
	require.NoError(t, err)

	_, err = f.uc.RecordPayment(context.Background(), &dto.RecordPaymentInput{Reference: "PAY-2", OrderID: second.ID, Mode: "card"})
	var invalid *apperror.InvalidCouponError
	require.ErrorAs(t, err, &invalid)

	_, err = f.uc.GetPaymentByReference(context.Background(), "PAY-2")
	assert.True(t, apperror.IsNotFound(err))
	got, err := f.orders.GetOrder(context.Background(), second.ID)
	require.NoError(t, err)
	assert.False(t, got.Completed)
}

type countingPayments struct {
	*memstore.PaymentRepository
	creates int
}

func (r *countingPayments) Create(ctx context.Context, p *model.Payment) error {
	r.creates++
	return r.PaymentRepository.Create(ctx, p)
}

func TestRecordPaymentChecksOrderBeforeInsert(t *testing.T) {
	f := newFixture(t)
	repo := &countingPayments{PaymentRepository: f.store.Payments()}
	uc := NewPaymentUseCase(repo, f.orders, f.store, logger.NewNop())

	_, err := uc.RecordPayment(context.Background(), &dto.RecordPaymentInput{Reference: "PAY-1", OrderID: "ghost", Mode: "card"})
	assert.True(t, apperror.IsNotFound(err))
	assert.Zero(t, repo.creates)
}
