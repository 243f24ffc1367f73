package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/fekuna/omnipos-backoffice-service/internal/apperror"
	"github.com/fekuna/omnipos-backoffice-service/internal/arrival/dto"
	"github.com/fekuna/omnipos-backoffice-service/internal/auth"
	"github.com/fekuna/omnipos-backoffice-service/internal/memstore"
	"github.com/fekuna/omnipos-backoffice-service/internal/model"
	"github.com/fekuna/omnipos-backoffice-service/internal/platform"
	stockdto "github.com/fekuna/omnipos-backoffice-service/internal/stock/dto"
	stockUCPkg "github.com/fekuna/omnipos-backoffice-service/internal/stock/usecase"
	"github.com/fekuna/omnipos-backoffice-service/pkg/cache"
	"github.com/fekuna/omnipos-backoffice-service/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	store *memstore.Store
	uc    *arrivalUseCase
	redis *cache.RedisClient
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	srv := miniredis.RunT(t)
	client, err := cache.NewRedisClient(&cache.Config{Addr: srv.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	s := memstore.New()
	log := logger.NewNop()
	stockUC := stockUCPkg.NewStockUseCase(s.Stock(), s, nil, nil, log)

	var locker platform.Locker = client
	uc := NewArrivalUseCase(s.Arrivals(), stockUC, s, locker, nil, log).(*arrivalUseCase)
	return &fixture{store: s, uc: uc, redis: client}
}

func (f *fixture) product(t *testing.T, id string, stock int) {
	t.Helper()
	require.NoError(t, f.store.Products().Create(context.Background(), &model.Product{
		BaseModel: model.BaseModel{ID: id},
		Name:      id,
		Slug:      id,
		Price:     decimal.NewFromInt(1),
		Stock:     stock,
		IsActive:  true,
	}))
}

func (f *fixture) stockOf(t *testing.T, id string) int {
	t.Helper()
	p, err := f.store.Products().FindByID(context.Background(), id)
	require.NoError(t, err)
	return p.Stock
}

func TestCloseArrivalCreditsStockOnce(t *testing.T) {
	f := newFixture(t)
	f.product(t, "A", 0)
	f.product(t, "B", 3)
	ctx := auth.WithStaffID(context.Background(), "staff-1")

	a, err := f.uc.CreateArrival(ctx)
	require.NoError(t, err)

	_, err = f.uc.AddProduct(ctx, &dto.ArrivalLineInput{ArrivalID: a.ID, ProductID: "A", Quantity: 2})
	require.NoError(t, err)
	_, err = f.uc.AddProduct(ctx, &dto.ArrivalLineInput{ArrivalID: a.ID, ProductID: "A", Quantity: 3})
	require.NoError(t, err)
	got, err := f.uc.AddProduct(ctx, &dto.ArrivalLineInput{ArrivalID: a.ID, ProductID: "B", Quantity: 2})
	require.NoError(t, err)
	require.Len(t, got.Lines, 2)
	assert.Equal(t, 5, got.Lines[0].Quantity)
	assert.Equal(t, 7, got.ProductsCount())

	closed, err := f.uc.CloseArrival(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, closed.IsClosed)
	require.NotNil(t, closed.ClosedAt)

	assert.Equal(t, 5, f.stockOf(t, "A"))
	assert.Equal(t, 5, f.stockOf(t, "B"))

	movements, total, err := f.store.Stock().ListMovements(ctx, &stockdto.MovementFilters{ReferenceID: a.ID})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	for _, m := range movements {
		assert.Equal(t, model.MovementArrival, m.MovementType)
		assert.Equal(t, "staff-1", *m.CreatedBy)
	}

	_, err = f.uc.CloseArrival(ctx, a.ID)
	var serr *apperror.InvalidStateError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "closed", serr.State)
	assert.Equal(t, 5, f.stockOf(t, "A"))

	_, err = f.uc.AddProduct(ctx, &dto.ArrivalLineInput{ArrivalID: a.ID, ProductID: "A", Quantity: 1})
	require.ErrorAs(t, err, &serr)
	require.ErrorAs(t, f.uc.DeleteArrival(ctx, a.ID), &serr)
}

func TestConcurrentClosesCreditOnce(t *testing.T) {
	f := newFixture(t)
	f.product(t, "A", 0)
	ctx := context.Background()

	a, err := f.uc.CreateArrival(ctx)
	require.NoError(t, err)
	_, err = f.uc.SetProductQuantity(ctx, &dto.ArrivalLineInput{ArrivalID: a.ID, ProductID: "A", Quantity: 4})
	require.NoError(t, err)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := f.uc.CloseArrival(ctx, a.ID); err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, 4, f.stockOf(t, "A"))
}

func TestCloseArrivalBusyLock(t *testing.T) {
	f := newFixture(t)
	f.product(t, "A", 0)
	ctx := context.Background()

	a, err := f.uc.CreateArrival(ctx)
	require.NoError(t, err)
	_, err = f.uc.AddProduct(ctx, &dto.ArrivalLineInput{ArrivalID: a.ID, ProductID: "A", Quantity: 1})
	require.NoError(t, err)

	ok, err := f.redis.AcquireLock(ctx, "lock:arrival:"+a.ID, "someone-else", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	_, err = f.uc.CloseArrival(ctx, a.ID)
	assert.True(t, apperror.IsConflict(err))
	assert.ErrorIs(t, err, ErrArrivalBusy)
	assert.Equal(t, 0, f.stockOf(t, "A"))
}

func TestArrivalLineValidation(t *testing.T) {
	f := newFixture(t)
	f.product(t, "A", 0)
	ctx := context.Background()

	a, err := f.uc.CreateArrival(ctx)
	require.NoError(t, err)

	var verr *apperror.ValidationError
	_, err = f.uc.AddProduct(ctx, &dto.ArrivalLineInput{ArrivalID: a.ID, ProductID: "A", Quantity: 0})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "quantity", verr.Field)

	_, err = f.uc.AddProduct(ctx, &dto.ArrivalLineInput{ArrivalID: a.ID, ProductID: "ghost", Quantity: 1})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "product_id", verr.Field)

	_, err = f.uc.RemoveProduct(ctx, a.ID, "A")
	assert.True(t, apperror.IsNotFound(err))

	_, err = f.uc.CloseArrival(ctx, a.ID)
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "lines", verr.Field)

	_, err = f.uc.SetProductQuantity(ctx, &dto.ArrivalLineInput{ArrivalID: a.ID, ProductID: "A", Quantity: 9})
	require.NoError(t, err)
	got, err := f.uc.RemoveProduct(ctx, a.ID, "A")
	require.NoError(t, err)
	assert.Empty(t, got.Lines)

	require.NoError(t, f.uc.DeleteArrival(ctx, a.ID))
	_, err = f.uc.GetArrival(ctx, a.ID)
	assert.True(t, apperror.IsNotFound(err))
}
