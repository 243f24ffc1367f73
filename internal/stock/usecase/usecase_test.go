package usecase

import (
	"context"
	"sync"
	"testing"

	"github.com/fekuna/omnipos-backoffice-service/internal/apperror"
	"github.com/fekuna/omnipos-backoffice-service/internal/auth"
	"github.com/fekuna/omnipos-backoffice-service/internal/memstore"
	"github.com/fekuna/omnipos-backoffice-service/internal/model"
	"github.com/fekuna/omnipos-backoffice-service/internal/stock/dto"
	"github.com/fekuna/omnipos-backoffice-service/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []string
}

func (p *recordingPublisher) Publish(ctx context.Context, eventID, eventType, key string, payload interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, eventType+":"+key)
	return nil
}

func seed(t *testing.T, s *memstore.Store, id string, stock int) {
	t.Helper()
	require.NoError(t, s.Products().Create(context.Background(), &model.Product{
		BaseModel: model.BaseModel{ID: id},
		Name:      id,
		Slug:      id,
		Price:     decimal.NewFromInt(10),
		Stock:     stock,
		IsActive:  true,
	}))
}

func stockOf(t *testing.T, s *memstore.Store, id string) int {
	t.Helper()
	p, err := s.Products().FindByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p.Stock
}

func TestApplyChangesIsAllOrNothing(t *testing.T) {
	s := memstore.New()
	seed(t, s, "a", 5)
	seed(t, s, "b", 1)
	uc := NewStockUseCase(s.Stock(), s, nil, nil, logger.NewNop())

	_, err := uc.ApplyChanges(context.Background(), &dto.ApplyChangesInput{
		Changes:      []dto.StockChange{{ProductID: "a", Delta: -2}, {ProductID: "b", Delta: -3}},
		MovementType: model.MovementSale,
	})

	var insufficient *apperror.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, "b", insufficient.ProductID)
	assert.Equal(t, 3, insufficient.Requested)
	assert.Equal(t, 1, insufficient.Available)

	assert.Equal(t, 5, stockOf(t, s, "a"))
	assert.Equal(t, 1, stockOf(t, s, "b"))

	movements, total, err := uc.ListMovements(context.Background(), &dto.MovementFilters{})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, movements)
}

func TestApplyChangesLogsOneMovementPerProduct(t *testing.T) {
	s := memstore.New()
	seed(t, s, "a", 5)
	seed(t, s, "b", 0)
	uc := NewStockUseCase(s.Stock(), s, nil, nil, logger.NewNop())

	movements, err := uc.ApplyChanges(context.Background(), &dto.ApplyChangesInput{
		Changes: []dto.StockChange{
			{ProductID: "b", Delta: 2},
			{ProductID: "a", Delta: 1},
			{ProductID: "a", Delta: 4},
		},
		MovementType:  model.MovementArrival,
		ReferenceType: "arrival",
		ReferenceID:   "arr-1",
	})
	require.NoError(t, err)
	require.Len(t, movements, 2)

	assert.Equal(t, "a", movements[0].ProductID)
	assert.Equal(t, 5, movements[0].QuantityChange)
	assert.Equal(t, 5, movements[0].QuantityBefore)
	assert.Equal(t, 10, movements[0].QuantityAfter)
	assert.Equal(t, "arr-1", *movements[0].ReferenceID)

	assert.Equal(t, "b", movements[1].ProductID)
	assert.Equal(t, 2, movements[1].QuantityAfter)

	assert.Equal(t, 10, stockOf(t, s, "a"))
	assert.Equal(t, 2, stockOf(t, s, "b"))
}

func TestApplyChangesUnknownProduct(t *testing.T) {
	s := memstore.New()
	uc := NewStockUseCase(s.Stock(), s, nil, nil, logger.NewNop())

	_, err := uc.ApplyChanges(context.Background(), &dto.ApplyChangesInput{
		Changes: []dto.StockChange{{ProductID: "ghost", Delta: 1}},
	})
	assert.True(t, apperror.IsNotFound(err))
}

func TestAdjustStockRecordsActingStaff(t *testing.T) {
	s := memstore.New()
	seed(t, s, "a", 4)
	pub := &recordingPublisher{}
	uc := NewStockUseCase(s.Stock(), s, nil, pub, logger.NewNop())

	ctx := auth.WithStaffID(context.Background(), "staff-7")
	m, err := uc.AdjustStock(ctx, &dto.AdjustStockInput{ProductID: "a", QuantityChange: -4, Reason: "damaged"})
	require.NoError(t, err)

	assert.Equal(t, model.MovementAdjustment, m.MovementType)
	assert.Equal(t, 0, m.QuantityAfter)
	require.NotNil(t, m.CreatedBy)
	assert.Equal(t, "staff-7", *m.CreatedBy)
	assert.Equal(t, "damaged", m.Notes)
	assert.Equal(t, []string{"StockAdjusted:a"}, pub.events)

	_, err = uc.AdjustStock(ctx, &dto.AdjustStockInput{ProductID: "a", QuantityChange: -1})
	var insufficient *apperror.InsufficientStockError
	assert.ErrorAs(t, err, &insufficient)
}

func TestAdjustStockValidation(t *testing.T) {
	s := memstore.New()
	uc := NewStockUseCase(s.Stock(), s, nil, nil, logger.NewNop())

	var verr *apperror.ValidationError
	_, err := uc.AdjustStock(context.Background(), &dto.AdjustStockInput{QuantityChange: 1})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "product_id", verr.Field)

	_, err = uc.AdjustStock(context.Background(), &dto.AdjustStockInput{ProductID: "a"})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "quantity_change", verr.Field)
}

func TestConcurrentSalesNeverOversell(t *testing.T) {
	s := memstore.New()
	seed(t, s, "a", 10)
	uc := NewStockUseCase(s.Stock(), s, nil, nil, logger.NewNop())

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		accepted int
	)
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.ApplyChanges(context.Background(), &dto.ApplyChangesInput{
				Changes:      []dto.StockChange{{ProductID: "a", Delta: -1}},
				MovementType: model.MovementSale,
			})
			if err == nil {
				mu.Lock()
				accepted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, accepted)
	assert.Equal(t, 0, stockOf(t, s, "a"))
}
