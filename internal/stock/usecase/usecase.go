package usecase

import (
	"context"
	"sort"
	"time"

	"github.com/fekuna/omnipos-backoffice-service/internal/apperror"
	"github.com/fekuna/omnipos-backoffice-service/internal/auth"
	"github.com/fekuna/omnipos-backoffice-service/internal/model"
	"github.com/fekuna/omnipos-backoffice-service/internal/platform"
	"github.com/fekuna/omnipos-backoffice-service/internal/stock"
	"github.com/fekuna/omnipos-backoffice-service/internal/stock/dto"
	"github.com/fekuna/omnipos-backoffice-service/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type stockUseCase struct {
	repo      stock.Repository
	tx        platform.Transactor
	cache     platform.CacheInvalidator
	publisher platform.EventPublisher
	logger    logger.ZapLogger
	now       func() time.Time
}

func NewStockUseCase(
	repo stock.Repository,
	tx platform.Transactor,
	cache platform.CacheInvalidator,
	publisher platform.EventPublisher,
	log logger.ZapLogger,
) stock.UseCase {
	return &stockUseCase{
		repo:      repo,
		tx:        tx,
		cache:     cache,
		publisher: publisher,
		logger:    log,
		now:       time.Now,
	}
}

func (uc *stockUseCase) ApplyChanges(ctx context.Context, input *dto.ApplyChangesInput) ([]model.StockMovement, error) {
	deltas, ids, err := mergeChanges(input.Changes)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []model.StockMovement{}, nil
	}

	var movements []model.StockMovement
	err = uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		products, err := uc.repo.LockProducts(ctx, ids)
		if err != nil {
			return err
		}

		byID := make(map[string]model.Product, len(products))
		for _, p := range products {
			byID[p.ID] = p
		}

		// Check everything first so a failure leaves no partial writes.
		for _, id := range ids {
			p, ok := byID[id]
			if !ok {
				return apperror.NotFound("product", id)
			}
			if p.Stock+deltas[id] < 0 {
				return &apperror.InsufficientStockError{
					ProductID: id,
					Requested: -deltas[id],
					Available: p.Stock,
				}
			}
		}

		now := uc.now()
		movements = make([]model.StockMovement, 0, len(ids))
		for _, id := range ids {
			before := byID[id].Stock
			after := before + deltas[id]
			if err := uc.repo.SetStock(ctx, id, after, now); err != nil {
				return err
			}

			m := model.StockMovement{
				ID:             uuid.New().String(),
				ProductID:      id,
				MovementType:   input.MovementType,
				QuantityChange: deltas[id],
				QuantityBefore: before,
				QuantityAfter:  after,
				ReferenceType:  optional(input.ReferenceType),
				ReferenceID:    optional(input.ReferenceID),
				Notes:          input.Notes,
				CreatedBy:      optional(input.UserID),
				CreatedAt:      now,
			}
			if err := uc.repo.LogMovement(ctx, &m); err != nil {
				return err
			}
			movements = append(movements, m)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if uc.cache != nil {
		uc.cache.Invalidate(ctx)
	}
	return movements, nil
}

func (uc *stockUseCase) AdjustStock(ctx context.Context, input *dto.AdjustStockInput) (*model.StockMovement, error) {
	if input.ProductID == "" {
		return nil, apperror.Validation("product_id", "is required")
	}
	if input.QuantityChange == 0 {
		return nil, apperror.Validation("quantity_change", "must not be zero")
	}

	userID := input.UserID
	if userID == "" {
		userID = auth.GetStaffID(ctx)
	}

	movements, err := uc.ApplyChanges(ctx, &dto.ApplyChangesInput{
		Changes:       []dto.StockChange{{ProductID: input.ProductID, Delta: input.QuantityChange}},
		MovementType:  model.MovementAdjustment,
		ReferenceType: "manual",
		Notes:         input.Reason,
		UserID:        userID,
	})
	if err != nil {
		return nil, err
	}

	m := movements[0]
	uc.logger.Info("stock adjusted",
		zap.String("product_id", m.ProductID),
		zap.Int("quantity_before", m.QuantityBefore),
		zap.Int("quantity_after", m.QuantityAfter),
		zap.String("user_id", userID),
	)
	platform.Emit(ctx, uc.publisher, uc.logger, platform.EventStockAdjusted, m.ProductID, m)
	return &m, nil
}

func (uc *stockUseCase) ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.StockMovement, int, error) {
	return uc.repo.ListMovements(ctx, filters)
}

// mergeChanges sums deltas per product and returns the ids sorted, the
// order in which rows get locked.
func mergeChanges(changes []dto.StockChange) (map[string]int, []string, error) {
	deltas := make(map[string]int, len(changes))
	for _, c := range changes {
		if c.ProductID == "" {
			return nil, nil, apperror.Validation("product_id", "is required")
		}
		deltas[c.ProductID] += c.Delta
	}

	ids := make([]string, 0, len(deltas))
	for id, d := range deltas {
		if d != 0 {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return deltas, ids, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
