package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/fekuna/omnipos-backoffice-service/internal/apperror"
	"github.com/fekuna/omnipos-backoffice-service/internal/auth"
	"github.com/fekuna/omnipos-backoffice-service/internal/coupon"
	"github.com/fekuna/omnipos-backoffice-service/internal/model"
	"github.com/fekuna/omnipos-backoffice-service/internal/order"
	"github.com/fekuna/omnipos-backoffice-service/internal/order/dto"
	"github.com/fekuna/omnipos-backoffice-service/internal/platform"
	"github.com/fekuna/omnipos-backoffice-service/internal/stock"
	stockdto "github.com/fekuna/omnipos-backoffice-service/internal/stock/dto"
	"github.com/fekuna/omnipos-backoffice-service/pkg/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type orderUseCase struct {
	repo       order.Repository
	stock      stock.UseCase
	coupons    coupon.UseCase
	deliveries order.DeliveryReader
	tx         platform.Transactor
	cache      platform.CacheInvalidator
	publisher  platform.EventPublisher
	logger     logger.ZapLogger
	refPrefix  string
	now        func() time.Time
}

func NewOrderUseCase(
	repo order.Repository,
	stockUC stock.UseCase,
	couponUC coupon.UseCase,
	deliveries order.DeliveryReader,
	tx platform.Transactor,
	cache platform.CacheInvalidator,
	publisher platform.EventPublisher,
	refPrefix string,
	log logger.ZapLogger,
) order.UseCase {
	return &orderUseCase{
		repo:       repo,
		stock:      stockUC,
		coupons:    couponUC,
		deliveries: deliveries,
		tx:         tx,
		cache:      cache,
		publisher:  publisher,
		logger:     log,
		refPrefix:  refPrefix,
		now:        time.Now,
	}
}

func (uc *orderUseCase) PlaceOrder(ctx context.Context, input *dto.PlaceOrderInput) (*model.Order, error) {
	customerID := strings.TrimSpace(input.CustomerID)
	if customerID == "" {
		return nil, apperror.Validation("customer_id", "is required")
	}
	quantities, ids, err := mergeLines(input.Lines)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	o := &model.Order{
		BaseModel:  model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		Reference:  strings.TrimSpace(input.Reference),
		CustomerID: customerID,
	}
	if o.Reference == "" {
		o.Reference = uc.newReference(now)
	}

	err = uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		unique, err := uc.repo.IsReferenceUnique(ctx, o.Reference)
		if err != nil {
			return err
		}
		if !unique {
			return apperror.Validation("reference", "order %q already exists", o.Reference)
		}

		if code := strings.TrimSpace(input.CouponCode); code != "" {
			c, err := uc.coupons.ValidateCoupon(ctx, code)
			if err != nil {
				return err
			}
			o.CouponID = &c.ID
		}

		// Locks the product rows, so the prices read below are the ones in force.
		changes := make([]stockdto.StockChange, len(ids))
		for i, id := range ids {
			changes[i] = stockdto.StockChange{ProductID: id, Delta: -quantities[id]}
		}
		if _, err := uc.stock.ApplyChanges(ctx, &stockdto.ApplyChangesInput{
			Changes:       changes,
			MovementType:  model.MovementSale,
			ReferenceType: "order",
			ReferenceID:   o.ID,
			Notes:         "order " + o.Reference,
			UserID:        auth.GetStaffID(ctx),
		}); err != nil {
			return err
		}

		products, err := uc.repo.FindProducts(ctx, ids)
		if err != nil {
			return err
		}
		byID := make(map[string]model.Product, len(products))
		for _, p := range products {
			byID[p.ID] = p
		}

		o.Lines = make([]model.OrderLine, 0, len(ids))
		for _, id := range ids {
			p := byID[id]
			if !p.IsActive {
				return apperror.Validation("lines", "product %s is not available", id)
			}
			o.Lines = append(o.Lines, model.OrderLine{
				ID:        uuid.New().String(),
				OrderID:   o.ID,
				ProductID: id,
				Price:     p.Price,
				Quantity:  quantities[id],
			})
		}
		return uc.repo.Create(ctx, o)
	})
	if err != nil {
		return nil, err
	}

	if err := uc.withTotals(ctx, o); err != nil {
		return nil, err
	}

	uc.logger.Info("order placed",
		zap.String("id", o.ID),
		zap.String("reference", o.Reference),
		zap.String("total", o.Totals.Total.StringFixed(2)),
	)
	platform.Emit(ctx, uc.publisher, uc.logger, platform.EventOrderPlaced, o.ID, o)
	return o, nil
}

func (uc *orderUseCase) GetOrder(ctx context.Context, id string) (*model.Order, error) {
	o, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, apperror.NotFound("order", id)
	}
	if err := uc.withTotals(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (uc *orderUseCase) GetOrderByReference(ctx context.Context, reference string) (*model.Order, error) {
	o, err := uc.repo.FindByReference(ctx, reference)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, apperror.NotFound("order", reference)
	}
	if err := uc.withTotals(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (uc *orderUseCase) ListOrders(ctx context.Context, filters *dto.OrderFilters) ([]model.Order, int, error) {
	orders, count, err := uc.repo.FindAll(ctx, filters)
	if err != nil {
		return nil, 0, err
	}
	for i := range orders {
		if err := uc.withTotals(ctx, &orders[i]); err != nil {
			return nil, 0, err
		}
	}
	return orders, count, nil
}

func (uc *orderUseCase) CancelOrder(ctx context.Context, id string) error {
	var o *model.Order
	err := uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		o, err = uc.repo.LockByID(ctx, id)
		if err != nil {
			return err
		}
		if o == nil {
			return apperror.NotFound("order", id)
		}
		if o.Completed {
			return apperror.InvalidState("order", "completed", "cancel")
		}
		d, err := uc.deliveries.LockByOrderID(ctx, id)
		if err != nil {
			return err
		}
		if d != nil && d.State != model.DeliveryPending {
			return apperror.InvalidState("delivery", d.State, "cancel the order of")
		}

		changes := make([]stockdto.StockChange, len(o.Lines))
		for i, l := range o.Lines {
			changes[i] = stockdto.StockChange{ProductID: l.ProductID, Delta: l.Quantity}
		}
		if _, err := uc.stock.ApplyChanges(ctx, &stockdto.ApplyChangesInput{
			Changes:       changes,
			MovementType:  model.MovementCancellation,
			ReferenceType: "order",
			ReferenceID:   o.ID,
			Notes:         "order " + o.Reference + " cancelled",
			UserID:        auth.GetStaffID(ctx),
		}); err != nil {
			return err
		}
		return uc.repo.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	uc.logger.Info("order cancelled", zap.String("id", id), zap.String("reference", o.Reference))
	platform.Emit(ctx, uc.publisher, uc.logger, platform.EventOrderCancelled, id, o)
	return nil
}

func (uc *orderUseCase) CompleteOrder(ctx context.Context, id string) (*model.Order, error) {
	var o *model.Order
	err := uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		o, err = uc.repo.LockByID(ctx, id)
		if err != nil {
			return err
		}
		if o == nil {
			return apperror.NotFound("order", id)
		}
		if o.Completed {
			return apperror.InvalidState("order", "completed", "complete")
		}

		if o.CouponID != nil {
			if _, err := uc.coupons.Redeem(ctx, *o.CouponID); err != nil {
				return err
			}
		}

		completedAt := uc.now()
		if err := uc.repo.MarkCompleted(ctx, id, completedAt); err != nil {
			return err
		}
		o.Completed = true
		o.CompletedAt = &completedAt
		o.UpdatedAt = completedAt
		return uc.withTotals(ctx, o)
	})
	if err != nil {
		return nil, err
	}

	// Completed lines feed the product sales aggregates.
	if uc.cache != nil {
		uc.cache.Invalidate(ctx)
	}
	uc.logger.Info("order completed", zap.String("id", id), zap.String("reference", o.Reference))
	platform.Emit(ctx, uc.publisher, uc.logger, platform.EventOrderCompleted, id, o)
	return o, nil
}

// withTotals derives the amounts from the captured lines, the delivery price
// and the coupon. A pending order only gets the discount while its coupon
// still applies; a completed order keeps the discount it was redeemed with.
func (uc *orderUseCase) withTotals(ctx context.Context, o *model.Order) error {
	shipping := decimal.Zero
	d, err := uc.deliveries.FindByOrderID(ctx, o.ID)
	if err != nil {
		return fmt.Errorf("load delivery: %w", err)
	}
	if d != nil {
		shipping = d.Price
	}

	discount := decimal.Zero
	if o.CouponID != nil {
		c, err := uc.coupons.GetCoupon(ctx, *o.CouponID)
		if err != nil && !apperror.IsNotFound(err) {
			return fmt.Errorf("load coupon: %w", err)
		}
		if c != nil && (o.Completed || c.CheckApplicable(uc.now()) == nil) {
			discount = c.Discount
		}
	}

	totals := model.ComputeTotals(o.Lines, shipping, discount)
	o.Totals = &totals
	return nil
}

func (uc *orderUseCase) newReference(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
	return fmt.Sprintf("%s-%s-%s", uc.refPrefix, now.Format("20060102"), suffix)
}

// mergeLines sums quantities per product and returns the ids sorted.
func mergeLines(lines []dto.OrderLineInput) (map[string]int, []string, error) {
	if len(lines) == 0 {
		return nil, nil, apperror.Validation("lines", "an order needs at least one line")
	}
	quantities := make(map[string]int, len(lines))
	for _, l := range lines {
		if l.ProductID == "" {
			return nil, nil, apperror.Validation("lines", "product_id is required")
		}
		if l.Quantity <= 0 {
			return nil, nil, apperror.Validation("lines", "quantity for product %s must be positive", l.ProductID)
		}
		quantities[l.ProductID] += l.Quantity
	}

	ids := make([]string, 0, len(quantities))
	for id := range quantities {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return quantities, ids, nil
}
