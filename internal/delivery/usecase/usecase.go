package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/fekuna/omnipos-backoffice-service/internal/apperror"
	"github.com/fekuna/omnipos-backoffice-service/internal/auth"
	"github.com/fekuna/omnipos-backoffice-service/internal/delivery"
	"github.com/fekuna/omnipos-backoffice-service/internal/delivery/dto"
	"github.com/fekuna/omnipos-backoffice-service/internal/model"
	"github.com/fekuna/omnipos-backoffice-service/internal/platform"
	"github.com/fekuna/omnipos-backoffice-service/pkg/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type deliveryUseCase struct {
	repo      delivery.Repository
	orders    delivery.OrderReader
	tx        platform.Transactor
	publisher platform.EventPublisher
	logger    logger.ZapLogger
	now       func() time.Time
}

func NewDeliveryUseCase(
	repo delivery.Repository,
	orders delivery.OrderReader,
	tx platform.Transactor,
	publisher platform.EventPublisher,
	log logger.ZapLogger,
) delivery.UseCase {
	return &deliveryUseCase{
		repo:      repo,
		orders:    orders,
		tx:        tx,
		publisher: publisher,
		logger:    log,
		now:       time.Now,
	}
}

func (uc *deliveryUseCase) CreateDelivery(ctx context.Context, input *dto.CreateDeliveryInput) (*model.Delivery, error) {
	now := uc.now()
	d := &model.Delivery{
		BaseModel: model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		OrderID:   input.OrderID,
		State:     model.DeliveryPending,
		Price:     input.Price,
	}
	if err := setAddress(d, input.Address, input.Zipcode, input.City, input.Country); err != nil {
		return nil, err
	}
	if err := checkPrice(input.Price); err != nil {
		return nil, err
	}

	err := uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		o, err := uc.orders.LockByID(ctx, input.OrderID)
		if err != nil {
			return err
		}
		if o == nil {
			return apperror.Validation("order_id", "order %s does not exist", input.OrderID)
		}
		// Shipping is part of the total, which is frozen once the order is paid.
		if o.Completed {
			return apperror.InvalidState("order", "completed", "add a delivery to")
		}
		existing, err := uc.repo.FindByOrderID(ctx, input.OrderID)
		if err != nil {
			return err
		}
		if existing != nil {
			return apperror.Validation("order_id", "order %s already has a delivery", input.OrderID)
		}
		return uc.repo.Create(ctx, d)
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("delivery created", zap.String("id", d.ID), zap.String("order_id", d.OrderID))
	return d, nil
}

func (uc *deliveryUseCase) GetDelivery(ctx context.Context, id string) (*model.Delivery, error) {
	d, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, apperror.NotFound("delivery", id)
	}
	return d, nil
}

func (uc *deliveryUseCase) ListDeliveries(ctx context.Context, filters *dto.DeliveryFilters) ([]model.Delivery, int, error) {
	return uc.repo.FindAll(ctx, filters)
}

func (uc *deliveryUseCase) UpdateDelivery(ctx context.Context, input *dto.UpdateDeliveryInput) (*model.Delivery, error) {
	if input.Price != nil {
		if err := checkPrice(*input.Price); err != nil {
			return nil, err
		}
	}

	var d *model.Delivery
	err := uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		d, err = uc.lock(ctx, input.ID)
		if err != nil {
			return err
		}

		before := *d
		if err := setAddress(d, input.Address, input.Zipcode, input.City, input.Country); err != nil {
			return err
		}
		if addressChanged(&before, d) && before.State != model.DeliveryPending {
			return apperror.InvalidState("delivery", before.State, "change the address of")
		}

		if input.Price != nil && !input.Price.Equal(d.Price) {
			o, err := uc.orders.FindByID(ctx, d.OrderID)
			if err != nil {
				return err
			}
			if o != nil && o.Completed {
				return apperror.InvalidState("order", "completed", "change the shipping price of")
			}
			d.Price = *input.Price
		}

		d.UpdatedAt = uc.now()
		return uc.repo.Update(ctx, d)
	})
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (uc *deliveryUseCase) AdvanceDelivery(ctx context.Context, id string) (*model.Delivery, error) {
	staffID := auth.GetStaffID(ctx)
	if staffID == "" {
		return nil, apperror.Validation("delivered_by", "an acting staff member is required")
	}

	var d *model.Delivery
	err := uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		d, err = uc.lock(ctx, id)
		if err != nil {
			return err
		}
		if err := d.Advance(staffID, uc.now()); err != nil {
			return err
		}
		return uc.repo.Update(ctx, d)
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("delivery advanced",
		zap.String("id", id),
		zap.String("state", d.State),
		zap.String("staff_id", staffID),
	)
	platform.Emit(ctx, uc.publisher, uc.logger, platform.EventDeliveryAdvanced, d.OrderID, d)
	return d, nil
}

func (uc *deliveryUseCase) lock(ctx context.Context, id string) (*model.Delivery, error) {
	d, err := uc.repo.LockByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, apperror.NotFound("delivery", id)
	}
	return d, nil
}

func setAddress(d *model.Delivery, address, zipcode, city, country string) error {
	d.Address = strings.TrimSpace(address)
	d.Zipcode = strings.TrimSpace(zipcode)
	d.City = strings.TrimSpace(city)
	d.Country = strings.TrimSpace(country)
	if d.Address == "" {
		return apperror.Validation("address", "is required")
	}
	if d.City == "" {
		return apperror.Validation("city", "is required")
	}
	if d.Country == "" {
		return apperror.Validation("country", "is required")
	}
	return nil
}

func addressChanged(a, b *model.Delivery) bool {
	return a.Address != b.Address || a.Zipcode != b.Zipcode || a.City != b.City || a.Country != b.Country
}

func checkPrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return apperror.Validation("price", "must not be negative")
	}
	if !price.Equal(price.Round(2)) {
		return apperror.Validation("price", "must have at most two decimals")
	}
	return nil
}
