package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/fekuna/omnipos-backoffice-service/internal/apperror"
	"github.com/fekuna/omnipos-backoffice-service/internal/model"
	"github.com/fekuna/omnipos-backoffice-service/internal/order"
	"github.com/fekuna/omnipos-backoffice-service/internal/payment"
	"github.com/fekuna/omnipos-backoffice-service/internal/payment/dto"
	"github.com/fekuna/omnipos-backoffice-service/internal/platform"
	"github.com/fekuna/omnipos-backoffice-service/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type paymentUseCase struct {
	repo   payment.Repository
	orders order.UseCase
	tx     platform.Transactor
	logger logger.ZapLogger
	now    func() time.Time
}

func NewPaymentUseCase(repo payment.Repository, orderUC order.UseCase, tx platform.Transactor, log logger.ZapLogger) payment.UseCase {
	return &paymentUseCase{
		repo:   repo,
		orders: orderUC,
		tx:     tx,
		logger: log,
		now:    time.Now,
	}
}

func (uc *paymentUseCase) RecordPayment(ctx context.Context, input *dto.RecordPaymentInput) (*model.Payment, error) {
	p := &model.Payment{
		ID:        uuid.New().String(),
		Reference: strings.TrimSpace(input.Reference),
		Mode:      strings.ToLower(strings.TrimSpace(input.Mode)),
		Details:   strings.TrimSpace(input.Details),
		PayedAt:   uc.now(),
	}
	if p.Reference == "" {
		return nil, apperror.Validation("reference", "is required")
	}
	if !model.PaymentModes[p.Mode] {
		return nil, apperror.Validation("mode", "unsupported payment mode %q", input.Mode)
	}
	if input.PayedAt != nil {
		p.PayedAt = *input.PayedAt
	}

	err := uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		orderID, err := uc.resolveOrder(ctx, input)
		if err != nil {
			return err
		}
		p.OrderID = orderID
		if _, err := uc.orders.GetOrder(ctx, orderID); err != nil {
			return err
		}

		existing, err := uc.repo.FindByReference(ctx, p.Reference)
		if err != nil {
			return err
		}
		if existing != nil {
			return apperror.Validation("reference", "payment %q already exists", p.Reference)
		}
		paid, err := uc.repo.FindByOrderID(ctx, orderID)
		if err != nil {
			return err
		}
		if paid != nil {
			return apperror.InvalidState("order", "paid", "record a payment for")
		}

		if err := uc.repo.Create(ctx, p); err != nil {
			return err
		}
		_, err = uc.orders.CompleteOrder(ctx, orderID)
		return err
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("payment recorded",
		zap.String("id", p.ID),
		zap.String("reference", p.Reference),
		zap.String("order_id", p.OrderID),
		zap.String("mode", p.Mode),
	)
	return p, nil
}

func (uc *paymentUseCase) resolveOrder(ctx context.Context, input *dto.RecordPaymentInput) (string, error) {
	if input.OrderID != "" {
		return input.OrderID, nil
	}
	if input.OrderReference == "" {
		return "", apperror.Validation("order_id", "an order id or reference is required")
	}
	o, err := uc.orders.GetOrderByReference(ctx, input.OrderReference)
	if err != nil {
		return "", err
	}
	return o.ID, nil
}

func (uc *paymentUseCase) GetPayment(ctx context.Context, id string) (*model.Payment, error) {
	p, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperror.NotFound("payment", id)
	}
	return p, nil
}

func (uc *paymentUseCase) GetPaymentByReference(ctx context.Context, reference string) (*model.Payment, error) {
	p, err := uc.repo.FindByReference(ctx, reference)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperror.NotFound("payment", reference)
	}
	return p, nil
}

func (uc *paymentUseCase) ListPayments(ctx context.Context, filters *dto.PaymentFilters) ([]model.Payment, int, error) {
	return uc.repo.FindAll(ctx, filters)
}
