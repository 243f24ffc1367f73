package usecase

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/fekuna/omnipos-backoffice-service/internal/apperror"
	"github.com/fekuna/omnipos-backoffice-service/internal/coupon"
	"github.com/fekuna/omnipos-backoffice-service/internal/coupon/dto"
	"github.com/fekuna/omnipos-backoffice-service/internal/model"
	"github.com/fekuna/omnipos-backoffice-service/internal/platform"
	"github.com/fekuna/omnipos-backoffice-service/pkg/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var codePattern = regexp.MustCompile(`^[A-Z0-9_-]{3,32}$`)

type couponUseCase struct {
	repo   coupon.Repository
	tx     platform.Transactor
	logger logger.ZapLogger
	now    func() time.Time
}

func NewCouponUseCase(repo coupon.Repository, tx platform.Transactor, log logger.ZapLogger) coupon.UseCase {
	return &couponUseCase{
		repo:   repo,
		tx:     tx,
		logger: log,
		now:    time.Now,
	}
}

func (uc *couponUseCase) CreateCoupon(ctx context.Context, input *dto.CreateCouponInput) (*model.Coupon, error) {
	now := uc.now()
	c := &model.Coupon{
		BaseModel:    model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		Code:         NormalizeCode(input.Code),
		CouponTypeID: optional(input.CouponTypeID),
		Description:  strings.TrimSpace(input.Description),
		Discount:     input.Discount,
		MaxUsage:     input.MaxUsage,
		IsValid:      input.IsValid == nil || *input.IsValid,
		ValidFrom:    input.ValidFrom,
		ValidUntil:   input.ValidUntil,
	}
	if err := validateTerms(c); err != nil {
		return nil, err
	}

	err := uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := uc.checkRefs(ctx, c); err != nil {
			return err
		}
		return uc.repo.Create(ctx, c)
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("coupon created", zap.String("id", c.ID), zap.String("code", c.Code))
	return c, nil
}

func (uc *couponUseCase) GetCoupon(ctx context.Context, id string) (*model.Coupon, error) {
	c, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, apperror.NotFound("coupon", id)
	}
	return c, nil
}

func (uc *couponUseCase) ListCoupons(ctx context.Context, filters *dto.CouponFilters) ([]model.Coupon, int, error) {
	return uc.repo.FindAll(ctx, filters)
}

func (uc *couponUseCase) UpdateCoupon(ctx context.Context, input *dto.UpdateCouponInput) (*model.Coupon, error) {
	var c *model.Coupon
	err := uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		current, err := uc.repo.LockByID(ctx, input.ID)
		if err != nil {
			return err
		}
		if current == nil {
			return apperror.NotFound("coupon", input.ID)
		}

		next := *current
		next.Code = NormalizeCode(input.Code)
		next.CouponTypeID = optional(input.CouponTypeID)
		next.Description = strings.TrimSpace(input.Description)
		next.Discount = input.Discount
		next.MaxUsage = input.MaxUsage
		next.ValidFrom = input.ValidFrom
		next.ValidUntil = input.ValidUntil
		next.UpdatedAt = uc.now()

		if err := validateTerms(&next); err != nil {
			return err
		}
		if next.MaxUsage < current.UsageCount {
			return apperror.Validation("max_usage", "cannot be lower than the %d recorded usages", current.UsageCount)
		}
		if current.Used() && termsChanged(current, &next) {
			return apperror.InvalidState("coupon", "used", "change the code, discount or validity window of")
		}
		if err := uc.checkRefs(ctx, &next); err != nil {
			return err
		}
		if err := uc.repo.Update(ctx, &next); err != nil {
			return err
		}
		c = &next
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (uc *couponUseCase) SetCouponValidity(ctx context.Context, id string, valid bool) (*model.Coupon, error) {
	var c *model.Coupon
	err := uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		c, err = uc.repo.LockByID(ctx, id)
		if err != nil {
			return err
		}
		if c == nil {
			return apperror.NotFound("coupon", id)
		}
		c.IsValid = valid
		c.UpdatedAt = uc.now()
		return uc.repo.Update(ctx, c)
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("coupon validity changed", zap.String("id", id), zap.Bool("is_valid", valid))
	return c, nil
}

func (uc *couponUseCase) DeleteCoupon(ctx context.Context, id string) error {
	return uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		c, err := uc.repo.LockByID(ctx, id)
		if err != nil {
			return err
		}
		if c == nil {
			return apperror.NotFound("coupon", id)
		}
		if c.Used() {
			return apperror.InvalidState("coupon", "used", "delete")
		}
		return uc.repo.Delete(ctx, id)
	})
}

func (uc *couponUseCase) ValidateCoupon(ctx context.Context, code string) (*model.Coupon, error) {
	code = NormalizeCode(code)
	c, err := uc.repo.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, &apperror.InvalidCouponError{Code: code, Reason: apperror.CouponUnknownCode}
	}
	if err := c.CheckApplicable(uc.now()); err != nil {
		return nil, err
	}
	return c, nil
}

func (uc *couponUseCase) Redeem(ctx context.Context, id string) (*model.Coupon, error) {
	var c *model.Coupon
	err := uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		c, err = uc.repo.LockByID(ctx, id)
		if err != nil {
			return err
		}
		if c == nil {
			return &apperror.InvalidCouponError{Code: id, Reason: apperror.CouponUnknownCode}
		}
		if err := c.CheckApplicable(uc.now()); err != nil {
			return err
		}

		err = uc.repo.IncrementUsage(ctx, id)
		if errors.Is(err, coupon.ErrUsageExhausted) {
			return &apperror.InvalidCouponError{Code: c.Code, Reason: apperror.CouponExhausted}
		}
		if err != nil {
			return err
		}
		c.UsageCount++
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (uc *couponUseCase) CreateCouponType(ctx context.Context, name string) (*model.CouponType, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperror.Validation("name", "is required")
	}

	t := &model.CouponType{ID: uuid.New().String(), Name: name, CreatedAt: uc.now()}
	err := uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		unique, err := uc.repo.IsTypeNameUnique(ctx, name)
		if err != nil {
			return err
		}
		if !unique {
			return apperror.Validation("name", "coupon type %q already exists", name)
		}
		return uc.repo.CreateType(ctx, t)
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (uc *couponUseCase) ListCouponTypes(ctx context.Context) ([]model.CouponType, error) {
	return uc.repo.ListTypes(ctx)
}

func (uc *couponUseCase) DeleteCouponType(ctx context.Context, id string) error {
	return uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		t, err := uc.repo.FindTypeByID(ctx, id)
		if err != nil {
			return err
		}
		if t == nil {
			return apperror.NotFound("coupon type", id)
		}
		return uc.repo.DeleteType(ctx, id)
	})
}

func (uc *couponUseCase) checkRefs(ctx context.Context, c *model.Coupon) error {
	unique, err := uc.repo.IsCodeUnique(ctx, c.Code, c.ID)
	if err != nil {
		return err
	}
	if !unique {
		return apperror.Validation("code", "coupon %q already exists", c.Code)
	}

	if c.CouponTypeID != nil {
		t, err := uc.repo.FindTypeByID(ctx, *c.CouponTypeID)
		if err != nil {
			return err
		}
		if t == nil {
			return apperror.Validation("coupon_type_id", "coupon type %s does not exist", *c.CouponTypeID)
		}
	}
	return nil
}

// NormalizeCode is the canonical, case-insensitive form of a coupon code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func validateTerms(c *model.Coupon) error {
	if !codePattern.MatchString(c.Code) {
		return apperror.Validation("code", "must be 3 to 32 letters, digits, '-' or '_'")
	}
	if !c.Discount.IsPositive() || c.Discount.GreaterThan(decimal.NewFromInt(1)) {
		return apperror.Validation("discount", "must be a fraction in (0, 1]")
	}
	if !c.Discount.Equal(c.Discount.Round(4)) {
		return apperror.Validation("discount", "must have at most four decimals")
	}
	if c.MaxUsage < 1 {
		return apperror.Validation("max_usage", "must be at least 1")
	}
	if c.ValidFrom != nil && c.ValidUntil != nil && !c.ValidFrom.Before(*c.ValidUntil) {
		return apperror.Validation("valid_until", "must be after valid_from")
	}
	return nil
}

func termsChanged(a, b *model.Coupon) bool {
	return a.Code != b.Code ||
		!a.Discount.Equal(b.Discount) ||
		!sameTime(a.ValidFrom, b.ValidFrom) ||
		!sameTime(a.ValidUntil, b.ValidUntil)
}

func sameTime(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}

func optional(s string) *string {
	if s = strings.TrimSpace(s); s == "" {
		return nil
	}
	return &s
}
