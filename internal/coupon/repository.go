package coupon

import (
	"context"
	"errors"

	"github.com/fekuna/omnipos-backoffice-service/internal/coupon/dto"
	"github.com/fekuna/omnipos-backoffice-service/internal/model"
)

// ErrUsageExhausted is returned by IncrementUsage when usage_count already reached max_usage.
var ErrUsageExhausted = errors.New("coupon usage limit reached")

type Repository interface {
	Create(ctx context.Context, coupon *model.Coupon) error
	FindByID(ctx context.Context, id string) (*model.Coupon, error)
	FindByCode(ctx context.Context, code string) (*model.Coupon, error)
	FindAll(ctx context.Context, filters *dto.CouponFilters) ([]model.Coupon, int, error)
	Update(ctx context.Context, coupon *model.Coupon) error
	Delete(ctx context.Context, id string) error
	IsCodeUnique(ctx context.Context, code, excludeID string) (bool, error)

	// LockByID row-locks the coupon until the surrounding transaction ends.
	LockByID(ctx context.Context, id string) (*model.Coupon, error)
	IncrementUsage(ctx context.Context, id string) error

	// Coupon types
	CreateType(ctx context.Context, t *model.CouponType) error
	FindTypeByID(ctx context.Context, id string) (*model.CouponType, error)
	IsTypeNameUnique(ctx context.Context, name string) (bool, error)
	ListTypes(ctx context.Context) ([]model.CouponType, error)
	// DeleteType removes the type and clears it from its coupons.
	DeleteType(ctx context.Context, id string) error
}
