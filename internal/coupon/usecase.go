package coupon

import (
	"context"

	"github.com/fekuna/omnipos-backoffice-service/internal/coupon/dto"
	"github.com/fekuna/omnipos-backoffice-service/internal/model"
)

type UseCase interface {
	CreateCoupon(ctx context.Context, input *dto.CreateCouponInput) (*model.Coupon, error)
	GetCoupon(ctx context.Context, id string) (*model.Coupon, error)
	ListCoupons(ctx context.Context, filters *dto.CouponFilters) ([]model.Coupon, int, error)
	UpdateCoupon(ctx context.Context, input *dto.UpdateCouponInput) (*model.Coupon, error)
	SetCouponValidity(ctx context.Context, id string, valid bool) (*model.Coupon, error)
	DeleteCoupon(ctx context.Context, id string) error
	// ValidateCoupon returns the coupon behind code when it applies right now.
	ValidateCoupon(ctx context.Context, code string) (*model.Coupon, error)
	// Redeem locks the coupon, re-checks it and counts one more usage. It
	// joins the caller's transaction.
	Redeem(ctx context.Context, id string) (*model.Coupon, error)

	CreateCouponType(ctx context.Context, name string) (*model.CouponType, error)
	ListCouponTypes(ctx context.Context) ([]model.CouponType, error)
	DeleteCouponType(ctx context.Context, id string) error
}
