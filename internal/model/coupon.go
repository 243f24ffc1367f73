package model

import (
	"time"

	"github.com/fekuna/omnipos-backoffice-service/internal/apperror"
	"github.com/shopspring/decimal"
)

type CouponType struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type Coupon struct {
	BaseModel
	Code         string          `db:"code" json:"code"`
	CouponTypeID *string         `db:"coupon_type_id" json:"coupon_type_id"`
	Description  string          `db:"description" json:"description"`
	Discount     decimal.Decimal `db:"discount" json:"discount"` // Fraction of the subtotal, 0 < d <= 1
	MaxUsage     int             `db:"max_usage" json:"max_usage"`
	UsageCount   int             `db:"usage_count" json:"usage_count"`
	IsValid      bool            `db:"is_valid" json:"is_valid"`
	ValidFrom    *time.Time      `db:"valid_from" json:"valid_from"`   // nil: open start
	ValidUntil   *time.Time      `db:"valid_until" json:"valid_until"` // nil: never expires
}

// CheckApplicable returns an *apperror.InvalidCouponError when the coupon cannot be applied at now.
func (c *Coupon) CheckApplicable(now time.Time) error {
	switch {
	case !c.IsValid:
		return &apperror.InvalidCouponError{Code: c.Code, Reason: apperror.CouponDisabled}
	case c.ValidFrom != nil && now.Before(*c.ValidFrom):
		return &apperror.InvalidCouponError{Code: c.Code, Reason: apperror.CouponNotStarted}
	case c.ValidUntil != nil && now.After(*c.ValidUntil):
		return &apperror.InvalidCouponError{Code: c.Code, Reason: apperror.CouponExpired}
	case c.UsageCount >= c.MaxUsage:
		return &apperror.InvalidCouponError{Code: c.Code, Reason: apperror.CouponExhausted}
	}
	return nil
}

// Used reports whether the coupon was redeemed at least once; used coupons keep their terms frozen.
func (c *Coupon) Used() bool {
	return c.UsageCount > 0
}
