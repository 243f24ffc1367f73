package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type CouponFilters struct {
	CouponTypeID string
	IsValid      *bool
	Search       string // Matches code and description
	Page         int
	PageSize     int
}

type CreateCouponInput struct {
	Code         string
	CouponTypeID string
	Description  string
	Discount     decimal.Decimal
	MaxUsage     int
	IsValid      *bool // Defaults to true
	ValidFrom    *time.Time
	ValidUntil   *time.Time
}

// UpdateCouponInput replaces the coupon terms. Once a coupon was redeemed
// only Description, CouponTypeID and a raised MaxUsage are accepted.
type UpdateCouponInput struct {
	ID           string
	Code         string
	CouponTypeID string
	Description  string
	Discount     decimal.Decimal
	MaxUsage     int
	ValidFrom    *time.Time
	ValidUntil   *time.Time
}
