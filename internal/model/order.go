package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Order struct {
	BaseModel
	Reference   string       `db:"reference" json:"reference"`
	Completed   bool         `db:"completed" json:"completed"`
	CompletedAt *time.Time   `db:"completed_at" json:"completed_at"`
	CouponID    *string      `db:"coupon_id" json:"coupon_id"`
	CustomerID  string       `db:"customer_id" json:"customer_id"`
	Lines       []OrderLine  `db:"-" json:"lines"`
	Totals      *OrderTotals `db:"-" json:"totals,omitempty"` // Derived on read
}

// OrderLine carries the unit price captured when the line was created.
type OrderLine struct {
	ID        string          `db:"id" json:"id"`
	OrderID   string          `db:"order_id" json:"order_id"`
	ProductID string          `db:"product_id" json:"product_id"`
	Price     decimal.Decimal `db:"price" json:"price"`
	Quantity  int             `db:"quantity" json:"quantity"`
}

type OrderTotals struct {
	Shipping      decimal.Decimal `json:"shipping"`
	Reduction     decimal.Decimal `json:"reduction"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	Total         decimal.Decimal `json:"total"`
	ProductsCount int             `json:"products_count"`
}

// ComputeTotals derives the order amounts. discount is the coupon fraction, zero when no coupon applies.
func ComputeTotals(lines []OrderLine, shipping, discount decimal.Decimal) OrderTotals {
	subtotal := decimal.Zero
	count := 0
	for _, l := range lines {
		subtotal = subtotal.Add(l.Price.Mul(decimal.NewFromInt(int64(l.Quantity))))
		count += l.Quantity
	}
	reduction := subtotal.Mul(discount).Round(2)
	total := subtotal.Add(shipping).Sub(reduction)
	if total.IsNegative() {
		total = decimal.Zero
	}
	return OrderTotals{
		Shipping:      shipping.Round(2),
		Reduction:     reduction,
		Subtotal:      subtotal.Round(2),
		Total:         total.Round(2),
		ProductsCount: count,
	}
}
