package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestComputeTotals(t *testing.T) {
	tests := []struct {
		name      string
		lines     []OrderLine
		shipping  string
		discount  string
		subtotal  string
		reduction string
		total     string
		count     int
	}{
		{
			name:      "coupon and shipping",
			lines:     []OrderLine{{ProductID: "x", Price: dec("10"), Quantity: 3}},
			shipping:  "5",
			discount:  "0.1",
			subtotal:  "30",
			reduction: "3",
			total:     "32",
			count:     3,
		},
		{
			name: "several lines without coupon",
			lines: []OrderLine{
				{ProductID: "a", Price: dec("2.50"), Quantity: 2},
				{ProductID: "b", Price: dec("1.25"), Quantity: 4},
			},
			shipping:  "0",
			discount:  "0",
			subtotal:  "10",
			reduction: "0",
			total:     "10",
			count:     6,
		},
		{
			name:      "full discount floors at shipping",
			lines:     []OrderLine{{ProductID: "a", Price: dec("20"), Quantity: 1}},
			shipping:  "4",
			discount:  "1",
			subtotal:  "20",
			reduction: "20",
			total:     "4",
			count:     1,
		},
		{
			name:      "empty order",
			shipping:  "0",
			discount:  "0.5",
			subtotal:  "0",
			reduction: "0",
			total:     "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeTotals(tt.lines, dec(tt.shipping), dec(tt.discount))
			assert.True(t, dec(tt.subtotal).Equal(got.Subtotal), "subtotal %s", got.Subtotal)
			assert.True(t, dec(tt.reduction).Equal(got.Reduction), "reduction %s", got.Reduction)
			assert.True(t, dec(tt.total).Equal(got.Total), "total %s", got.Total)
			assert.Equal(t, tt.count, got.ProductsCount)
		})
	}
}

func TestComputeTotalsNeverNegative(t *testing.T) {
	// A negative shipping value can only come from bad data, the total still floors at zero.
	got := ComputeTotals([]OrderLine{{Price: dec("1"), Quantity: 1}}, dec("-10"), decimal.Zero)
	assert.True(t, got.Total.IsZero())
}
