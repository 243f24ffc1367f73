package dto

import "github.com/shopspring/decimal"

type DeliveryFilters struct {
	OrderID     string
	State       string
	City        string
	DeliveredBy string
	Page        int
	PageSize    int
}

type CreateDeliveryInput struct {
	OrderID string
	Address string
	Zipcode string
	City    string
	Country string
	Price   decimal.Decimal
}

// UpdateDeliveryInput replaces the address; Price is left alone when nil.
type UpdateDeliveryInput struct {
	ID      string
	Address string
	Zipcode string
	City    string
	Country string
	Price   *decimal.Decimal
}
