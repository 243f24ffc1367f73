package dto

import "github.com/shopspring/decimal"

type CreateProductInput struct {
	CategoryID  string
	Name        string
	Slug        string
	Description string
	Price       decimal.Decimal
	Stock       int // Initial stock, logged as an adjustment
	IsActive    *bool
	UserID      string
}

// UpdateProductInput edits the catalog fields. Stock only moves through the stock use case.
type UpdateProductInput struct {
	ID          string
	CategoryID  string
	Name        string
	Slug        string
	Description string
	Price       decimal.Decimal
	IsActive    bool
}

type AddImageInput struct {
	ProductID string
	Name      string
	URL       string
}
