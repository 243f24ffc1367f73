package dto

import "time"

type MovementFilters struct {
	ProductID     string
	MovementType  string
	ReferenceType string
	ReferenceID   string
	StartDate     *time.Time
	EndDate       *time.Time
	Page          int
	PageSize      int
}

// StockChange is a signed quantity applied to one product.
type StockChange struct {
	ProductID string
	Delta     int
}

type ApplyChangesInput struct {
	Changes       []StockChange
	MovementType  string // model.Movement*
	ReferenceType string // "order", "arrival", "manual"
	ReferenceID   string
	Notes         string
	UserID        string
}

type AdjustStockInput struct {
	ProductID      string
	QuantityChange int
	Reason         string
	UserID         string
}
