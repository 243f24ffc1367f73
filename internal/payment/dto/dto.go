package dto

import "time"

type PaymentFilters struct {
	OrderID   string
	Mode      string
	StartDate *time.Time
	EndDate   *time.Time
	Page      int
	PageSize  int
}

// RecordPaymentInput identifies the order by OrderID, or by OrderReference
// when OrderID is empty.
type RecordPaymentInput struct {
	Reference      string
	OrderID        string
	OrderReference string
	Mode           string
	Details        string
	PayedAt        *time.Time // Defaults to now
}
