package model

import "time"

type Arrival struct {
	BaseModel
	IsClosed bool          `db:"is_closed" json:"is_closed"`
	ClosedAt *time.Time    `db:"closed_at" json:"closed_at"`
	Lines    []ArrivalLine `db:"-" json:"lines"`
}

type ArrivalLine struct {
	ID        string `db:"id" json:"id"`
	ArrivalID string `db:"arrival_id" json:"arrival_id"`
	ProductID string `db:"product_id" json:"product_id"`
	Quantity  int    `db:"quantity" json:"quantity"`
}

// ProductsCount is the number of units announced by the arrival.
func (a *Arrival) ProductsCount() int {
	n := 0
	for _, l := range a.Lines {
		n += l.Quantity
	}
	return n
}
