package model

import (
	"time"

	"github.com/fekuna/omnipos-backoffice-service/internal/apperror"
	"github.com/shopspring/decimal"
)

const (
	DeliveryPending   = "pending"
	DeliveryInTransit = "in_transit"
	DeliveryDelivered = "delivered"
)

var deliveryNext = map[string]string{
	DeliveryPending:   DeliveryInTransit,
	DeliveryInTransit: DeliveryDelivered,
}

type Delivery struct {
	BaseModel
	OrderID     string          `db:"order_id" json:"order_id"`
	State       string          `db:"state" json:"state"`
	Address     string          `db:"address" json:"address"`
	Zipcode     string          `db:"zipcode" json:"zipcode"`
	City        string          `db:"city" json:"city"`
	Country     string          `db:"country" json:"country"`
	Price       decimal.Decimal `db:"price" json:"price"`
	DeliveredBy *string         `db:"delivered_by" json:"delivered_by"`
	DeliveredAt *time.Time      `db:"delivered_at" json:"delivered_at"`
}

// Advance moves the delivery one step forward on behalf of staffID.
func (d *Delivery) Advance(staffID string, now time.Time) error {
	next, ok := deliveryNext[d.State]
	if !ok {
		return apperror.InvalidState("delivery", d.State, "advance")
	}
	d.State = next
	d.DeliveredBy = &staffID
	d.UpdatedAt = now
	if next == DeliveryDelivered {
		d.DeliveredAt = &now
	}
	return nil
}
