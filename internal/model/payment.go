package model

import "time"

const (
	PaymentCard     = "card"
	PaymentCash     = "cash"
	PaymentTransfer = "transfer"
	PaymentMobile   = "mobile"
)

var PaymentModes = map[string]bool{
	PaymentCard:     true,
	PaymentCash:     true,
	PaymentTransfer: true,
	PaymentMobile:   true,
}

type Payment struct {
	ID        string    `db:"id" json:"id"`
	Reference string    `db:"reference" json:"reference"`
	PayedAt   time.Time `db:"payed_at" json:"payed_at"`
	Mode      string    `db:"mode" json:"mode"`
	Details   string    `db:"details" json:"details"`
	OrderID   string    `db:"order_id" json:"order_id"`
}
