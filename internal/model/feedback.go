package model

import "time"

const (
	MinRate = 1
	MaxRate = 5
)

type Review struct {
	ID        string    `db:"id" json:"id"`
	ProductID string    `db:"product_id" json:"product_id"`
	Name      string    `db:"name" json:"name"`
	Email     string    `db:"email" json:"email"`
	Rate      int       `db:"rate" json:"rate"`
	Comment   string    `db:"comment" json:"comment"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type Like struct {
	ID        string    `db:"id" json:"id"`
	ProductID string    `db:"product_id" json:"product_id"`
	Email     string    `db:"email" json:"email"`
	Liked     bool      `db:"liked" json:"liked"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
