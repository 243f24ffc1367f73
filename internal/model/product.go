package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	BaseModel
	CategoryID  *string         `db:"category_id" json:"category_id"` // Nullable
	Name        string          `db:"name" json:"name"`
	Slug        string          `db:"slug" json:"slug"`
	Description *string         `db:"description" json:"description"`
	Price       decimal.Decimal `db:"price" json:"price"`
	Stock       int             `db:"stock" json:"stock"`
	IsActive    bool            `db:"is_active" json:"is_active"`
	Images      []Image         `db:"-" json:"images,omitempty"`
	Stats       *ProductStats   `db:"-" json:"stats,omitempty"` // Derived, never stored
}

type Image struct {
	ID        string    `db:"id" json:"id"`
	ProductID string    `db:"product_id" json:"product_id"`
	Name      string    `db:"name" json:"name"`
	URL       string    `db:"url" json:"url"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// ProductStats holds the read-only aggregates projected from likes, reviews and completed order lines.
type ProductStats struct {
	LikesTotal   int             `db:"likes_total" json:"likes_total"`
	ReviewsCount int             `db:"reviews_count" json:"reviews_count"`
	ReviewsRate  float64         `db:"reviews_rate" json:"reviews_rate"` // 0 when there are no reviews
	OrdersCount  int             `db:"orders_count" json:"orders_count"`
	SoldAmount   decimal.Decimal `db:"solde_amount" json:"solde_amount"`
}
