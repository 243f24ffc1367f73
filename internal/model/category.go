package model

type Category struct {
	BaseModel
	ParentID       *string    `db:"parent_id" json:"parent_id"` // Nullable
	Name           string     `db:"name" json:"name"`
	Slug           string     `db:"slug" json:"slug"`
	ImageURL       *string    `db:"image_url" json:"image_url"`
	IsActive       bool       `db:"is_active" json:"is_active"`
	ProductsNumber int        `db:"products_number" json:"products_number"` // Computed on read
	Children       []Category `db:"-" json:"children,omitempty"`            // For tree structure, not in DB
}
