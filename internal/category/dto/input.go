package dto

type CreateCategoryInput struct {
	ParentID *string
	Name     string
	Slug     string // Derived from Name when empty
	ImageURL string
	IsActive *bool // Defaults to true
}

// UpdateCategoryInput replaces every editable field. A nil ParentID makes the category a root.
type UpdateCategoryInput struct {
	ID       string
	ParentID *string
	Name     string
	Slug     string
	ImageURL string
	IsActive bool
}
