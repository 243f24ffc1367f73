package dto

type CategoryFilters struct {
	ParentID        *string // Nil means ignore, Empty string means root categories
	IsActive        *bool
	Search          string
	IncludeChildren bool
	Page            int
	PageSize        int
}
