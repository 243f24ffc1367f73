package dto

type FaqFilters struct {
	Type     string
	Search   string
	Page     int
	PageSize int
}

// FaqInput serves create and update; ID is ignored on create.
type FaqInput struct {
	ID       string
	Type     string
	Question string
	Answer   string
}
