package dto

type ReviewFilters struct {
	ProductID string
	Email     string
	MinRate   int
	Page      int
	PageSize  int
}

type AddReviewInput struct {
	ProductID string
	Name      string
	Email     string
	Rate      int
	Comment   string
}

type LikeFilters struct {
	ProductID string
	Email     string
	Liked     *bool
	Page      int
	PageSize  int
}

type SetLikeInput struct {
	ProductID string
	Email     string
	Liked     bool
}
