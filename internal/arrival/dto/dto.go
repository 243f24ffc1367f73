package dto

type ArrivalFilters struct {
	IsClosed *bool
	Page     int
	PageSize int
}

type ArrivalLineInput struct {
	ArrivalID string
	ProductID string
	Quantity  int
}
