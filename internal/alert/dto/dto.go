package dto

type AlertFilters struct {
	Status   string
	Type     string
	UserID   string
	Page     int
	PageSize int
}

type CreateAlertInput struct {
	Type    string
	Details string
	UserID  string
}
