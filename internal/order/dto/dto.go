package dto

type OrderFilters struct {
	CustomerID string
	Completed  *bool
	Reference  string // Prefix match
	CouponID   string
	Page       int
	PageSize   int
}

type OrderLineInput struct {
	ProductID string
	Quantity  int
}

type PlaceOrderInput struct {
	Reference  string // Generated when empty
	CustomerID string
	CouponCode string
	Lines      []OrderLineInput
}
