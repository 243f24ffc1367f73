package order

import (
	"context"

	"github.com/fekuna/omnipos-backoffice-service/internal/model"
	"github.com/fekuna/omnipos-backoffice-service/internal/order/dto"
)

// Orders returned by the use case carry their computed totals.
type UseCase interface {
	// PlaceOrder captures current prices and takes the stock for every line,
	// all or nothing.
	PlaceOrder(ctx context.Context, input *dto.PlaceOrderInput) (*model.Order, error)
	GetOrder(ctx context.Context, id string) (*model.Order, error)
	GetOrderByReference(ctx context.Context, reference string) (*model.Order, error)
	ListOrders(ctx context.Context, filters *dto.OrderFilters) ([]model.Order, int, error)
	// CancelOrder deletes a pending order and returns its stock.
	CancelOrder(ctx context.Context, id string) error
	// CompleteOrder redeems the coupon and marks the order completed. It
	// joins the caller's transaction.
	CompleteOrder(ctx context.Context, id string) (*model.Order, error)
}

// DeliveryReader supplies the shipping price of an order.
type DeliveryReader interface {
	FindByOrderID(ctx context.Context, orderID string) (*model.Delivery, error)
	LockByOrderID(ctx context.Context, orderID string) (*model.Delivery, error)
}
