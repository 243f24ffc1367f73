package delivery

import (
	"context"

	"github.com/fekuna/omnipos-backoffice-service/internal/delivery/dto"
	"github.com/fekuna/omnipos-backoffice-service/internal/model"
)

type Repository interface {
	Create(ctx context.Context, delivery *model.Delivery) error
	FindByID(ctx context.Context, id string) (*model.Delivery, error)
	FindByOrderID(ctx context.Context, orderID string) (*model.Delivery, error)
	// LockByOrderID row-locks the order's delivery until the surrounding transaction ends.
	LockByOrderID(ctx context.Context, orderID string) (*model.Delivery, error)
	// LockByID row-locks the delivery until the surrounding transaction ends.
	LockByID(ctx context.Context, id string) (*model.Delivery, error)
	FindAll(ctx context.Context, filters *dto.DeliveryFilters) ([]model.Delivery, int, error)
	Update(ctx context.Context, delivery *model.Delivery) error
}

// OrderReader resolves the order a delivery ships.
type OrderReader interface {
	FindByID(ctx context.Context, id string) (*model.Order, error)
	LockByID(ctx context.Context, id string) (*model.Order, error)
}
