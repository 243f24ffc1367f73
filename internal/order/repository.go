package order

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-backoffice-service/internal/model"
	"github.com/fekuna/omnipos-backoffice-service/internal/order/dto"
)

// Orders returned by the repository always carry their lines.
type Repository interface {
	// Create inserts the order with its lines.
	Create(ctx context.Context, order *model.Order) error
	FindByID(ctx context.Context, id string) (*model.Order, error)
	FindByReference(ctx context.Context, reference string) (*model.Order, error)
	// LockByID row-locks the order until the surrounding transaction ends.
	LockByID(ctx context.Context, id string) (*model.Order, error)
	FindAll(ctx context.Context, filters *dto.OrderFilters) ([]model.Order, int, error)
	IsReferenceUnique(ctx context.Context, reference string) (bool, error)
	MarkCompleted(ctx context.Context, id string, completedAt time.Time) error
	// Delete removes the order, its lines and its delivery.
	Delete(ctx context.Context, id string) error

	FindProducts(ctx context.Context, ids []string) ([]model.Product, error)
}
