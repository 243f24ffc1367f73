package stock

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-backoffice-service/internal/model"
	"github.com/fekuna/omnipos-backoffice-service/internal/stock/dto"
)

type Repository interface {
	// LockProducts loads and row-locks the products in ascending id order.
	// Unknown ids are absent from the result.
	LockProducts(ctx context.Context, ids []string) ([]model.Product, error)
	SetStock(ctx context.Context, productID string, stock int, updatedAt time.Time) error

	// Movements / Audit
	LogMovement(ctx context.Context, movement *model.StockMovement) error
	ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.StockMovement, int, error)
}
