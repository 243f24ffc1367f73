package stock

import (
	"context"

	"github.com/fekuna/omnipos-backoffice-service/internal/model"
	"github.com/fekuna/omnipos-backoffice-service/internal/stock/dto"
)

type UseCase interface {
	// ApplyChanges validates every change before writing any of them: either
	// all stocks move or none do. It joins the caller's transaction.
	ApplyChanges(ctx context.Context, input *dto.ApplyChangesInput) ([]model.StockMovement, error)
	AdjustStock(ctx context.Context, input *dto.AdjustStockInput) (*model.StockMovement, error)
	ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.StockMovement, int, error)
}
