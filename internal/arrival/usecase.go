package arrival

import (
	"context"

	"github.com/fekuna/omnipos-backoffice-service/internal/arrival/dto"
	"github.com/fekuna/omnipos-backoffice-service/internal/model"
)

type UseCase interface {
	CreateArrival(ctx context.Context) (*model.Arrival, error)
	GetArrival(ctx context.Context, id string) (*model.Arrival, error)
	ListArrivals(ctx context.Context, filters *dto.ArrivalFilters) ([]model.Arrival, int, error)

	// AddProduct adds quantity to the product's line, creating it when missing.
	AddProduct(ctx context.Context, input *dto.ArrivalLineInput) (*model.Arrival, error)
	SetProductQuantity(ctx context.Context, input *dto.ArrivalLineInput) (*model.Arrival, error)
	RemoveProduct(ctx context.Context, arrivalID, productID string) (*model.Arrival, error)

	// CloseArrival credits every line to stock exactly once.
	CloseArrival(ctx context.Context, id string) (*model.Arrival, error)
	DeleteArrival(ctx context.Context, id string) error
}
