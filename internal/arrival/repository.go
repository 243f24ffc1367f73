package arrival

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-backoffice-service/internal/arrival/dto"
	"github.com/fekuna/omnipos-backoffice-service/internal/model"
)

// Arrivals returned by the repository always carry their lines.
type Repository interface {
	Create(ctx context.Context, arrival *model.Arrival) error
	FindByID(ctx context.Context, id string) (*model.Arrival, error)
	// LockByID row-locks the arrival until the surrounding transaction ends.
	LockByID(ctx context.Context, id string) (*model.Arrival, error)
	FindAll(ctx context.Context, filters *dto.ArrivalFilters) ([]model.Arrival, int, error)
	MarkClosed(ctx context.Context, id string, closedAt time.Time) error
	Delete(ctx context.Context, id string) error

	// Lines
	UpsertLine(ctx context.Context, line *model.ArrivalLine) error
	DeleteLine(ctx context.Context, arrivalID, productID string) error

	ProductExists(ctx context.Context, productID string) (bool, error)
}
