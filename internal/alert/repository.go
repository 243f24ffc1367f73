package alert

import (
	"context"

	"github.com/fekuna/omnipos-backoffice-service/internal/alert/dto"
	"github.com/fekuna/omnipos-backoffice-service/internal/model"
)

type Repository interface {
	Create(ctx context.Context, alert *model.Alert) error
	FindByID(ctx context.Context, id string) (*model.Alert, error)
	LockByID(ctx context.Context, id string) (*model.Alert, error)
	FindAll(ctx context.Context, filters *dto.AlertFilters) ([]model.Alert, int, error)
	Update(ctx context.Context, alert *model.Alert) error
	Delete(ctx context.Context, id string) error
}
