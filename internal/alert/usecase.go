package alert

import (
	"context"

	"github.com/fekuna/omnipos-backoffice-service/internal/alert/dto"
	"github.com/fekuna/omnipos-backoffice-service/internal/model"
)

type UseCase interface {
	// CreateAlert raises an open alert. The user defaults to the staff
	// member bound to ctx.
	CreateAlert(ctx context.Context, input *dto.CreateAlertInput) (*model.Alert, error)
	GetAlert(ctx context.Context, id string) (*model.Alert, error)
	ListAlerts(ctx context.Context, filters *dto.AlertFilters) ([]model.Alert, int, error)
	ResolveAlert(ctx context.Context, id string) (*model.Alert, error)
	DeleteAlert(ctx context.Context, id string) error
}
