package delivery

import (
	"context"

	"github.com/fekuna/omnipos-backoffice-service/internal/delivery/dto"
	"github.com/fekuna/omnipos-backoffice-service/internal/model"
)

type UseCase interface {
	CreateDelivery(ctx context.Context, input *dto.CreateDeliveryInput) (*model.Delivery, error)
	GetDelivery(ctx context.Context, id string) (*model.Delivery, error)
	ListDeliveries(ctx context.Context, filters *dto.DeliveryFilters) ([]model.Delivery, int, error)
	UpdateDelivery(ctx context.Context, input *dto.UpdateDeliveryInput) (*model.Delivery, error)
	// AdvanceDelivery moves the delivery one state forward on behalf of the
	// staff member bound to ctx.
	AdvanceDelivery(ctx context.Context, id string) (*model.Delivery, error)
}
