package faq

import (
	"context"

	"github.com/fekuna/omnipos-backoffice-service/internal/faq/dto"
	"github.com/fekuna/omnipos-backoffice-service/internal/model"
)

type Repository interface {
	Create(ctx context.Context, faq *model.Faq) error
	FindByID(ctx context.Context, id string) (*model.Faq, error)
	FindAll(ctx context.Context, filters *dto.FaqFilters) ([]model.Faq, int, error)
	Update(ctx context.Context, faq *model.Faq) error
	Delete(ctx context.Context, id string) error
}
