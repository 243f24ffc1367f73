package faq

import (
	"context"

	"github.com/fekuna/omnipos-backoffice-service/internal/faq/dto"
	"github.com/fekuna/omnipos-backoffice-service/internal/model"
)

type UseCase interface {
	CreateFaq(ctx context.Context, input *dto.FaqInput) (*model.Faq, error)
	GetFaq(ctx context.Context, id string) (*model.Faq, error)
	ListFaqs(ctx context.Context, filters *dto.FaqFilters) ([]model.Faq, int, error)
	UpdateFaq(ctx context.Context, input *dto.FaqInput) (*model.Faq, error)
	DeleteFaq(ctx context.Context, id string) error
}
