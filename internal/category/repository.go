package category

import (
	"context"

	"github.com/fekuna/omnipos-backoffice-service/internal/category/dto"
	"github.com/fekuna/omnipos-backoffice-service/internal/model"
)

type Repository interface {
	Create(ctx context.Context, category *model.Category) error
	FindByID(ctx context.Context, id string) (*model.Category, error)
	// FindByIDForUpdate row-locks the category for the rest of the transaction.
	FindByIDForUpdate(ctx context.Context, id string) (*model.Category, error)
	FindAll(ctx context.Context, filters *dto.CategoryFilters) ([]model.Category, int, error)
	Update(ctx context.Context, category *model.Category) error
	Delete(ctx context.Context, id string) error

	IsNameUnique(ctx context.Context, name, excludeID string) (bool, error)
	IsSlugUnique(ctx context.Context, slug, excludeID string) (bool, error)

	// DetachChildren turns the children of id into root categories.
	DetachChildren(ctx context.Context, id string) error
	// DetachProducts clears the category of every product filed under id.
	DetachProducts(ctx context.Context, id string) error
}
