package product

import (
	"context"

	"github.com/fekuna/omnipos-backoffice-service/internal/model"
	"github.com/fekuna/omnipos-backoffice-service/internal/product/dto"
)

type Repository interface {
	Create(ctx context.Context, product *model.Product) error
	FindByID(ctx context.Context, id string) (*model.Product, error)
	FindByIDs(ctx context.Context, ids []string) ([]model.Product, error)
	FindAll(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error)
	Update(ctx context.Context, product *model.Product) error
	Delete(ctx context.Context, id string) error

	IsSlugUnique(ctx context.Context, slug, excludeID string) (bool, error)
	CategoryExists(ctx context.Context, categoryID string) (bool, error)
	// IsReferenced reports whether an order or an arrival has a line for the product.
	IsReferenced(ctx context.Context, id string) (bool, error)
	// DeleteDependents removes the images, reviews and likes owned by the product.
	DeleteDependents(ctx context.Context, id string) error

	// Images
	AddImage(ctx context.Context, image *model.Image) error
	FindImageByID(ctx context.Context, id string) (*model.Image, error)
	ListImages(ctx context.Context, productID string) ([]model.Image, error)
	DeleteImage(ctx context.Context, id string) error

	// GetStats aggregates likes, reviews and completed order lines per product.
	GetStats(ctx context.Context, ids []string) (map[string]model.ProductStats, error)
}
