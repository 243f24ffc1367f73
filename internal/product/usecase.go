package product

import (
	"context"

	"github.com/fekuna/omnipos-backoffice-service/internal/model"
	"github.com/fekuna/omnipos-backoffice-service/internal/product/dto"
)

type UseCase interface {
	CreateProduct(ctx context.Context, input *dto.CreateProductInput) (*model.Product, error)
	GetProduct(ctx context.Context, id string) (*model.Product, error)
	ListProducts(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error)
	UpdateProduct(ctx context.Context, input *dto.UpdateProductInput) (*model.Product, error)
	DeleteProduct(ctx context.Context, id string) error

	// Image ops
	AddImage(ctx context.Context, input *dto.AddImageInput) (*model.Image, error)
	ListImages(ctx context.Context, productID string) ([]model.Image, error)
	DeleteImage(ctx context.Context, id string) error
}

// SearchMapping is the Elasticsearch mapping of the product index.
const SearchMapping = `{
	"mappings": {
		"properties": {
			"name": { "type": "text" },
			"slug": { "type": "keyword" },
			"description": { "type": "text" },
			"category_id": { "type": "keyword" },
			"is_active": { "type": "boolean" },
			"price": { "type": "double" },
			"created_at": { "type": "date" }
		}
	}
}`
