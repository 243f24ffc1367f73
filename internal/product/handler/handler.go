package handler

import (
	"context"

	"github.com/fekuna/omnipos-backoffice-service/internal/auth"
	"github.com/fekuna/omnipos-backoffice-service/internal/model"
	"github.com/fekuna/omnipos-backoffice-service/internal/product"
	"github.com/fekuna/omnipos-backoffice-service/internal/product/dto"
	"github.com/fekuna/omnipos-backoffice-service/internal/transport"
	"github.com/fekuna/omnipos-backoffice-service/pkg/logger"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"google.golang.org/grpc"
)

const ServiceName = "backoffice.v1.ProductService"

type ProductServiceServer interface {
	CreateProduct(ctx context.Context, req *CreateProductRequest) (*model.Product, error)
	GetProduct(ctx context.Context, req *transport.IDRequest) (*model.Product, error)
	ListProducts(ctx context.Context, req *ListProductsRequest) (*ListProductsResponse, error)
	UpdateProduct(ctx context.Context, req *UpdateProductRequest) (*model.Product, error)
	DeleteProduct(ctx context.Context, req *transport.IDRequest) (*transport.Empty, error)
	AddImage(ctx context.Context, req *AddImageRequest) (*model.Image, error)
	ListImages(ctx context.Context, req *ListImagesRequest) (*ListImagesResponse, error)
	DeleteImage(ctx context.Context, req *transport.IDRequest) (*transport.Empty, error)
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ProductServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		transport.Unary(ServiceName, "CreateProduct", ProductServiceServer.CreateProduct),
		transport.Unary(ServiceName, "GetProduct", ProductServiceServer.GetProduct),
		transport.Unary(ServiceName, "ListProducts", ProductServiceServer.ListProducts),
		transport.Unary(ServiceName, "UpdateProduct", ProductServiceServer.UpdateProduct),
		transport.Unary(ServiceName, "DeleteProduct", ProductServiceServer.DeleteProduct),
		transport.Unary(ServiceName, "AddImage", ProductServiceServer.AddImage),
		transport.Unary(ServiceName, "ListImages", ProductServiceServer.ListImages),
		transport.Unary(ServiceName, "DeleteImage", ProductServiceServer.DeleteImage),
	},
	Streams: []grpc.StreamDesc{},
}

type CreateProductRequest struct {
	CategoryID  string          `json:"category_id"`
	Name        string          `json:"name"`
	Slug        string          `json:"slug"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	IsActive    *bool           `json:"is_active"`
}

type UpdateProductRequest struct {
	ID          string          `json:"id"`
	CategoryID  string          `json:"category_id"`
	Name        string          `json:"name"`
	Slug        string          `json:"slug"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	IsActive    bool            `json:"is_active"`
}

type ListProductsRequest struct {
	transport.Page
	CategoryID  string `json:"category_id"`
	IsActive    *bool  `json:"is_active"`
	SearchQuery string `json:"search_query"`
	SortBy      string `json:"sort_by"`
	SortOrder   string `json:"sort_order"`
}

type ListProductsResponse struct {
	Products []model.Product `json:"products"`
	Total    int             `json:"total"`
}

type AddImageRequest struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	URL       string `json:"url"`
}

type ListImagesRequest struct {
	ProductID string `json:"product_id"`
}

type ListImagesResponse struct {
	Images []model.Image `json:"images"`
}

var _ ProductServiceServer = (*ProductHandler)(nil)

type ProductHandler struct {
	uc     product.UseCase
	logger logger.ZapLogger
}

func NewProductHandler(uc product.UseCase, log logger.ZapLogger) *ProductHandler {
	return &ProductHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *ProductHandler) Register(s grpc.ServiceRegistrar) {
	s.RegisterService(&ServiceDesc, h)
}

func (h *ProductHandler) CreateProduct(ctx context.Context, req *CreateProductRequest) (*model.Product, error) {
	p, err := h.uc.CreateProduct(ctx, &dto.CreateProductInput{
		CategoryID:  req.CategoryID,
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		IsActive:    req.IsActive,
		UserID:      auth.GetStaffID(ctx),
	})
	if err != nil {
		h.logger.Error("failed to create product", zap.Error(err))
		return nil, transport.Error(err)
	}
	return p, nil
}

func (h *ProductHandler) GetProduct(ctx context.Context, req *transport.IDRequest) (*model.Product, error) {
	p, err := h.uc.GetProduct(ctx, req.ID)
	if err != nil {
		return nil, transport.Error(err)
	}
	return p, nil
}

func (h *ProductHandler) ListProducts(ctx context.Context, req *ListProductsRequest) (*ListProductsResponse, error) {
	products, count, err := h.uc.ListProducts(ctx, &dto.ProductFilters{
		CategoryID:  req.CategoryID,
		IsActive:    req.IsActive,
		SearchQuery: req.SearchQuery,
		SortBy:      req.SortBy,
		SortOrder:   req.SortOrder,
		Page:        req.Page.Page,
		PageSize:    req.PageSize,
	})
	if err != nil {
		return nil, transport.Error(err)
	}
	return &ListProductsResponse{Products: products, Total: count}, nil
}

func (h *ProductHandler) UpdateProduct(ctx context.Context, req *UpdateProductRequest) (*model.Product, error) {
	p, err := h.uc.UpdateProduct(ctx, &dto.UpdateProductInput{
		ID:          req.ID,
		CategoryID:  req.CategoryID,
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		Price:       req.Price,
		IsActive:    req.IsActive,
	})
	if err != nil {
		h.logger.Error("failed to update product", zap.String("id", req.ID), zap.Error(err))
		return nil, transport.Error(err)
	}
	return p, nil
}

func (h *ProductHandler) DeleteProduct(ctx context.Context, req *transport.IDRequest) (*transport.Empty, error) {
	if err := h.uc.DeleteProduct(ctx, req.ID); err != nil {
		h.logger.Error("failed to delete product", zap.String("id", req.ID), zap.Error(err))
		return nil, transport.Error(err)
	}
	return &transport.Empty{}, nil
}

func (h *ProductHandler) AddImage(ctx context.Context, req *AddImageRequest) (*model.Image, error) {
	img, err := h.uc.AddImage(ctx, &dto.AddImageInput{
		ProductID: req.ProductID,
		Name:      req.Name,
		URL:       req.URL,
	})
	if err != nil {
		return nil, transport.Error(err)
	}
	return img, nil
}

func (h *ProductHandler) ListImages(ctx context.Context, req *ListImagesRequest) (*ListImagesResponse, error) {
	images, err := h.uc.ListImages(ctx, req.ProductID)
	if err != nil {
		return nil, transport.Error(err)
	}
	return &ListImagesResponse{Images: images}, nil
}

func (h *ProductHandler) DeleteImage(ctx context.Context, req *transport.IDRequest) (*transport.Empty, error) {
	if err := h.uc.DeleteImage(ctx, req.ID); err != nil {
		return nil, transport.Error(err)
	}
	return &transport.Empty{}, nil
}
