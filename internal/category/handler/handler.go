package handler

import (
	"context"

	"github.com/fekuna/omnipos-backoffice-service/internal/category"
	"github.com/fekuna/omnipos-backoffice-service/internal/category/dto"
	"github.com/fekuna/omnipos-backoffice-service/internal/model"
	"github.com/fekuna/omnipos-backoffice-service/internal/transport"
	"github.com/fekuna/omnipos-backoffice-service/pkg/logger"
	"go.uber.org/zap"
	"google.golang.org/grpc"
)

const ServiceName = "backoffice.v1.CategoryService"

type CategoryServiceServer interface {
	CreateCategory(ctx context.Context, req *CreateCategoryRequest) (*model.Category, error)
	GetCategory(ctx context.Context, req *transport.IDRequest) (*model.Category, error)
	ListCategories(ctx context.Context, req *ListCategoriesRequest) (*ListCategoriesResponse, error)
	UpdateCategory(ctx context.Context, req *UpdateCategoryRequest) (*model.Category, error)
	DeleteCategory(ctx context.Context, req *transport.IDRequest) (*transport.Empty, error)
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*CategoryServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		transport.Unary(ServiceName, "CreateCategory", CategoryServiceServer.CreateCategory),
		transport.Unary(ServiceName, "GetCategory", CategoryServiceServer.GetCategory),
		transport.Unary(ServiceName, "ListCategories", CategoryServiceServer.ListCategories),
		transport.Unary(ServiceName, "UpdateCategory", CategoryServiceServer.UpdateCategory),
		transport.Unary(ServiceName, "DeleteCategory", CategoryServiceServer.DeleteCategory),
	},
	Streams: []grpc.StreamDesc{},
}

type CreateCategoryRequest struct {
	ParentID string `json:"parent_id"`
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	ImageURL string `json:"image_url"`
	IsActive *bool  `json:"is_active"`
}

type UpdateCategoryRequest struct {
	ID       string `json:"id"`
	ParentID string `json:"parent_id"`
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	ImageURL string `json:"image_url"`
	IsActive bool   `json:"is_active"`
}

type ListCategoriesRequest struct {
	transport.Page
	// "" lists every category, "root" only the top level.
	ParentID        string `json:"parent_id"`
	IsActive        *bool  `json:"is_active"`
	Search          string `json:"search"`
	IncludeChildren bool   `json:"include_children"`
}

type ListCategoriesResponse struct {
	Categories []model.Category `json:"categories"`
	Total      int              `json:"total"`
}

var _ CategoryServiceServer = (*CategoryHandler)(nil)

type CategoryHandler struct {
	uc     category.UseCase
	logger logger.ZapLogger
}

func NewCategoryHandler(uc category.UseCase, log logger.ZapLogger) *CategoryHandler {
	return &CategoryHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *CategoryHandler) Register(s grpc.ServiceRegistrar) {
	s.RegisterService(&ServiceDesc, h)
}

func (h *CategoryHandler) CreateCategory(ctx context.Context, req *CreateCategoryRequest) (*model.Category, error) {
	input := &dto.CreateCategoryInput{
		Name:     req.Name,
		Slug:     req.Slug,
		ImageURL: req.ImageURL,
		IsActive: req.IsActive,
	}
	if req.ParentID != "" {
		input.ParentID = &req.ParentID
	}

	cat, err := h.uc.CreateCategory(ctx, input)
	if err != nil {
		h.logger.Error("failed to create category", zap.Error(err))
		return nil, transport.Error(err)
	}
	return cat, nil
}

func (h *CategoryHandler) GetCategory(ctx context.Context, req *transport.IDRequest) (*model.Category, error) {
	cat, err := h.uc.GetCategory(ctx, req.ID)
	if err != nil {
		return nil, transport.Error(err)
	}
	return cat, nil
}

func (h *CategoryHandler) ListCategories(ctx context.Context, req *ListCategoriesRequest) (*ListCategoriesResponse, error) {
	filters := &dto.CategoryFilters{
		IsActive:        req.IsActive,
		Search:          req.Search,
		IncludeChildren: req.IncludeChildren,
		Page:            req.Page.Page,
		PageSize:        req.PageSize,
	}
	switch req.ParentID {
	case "":
	case "root":
		root := ""
		filters.ParentID = &root
	default:
		filters.ParentID = &req.ParentID
	}

	cats, count, err := h.uc.ListCategories(ctx, filters)
	if err != nil {
		return nil, transport.Error(err)
	}
	return &ListCategoriesResponse{Categories: cats, Total: count}, nil
}

func (h *CategoryHandler) UpdateCategory(ctx context.Context, req *UpdateCategoryRequest) (*model.Category, error) {
	input := &dto.UpdateCategoryInput{
		ID:       req.ID,
		Name:     req.Name,
		Slug:     req.Slug,
		ImageURL: req.ImageURL,
		IsActive: req.IsActive,
	}
	if req.ParentID != "" {
		input.ParentID = &req.ParentID
	}

	cat, err := h.uc.UpdateCategory(ctx, input)
	if err != nil {
		h.logger.Error("failed to update category", zap.String("id", req.ID), zap.Error(err))
		return nil, transport.Error(err)
	}
	return cat, nil
}

func (h *CategoryHandler) DeleteCategory(ctx context.Context, req *transport.IDRequest) (*transport.Empty, error) {
	if err := h.uc.DeleteCategory(ctx, req.ID); err != nil {
		h.logger.Error("failed to delete category", zap.String("id", req.ID), zap.Error(err))
		return nil, transport.Error(err)
	}
	return &transport.Empty{}, nil
}
