package handler

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-backoffice-service/internal/coupon"
	"github.com/fekuna/omnipos-backoffice-service/internal/coupon/dto"
	"github.com/fekuna/omnipos-backoffice-service/internal/model"
	"github.com/fekuna/omnipos-backoffice-service/internal/transport"
	"github.com/fekuna/omnipos-backoffice-service/pkg/logger"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"google.golang.org/grpc"
)

const ServiceName = "backoffice.v1.CouponService"

type CouponServiceServer interface {
	CreateCoupon(ctx context.Context, req *CreateCouponRequest) (*model.Coupon, error)
	GetCoupon(ctx context.Context, req *transport.IDRequest) (*model.Coupon, error)
	ListCoupons(ctx context.Context, req *ListCouponsRequest) (*ListCouponsResponse, error)
	UpdateCoupon(ctx context.Context, req *UpdateCouponRequest) (*model.Coupon, error)
	SetCouponValidity(ctx context.Context, req *SetCouponValidityRequest) (*model.Coupon, error)
	DeleteCoupon(ctx context.Context, req *transport.IDRequest) (*transport.Empty, error)
	ValidateCoupon(ctx context.Context, req *ValidateCouponRequest) (*model.Coupon, error)
	CreateCouponType(ctx context.Context, req *CreateCouponTypeRequest) (*model.CouponType, error)
	ListCouponTypes(ctx context.Context, req *transport.Empty) (*ListCouponTypesResponse, error)
	DeleteCouponType(ctx context.Context, req *transport.IDRequest) (*transport.Empty, error)
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*CouponServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		transport.Unary(ServiceName, "CreateCoupon", CouponServiceServer.CreateCoupon),
		transport.Unary(ServiceName, "GetCoupon", CouponServiceServer.GetCoupon),
		transport.Unary(ServiceName, "ListCoupons", CouponServiceServer.ListCoupons),
		transport.Unary(ServiceName, "UpdateCoupon", CouponServiceServer.UpdateCoupon),
		transport.Unary(ServiceName, "SetCouponValidity", CouponServiceServer.SetCouponValidity),
		transport.Unary(ServiceName, "DeleteCoupon", CouponServiceServer.DeleteCoupon),
		transport.Unary(ServiceName, "ValidateCoupon", CouponServiceServer.ValidateCoupon),
		transport.Unary(ServiceName, "CreateCouponType", CouponServiceServer.CreateCouponType),
		transport.Unary(ServiceName, "ListCouponTypes", CouponServiceServer.ListCouponTypes),
		transport.Unary(ServiceName, "DeleteCouponType", CouponServiceServer.DeleteCouponType),
	},
	Streams: []grpc.StreamDesc{},
}

type CreateCouponRequest struct {
	Code         string          `json:"code"`
	CouponTypeID string          `json:"coupon_type_id"`
	Description  string          `json:"description"`
	Discount     decimal.Decimal `json:"discount"`
	MaxUsage     int             `json:"max_usage"`
	IsValid      *bool           `json:"is_valid"`
	ValidFrom    *time.Time      `json:"valid_from"`
	ValidUntil   *time.Time      `json:"valid_until"`
}

type UpdateCouponRequest struct {
	ID           string          `json:"id"`
	Code         string          `json:"code"`
	CouponTypeID string          `json:"coupon_type_id"`
	Description  string          `json:"description"`
	Discount     decimal.Decimal `json:"discount"`
	MaxUsage     int             `json:"max_usage"`
	ValidFrom    *time.Time      `json:"valid_from"`
	ValidUntil   *time.Time      `json:"valid_until"`
}

type SetCouponValidityRequest struct {
	ID      string `json:"id"`
	IsValid bool   `json:"is_valid"`
}

type ValidateCouponRequest struct {
	Code string `json:"code"`
}

type ListCouponsRequest struct {
	transport.Page
	CouponTypeID string `json:"coupon_type_id"`
	IsValid      *bool  `json:"is_valid"`
	Search       string `json:"search"`
}

type ListCouponsResponse struct {
	Coupons []model.Coupon `json:"coupons"`
	Total   int            `json:"total"`
}

type CreateCouponTypeRequest struct {
	Name string `json:"name"`
}

type ListCouponTypesResponse struct {
	CouponTypes []model.CouponType `json:"coupon_types"`
}

var _ CouponServiceServer = (*CouponHandler)(nil)

type CouponHandler struct {
	uc     coupon.UseCase
	logger logger.ZapLogger
}

func NewCouponHandler(uc coupon.UseCase, log logger.ZapLogger) *CouponHandler {
	return &CouponHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *CouponHandler) Register(s grpc.ServiceRegistrar) {
	s.RegisterService(&ServiceDesc, h)
}

func (h *CouponHandler) CreateCoupon(ctx context.Context, req *CreateCouponRequest) (*model.Coupon, error) {
	c, err := h.uc.CreateCoupon(ctx, &dto.CreateCouponInput{
		Code:         req.Code,
		CouponTypeID: req.CouponTypeID,
		Description:  req.Description,
		Discount:     req.Discount,
		MaxUsage:     req.MaxUsage,
		IsValid:      req.IsValid,
		ValidFrom:    req.ValidFrom,
		ValidUntil:   req.ValidUntil,
	})
	if err != nil {
		h.logger.Error("failed to create coupon", zap.String("code", req.Code), zap.Error(err))
		return nil, transport.Error(err)
	}
	return c, nil
}

func (h *CouponHandler) GetCoupon(ctx context.Context, req *transport.IDRequest) (*model.Coupon, error) {
	c, err := h.uc.GetCoupon(ctx, req.ID)
	if err != nil {
		return nil, transport.Error(err)
	}
	return c, nil
}

func (h *CouponHandler) ListCoupons(ctx context.Context, req *ListCouponsRequest) (*ListCouponsResponse, error) {
	coupons, count, err := h.uc.ListCoupons(ctx, &dto.CouponFilters{
		CouponTypeID: req.CouponTypeID,
		IsValid:      req.IsValid,
		Search:       req.Search,
		Page:         req.Page.Page,
		PageSize:     req.PageSize,
	})
	if err != nil {
		return nil, transport.Error(err)
	}
	return &ListCouponsResponse{Coupons: coupons, Total: count}, nil
}

func (h *CouponHandler) UpdateCoupon(ctx context.Context, req *UpdateCouponRequest) (*model.Coupon, error) {
	c, err := h.uc.UpdateCoupon(ctx, &dto.UpdateCouponInput{
		ID:           req.ID,
		Code:         req.Code,
		CouponTypeID: req.CouponTypeID,
		Description:  req.Description,
		Discount:     req.Discount,
		MaxUsage:     req.MaxUsage,
		ValidFrom:    req.ValidFrom,
		ValidUntil:   req.ValidUntil,
	})
	if err != nil {
		h.logger.Error("failed to update coupon", zap.String("id", req.ID), zap.Error(err))
		return nil, transport.Error(err)
	}
	return c, nil
}

func (h *CouponHandler) SetCouponValidity(ctx context.Context, req *SetCouponValidityRequest) (*model.Coupon, error) {
	c, err := h.uc.SetCouponValidity(ctx, req.ID, req.IsValid)
	if err != nil {
		return nil, transport.Error(err)
	}
	return c, nil
}

func (h *CouponHandler) DeleteCoupon(ctx context.Context, req *transport.IDRequest) (*transport.Empty, error) {
	if err := h.uc.DeleteCoupon(ctx, req.ID); err != nil {
		h.logger.Error("failed to delete coupon", zap.String("id", req.ID), zap.Error(err))
		return nil, transport.Error(err)
	}
	return &transport.Empty{}, nil
}

func (h *CouponHandler) ValidateCoupon(ctx context.Context, req *ValidateCouponRequest) (*model.Coupon, error) {
	c, err := h.uc.ValidateCoupon(ctx, req.Code)
	if err != nil {
		return nil, transport.Error(err)
	}
	return c, nil
}

func (h *CouponHandler) CreateCouponType(ctx context.Context, req *CreateCouponTypeRequest) (*model.CouponType, error) {
	t, err := h.uc.CreateCouponType(ctx, req.Name)
	if err != nil {
		return nil, transport.Error(err)
	}
	return t, nil
}

func (h *CouponHandler) ListCouponTypes(ctx context.Context, _ *transport.Empty) (*ListCouponTypesResponse, error) {
	types, err := h.uc.ListCouponTypes(ctx)
	if err != nil {
		return nil, transport.Error(err)
	}
	return &ListCouponTypesResponse{CouponTypes: types}, nil
}

func (h *CouponHandler) DeleteCouponType(ctx context.Context, req *transport.IDRequest) (*transport.Empty, error) {
	if err := h.uc.DeleteCouponType(ctx, req.ID); err != nil {
		return nil, transport.Error(err)
	}
	return &transport.Empty{}, nil
}
