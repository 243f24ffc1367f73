package handler

import (
	"context"

	"github.com/fekuna/omnipos-backoffice-service/internal/model"
	"github.com/fekuna/omnipos-backoffice-service/internal/order"
	"github.com/fekuna/omnipos-backoffice-service/internal/order/dto"
	"github.com/fekuna/omnipos-backoffice-service/internal/transport"
	"github.com/fekuna/omnipos-backoffice-service/pkg/logger"
	"go.uber.org/zap"
	"google.golang.org/grpc"
)

const ServiceName = "backoffice.v1.OrderService"

type OrderServiceServer interface {
	PlaceOrder(ctx context.Context, req *PlaceOrderRequest) (*model.Order, error)
	GetOrder(ctx context.Context, req *transport.IDRequest) (*model.Order, error)
	GetOrderByReference(ctx context.Context, req *GetOrderByReferenceRequest) (*model.Order, error)
	ListOrders(ctx context.Context, req *ListOrdersRequest) (*ListOrdersResponse, error)
	CancelOrder(ctx context.Context, req *transport.IDRequest) (*transport.Empty, error)
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*OrderServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		transport.Unary(ServiceName, "PlaceOrder", OrderServiceServer.PlaceOrder),
		transport.Unary(ServiceName, "GetOrder", OrderServiceServer.GetOrder),
		transport.Unary(ServiceName, "GetOrderByReference", OrderServiceServer.GetOrderByReference),
		transport.Unary(ServiceName, "ListOrders", OrderServiceServer.ListOrders),
		transport.Unary(ServiceName, "CancelOrder", OrderServiceServer.CancelOrder),
	},
	Streams: []grpc.StreamDesc{},
}

type OrderLineRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type PlaceOrderRequest struct {
	Reference  string             `json:"reference"`
	CustomerID string             `json:"customer_id"`
	CouponCode string             `json:"coupon_code"`
	Lines      []OrderLineRequest `json:"lines"`
}

type GetOrderByReferenceRequest struct {
	Reference string `json:"reference"`
}

type ListOrdersRequest struct {
	transport.Page
	CustomerID string `json:"customer_id"`
	Completed  *bool  `json:"completed"`
	Reference  string `json:"reference"`
	CouponID   string `json:"coupon_id"`
}

type ListOrdersResponse struct {
	Orders []model.Order `json:"orders"`
	Total  int           `json:"total"`
}

var _ OrderServiceServer = (*OrderHandler)(nil)

type OrderHandler struct {
	uc     order.UseCase
	logger logger.ZapLogger
}

func NewOrderHandler(uc order.UseCase, log logger.ZapLogger) *OrderHandler {
	return &OrderHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *OrderHandler) Register(s grpc.ServiceRegistrar) {
	s.RegisterService(&ServiceDesc, h)
}

func (h *OrderHandler) PlaceOrder(ctx context.Context, req *PlaceOrderRequest) (*model.Order, error) {
	lines := make([]dto.OrderLineInput, len(req.Lines))
	for i, l := range req.Lines {
		lines[i] = dto.OrderLineInput{ProductID: l.ProductID, Quantity: l.Quantity}
	}

	o, err := h.uc.PlaceOrder(ctx, &dto.PlaceOrderInput{
		Reference:  req.Reference,
		CustomerID: req.CustomerID,
		CouponCode: req.CouponCode,
		Lines:      lines,
	})
	if err != nil {
		h.logger.Error("failed to place order", zap.String("customer_id", req.CustomerID), zap.Error(err))
		return nil, transport.Error(err)
	}
	return o, nil
}

func (h *OrderHandler) GetOrder(ctx context.Context, req *transport.IDRequest) (*model.Order, error) {
	o, err := h.uc.GetOrder(ctx, req.ID)
	if err != nil {
		return nil, transport.Error(err)
	}
	return o, nil
}

func (h *OrderHandler) GetOrderByReference(ctx context.Context, req *GetOrderByReferenceRequest) (*model.Order, error) {
	o, err := h.uc.GetOrderByReference(ctx, req.Reference)
	if err != nil {
		return nil, transport.Error(err)
	}
	return o, nil
}

func (h *OrderHandler) ListOrders(ctx context.Context, req *ListOrdersRequest) (*ListOrdersResponse, error) {
	orders, count, err := h.uc.ListOrders(ctx, &dto.OrderFilters{
		CustomerID: req.CustomerID,
		Completed:  req.Completed,
		Reference:  req.Reference,
		CouponID:   req.CouponID,
		Page:       req.Page.Page,
		PageSize:   req.PageSize,
	})
	if err != nil {
		return nil, transport.Error(err)
	}
	return &ListOrdersResponse{Orders: orders, Total: count}, nil
}

func (h *OrderHandler) CancelOrder(ctx context.Context, req *transport.IDRequest) (*transport.Empty, error) {
	if err := h.uc.CancelOrder(ctx, req.ID); err != nil {
		h.logger.Error("failed to cancel order", zap.String("id", req.ID), zap.Error(err))
		return nil, transport.Error(err)
	}
	return &transport.Empty{}, nil
}
