package handler

import (
	"context"

	"github.com/fekuna/omnipos-backoffice-service/internal/delivery"
	"github.com/fekuna/omnipos-backoffice-service/internal/delivery/dto"
	"github.com/fekuna/omnipos-backoffice-service/internal/model"
	"github.com/fekuna/omnipos-backoffice-service/internal/transport"
	"github.com/fekuna/omnipos-backoffice-service/pkg/logger"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"google.golang.org/grpc"
)

const ServiceName = "backoffice.v1.DeliveryService"

type DeliveryServiceServer interface {
	CreateDelivery(ctx context.Context, req *CreateDeliveryRequest) (*model.Delivery, error)
	GetDelivery(ctx context.Context, req *transport.IDRequest) (*model.Delivery, error)
	ListDeliveries(ctx context.Context, req *ListDeliveriesRequest) (*ListDeliveriesResponse, error)
	UpdateDelivery(ctx context.Context, req *UpdateDeliveryRequest) (*model.Delivery, error)
	AdvanceDelivery(ctx context.Context, req *transport.IDRequest) (*model.Delivery, error)
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*DeliveryServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		transport.Unary(ServiceName, "CreateDelivery", DeliveryServiceServer.CreateDelivery),
		transport.Unary(ServiceName, "GetDelivery", DeliveryServiceServer.GetDelivery),
		transport.Unary(ServiceName, "ListDeliveries", DeliveryServiceServer.ListDeliveries),
		transport.Unary(ServiceName, "UpdateDelivery", DeliveryServiceServer.UpdateDelivery),
		transport.Unary(ServiceName, "AdvanceDelivery", DeliveryServiceServer.AdvanceDelivery),
	},
	Streams: []grpc.StreamDesc{},
}

type CreateDeliveryRequest struct {
	OrderID string          `json:"order_id"`
	Address string          `json:"address"`
	Zipcode string          `json:"zipcode"`
	City    string          `json:"city"`
	Country string          `json:"country"`
	Price   decimal.Decimal `json:"price"`
}

type UpdateDeliveryRequest struct {
	ID      string           `json:"id"`
	Address string           `json:"address"`
	Zipcode string           `json:"zipcode"`
	City    string           `json:"city"`
	Country string           `json:"country"`
	Price   *decimal.Decimal `json:"price"`
}

type ListDeliveriesRequest struct {
	transport.Page
	OrderID     string `json:"order_id"`
	State       string `json:"state"`
	City        string `json:"city"`
	DeliveredBy string `json:"delivered_by"`
}

type ListDeliveriesResponse struct {
	Deliveries []model.Delivery `json:"deliveries"`
	Total      int              `json:"total"`
}

var _ DeliveryServiceServer = (*DeliveryHandler)(nil)

type DeliveryHandler struct {
	uc     delivery.UseCase
	logger logger.ZapLogger
}

func NewDeliveryHandler(uc delivery.UseCase, log logger.ZapLogger) *DeliveryHandler {
	return &DeliveryHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *DeliveryHandler) Register(s grpc.ServiceRegistrar) {
	s.RegisterService(&ServiceDesc, h)
}

func (h *DeliveryHandler) CreateDelivery(ctx context.Context, req *CreateDeliveryRequest) (*model.Delivery, error) {
	d, err := h.uc.CreateDelivery(ctx, &dto.CreateDeliveryInput{
		OrderID: req.OrderID,
		Address: req.Address,
		Zipcode: req.Zipcode,
		City:    req.City,
		Country: req.Country,
		Price:   req.Price,
	})
	if err != nil {
		h.logger.Error("failed to create delivery", zap.String("order_id", req.OrderID), zap.Error(err))
		return nil, transport.Error(err)
	}
	return d, nil
}

func (h *DeliveryHandler) GetDelivery(ctx context.Context, req *transport.IDRequest) (*model.Delivery, error) {
	d, err := h.uc.GetDelivery(ctx, req.ID)
	if err != nil {
		return nil, transport.Error(err)
	}
	return d, nil
}

func (h *DeliveryHandler) ListDeliveries(ctx context.Context, req *ListDeliveriesRequest) (*ListDeliveriesResponse, error) {
	deliveries, count, err := h.uc.ListDeliveries(ctx, &dto.DeliveryFilters{
		OrderID:     req.OrderID,
		State:       req.State,
		City:        req.City,
		DeliveredBy: req.DeliveredBy,
		Page:        req.Page.Page,
		PageSize:    req.PageSize,
	})
	if err != nil {
		return nil, transport.Error(err)
	}
	return &ListDeliveriesResponse{Deliveries: deliveries, Total: count}, nil
}

func (h *DeliveryHandler) UpdateDelivery(ctx context.Context, req *UpdateDeliveryRequest) (*model.Delivery, error) {
	d, err := h.uc.UpdateDelivery(ctx, &dto.UpdateDeliveryInput{
		ID:      req.ID,
		Address: req.Address,
		Zipcode: req.Zipcode,
		City:    req.City,
		Country: req.Country,
		Price:   req.Price,
	})
	if err != nil {
		h.logger.Error("failed to update delivery", zap.String("id", req.ID), zap.Error(err))
		return nil, transport.Error(err)
	}
	return d, nil
}

func (h *DeliveryHandler) AdvanceDelivery(ctx context.Context, req *transport.IDRequest) (*model.Delivery, error) {
	d, err := h.uc.AdvanceDelivery(ctx, req.ID)
	if err != nil {
		h.logger.Error("failed to advance delivery", zap.String("id", req.ID), zap.Error(err))
		return nil, transport.Error(err)
	}
	return d, nil
}
