package handler

import (
	"context"

	"github.com/fekuna/omnipos-backoffice-service/internal/arrival"
	"github.com/fekuna/omnipos-backoffice-service/internal/arrival/dto"
	"github.com/fekuna/omnipos-backoffice-service/internal/model"
	"github.com/fekuna/omnipos-backoffice-service/internal/transport"
	"github.com/fekuna/omnipos-backoffice-service/pkg/logger"
	"go.uber.org/zap"
	"google.golang.org/grpc"
)

const ServiceName = "backoffice.v1.ArrivalService"

type ArrivalServiceServer interface {
	CreateArrival(ctx context.Context, req *transport.Empty) (*ArrivalResponse, error)
	GetArrival(ctx context.Context, req *transport.IDRequest) (*ArrivalResponse, error)
	ListArrivals(ctx context.Context, req *ListArrivalsRequest) (*ListArrivalsResponse, error)
	AddArrivalProduct(ctx context.Context, req *ArrivalLineRequest) (*ArrivalResponse, error)
	SetArrivalProductQuantity(ctx context.Context, req *ArrivalLineRequest) (*ArrivalResponse, error)
	RemoveArrivalProduct(ctx context.Context, req *ArrivalLineRequest) (*ArrivalResponse, error)
	CloseArrival(ctx context.Context, req *transport.IDRequest) (*ArrivalResponse, error)
	DeleteArrival(ctx context.Context, req *transport.IDRequest) (*transport.Empty, error)
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ArrivalServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		transport.Unary(ServiceName, "CreateArrival", ArrivalServiceServer.CreateArrival),
		transport.Unary(ServiceName, "GetArrival", ArrivalServiceServer.GetArrival),
		transport.Unary(ServiceName, "ListArrivals", ArrivalServiceServer.ListArrivals),
		transport.Unary(ServiceName, "AddArrivalProduct", ArrivalServiceServer.AddArrivalProduct),
		transport.Unary(ServiceName, "SetArrivalProductQuantity", ArrivalServiceServer.SetArrivalProductQuantity),
		transport.Unary(ServiceName, "RemoveArrivalProduct", ArrivalServiceServer.RemoveArrivalProduct),
		transport.Unary(ServiceName, "CloseArrival", ArrivalServiceServer.CloseArrival),
		transport.Unary(ServiceName, "DeleteArrival", ArrivalServiceServer.DeleteArrival),
	},
	Streams: []grpc.StreamDesc{},
}

type ArrivalLineRequest struct {
	ArrivalID string `json:"arrival_id"`
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type ListArrivalsRequest struct {
	transport.Page
	IsClosed *bool `json:"is_closed"`
}

type ArrivalResponse struct {
	*model.Arrival
	ProductsCount int `json:"products_count"`
}

type ListArrivalsResponse struct {
	Arrivals []ArrivalResponse `json:"arrivals"`
	Total    int               `json:"total"`
}

func toResponse(a *model.Arrival) *ArrivalResponse {
	return &ArrivalResponse{Arrival: a, ProductsCount: a.ProductsCount()}
}

var _ ArrivalServiceServer = (*ArrivalHandler)(nil)

type ArrivalHandler struct {
	uc     arrival.UseCase
	logger logger.ZapLogger
}

func NewArrivalHandler(uc arrival.UseCase, log logger.ZapLogger) *ArrivalHandler {
	return &ArrivalHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *ArrivalHandler) Register(s grpc.ServiceRegistrar) {
	s.RegisterService(&ServiceDesc, h)
}

func (h *ArrivalHandler) CreateArrival(ctx context.Context, _ *transport.Empty) (*ArrivalResponse, error) {
	a, err := h.uc.CreateArrival(ctx)
	if err != nil {
		h.logger.Error("failed to create arrival", zap.Error(err))
		return nil, transport.Error(err)
	}
	return toResponse(a), nil
}

func (h *ArrivalHandler) GetArrival(ctx context.Context, req *transport.IDRequest) (*ArrivalResponse, error) {
	a, err := h.uc.GetArrival(ctx, req.ID)
	if err != nil {
		return nil, transport.Error(err)
	}
	return toResponse(a), nil
}

func (h *ArrivalHandler) ListArrivals(ctx context.Context, req *ListArrivalsRequest) (*ListArrivalsResponse, error) {
	arrivals, count, err := h.uc.ListArrivals(ctx, &dto.ArrivalFilters{
		IsClosed: req.IsClosed,
		Page:     req.Page.Page,
		PageSize: req.PageSize,
	})
	if err != nil {
		return nil, transport.Error(err)
	}

	out := make([]ArrivalResponse, len(arrivals))
	for i := range arrivals {
		out[i] = *toResponse(&arrivals[i])
	}
	return &ListArrivalsResponse{Arrivals: out, Total: count}, nil
}

func (h *ArrivalHandler) AddArrivalProduct(ctx context.Context, req *ArrivalLineRequest) (*ArrivalResponse, error) {
	a, err := h.uc.AddProduct(ctx, lineInput(req))
	if err != nil {
		return nil, transport.Error(err)
	}
	return toResponse(a), nil
}

func (h *ArrivalHandler) SetArrivalProductQuantity(ctx context.Context, req *ArrivalLineRequest) (*ArrivalResponse, error) {
	a, err := h.uc.SetProductQuantity(ctx, lineInput(req))
	if err != nil {
		return nil, transport.Error(err)
	}
	return toResponse(a), nil
}

func (h *ArrivalHandler) RemoveArrivalProduct(ctx context.Context, req *ArrivalLineRequest) (*ArrivalResponse, error) {
	a, err := h.uc.RemoveProduct(ctx, req.ArrivalID, req.ProductID)
	if err != nil {
		return nil, transport.Error(err)
	}
	return toResponse(a), nil
}

func (h *ArrivalHandler) CloseArrival(ctx context.Context, req *transport.IDRequest) (*ArrivalResponse, error) {
	a, err := h.uc.CloseArrival(ctx, req.ID)
	if err != nil {
		h.logger.Error("failed to close arrival", zap.String("id", req.ID), zap.Error(err))
		return nil, transport.Error(err)
	}
	return toResponse(a), nil
}

func (h *ArrivalHandler) DeleteArrival(ctx context.Context, req *transport.IDRequest) (*transport.Empty, error) {
	if err := h.uc.DeleteArrival(ctx, req.ID); err != nil {
		return nil, transport.Error(err)
	}
	return &transport.Empty{}, nil
}

func lineInput(req *ArrivalLineRequest) *dto.ArrivalLineInput {
	return &dto.ArrivalLineInput{
		ArrivalID: req.ArrivalID,
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
	}
}
