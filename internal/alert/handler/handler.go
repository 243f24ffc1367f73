package handler

import (
	"context"

	"github.com/fekuna/omnipos-backoffice-service/internal/alert"
	"github.com/fekuna/omnipos-backoffice-service/internal/alert/dto"
	"github.com/fekuna/omnipos-backoffice-service/internal/model"
	"github.com/fekuna/omnipos-backoffice-service/internal/transport"
	"github.com/fekuna/omnipos-backoffice-service/pkg/logger"
	"go.uber.org/zap"
	"google.golang.org/grpc"
)

const ServiceName = "backoffice.v1.AlertService"

type AlertServiceServer interface {
	CreateAlert(ctx context.Context, req *CreateAlertRequest) (*model.Alert, error)
	GetAlert(ctx context.Context, req *transport.IDRequest) (*model.Alert, error)
	ListAlerts(ctx context.Context, req *ListAlertsRequest) (*ListAlertsResponse, error)
	ResolveAlert(ctx context.Context, req *transport.IDRequest) (*model.Alert, error)
	DeleteAlert(ctx context.Context, req *transport.IDRequest) (*transport.Empty, error)
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*AlertServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		transport.Unary(ServiceName, "CreateAlert", AlertServiceServer.CreateAlert),
		transport.Unary(ServiceName, "GetAlert", AlertServiceServer.GetAlert),
		transport.Unary(ServiceName, "ListAlerts", AlertServiceServer.ListAlerts),
		transport.Unary(ServiceName, "ResolveAlert", AlertServiceServer.ResolveAlert),
		transport.Unary(ServiceName, "DeleteAlert", AlertServiceServer.DeleteAlert),
	},
	Streams: []grpc.StreamDesc{},
}

type CreateAlertRequest struct {
	Type    string `json:"type"`
	Details string `json:"details"`
	UserID  string `json:"user_id"`
}

type ListAlertsRequest struct {
	transport.Page
	Status string `json:"status"`
	Type   string `json:"type"`
	UserID string `json:"user_id"`
}

type ListAlertsResponse struct {
	Alerts []model.Alert `json:"alerts"`
	Total  int           `json:"total"`
}

var _ AlertServiceServer = (*AlertHandler)(nil)

type AlertHandler struct {
	uc     alert.UseCase
	logger logger.ZapLogger
}

func NewAlertHandler(uc alert.UseCase, log logger.ZapLogger) *AlertHandler {
	return &AlertHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *AlertHandler) Register(s grpc.ServiceRegistrar) {
	s.RegisterService(&ServiceDesc, h)
}

func (h *AlertHandler) CreateAlert(ctx context.Context, req *CreateAlertRequest) (*model.Alert, error) {
	a, err := h.uc.CreateAlert(ctx, &dto.CreateAlertInput{
		Type:    req.Type,
		Details: req.Details,
		UserID:  req.UserID,
	})
	if err != nil {
		h.logger.Error("failed to create alert", zap.String("type", req.Type), zap.Error(err))
		return nil, transport.Error(err)
	}
	return a, nil
}

func (h *AlertHandler) GetAlert(ctx context.Context, req *transport.IDRequest) (*model.Alert, error) {
	a, err := h.uc.GetAlert(ctx, req.ID)
	if err != nil {
		return nil, transport.Error(err)
	}
	return a, nil
}

func (h *AlertHandler) ListAlerts(ctx context.Context, req *ListAlertsRequest) (*ListAlertsResponse, error) {
	alerts, count, err := h.uc.ListAlerts(ctx, &dto.AlertFilters{
		Status:   req.Status,
		Type:     req.Type,
		UserID:   req.UserID,
		Page:     req.Page.Page,
		PageSize: req.PageSize,
	})
	if err != nil {
		return nil, transport.Error(err)
	}
	return &ListAlertsResponse{Alerts: alerts, Total: count}, nil
}

func (h *AlertHandler) ResolveAlert(ctx context.Context, req *transport.IDRequest) (*model.Alert, error) {
	a, err := h.uc.ResolveAlert(ctx, req.ID)
	if err != nil {
		h.logger.Error("failed to resolve alert", zap.String("id", req.ID), zap.Error(err))
		return nil, transport.Error(err)
	}
	return a, nil
}

func (h *AlertHandler) DeleteAlert(ctx context.Context, req *transport.IDRequest) (*transport.Empty, error) {
	if err := h.uc.DeleteAlert(ctx, req.ID); err != nil {
		h.logger.Error("failed to delete alert", zap.String("id", req.ID), zap.Error(err))
		return nil, transport.Error(err)
	}
	return &transport.Empty{}, nil
}
