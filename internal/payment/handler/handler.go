package handler

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-backoffice-service/internal/model"
	"github.com/fekuna/omnipos-backoffice-service/internal/payment"
	"github.com/fekuna/omnipos-backoffice-service/internal/payment/dto"
	"github.com/fekuna/omnipos-backoffice-service/internal/transport"
	"github.com/fekuna/omnipos-backoffice-service/pkg/logger"
	"go.uber.org/zap"
	"google.golang.org/grpc"
)

const ServiceName = "backoffice.v1.PaymentService"

type PaymentServiceServer interface {
	RecordPayment(ctx context.Context, req *RecordPaymentRequest) (*model.Payment, error)
	GetPayment(ctx context.Context, req *transport.IDRequest) (*model.Payment, error)
	GetPaymentByReference(ctx context.Context, req *GetPaymentByReferenceRequest) (*model.Payment, error)
	ListPayments(ctx context.Context, req *ListPaymentsRequest) (*ListPaymentsResponse, error)
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*PaymentServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		transport.Unary(ServiceName, "RecordPayment", PaymentServiceServer.RecordPayment),
		transport.Unary(ServiceName, "GetPayment", PaymentServiceServer.GetPayment),
		transport.Unary(ServiceName, "GetPaymentByReference", PaymentServiceServer.GetPaymentByReference),
		transport.Unary(ServiceName, "ListPayments", PaymentServiceServer.ListPayments),
	},
	Streams: []grpc.StreamDesc{},
}

type RecordPaymentRequest struct {
	Reference      string     `json:"reference"`
	OrderID        string     `json:"order_id"`
	OrderReference string     `json:"order_reference"`
	Mode           string     `json:"mode"`
	Details        string     `json:"details"`
	PayedAt        *time.Time `json:"payed_at"`
}

type GetPaymentByReferenceRequest struct {
	Reference string `json:"reference"`
}

type ListPaymentsRequest struct {
	transport.Page
	OrderID   string     `json:"order_id"`
	Mode      string     `json:"mode"`
	StartDate *time.Time `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`
}

type ListPaymentsResponse struct {
	Payments []model.Payment `json:"payments"`
	Total    int             `json:"total"`
}

var _ PaymentServiceServer = (*PaymentHandler)(nil)

type PaymentHandler struct {
	uc     payment.UseCase
	logger logger.ZapLogger
}

func NewPaymentHandler(uc payment.UseCase, log logger.ZapLogger) *PaymentHandler {
	return &PaymentHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *PaymentHandler) Register(s grpc.ServiceRegistrar) {
	s.RegisterService(&ServiceDesc, h)
}

func (h *PaymentHandler) RecordPayment(ctx context.Context, req *RecordPaymentRequest) (*model.Payment, error) {
	p, err := h.uc.RecordPayment(ctx, &dto.RecordPaymentInput{
		Reference:      req.Reference,
		OrderID:        req.OrderID,
		OrderReference: req.OrderReference,
		Mode:           req.Mode,
		Details:        req.Details,
		PayedAt:        req.PayedAt,
	})
	if err != nil {
		h.logger.Error("failed to record payment", zap.String("reference", req.Reference), zap.Error(err))
		return nil, transport.Error(err)
	}
	return p, nil
}

func (h *PaymentHandler) GetPayment(ctx context.Context, req *transport.IDRequest) (*model.Payment, error) {
	p, err := h.uc.GetPayment(ctx, req.ID)
	if err != nil {
		return nil, transport.Error(err)
	}
	return p, nil
}

func (h *PaymentHandler) GetPaymentByReference(ctx context.Context, req *GetPaymentByReferenceRequest) (*model.Payment, error) {
	p, err := h.uc.GetPaymentByReference(ctx, req.Reference)
	if err != nil {
		return nil, transport.Error(err)
	}
	return p, nil
}

func (h *PaymentHandler) ListPayments(ctx context.Context, req *ListPaymentsRequest) (*ListPaymentsResponse, error) {
	payments, count, err := h.uc.ListPayments(ctx, &dto.PaymentFilters{
		OrderID:   req.OrderID,
		Mode:      req.Mode,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Page:      req.Page.Page,
		PageSize:  req.PageSize,
	})
	if err != nil {
		return nil, transport.Error(err)
	}
	return &ListPaymentsResponse{Payments: payments, Total: count}, nil
}
