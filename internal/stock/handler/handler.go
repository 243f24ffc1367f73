package handler

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-backoffice-service/internal/auth"
	"github.com/fekuna/omnipos-backoffice-service/internal/model"
	"github.com/fekuna/omnipos-backoffice-service/internal/stock"
	"github.com/fekuna/omnipos-backoffice-service/internal/stock/dto"
	"github.com/fekuna/omnipos-backoffice-service/internal/transport"
	"github.com/fekuna/omnipos-backoffice-service/pkg/logger"
	"go.uber.org/zap"
	"google.golang.org/grpc"
)

const ServiceName = "backoffice.v1.StockService"

type StockServiceServer interface {
	AdjustStock(ctx context.Context, req *AdjustStockRequest) (*model.StockMovement, error)
	ListMovements(ctx context.Context, req *ListMovementsRequest) (*ListMovementsResponse, error)
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*StockServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		transport.Unary(ServiceName, "AdjustStock", StockServiceServer.AdjustStock),
		transport.Unary(ServiceName, "ListMovements", StockServiceServer.ListMovements),
	},
	Streams: []grpc.StreamDesc{},
}

type AdjustStockRequest struct {
	ProductID      string `json:"product_id"`
	QuantityChange int    `json:"quantity_change"`
	Reason         string `json:"reason"`
}

type ListMovementsRequest struct {
	transport.Page
	ProductID     string     `json:"product_id"`
	MovementType  string     `json:"movement_type"`
	ReferenceType string     `json:"reference_type"`
	ReferenceID   string     `json:"reference_id"`
	StartDate     *time.Time `json:"start_date"`
	EndDate       *time.Time `json:"end_date"`
}

type ListMovementsResponse struct {
	Movements []model.StockMovement `json:"movements"`
	Total     int                   `json:"total"`
}

var _ StockServiceServer = (*StockHandler)(nil)

type StockHandler struct {
	uc     stock.UseCase
	logger logger.ZapLogger
}

func NewStockHandler(uc stock.UseCase, log logger.ZapLogger) *StockHandler {
	return &StockHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *StockHandler) Register(s grpc.ServiceRegistrar) {
	s.RegisterService(&ServiceDesc, h)
}

func (h *StockHandler) AdjustStock(ctx context.Context, req *AdjustStockRequest) (*model.StockMovement, error) {
	m, err := h.uc.AdjustStock(ctx, &dto.AdjustStockInput{
		ProductID:      req.ProductID,
		QuantityChange: req.QuantityChange,
		Reason:         req.Reason,
		UserID:         auth.GetStaffID(ctx),
	})
	if err != nil {
		h.logger.Error("failed to adjust stock", zap.String("product_id", req.ProductID), zap.Error(err))
		return nil, transport.Error(err)
	}
	return m, nil
}

func (h *StockHandler) ListMovements(ctx context.Context, req *ListMovementsRequest) (*ListMovementsResponse, error) {
	items, count, err := h.uc.ListMovements(ctx, &dto.MovementFilters{
		ProductID:     req.ProductID,
		MovementType:  req.MovementType,
		ReferenceType: req.ReferenceType,
		ReferenceID:   req.ReferenceID,
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
		Page:          req.Page.Page,
		PageSize:      req.PageSize,
	})
	if err != nil {
		return nil, transport.Error(err)
	}
	return &ListMovementsResponse{Movements: items, Total: count}, nil
}
