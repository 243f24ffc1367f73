package handler

import (
	"context"

	"github.com/fekuna/omnipos-backoffice-service/internal/faq"
	"github.com/fekuna/omnipos-backoffice-service/internal/faq/dto"
	"github.com/fekuna/omnipos-backoffice-service/internal/model"
	"github.com/fekuna/omnipos-backoffice-service/internal/transport"
	"github.com/fekuna/omnipos-backoffice-service/pkg/logger"
	"go.uber.org/zap"
	"google.golang.org/grpc"
)

const ServiceName = "backoffice.v1.FaqService"

type FaqServiceServer interface {
	CreateFaq(ctx context.Context, req *FaqRequest) (*model.Faq, error)
	GetFaq(ctx context.Context, req *transport.IDRequest) (*model.Faq, error)
	ListFaqs(ctx context.Context, req *ListFaqsRequest) (*ListFaqsResponse, error)
	UpdateFaq(ctx context.Context, req *FaqRequest) (*model.Faq, error)
	DeleteFaq(ctx context.Context, req *transport.IDRequest) (*transport.Empty, error)
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*FaqServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		transport.Unary(ServiceName, "CreateFaq", FaqServiceServer.CreateFaq),
		transport.Unary(ServiceName, "GetFaq", FaqServiceServer.GetFaq),
		transport.Unary(ServiceName, "ListFaqs", FaqServiceServer.ListFaqs),
		transport.Unary(ServiceName, "UpdateFaq", FaqServiceServer.UpdateFaq),
		transport.Unary(ServiceName, "DeleteFaq", FaqServiceServer.DeleteFaq),
	},
	Streams: []grpc.StreamDesc{},
}

type FaqRequest struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type ListFaqsRequest struct {
	transport.Page
	Type   string `json:"type"`
	Search string `json:"search"`
}

type ListFaqsResponse struct {
	Faqs  []model.Faq `json:"faqs"`
	Total int         `json:"total"`
}

var _ FaqServiceServer = (*FaqHandler)(nil)

type FaqHandler struct {
	uc     faq.UseCase
	logger logger.ZapLogger
}

func NewFaqHandler(uc faq.UseCase, log logger.ZapLogger) *FaqHandler {
	return &FaqHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *FaqHandler) Register(s grpc.ServiceRegistrar) {
	s.RegisterService(&ServiceDesc, h)
}

func (h *FaqHandler) input(req *FaqRequest) *dto.FaqInput {
	return &dto.FaqInput{
		ID:       req.ID,
		Type:     req.Type,
		Question: req.Question,
		Answer:   req.Answer,
	}
}

func (h *FaqHandler) CreateFaq(ctx context.Context, req *FaqRequest) (*model.Faq, error) {
	f, err := h.uc.CreateFaq(ctx, h.input(req))
	if err != nil {
		h.logger.Error("failed to create faq", zap.Error(err))
		return nil, transport.Error(err)
	}
	return f, nil
}

func (h *FaqHandler) GetFaq(ctx context.Context, req *transport.IDRequest) (*model.Faq, error) {
	f, err := h.uc.GetFaq(ctx, req.ID)
	if err != nil {
		return nil, transport.Error(err)
	}
	return f, nil
}

func (h *FaqHandler) ListFaqs(ctx context.Context, req *ListFaqsRequest) (*ListFaqsResponse, error) {
	faqs, count, err := h.uc.ListFaqs(ctx, &dto.FaqFilters{
		Type:     req.Type,
		Search:   req.Search,
		Page:     req.Page.Page,
		PageSize: req.PageSize,
	})
	if err != nil {
		return nil, transport.Error(err)
	}
	return &ListFaqsResponse{Faqs: faqs, Total: count}, nil
}

func (h *FaqHandler) UpdateFaq(ctx context.Context, req *FaqRequest) (*model.Faq, error) {
	f, err := h.uc.UpdateFaq(ctx, h.input(req))
	if err != nil {
		h.logger.Error("failed to update faq", zap.String("id", req.ID), zap.Error(err))
		return nil, transport.Error(err)
	}
	return f, nil
}

func (h *FaqHandler) DeleteFaq(ctx context.Context, req *transport.IDRequest) (*transport.Empty, error) {
	if err := h.uc.DeleteFaq(ctx, req.ID); err != nil {
		h.logger.Error("failed to delete faq", zap.String("id", req.ID), zap.Error(err))
		return nil, transport.Error(err)
	}
	return &transport.Empty{}, nil
}
