package handler

import (
	"context"

	"github.com/fekuna/omnipos-backoffice-service/internal/feedback"
	"github.com/fekuna/omnipos-backoffice-service/internal/feedback/dto"
	"github.com/fekuna/omnipos-backoffice-service/internal/model"
	"github.com/fekuna/omnipos-backoffice-service/internal/transport"
	"github.com/fekuna/omnipos-backoffice-service/pkg/logger"
	"go.uber.org/zap"
	"google.golang.org/grpc"
)

const ServiceName = "backoffice.v1.FeedbackService"

type FeedbackServiceServer interface {
	AddReview(ctx context.Context, req *AddReviewRequest) (*model.Review, error)
	ListReviews(ctx context.Context, req *ListReviewsRequest) (*ListReviewsResponse, error)
	DeleteReview(ctx context.Context, req *transport.IDRequest) (*transport.Empty, error)
	SetLike(ctx context.Context, req *SetLikeRequest) (*model.Like, error)
	ListLikes(ctx context.Context, req *ListLikesRequest) (*ListLikesResponse, error)
	DeleteLike(ctx context.Context, req *transport.IDRequest) (*transport.Empty, error)
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*FeedbackServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		transport.Unary(ServiceName, "AddReview", FeedbackServiceServer.AddReview),
		transport.Unary(ServiceName, "ListReviews", FeedbackServiceServer.ListReviews),
		transport.Unary(ServiceName, "DeleteReview", FeedbackServiceServer.DeleteReview),
		transport.Unary(ServiceName, "SetLike", FeedbackServiceServer.SetLike),
		transport.Unary(ServiceName, "ListLikes", FeedbackServiceServer.ListLikes),
		transport.Unary(ServiceName, "DeleteLike", FeedbackServiceServer.DeleteLike),
	},
	Streams: []grpc.StreamDesc{},
}

type AddReviewRequest struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Rate      int    `json:"rate"`
	Comment   string `json:"comment"`
}

type ListReviewsRequest struct {
	transport.Page
	ProductID string `json:"product_id"`
	Email     string `json:"email"`
	MinRate   int    `json:"min_rate"`
}

type ListReviewsResponse struct {
	Reviews []model.Review `json:"reviews"`
	Total   int            `json:"total"`
}

type SetLikeRequest struct {
	ProductID string `json:"product_id"`
	Email     string `json:"email"`
	Liked     bool   `json:"liked"`
}

type ListLikesRequest struct {
	transport.Page
	ProductID string `json:"product_id"`
	Email     string `json:"email"`
	Liked     *bool  `json:"liked"`
}

type ListLikesResponse struct {
	Likes []model.Like `json:"likes"`
	Total int          `json:"total"`
}

var _ FeedbackServiceServer = (*FeedbackHandler)(nil)

type FeedbackHandler struct {
	uc     feedback.UseCase
	logger logger.ZapLogger
}

func NewFeedbackHandler(uc feedback.UseCase, log logger.ZapLogger) *FeedbackHandler {
	return &FeedbackHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *FeedbackHandler) Register(s grpc.ServiceRegistrar) {
	s.RegisterService(&ServiceDesc, h)
}

func (h *FeedbackHandler) AddReview(ctx context.Context, req *AddReviewRequest) (*model.Review, error) {
	rv, err := h.uc.AddReview(ctx, &dto.AddReviewInput{
		ProductID: req.ProductID,
		Name:      req.Name,
		Email:     req.Email,
		Rate:      req.Rate,
		Comment:   req.Comment,
	})
	if err != nil {
		h.logger.Error("failed to add review", zap.String("product_id", req.ProductID), zap.Error(err))
		return nil, transport.Error(err)
	}
	return rv, nil
}

func (h *FeedbackHandler) ListReviews(ctx context.Context, req *ListReviewsRequest) (*ListReviewsResponse, error) {
	reviews, count, err := h.uc.ListReviews(ctx, &dto.ReviewFilters{
		ProductID: req.ProductID,
		Email:     req.Email,
		MinRate:   req.MinRate,
		Page:      req.Page.Page,
		PageSize:  req.PageSize,
	})
	if err != nil {
		return nil, transport.Error(err)
	}
	return &ListReviewsResponse{Reviews: reviews, Total: count}, nil
}

func (h *FeedbackHandler) DeleteReview(ctx context.Context, req *transport.IDRequest) (*transport.Empty, error) {
	if err := h.uc.DeleteReview(ctx, req.ID); err != nil {
		h.logger.Error("failed to delete review", zap.String("id", req.ID), zap.Error(err))
		return nil, transport.Error(err)
	}
	return &transport.Empty{}, nil
}

func (h *FeedbackHandler) SetLike(ctx context.Context, req *SetLikeRequest) (*model.Like, error) {
	l, err := h.uc.SetLike(ctx, &dto.SetLikeInput{
		ProductID: req.ProductID,
		Email:     req.Email,
		Liked:     req.Liked,
	})
	if err != nil {
		h.logger.Error("failed to set like", zap.String("product_id", req.ProductID), zap.Error(err))
		return nil, transport.Error(err)
	}
	return l, nil
}

func (h *FeedbackHandler) ListLikes(ctx context.Context, req *ListLikesRequest) (*ListLikesResponse, error) {
	likes, count, err := h.uc.ListLikes(ctx, &dto.LikeFilters{
		ProductID: req.ProductID,
		Email:     req.Email,
		Liked:     req.Liked,
		Page:      req.Page.Page,
		PageSize:  req.PageSize,
	})
	if err != nil {
		return nil, transport.Error(err)
	}
	return &ListLikesResponse{Likes: likes, Total: count}, nil
}

func (h *FeedbackHandler) DeleteLike(ctx context.Context, req *transport.IDRequest) (*transport.Empty, error) {
	if err := h.uc.DeleteLike(ctx, req.ID); err != nil {
		h.logger.Error("failed to delete like", zap.String("id", req.ID), zap.Error(err))
		return nil, transport.Error(err)
	}
	return &transport.Empty{}, nil
}
