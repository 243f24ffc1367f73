package usecase

import (
	"context"
	"net/mail"
	"strings"
	"time"

	"github.com/fekuna/omnipos-backoffice-service/internal/apperror"
	"github.com/fekuna/omnipos-backoffice-service/internal/feedback"
	"github.com/fekuna/omnipos-backoffice-service/internal/feedback/dto"
	"github.com/fekuna/omnipos-backoffice-service/internal/model"
	"github.com/fekuna/omnipos-backoffice-service/internal/platform"
	"github.com/fekuna/omnipos-backoffice-service/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const maxCommentLength = 2000

type feedbackUseCase struct {
	repo   feedback.Repository
	cache  platform.CacheInvalidator
	logger logger.ZapLogger
	now    func() time.Time
}

// NewFeedbackUseCase builds the review and like use case. cache is the
// product list cache, whose pages embed the like and review aggregates.
func NewFeedbackUseCase(repo feedback.Repository, cache platform.CacheInvalidator, log logger.ZapLogger) feedback.UseCase {
	return &feedbackUseCase{
		repo:   repo,
		cache:  cache,
		logger: log,
		now:    time.Now,
	}
}

func (uc *feedbackUseCase) AddReview(ctx context.Context, input *dto.AddReviewInput) (*model.Review, error) {
	email, err := normalizeEmail(input.Email)
	if err != nil {
		return nil, err
	}
	rv := &model.Review{
		ID:        uuid.New().String(),
		ProductID: input.ProductID,
		Name:      strings.TrimSpace(input.Name),
		Email:     email,
		Rate:      input.Rate,
		Comment:   strings.TrimSpace(input.Comment),
		CreatedAt: uc.now(),
	}
	if rv.Name == "" {
		return nil, apperror.Validation("name", "is required")
	}
	if rv.Rate < model.MinRate || rv.Rate > model.MaxRate {
		return nil, apperror.Validation("rate", "must be between %d and %d", model.MinRate, model.MaxRate)
	}
	if len(rv.Comment) > maxCommentLength {
		return nil, apperror.Validation("comment", "must be at most %d characters", maxCommentLength)
	}
	if err := uc.checkProduct(ctx, rv.ProductID); err != nil {
		return nil, err
	}

	if err := uc.repo.CreateReview(ctx, rv); err != nil {
		return nil, err
	}
	uc.invalidate(ctx)

	uc.logger.Info("review added", zap.String("id", rv.ID), zap.String("product_id", rv.ProductID), zap.Int("rate", rv.Rate))
	return rv, nil
}

func (uc *feedbackUseCase) ListReviews(ctx context.Context, filters *dto.ReviewFilters) ([]model.Review, int, error) {
	return uc.repo.FindReviews(ctx, filters)
}

func (uc *feedbackUseCase) DeleteReview(ctx context.Context, id string) error {
	rv, err := uc.repo.FindReviewByID(ctx, id)
	if err != nil {
		return err
	}
	if rv == nil {
		return apperror.NotFound("review", id)
	}
	if err := uc.repo.DeleteReview(ctx, id); err != nil {
		return err
	}
	uc.invalidate(ctx)
	return nil
}

func (uc *feedbackUseCase) SetLike(ctx context.Context, input *dto.SetLikeInput) (*model.Like, error) {
	email, err := normalizeEmail(input.Email)
	if err != nil {
		return nil, err
	}
	if err := uc.checkProduct(ctx, input.ProductID); err != nil {
		return nil, err
	}

	l, err := uc.repo.UpsertLike(ctx, &model.Like{
		ID:        uuid.New().String(),
		ProductID: input.ProductID,
		Email:     email,
		Liked:     input.Liked,
		CreatedAt: uc.now(),
	})
	if err != nil {
		return nil, err
	}
	uc.invalidate(ctx)
	return l, nil
}

func (uc *feedbackUseCase) ListLikes(ctx context.Context, filters *dto.LikeFilters) ([]model.Like, int, error) {
	return uc.repo.FindLikes(ctx, filters)
}

func (uc *feedbackUseCase) DeleteLike(ctx context.Context, id string) error {
	l, err := uc.repo.FindLikeByID(ctx, id)
	if err != nil {
		return err
	}
	if l == nil {
		return apperror.NotFound("like", id)
	}
	if err := uc.repo.DeleteLike(ctx, id); err != nil {
		return err
	}
	uc.invalidate(ctx)
	return nil
}

func (uc *feedbackUseCase) checkProduct(ctx context.Context, productID string) error {
	if productID == "" {
		return apperror.Validation("product_id", "is required")
	}
	ok, err := uc.repo.ProductExists(ctx, productID)
	if err != nil {
		return err
	}
	if !ok {
		return apperror.Validation("product_id", "product %s does not exist", productID)
	}
	return nil
}

func (uc *feedbackUseCase) invalidate(ctx context.Context) {
	if uc.cache != nil {
		uc.cache.Invalidate(ctx)
	}
}

// normalizeEmail accepts a bare address and returns it lowercased.
func normalizeEmail(email string) (string, error) {
	email = strings.TrimSpace(email)
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", apperror.Validation("email", "%q is not a valid address", email)
	}
	return strings.ToLower(addr.Address), nil
}
