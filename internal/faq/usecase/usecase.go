package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/fekuna/omnipos-backoffice-service/internal/apperror"
	"github.com/fekuna/omnipos-backoffice-service/internal/faq"
	"github.com/fekuna/omnipos-backoffice-service/internal/faq/dto"
	"github.com/fekuna/omnipos-backoffice-service/internal/model"
	"github.com/fekuna/omnipos-backoffice-service/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type faqUseCase struct {
	repo   faq.Repository
	logger logger.ZapLogger
}

func NewFaqUseCase(repo faq.Repository, log logger.ZapLogger) faq.UseCase {
	return &faqUseCase{
		repo:   repo,
		logger: log,
	}
}

func (uc *faqUseCase) CreateFaq(ctx context.Context, input *dto.FaqInput) (*model.Faq, error) {
	f := &model.Faq{
		ID:        uuid.New().String(),
		CreatedAt: time.Now(),
	}
	if err := fill(f, input); err != nil {
		return nil, err
	}
	if err := uc.repo.Create(ctx, f); err != nil {
		return nil, err
	}
	uc.logger.Info("faq created", zap.String("id", f.ID), zap.String("type", f.Type))
	return f, nil
}

func (uc *faqUseCase) GetFaq(ctx context.Context, id string) (*model.Faq, error) {
	f, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, apperror.NotFound("faq", id)
	}
	return f, nil
}

func (uc *faqUseCase) ListFaqs(ctx context.Context, filters *dto.FaqFilters) ([]model.Faq, int, error) {
	return uc.repo.FindAll(ctx, filters)
}

func (uc *faqUseCase) UpdateFaq(ctx context.Context, input *dto.FaqInput) (*model.Faq, error) {
	f, err := uc.GetFaq(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if err := fill(f, input); err != nil {
		return nil, err
	}
	if err := uc.repo.Update(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

func (uc *faqUseCase) DeleteFaq(ctx context.Context, id string) error {
	if _, err := uc.GetFaq(ctx, id); err != nil {
		return err
	}
	return uc.repo.Delete(ctx, id)
}

func fill(f *model.Faq, input *dto.FaqInput) error {
	f.Type = strings.TrimSpace(input.Type)
	f.Question = strings.TrimSpace(input.Question)
	f.Answer = strings.TrimSpace(input.Answer)
	if f.Question == "" {
		return apperror.Validation("question", "is required")
	}
	if f.Answer == "" {
		return apperror.Validation("answer", "is required")
	}
	return nil
}
