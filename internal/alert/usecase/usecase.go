package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/fekuna/omnipos-backoffice-service/internal/alert"
	"github.com/fekuna/omnipos-backoffice-service/internal/alert/dto"
	"github.com/fekuna/omnipos-backoffice-service/internal/apperror"
	"github.com/fekuna/omnipos-backoffice-service/internal/auth"
	"github.com/fekuna/omnipos-backoffice-service/internal/model"
	"github.com/fekuna/omnipos-backoffice-service/internal/platform"
	"github.com/fekuna/omnipos-backoffice-service/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type alertUseCase struct {
	repo      alert.Repository
	tx        platform.Transactor
	publisher platform.EventPublisher
	logger    logger.ZapLogger
	now       func() time.Time
}

func NewAlertUseCase(repo alert.Repository, tx platform.Transactor, publisher platform.EventPublisher, log logger.ZapLogger) alert.UseCase {
	return &alertUseCase{
		repo:      repo,
		tx:        tx,
		publisher: publisher,
		logger:    log,
		now:       time.Now,
	}
}

func (uc *alertUseCase) CreateAlert(ctx context.Context, input *dto.CreateAlertInput) (*model.Alert, error) {
	a := &model.Alert{
		ID:        uuid.New().String(),
		Status:    model.AlertOpen,
		Type:      strings.TrimSpace(input.Type),
		Details:   strings.TrimSpace(input.Details),
		CreatedAt: uc.now(),
	}
	if a.Type == "" {
		return nil, apperror.Validation("type", "is required")
	}

	userID := strings.TrimSpace(input.UserID)
	if userID == "" {
		userID = auth.GetStaffID(ctx)
	}
	if userID != "" {
		a.UserID = &userID
	}

	if err := uc.repo.Create(ctx, a); err != nil {
		return nil, err
	}

	uc.logger.Warn("alert raised", zap.String("id", a.ID), zap.String("type", a.Type), zap.String("details", a.Details))
	platform.Emit(ctx, uc.publisher, uc.logger, platform.EventAlertRaised, a.ID, a)
	return a, nil
}

func (uc *alertUseCase) GetAlert(ctx context.Context, id string) (*model.Alert, error) {
	a, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, apperror.NotFound("alert", id)
	}
	return a, nil
}

func (uc *alertUseCase) ListAlerts(ctx context.Context, filters *dto.AlertFilters) ([]model.Alert, int, error) {
	return uc.repo.FindAll(ctx, filters)
}

func (uc *alertUseCase) ResolveAlert(ctx context.Context, id string) (*model.Alert, error) {
	var a *model.Alert
	err := uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		a, err = uc.repo.LockByID(ctx, id)
		if err != nil {
			return err
		}
		if a == nil {
			return apperror.NotFound("alert", id)
		}
		if err := a.Resolve(uc.now()); err != nil {
			return err
		}
		return uc.repo.Update(ctx, a)
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("alert resolved", zap.String("id", id), zap.String("staff_id", auth.GetStaffID(ctx)))
	return a, nil
}

func (uc *alertUseCase) DeleteAlert(ctx context.Context, id string) error {
	a, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if a == nil {
		return apperror.NotFound("alert", id)
	}
	return uc.repo.Delete(ctx, id)
}
