package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/fekuna/omnipos-backoffice-service/internal/apperror"
	"github.com/fekuna/omnipos-backoffice-service/internal/arrival"
	"github.com/fekuna/omnipos-backoffice-service/internal/arrival/dto"
	"github.com/fekuna/omnipos-backoffice-service/internal/auth"
	"github.com/fekuna/omnipos-backoffice-service/internal/model"
	"github.com/fekuna/omnipos-backoffice-service/internal/platform"
	"github.com/fekuna/omnipos-backoffice-service/internal/stock"
	stockdto "github.com/fekuna/omnipos-backoffice-service/internal/stock/dto"
	"github.com/fekuna/omnipos-backoffice-service/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	lockAttempts = 3
	lockTTL      = 10 * time.Second
	lockBackoff  = 100 * time.Millisecond
)

var ErrArrivalBusy = errors.New("arrival is being closed by another request, please try again later")

type arrivalUseCase struct {
	repo      arrival.Repository
	stock     stock.UseCase
	tx        platform.Transactor
	locker    platform.Locker
	publisher platform.EventPublisher
	logger    logger.ZapLogger
	now       func() time.Time
}

func NewArrivalUseCase(
	repo arrival.Repository,
	stockUC stock.UseCase,
	tx platform.Transactor,
	locker platform.Locker,
	publisher platform.EventPublisher,
	log logger.ZapLogger,
) arrival.UseCase {
	return &arrivalUseCase{
		repo:      repo,
		stock:     stockUC,
		tx:        tx,
		locker:    locker,
		publisher: publisher,
		logger:    log,
		now:       time.Now,
	}
}

func (uc *arrivalUseCase) CreateArrival(ctx context.Context) (*model.Arrival, error) {
	now := uc.now()
	a := &model.Arrival{
		BaseModel: model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		Lines:     []model.ArrivalLine{},
	}
	if err := uc.repo.Create(ctx, a); err != nil {
		return nil, err
	}
	uc.logger.Info("arrival opened", zap.String("id", a.ID), zap.String("staff_id", auth.GetStaffID(ctx)))
	return a, nil
}

func (uc *arrivalUseCase) GetArrival(ctx context.Context, id string) (*model.Arrival, error) {
	a, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, apperror.NotFound("arrival", id)
	}
	return a, nil
}

func (uc *arrivalUseCase) ListArrivals(ctx context.Context, filters *dto.ArrivalFilters) ([]model.Arrival, int, error) {
	return uc.repo.FindAll(ctx, filters)
}

func (uc *arrivalUseCase) AddProduct(ctx context.Context, input *dto.ArrivalLineInput) (*model.Arrival, error) {
	if input.Quantity <= 0 {
		return nil, apperror.Validation("quantity", "must be positive")
	}
	return uc.editLines(ctx, input.ArrivalID, func(ctx context.Context, a *model.Arrival) error {
		if err := uc.checkProduct(ctx, input.ProductID); err != nil {
			return err
		}
		qty := input.Quantity
		if l := findLine(a, input.ProductID); l != nil {
			qty += l.Quantity
		}
		return uc.upsert(ctx, a, input.ProductID, qty)
	})
}

func (uc *arrivalUseCase) SetProductQuantity(ctx context.Context, input *dto.ArrivalLineInput) (*model.Arrival, error) {
	if input.Quantity <= 0 {
		return nil, apperror.Validation("quantity", "must be positive")
	}
	return uc.editLines(ctx, input.ArrivalID, func(ctx context.Context, a *model.Arrival) error {
		if err := uc.checkProduct(ctx, input.ProductID); err != nil {
			return err
		}
		return uc.upsert(ctx, a, input.ProductID, input.Quantity)
	})
}

func (uc *arrivalUseCase) RemoveProduct(ctx context.Context, arrivalID, productID string) (*model.Arrival, error) {
	return uc.editLines(ctx, arrivalID, func(ctx context.Context, a *model.Arrival) error {
		if findLine(a, productID) == nil {
			return apperror.NotFound("arrival line", productID)
		}
		return uc.repo.DeleteLine(ctx, a.ID, productID)
	})
}

// editLines runs edit on the locked arrival and returns it reloaded.
func (uc *arrivalUseCase) editLines(ctx context.Context, id string, edit func(ctx context.Context, a *model.Arrival) error) (*model.Arrival, error) {
	var out *model.Arrival
	err := uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		a, err := uc.lockOpen(ctx, id, "edit")
		if err != nil {
			return err
		}
		if err := edit(ctx, a); err != nil {
			return err
		}
		out, err = uc.repo.FindByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (uc *arrivalUseCase) CloseArrival(ctx context.Context, id string) (*model.Arrival, error) {
	release, err := uc.lock(ctx, id)
	if err != nil {
		return nil, err
	}
	defer release()

	var a *model.Arrival
	err = uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		a, err = uc.lockOpen(ctx, id, "close")
		if err != nil {
			return err
		}
		if len(a.Lines) == 0 {
			return apperror.Validation("lines", "arrival %s has no products", id)
		}

		changes := make([]stockdto.StockChange, len(a.Lines))
		for i, l := range a.Lines {
			changes[i] = stockdto.StockChange{ProductID: l.ProductID, Delta: l.Quantity}
		}
		if _, err := uc.stock.ApplyChanges(ctx, &stockdto.ApplyChangesInput{
			Changes:       changes,
			MovementType:  model.MovementArrival,
			ReferenceType: "arrival",
			ReferenceID:   id,
			Notes:         "arrival closed",
			UserID:        auth.GetStaffID(ctx),
		}); err != nil {
			return err
		}

		closedAt := uc.now()
		if err := uc.repo.MarkClosed(ctx, id, closedAt); err != nil {
			return err
		}
		a.IsClosed = true
		a.ClosedAt = &closedAt
		a.UpdatedAt = closedAt
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("arrival closed",
		zap.String("id", id),
		zap.Int("products_count", a.ProductsCount()),
	)
	platform.Emit(ctx, uc.publisher, uc.logger, platform.EventArrivalClosed, id, a)
	return a, nil
}

func (uc *arrivalUseCase) DeleteArrival(ctx context.Context, id string) error {
	return uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := uc.lockOpen(ctx, id, "delete"); err != nil {
			return err
		}
		return uc.repo.Delete(ctx, id)
	})
}

func (uc *arrivalUseCase) lockOpen(ctx context.Context, id, action string) (*model.Arrival, error) {
	a, err := uc.repo.LockByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, apperror.NotFound("arrival", id)
	}
	if a.IsClosed {
		return nil, apperror.InvalidState("arrival", "closed", action)
	}
	return a, nil
}

// lock takes the distributed close lock when a locker is configured. The
// row lock in lockOpen alone guarantees a single close.
func (uc *arrivalUseCase) lock(ctx context.Context, id string) (func(), error) {
	if uc.locker == nil {
		return func() {}, nil
	}

	key := "lock:arrival:" + id
	value := uuid.New().String()
	for i := 0; i < lockAttempts; i++ {
		ok, err := uc.locker.AcquireLock(ctx, key, value, lockTTL)
		if err != nil {
			uc.logger.Error("failed to acquire lock redis error", zap.Error(err))
			// The database lock still serializes closes.
			return func() {}, nil
		}
		if ok {
			return func() {
				if err := uc.locker.ReleaseLock(context.Background(), key, value); err != nil {
					uc.logger.Warn("failed to release arrival lock", zap.String("id", id), zap.Error(err))
				}
			}, nil
		}
		time.Sleep(lockBackoff)
	}
	return nil, &apperror.ConcurrencyConflictError{Err: ErrArrivalBusy}
}

func (uc *arrivalUseCase) checkProduct(ctx context.Context, productID string) error {
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

func (uc *arrivalUseCase) upsert(ctx context.Context, a *model.Arrival, productID string, qty int) error {
	line := model.ArrivalLine{ID: uuid.New().String(), ArrivalID: a.ID, ProductID: productID, Quantity: qty}
	if existing := findLine(a, productID); existing != nil {
		line.ID = existing.ID
	}
	return uc.repo.UpsertLine(ctx, &line)
}

func findLine(a *model.Arrival, productID string) *model.ArrivalLine {
	for i := range a.Lines {
		if a.Lines[i].ProductID == productID {
			return &a.Lines[i]
		}
	}
	return nil
}
