package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/fekuna/omnipos-backoffice-service/internal/model"
	"github.com/fekuna/omnipos-backoffice-service/internal/payment/dto"
	"github.com/fekuna/omnipos-backoffice-service/pkg/postgres"
	"github.com/jmoiron/sqlx"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Create(ctx context.Context, p *model.Payment) error {
	query := `
        INSERT INTO payments (id, reference, payed_at, mode, details, order_id)
        VALUES (:id, :reference, :payed_at, :mode, :details, :order_id)
    `
	_, err := postgres.Conn(ctx, r.DB).NamedExecContext(ctx, query, p)
	return err
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.Payment, error) {
	return r.get(ctx, `SELECT * FROM payments WHERE id = $1`, id)
}

func (r *PGRepository) FindByReference(ctx context.Context, reference string) (*model.Payment, error) {
	return r.get(ctx, `SELECT * FROM payments WHERE reference = $1`, reference)
}

func (r *PGRepository) FindByOrderID(ctx context.Context, orderID string) (*model.Payment, error) {
	return r.get(ctx, `SELECT * FROM payments WHERE order_id = $1`, orderID)
}

func (r *PGRepository) get(ctx context.Context, query, arg string) (*model.Payment, error) {
	var p model.Payment
	err := postgres.Conn(ctx, r.DB).GetContext(ctx, &p, query, arg)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.PaymentFilters) ([]model.Payment, int, error) {
	ex := postgres.Conn(ctx, r.DB)

	conditions := []string{}
	args := map[string]interface{}{}

	if f.OrderID != "" {
		conditions = append(conditions, "order_id = :order_id")
		args["order_id"] = f.OrderID
	}
	if f.Mode != "" {
		conditions = append(conditions, "mode = :mode")
		args["mode"] = f.Mode
	}
	if f.StartDate != nil {
		conditions = append(conditions, "payed_at >= :start_date")
		args["start_date"] = *f.StartDate
	}
	if f.EndDate != nil {
		conditions = append(conditions, "payed_at <= :end_date")
		args["end_date"] = *f.EndDate
	}

	where := postgres.Where(conditions)

	count, err := postgres.CountNamed(ctx, ex, "SELECT count(*) FROM payments"+where, args)
	if err != nil {
		return nil, 0, err
	}

	query := postgres.Paginate("SELECT * FROM payments"+where+" ORDER BY payed_at DESC, id", f.Page, f.PageSize)

	payments := []model.Payment{}
	if err := postgres.SelectNamed(ctx, ex, &payments, query, args); err != nil {
		return nil, 0, err
	}
	return payments, count, nil
}
