package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/fekuna/omnipos-backoffice-service/internal/arrival/dto"
	"github.com/fekuna/omnipos-backoffice-service/internal/model"
	"github.com/fekuna/omnipos-backoffice-service/pkg/postgres"
	"github.com/jmoiron/sqlx"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Create(ctx context.Context, a *model.Arrival) error {
	query := `
        INSERT INTO arrivals (id, is_closed, closed_at, created_at, updated_at)
        VALUES (:id, :is_closed, :closed_at, :created_at, :updated_at)
    `
	_, err := postgres.Conn(ctx, r.DB).NamedExecContext(ctx, query, a)
	return err
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.Arrival, error) {
	return r.get(ctx, `SELECT * FROM arrivals WHERE id = $1`, id)
}

func (r *PGRepository) LockByID(ctx context.Context, id string) (*model.Arrival, error) {
	return r.get(ctx, `SELECT * FROM arrivals WHERE id = $1 FOR UPDATE`, id)
}

func (r *PGRepository) get(ctx context.Context, query, id string) (*model.Arrival, error) {
	var a model.Arrival
	err := postgres.Conn(ctx, r.DB).GetContext(ctx, &a, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	arrivals := []model.Arrival{a}
	if err := r.loadLines(ctx, arrivals); err != nil {
		return nil, err
	}
	return &arrivals[0], nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.ArrivalFilters) ([]model.Arrival, int, error) {
	ex := postgres.Conn(ctx, r.DB)

	conditions := []string{}
	args := map[string]interface{}{}

	if f.IsClosed != nil {
		conditions = append(conditions, "is_closed = :is_closed")
		args["is_closed"] = *f.IsClosed
	}

	where := postgres.Where(conditions)

	count, err := postgres.CountNamed(ctx, ex, "SELECT count(*) FROM arrivals"+where, args)
	if err != nil {
		return nil, 0, err
	}

	query := postgres.Paginate("SELECT * FROM arrivals"+where+" ORDER BY created_at DESC, id", f.Page, f.PageSize)

	arrivals := []model.Arrival{}
	if err := postgres.SelectNamed(ctx, ex, &arrivals, query, args); err != nil {
		return nil, 0, err
	}
	if err := r.loadLines(ctx, arrivals); err != nil {
		return nil, 0, err
	}
	return arrivals, count, nil
}

func (r *PGRepository) loadLines(ctx context.Context, arrivals []model.Arrival) error {
	if len(arrivals) == 0 {
		return nil
	}
	ex := postgres.Conn(ctx, r.DB)

	ids := make([]string, len(arrivals))
	index := make(map[string]int, len(arrivals))
	for i, a := range arrivals {
		ids[i] = a.ID
		index[a.ID] = i
		arrivals[i].Lines = []model.ArrivalLine{}
	}

	query, args, err := postgres.In(ex, `SELECT * FROM arrival_lines WHERE arrival_id IN (?) ORDER BY product_id`, ids)
	if err != nil {
		return err
	}
	var lines []model.ArrivalLine
	if err := ex.SelectContext(ctx, &lines, query, args...); err != nil {
		return err
	}
	for _, l := range lines {
		i := index[l.ArrivalID]
		arrivals[i].Lines = append(arrivals[i].Lines, l)
	}
	return nil
}

func (r *PGRepository) MarkClosed(ctx context.Context, id string, closedAt time.Time) error {
	_, err := postgres.Conn(ctx, r.DB).ExecContext(ctx,
		`UPDATE arrivals SET is_closed = TRUE, closed_at = $1, updated_at = $1 WHERE id = $2`, closedAt, id)
	return err
}

func (r *PGRepository) Delete(ctx context.Context, id string) error {
	ex := postgres.Conn(ctx, r.DB)
	if _, err := ex.ExecContext(ctx, "DELETE FROM arrival_lines WHERE arrival_id = $1", id); err != nil {
		return err
	}
	_, err := ex.ExecContext(ctx, "DELETE FROM arrivals WHERE id = $1", id)
	return err
}

func (r *PGRepository) UpsertLine(ctx context.Context, l *model.ArrivalLine) error {
	query := `
        INSERT INTO arrival_lines (id, arrival_id, product_id, quantity)
        VALUES (:id, :arrival_id, :product_id, :quantity)
        ON CONFLICT (arrival_id, product_id)
        DO UPDATE SET quantity = EXCLUDED.quantity
    `
	_, err := postgres.Conn(ctx, r.DB).NamedExecContext(ctx, query, l)
	return err
}

func (r *PGRepository) DeleteLine(ctx context.Context, arrivalID, productID string) error {
	_, err := postgres.Conn(ctx, r.DB).ExecContext(ctx,
		`DELETE FROM arrival_lines WHERE arrival_id = $1 AND product_id = $2`, arrivalID, productID)
	return err
}

func (r *PGRepository) ProductExists(ctx context.Context, productID string) (bool, error) {
	var exists bool
	err := postgres.Conn(ctx, r.DB).GetContext(ctx, &exists,
		`SELECT EXISTS (SELECT 1 FROM products WHERE id = $1)`, productID)
	return exists, err
}
