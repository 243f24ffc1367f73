package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/fekuna/omnipos-backoffice-service/internal/alert/dto"
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

func (r *PGRepository) Create(ctx context.Context, a *model.Alert) error {
	query := `
        INSERT INTO alerts (id, status, type, details, user_id, created_at, traited_at)
        VALUES (:id, :status, :type, :details, :user_id, :created_at, :traited_at)
    `
	_, err := postgres.Conn(ctx, r.DB).NamedExecContext(ctx, query, a)
	return err
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.Alert, error) {
	return r.get(ctx, `SELECT * FROM alerts WHERE id = $1`, id)
}

func (r *PGRepository) LockByID(ctx context.Context, id string) (*model.Alert, error) {
	return r.get(ctx, `SELECT * FROM alerts WHERE id = $1 FOR UPDATE`, id)
}

func (r *PGRepository) get(ctx context.Context, query, id string) (*model.Alert, error) {
	var a model.Alert
	err := postgres.Conn(ctx, r.DB).GetContext(ctx, &a, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.AlertFilters) ([]model.Alert, int, error) {
	ex := postgres.Conn(ctx, r.DB)

	conditions := []string{}
	args := map[string]interface{}{}

	if f.Status != "" {
		conditions = append(conditions, "status = :status")
		args["status"] = f.Status
	}
	if f.Type != "" {
		conditions = append(conditions, "type = :type")
		args["type"] = f.Type
	}
	if f.UserID != "" {
		conditions = append(conditions, "user_id = :user_id")
		args["user_id"] = f.UserID
	}

	where := postgres.Where(conditions)

	count, err := postgres.CountNamed(ctx, ex, "SELECT count(*) FROM alerts"+where, args)
	if err != nil {
		return nil, 0, err
	}

	query := postgres.Paginate("SELECT * FROM alerts"+where+" ORDER BY created_at DESC, id", f.Page, f.PageSize)

	alerts := []model.Alert{}
	if err := postgres.SelectNamed(ctx, ex, &alerts, query, args); err != nil {
		return nil, 0, err
	}
	return alerts, count, nil
}

func (r *PGRepository) Update(ctx context.Context, a *model.Alert) error {
	_, err := postgres.Conn(ctx, r.DB).ExecContext(ctx,
		`UPDATE alerts SET status = $1, traited_at = $2 WHERE id = $3`, a.Status, a.TraitedAt, a.ID)
	return err
}

func (r *PGRepository) Delete(ctx context.Context, id string) error {
	_, err := postgres.Conn(ctx, r.DB).ExecContext(ctx, `DELETE FROM alerts WHERE id = $1`, id)
	return err
}
