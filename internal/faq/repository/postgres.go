package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/fekuna/omnipos-backoffice-service/internal/faq/dto"
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

func (r *PGRepository) Create(ctx context.Context, f *model.Faq) error {
	query := `
        INSERT INTO faqs (id, type, question, answer, created_at)
        VALUES (:id, :type, :question, :answer, :created_at)
    `
	_, err := postgres.Conn(ctx, r.DB).NamedExecContext(ctx, query, f)
	return err
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.Faq, error) {
	var f model.Faq
	err := postgres.Conn(ctx, r.DB).GetContext(ctx, &f, `SELECT * FROM faqs WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &f, nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.FaqFilters) ([]model.Faq, int, error) {
	ex := postgres.Conn(ctx, r.DB)

	conditions := []string{}
	args := map[string]interface{}{}

	if f.Type != "" {
		conditions = append(conditions, "type = :type")
		args["type"] = f.Type
	}
	if f.Search != "" {
		conditions = append(conditions, "(question ILIKE :search OR answer ILIKE :search)")
		args["search"] = "%" + f.Search + "%"
	}

	where := postgres.Where(conditions)

	count, err := postgres.CountNamed(ctx, ex, "SELECT count(*) FROM faqs"+where, args)
	if err != nil {
		return nil, 0, err
	}

	query := postgres.Paginate("SELECT * FROM faqs"+where+" ORDER BY type, created_at, id", f.Page, f.PageSize)

	faqs := []model.Faq{}
	if err := postgres.SelectNamed(ctx, ex, &faqs, query, args); err != nil {
		return nil, 0, err
	}
	return faqs, count, nil
}

func (r *PGRepository) Update(ctx context.Context, f *model.Faq) error {
	query := `UPDATE faqs SET type = :type, question = :question, answer = :answer WHERE id = :id`
	_, err := postgres.Conn(ctx, r.DB).NamedExecContext(ctx, query, f)
	return err
}

func (r *PGRepository) Delete(ctx context.Context, id string) error {
	_, err := postgres.Conn(ctx, r.DB).ExecContext(ctx, `DELETE FROM faqs WHERE id = $1`, id)
	return err
}
