package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/fekuna/omnipos-backoffice-service/internal/category/dto"
	"github.com/fekuna/omnipos-backoffice-service/internal/model"
	"github.com/fekuna/omnipos-backoffice-service/pkg/postgres"
	"github.com/jmoiron/sqlx"
)

const selectCategory = `
        SELECT c.id, c.parent_id, c.name, c.slug, c.image_url, c.is_active, c.created_at, c.updated_at,
            (SELECT count(*) FROM products p WHERE p.category_id = c.id) AS products_number
        FROM categories c`

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Create(ctx context.Context, c *model.Category) error {
	query := `
        INSERT INTO categories (id, parent_id, name, slug, image_url, is_active, created_at, updated_at)
        VALUES (:id, :parent_id, :name, :slug, :image_url, :is_active, :created_at, :updated_at)
    `
	_, err := postgres.Conn(ctx, r.DB).NamedExecContext(ctx, query, c)
	return err
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.Category, error) {
	return r.get(ctx, selectCategory+` WHERE c.id = $1 LIMIT 1`, id)
}

func (r *PGRepository) FindByIDForUpdate(ctx context.Context, id string) (*model.Category, error) {
	query := `
        SELECT id, parent_id, name, slug, image_url, is_active, created_at, updated_at, 0 AS products_number
        FROM categories
        WHERE id = $1
        FOR UPDATE
    `
	return r.get(ctx, query, id)
}

func (r *PGRepository) get(ctx context.Context, query string, args ...interface{}) (*model.Category, error) {
	var category model.Category
	err := postgres.Conn(ctx, r.DB).GetContext(ctx, &category, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &category, nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.CategoryFilters) ([]model.Category, int, error) {
	ex := postgres.Conn(ctx, r.DB)

	conditions := []string{}
	args := map[string]interface{}{}

	// ParentID filtering logic
	if f.ParentID != nil {
		if *f.ParentID == "" {
			conditions = append(conditions, "c.parent_id IS NULL")
		} else {
			conditions = append(conditions, "c.parent_id = :parent_id")
			args["parent_id"] = *f.ParentID
		}
	}
	if f.IsActive != nil {
		conditions = append(conditions, "c.is_active = :is_active")
		args["is_active"] = *f.IsActive
	}
	if f.Search != "" {
		conditions = append(conditions, "(c.name ILIKE :search OR c.slug ILIKE :search)")
		args["search"] = "%" + f.Search + "%"
	}

	where := postgres.Where(conditions)

	count, err := postgres.CountNamed(ctx, ex, "SELECT count(*) FROM categories c"+where, args)
	if err != nil {
		return nil, 0, err
	}

	query := postgres.Paginate(selectCategory+where+" ORDER BY c.name ASC", f.Page, f.PageSize)

	categories := []model.Category{}
	if err := postgres.SelectNamed(ctx, ex, &categories, query, args); err != nil {
		return nil, 0, err
	}
	return categories, count, nil
}

func (r *PGRepository) Update(ctx context.Context, c *model.Category) error {
	query := `
        UPDATE categories
        SET parent_id = :parent_id,
            name = :name,
            slug = :slug,
            image_url = :image_url,
            is_active = :is_active,
            updated_at = :updated_at
        WHERE id = :id
    `
	_, err := postgres.Conn(ctx, r.DB).NamedExecContext(ctx, query, c)
	return err
}

func (r *PGRepository) Delete(ctx context.Context, id string) error {
	_, err := postgres.Conn(ctx, r.DB).ExecContext(ctx, "DELETE FROM categories WHERE id = $1", id)
	return err
}

func (r *PGRepository) IsNameUnique(ctx context.Context, name, excludeID string) (bool, error) {
	return r.unique(ctx, `SELECT count(*) FROM categories WHERE lower(name) = lower($1) AND id::text <> $2`, name, excludeID)
}

func (r *PGRepository) IsSlugUnique(ctx context.Context, slug, excludeID string) (bool, error) {
	return r.unique(ctx, `SELECT count(*) FROM categories WHERE slug = $1 AND id::text <> $2`, slug, excludeID)
}

func (r *PGRepository) unique(ctx context.Context, query, value, excludeID string) (bool, error) {
	var count int
	if err := postgres.Conn(ctx, r.DB).GetContext(ctx, &count, query, value, excludeID); err != nil {
		return false, err
	}
	return count == 0, nil
}

func (r *PGRepository) DetachChildren(ctx context.Context, id string) error {
	_, err := postgres.Conn(ctx, r.DB).ExecContext(ctx,
		`UPDATE categories SET parent_id = NULL, updated_at = now() WHERE parent_id = $1`, id)
	return err
}

func (r *PGRepository) DetachProducts(ctx context.Context, id string) error {
	_, err := postgres.Conn(ctx, r.DB).ExecContext(ctx,
		`UPDATE products SET category_id = NULL, updated_at = now() WHERE category_id = $1`, id)
	return err
}
