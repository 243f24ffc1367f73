package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/fekuna/omnipos-backoffice-service/internal/model"
	"github.com/fekuna/omnipos-backoffice-service/internal/product/dto"
	"github.com/fekuna/omnipos-backoffice-service/pkg/postgres"
	"github.com/jmoiron/sqlx"
)

const productColumns = `id, category_id, name, slug, description, price, stock, is_active, created_at, updated_at`

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Create(ctx context.Context, p *model.Product) error {
	query := `
        INSERT INTO products (
            id, category_id, name, slug, description, price, stock, is_active, created_at, updated_at
        )
        VALUES (
            :id, :category_id, :name, :slug, :description, :price, :stock, :is_active, :created_at, :updated_at
        )
    `
	_, err := postgres.Conn(ctx, r.DB).NamedExecContext(ctx, query, p)
	return err
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.Product, error) {
	var product model.Product
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1 LIMIT 1`
	err := postgres.Conn(ctx, r.DB).GetContext(ctx, &product, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

func (r *PGRepository) FindByIDs(ctx context.Context, ids []string) ([]model.Product, error) {
	if len(ids) == 0 {
		return []model.Product{}, nil
	}
	ex := postgres.Conn(ctx, r.DB)
	query, args, err := postgres.In(ex, `SELECT `+productColumns+` FROM products WHERE id IN (?)`, ids)
	if err != nil {
		return nil, err
	}
	products := []model.Product{}
	if err := ex.SelectContext(ctx, &products, query, args...); err != nil {
		return nil, err
	}
	return products, nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.ProductFilters) ([]model.Product, int, error) {
	ex := postgres.Conn(ctx, r.DB)

	conditions := []string{}
	args := map[string]interface{}{}

	if f.CategoryID != "" {
		conditions = append(conditions, "category_id = :category_id")
		args["category_id"] = f.CategoryID
	}
	if f.IsActive != nil {
		conditions = append(conditions, "is_active = :is_active")
		args["is_active"] = *f.IsActive
	}
	if f.SearchQuery != "" {
		conditions = append(conditions, "(name ILIKE :search OR slug ILIKE :search OR description ILIKE :search)")
		args["search"] = "%" + f.SearchQuery + "%"
	}

	where := postgres.Where(conditions)

	count, err := postgres.CountNamed(ctx, ex, "SELECT count(*) FROM products"+where, args)
	if err != nil {
		return nil, 0, err
	}

	// Sort columns are whitelisted, never interpolated from input.
	orderBy := "created_at DESC"
	if f.SortBy != "" {
		switch f.SortBy {
		case "name":
			orderBy = "name"
		case "price":
			orderBy = "price"
		case "stock":
			orderBy = "stock"
		default:
			orderBy = "created_at"
		}
		if strings.ToLower(f.SortOrder) == "asc" {
			orderBy += " ASC"
		} else {
			orderBy += " DESC"
		}
	}

	query := postgres.Paginate(fmt.Sprintf("SELECT %s FROM products%s ORDER BY %s, id", productColumns, where, orderBy), f.Page, f.PageSize)

	products := []model.Product{}
	if err := postgres.SelectNamed(ctx, ex, &products, query, args); err != nil {
		return nil, 0, err
	}
	return products, count, nil
}

func (r *PGRepository) Update(ctx context.Context, p *model.Product) error {
	query := `
        UPDATE products
        SET category_id = :category_id,
            name = :name,
            slug = :slug,
            description = :description,
            price = :price,
            is_active = :is_active,
            updated_at = :updated_at
        WHERE id = :id
    `
	_, err := postgres.Conn(ctx, r.DB).NamedExecContext(ctx, query, p)
	return err
}

func (r *PGRepository) Delete(ctx context.Context, id string) error {
	_, err := postgres.Conn(ctx, r.DB).ExecContext(ctx, "DELETE FROM products WHERE id = $1", id)
	return err
}

func (r *PGRepository) IsSlugUnique(ctx context.Context, slug, excludeID string) (bool, error) {
	var count int
	query := `SELECT count(*) FROM products WHERE slug = $1`
	args := []interface{}{slug}
	if excludeID != "" {
		query += ` AND id != $2`
		args = append(args, excludeID)
	}

	if err := postgres.Conn(ctx, r.DB).GetContext(ctx, &count, query, args...); err != nil {
		return false, err
	}
	return count == 0, nil
}

func (r *PGRepository) CategoryExists(ctx context.Context, categoryID string) (bool, error) {
	var exists bool
	err := postgres.Conn(ctx, r.DB).GetContext(ctx, &exists,
		`SELECT EXISTS (SELECT 1 FROM categories WHERE id = $1)`, categoryID)
	return exists, err
}

func (r *PGRepository) IsReferenced(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := postgres.Conn(ctx, r.DB).GetContext(ctx, &exists, `
        SELECT EXISTS (SELECT 1 FROM order_lines WHERE product_id = $1)
            OR EXISTS (SELECT 1 FROM arrival_lines WHERE product_id = $1)
    `, id)
	return exists, err
}

func (r *PGRepository) DeleteDependents(ctx context.Context, id string) error {
	ex := postgres.Conn(ctx, r.DB)
	for _, table := range []string{"images", "reviews", "likes"} {
		if _, err := ex.ExecContext(ctx, "DELETE FROM "+table+" WHERE product_id = $1", id); err != nil {
			return fmt.Errorf("delete %s: %w", table, err)
		}
	}
	return nil
}

func (r *PGRepository) AddImage(ctx context.Context, img *model.Image) error {
	query := `
        INSERT INTO images (id, product_id, name, url, created_at)
        VALUES (:id, :product_id, :name, :url, :created_at)
    `
	_, err := postgres.Conn(ctx, r.DB).NamedExecContext(ctx, query, img)
	return err
}

func (r *PGRepository) FindImageByID(ctx context.Context, id string) (*model.Image, error) {
	var img model.Image
	err := postgres.Conn(ctx, r.DB).GetContext(ctx, &img, `SELECT * FROM images WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &img, nil
}

func (r *PGRepository) ListImages(ctx context.Context, productID string) ([]model.Image, error) {
	images := []model.Image{}
	err := postgres.Conn(ctx, r.DB).SelectContext(ctx, &images,
		`SELECT * FROM images WHERE product_id = $1 ORDER BY created_at, id`, productID)
	return images, err
}

func (r *PGRepository) DeleteImage(ctx context.Context, id string) error {
	_, err := postgres.Conn(ctx, r.DB).ExecContext(ctx, "DELETE FROM images WHERE id = $1", id)
	return err
}

type statsRow struct {
	ProductID string `db:"product_id"`
	model.ProductStats
}

func (r *PGRepository) GetStats(ctx context.Context, ids []string) (map[string]model.ProductStats, error) {
	stats := make(map[string]model.ProductStats, len(ids))
	if len(ids) == 0 {
		return stats, nil
	}
	ex := postgres.Conn(ctx, r.DB)

	query, args, err := postgres.In(ex, `
        SELECT p.id AS product_id,
            (SELECT count(*) FROM likes l WHERE l.product_id = p.id AND l.liked) AS likes_total,
            (SELECT count(*) FROM reviews rv WHERE rv.product_id = p.id) AS reviews_count,
            COALESCE((SELECT avg(rv.rate)::float8 FROM reviews rv WHERE rv.product_id = p.id), 0) AS reviews_rate,
            (SELECT count(DISTINCT ol.order_id)
                FROM order_lines ol JOIN orders o ON o.id = ol.order_id
                WHERE ol.product_id = p.id AND o.completed) AS orders_count,
            COALESCE((SELECT sum(ol.price * ol.quantity)
                FROM order_lines ol JOIN orders o ON o.id = ol.order_id
                WHERE ol.product_id = p.id AND o.completed), 0) AS solde_amount
        FROM products p
        WHERE p.id IN (?)
    `, ids)
	if err != nil {
		return nil, err
	}

	var rows []statsRow
	if err := ex.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}
	for _, row := range rows {
		stats[row.ProductID] = row.ProductStats
	}
	return stats, nil
}
