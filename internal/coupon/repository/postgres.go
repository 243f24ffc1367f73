package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/fekuna/omnipos-backoffice-service/internal/coupon"
	"github.com/fekuna/omnipos-backoffice-service/internal/coupon/dto"
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

func (r *PGRepository) Create(ctx context.Context, c *model.Coupon) error {
	query := `
        INSERT INTO coupons (
            id, code, coupon_type_id, description, discount, max_usage, usage_count,
            is_valid, valid_from, valid_until, created_at, updated_at
        )
        VALUES (
            :id, :code, :coupon_type_id, :description, :discount, :max_usage, :usage_count,
            :is_valid, :valid_from, :valid_until, :created_at, :updated_at
        )
    `
	_, err := postgres.Conn(ctx, r.DB).NamedExecContext(ctx, query, c)
	return err
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.Coupon, error) {
	return r.get(ctx, `SELECT * FROM coupons WHERE id = $1`, id)
}

func (r *PGRepository) FindByCode(ctx context.Context, code string) (*model.Coupon, error) {
	return r.get(ctx, `SELECT * FROM coupons WHERE code = $1`, code)
}

func (r *PGRepository) LockByID(ctx context.Context, id string) (*model.Coupon, error) {
	return r.get(ctx, `SELECT * FROM coupons WHERE id = $1 FOR UPDATE`, id)
}

func (r *PGRepository) get(ctx context.Context, query string, args ...interface{}) (*model.Coupon, error) {
	var c model.Coupon
	err := postgres.Conn(ctx, r.DB).GetContext(ctx, &c, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.CouponFilters) ([]model.Coupon, int, error) {
	ex := postgres.Conn(ctx, r.DB)

	conditions := []string{}
	args := map[string]interface{}{}

	if f.CouponTypeID != "" {
		conditions = append(conditions, "coupon_type_id = :coupon_type_id")
		args["coupon_type_id"] = f.CouponTypeID
	}
	if f.IsValid != nil {
		conditions = append(conditions, "is_valid = :is_valid")
		args["is_valid"] = *f.IsValid
	}
	if f.Search != "" {
		conditions = append(conditions, "(code ILIKE :search OR description ILIKE :search)")
		args["search"] = "%" + f.Search + "%"
	}

	where := postgres.Where(conditions)

	count, err := postgres.CountNamed(ctx, ex, "SELECT count(*) FROM coupons"+where, args)
	if err != nil {
		return nil, 0, err
	}

	query := postgres.Paginate("SELECT * FROM coupons"+where+" ORDER BY created_at DESC, id", f.Page, f.PageSize)

	coupons := []model.Coupon{}
	if err := postgres.SelectNamed(ctx, ex, &coupons, query, args); err != nil {
		return nil, 0, err
	}
	return coupons, count, nil
}

func (r *PGRepository) Update(ctx context.Context, c *model.Coupon) error {
	query := `
        UPDATE coupons
        SET code = :code,
            coupon_type_id = :coupon_type_id,
            description = :description,
            discount = :discount,
            max_usage = :max_usage,
            is_valid = :is_valid,
            valid_from = :valid_from,
            valid_until = :valid_until,
            updated_at = :updated_at
        WHERE id = :id
    `
	_, err := postgres.Conn(ctx, r.DB).NamedExecContext(ctx, query, c)
	return err
}

func (r *PGRepository) Delete(ctx context.Context, id string) error {
	_, err := postgres.Conn(ctx, r.DB).ExecContext(ctx, "DELETE FROM coupons WHERE id = $1", id)
	return err
}

func (r *PGRepository) IsCodeUnique(ctx context.Context, code, excludeID string) (bool, error) {
	var count int
	query := `SELECT count(*) FROM coupons WHERE code = $1`
	args := []interface{}{code}
	if excludeID != "" {
		query += ` AND id != $2`
		args = append(args, excludeID)
	}
	if err := postgres.Conn(ctx, r.DB).GetContext(ctx, &count, query, args...); err != nil {
		return false, err
	}
	return count == 0, nil
}

// IncrementUsage also enforces the usage limit in SQL; an exhausted row is
// left untouched.
func (r *PGRepository) IncrementUsage(ctx context.Context, id string) error {
	res, err := postgres.Conn(ctx, r.DB).ExecContext(ctx, `
        UPDATE coupons
        SET usage_count = usage_count + 1, updated_at = now()
        WHERE id = $1 AND usage_count < max_usage
    `, id)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return coupon.ErrUsageExhausted
	}
	return nil
}

func (r *PGRepository) CreateType(ctx context.Context, t *model.CouponType) error {
	_, err := postgres.Conn(ctx, r.DB).NamedExecContext(ctx,
		`INSERT INTO coupon_types (id, name, created_at) VALUES (:id, :name, :created_at)`, t)
	return err
}

func (r *PGRepository) FindTypeByID(ctx context.Context, id string) (*model.CouponType, error) {
	var t model.CouponType
	err := postgres.Conn(ctx, r.DB).GetContext(ctx, &t, `SELECT * FROM coupon_types WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

func (r *PGRepository) IsTypeNameUnique(ctx context.Context, name string) (bool, error) {
	var count int
	err := postgres.Conn(ctx, r.DB).GetContext(ctx, &count,
		`SELECT count(*) FROM coupon_types WHERE lower(name) = lower($1)`, name)
	return count == 0, err
}

func (r *PGRepository) ListTypes(ctx context.Context) ([]model.CouponType, error) {
	types := []model.CouponType{}
	err := postgres.Conn(ctx, r.DB).SelectContext(ctx, &types, `SELECT * FROM coupon_types ORDER BY name`)
	return types, err
}

func (r *PGRepository) DeleteType(ctx context.Context, id string) error {
	ex := postgres.Conn(ctx, r.DB)
	if _, err := ex.ExecContext(ctx, `UPDATE coupons SET coupon_type_id = NULL WHERE coupon_type_id = $1`, id); err != nil {
		return err
	}
	_, err := ex.ExecContext(ctx, `DELETE FROM coupon_types WHERE id = $1`, id)
	return err
}
