package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/fekuna/omnipos-backoffice-service/internal/model"
	"github.com/fekuna/omnipos-backoffice-service/internal/order/dto"
	"github.com/fekuna/omnipos-backoffice-service/pkg/postgres"
	"github.com/jmoiron/sqlx"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Create(ctx context.Context, o *model.Order) error {
	ex := postgres.Conn(ctx, r.DB)

	query := `
        INSERT INTO orders (id, reference, completed, completed_at, coupon_id, customer_id, created_at, updated_at)
        VALUES (:id, :reference, :completed, :completed_at, :coupon_id, :customer_id, :created_at, :updated_at)
    `
	if _, err := ex.NamedExecContext(ctx, query, o); err != nil {
		return err
	}

	lineQuery := `
        INSERT INTO order_lines (id, order_id, product_id, price, quantity)
        VALUES (:id, :order_id, :product_id, :price, :quantity)
    `
	for i := range o.Lines {
		if _, err := ex.NamedExecContext(ctx, lineQuery, &o.Lines[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.Order, error) {
	return r.get(ctx, `SELECT * FROM orders WHERE id = $1`, id)
}

func (r *PGRepository) FindByReference(ctx context.Context, reference string) (*model.Order, error) {
	return r.get(ctx, `SELECT * FROM orders WHERE reference = $1`, reference)
}

func (r *PGRepository) LockByID(ctx context.Context, id string) (*model.Order, error) {
	return r.get(ctx, `SELECT * FROM orders WHERE id = $1 FOR UPDATE`, id)
}

func (r *PGRepository) get(ctx context.Context, query, arg string) (*model.Order, error) {
	var o model.Order
	err := postgres.Conn(ctx, r.DB).GetContext(ctx, &o, query, arg)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	orders := []model.Order{o}
	if err := r.loadLines(ctx, orders); err != nil {
		return nil, err
	}
	return &orders[0], nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.OrderFilters) ([]model.Order, int, error) {
	ex := postgres.Conn(ctx, r.DB)

	conditions := []string{}
	args := map[string]interface{}{}

	if f.CustomerID != "" {
		conditions = append(conditions, "customer_id = :customer_id")
		args["customer_id"] = f.CustomerID
	}
	if f.Completed != nil {
		conditions = append(conditions, "completed = :completed")
		args["completed"] = *f.Completed
	}
	if f.Reference != "" {
		conditions = append(conditions, "reference LIKE :reference")
		args["reference"] = f.Reference + "%"
	}
	if f.CouponID != "" {
		conditions = append(conditions, "coupon_id = :coupon_id")
		args["coupon_id"] = f.CouponID
	}

	where := postgres.Where(conditions)

	count, err := postgres.CountNamed(ctx, ex, "SELECT count(*) FROM orders"+where, args)
	if err != nil {
		return nil, 0, err
	}

	query := postgres.Paginate("SELECT * FROM orders"+where+" ORDER BY created_at DESC, id", f.Page, f.PageSize)

	orders := []model.Order{}
	if err := postgres.SelectNamed(ctx, ex, &orders, query, args); err != nil {
		return nil, 0, err
	}
	if err := r.loadLines(ctx, orders); err != nil {
		return nil, 0, err
	}
	return orders, count, nil
}

func (r *PGRepository) loadLines(ctx context.Context, orders []model.Order) error {
	if len(orders) == 0 {
		return nil
	}
	ex := postgres.Conn(ctx, r.DB)

	ids := make([]string, len(orders))
	index := make(map[string]int, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
		index[o.ID] = i
		orders[i].Lines = []model.OrderLine{}
	}

	query, args, err := postgres.In(ex, `SELECT * FROM order_lines WHERE order_id IN (?) ORDER BY product_id`, ids)
	if err != nil {
		return err
	}
	var lines []model.OrderLine
	if err := ex.SelectContext(ctx, &lines, query, args...); err != nil {
		return err
	}
	for _, l := range lines {
		i := index[l.OrderID]
		orders[i].Lines = append(orders[i].Lines, l)
	}
	return nil
}

func (r *PGRepository) IsReferenceUnique(ctx context.Context, reference string) (bool, error) {
	var count int
	err := postgres.Conn(ctx, r.DB).GetContext(ctx, &count, `SELECT count(*) FROM orders WHERE reference = $1`, reference)
	return count == 0, err
}

func (r *PGRepository) MarkCompleted(ctx context.Context, id string, completedAt time.Time) error {
	_, err := postgres.Conn(ctx, r.DB).ExecContext(ctx,
		`UPDATE orders SET completed = TRUE, completed_at = $1, updated_at = $1 WHERE id = $2`, completedAt, id)
	return err
}

func (r *PGRepository) Delete(ctx context.Context, id string) error {
	ex := postgres.Conn(ctx, r.DB)
	for _, query := range []string{
		"DELETE FROM deliveries WHERE order_id = $1",
		"DELETE FROM order_lines WHERE order_id = $1",
		"DELETE FROM orders WHERE id = $1",
	} {
		if _, err := ex.ExecContext(ctx, query, id); err != nil {
			return err
		}
	}
	return nil
}

func (r *PGRepository) FindProducts(ctx context.Context, ids []string) ([]model.Product, error) {
	if len(ids) == 0 {
		return []model.Product{}, nil
	}
	ex := postgres.Conn(ctx, r.DB)
	query, args, err := postgres.In(ex, `
        SELECT id, category_id, name, slug, description, price, stock, is_active, created_at, updated_at
        FROM products
        WHERE id IN (?)
    `, ids)
	if err != nil {
		return nil, err
	}
	products := []model.Product{}
	err = ex.SelectContext(ctx, &products, query, args...)
	return products, err
}
