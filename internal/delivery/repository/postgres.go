package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/fekuna/omnipos-backoffice-service/internal/delivery/dto"
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

func (r *PGRepository) Create(ctx context.Context, d *model.Delivery) error {
	query := `
        INSERT INTO deliveries (id, order_id, state, address, zipcode, city, country, price, delivered_by, delivered_at, created_at, updated_at)
        VALUES (:id, :order_id, :state, :address, :zipcode, :city, :country, :price, :delivered_by, :delivered_at, :created_at, :updated_at)
    `
	_, err := postgres.Conn(ctx, r.DB).NamedExecContext(ctx, query, d)
	return err
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.Delivery, error) {
	return r.get(ctx, `SELECT * FROM deliveries WHERE id = $1`, id)
}

func (r *PGRepository) FindByOrderID(ctx context.Context, orderID string) (*model.Delivery, error) {
	return r.get(ctx, `SELECT * FROM deliveries WHERE order_id = $1`, orderID)
}

func (r *PGRepository) LockByOrderID(ctx context.Context, orderID string) (*model.Delivery, error) {
	return r.get(ctx, `SELECT * FROM deliveries WHERE order_id = $1 FOR UPDATE`, orderID)
}

func (r *PGRepository) LockByID(ctx context.Context, id string) (*model.Delivery, error) {
	return r.get(ctx, `SELECT * FROM deliveries WHERE id = $1 FOR UPDATE`, id)
}

func (r *PGRepository) get(ctx context.Context, query, arg string) (*model.Delivery, error) {
	var d model.Delivery
	err := postgres.Conn(ctx, r.DB).GetContext(ctx, &d, query, arg)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &d, nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.DeliveryFilters) ([]model.Delivery, int, error) {
	ex := postgres.Conn(ctx, r.DB)

	conditions := []string{}
	args := map[string]interface{}{}

	if f.OrderID != "" {
		conditions = append(conditions, "order_id = :order_id")
		args["order_id"] = f.OrderID
	}
	if f.State != "" {
		conditions = append(conditions, "state = :state")
		args["state"] = f.State
	}
	if f.City != "" {
		conditions = append(conditions, "city ILIKE :city")
		args["city"] = f.City
	}
	if f.DeliveredBy != "" {
		conditions = append(conditions, "delivered_by = :delivered_by")
		args["delivered_by"] = f.DeliveredBy
	}

	where := postgres.Where(conditions)

	count, err := postgres.CountNamed(ctx, ex, "SELECT count(*) FROM deliveries"+where, args)
	if err != nil {
		return nil, 0, err
	}

	query := postgres.Paginate("SELECT * FROM deliveries"+where+" ORDER BY created_at DESC, id", f.Page, f.PageSize)

	deliveries := []model.Delivery{}
	if err := postgres.SelectNamed(ctx, ex, &deliveries, query, args); err != nil {
		return nil, 0, err
	}
	return deliveries, count, nil
}

func (r *PGRepository) Update(ctx context.Context, d *model.Delivery) error {
	query := `
        UPDATE deliveries
        SET state = :state, address = :address, zipcode = :zipcode, city = :city, country = :country,
            price = :price, delivered_by = :delivered_by, delivered_at = :delivered_at, updated_at = :updated_at
        WHERE id = :id
    `
	_, err := postgres.Conn(ctx, r.DB).NamedExecContext(ctx, query, d)
	return err
}
