package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/fekuna/omnipos-backoffice-service/internal/feedback/dto"
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

func (r *PGRepository) ProductExists(ctx context.Context, productID string) (bool, error) {
	var exists bool
	err := postgres.Conn(ctx, r.DB).GetContext(ctx, &exists,
		`SELECT EXISTS (SELECT 1 FROM products WHERE id = $1)`, productID)
	return exists, err
}

func (r *PGRepository) CreateReview(ctx context.Context, rv *model.Review) error {
	query := `
        INSERT INTO reviews (id, product_id, name, email, rate, comment, created_at)
        VALUES (:id, :product_id, :name, :email, :rate, :comment, :created_at)
    `
	_, err := postgres.Conn(ctx, r.DB).NamedExecContext(ctx, query, rv)
	return err
}

func (r *PGRepository) FindReviewByID(ctx context.Context, id string) (*model.Review, error) {
	var rv model.Review
	err := postgres.Conn(ctx, r.DB).GetContext(ctx, &rv, `SELECT * FROM reviews WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &rv, nil
}

func (r *PGRepository) FindReviews(ctx context.Context, f *dto.ReviewFilters) ([]model.Review, int, error) {
	ex := postgres.Conn(ctx, r.DB)

	conditions := []string{}
	args := map[string]interface{}{}

	if f.ProductID != "" {
		conditions = append(conditions, "product_id = :product_id")
		args["product_id"] = f.ProductID
	}
	if f.Email != "" {
		conditions = append(conditions, "lower(email) = lower(:email)")
		args["email"] = f.Email
	}
	if f.MinRate > 0 {
		conditions = append(conditions, "rate >= :min_rate")
		args["min_rate"] = f.MinRate
	}

	where := postgres.Where(conditions)

	count, err := postgres.CountNamed(ctx, ex, "SELECT count(*) FROM reviews"+where, args)
	if err != nil {
		return nil, 0, err
	}

	query := postgres.Paginate("SELECT * FROM reviews"+where+" ORDER BY created_at DESC, id", f.Page, f.PageSize)

	reviews := []model.Review{}
	if err := postgres.SelectNamed(ctx, ex, &reviews, query, args); err != nil {
		return nil, 0, err
	}
	return reviews, count, nil
}

func (r *PGRepository) DeleteReview(ctx context.Context, id string) error {
	_, err := postgres.Conn(ctx, r.DB).ExecContext(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	return err
}

func (r *PGRepository) UpsertLike(ctx context.Context, l *model.Like) (*model.Like, error) {
	query := `
        INSERT INTO likes (id, product_id, email, liked, created_at)
        VALUES ($1, $2, $3, $4, $5)
        ON CONFLICT (product_id, email) DO UPDATE SET liked = EXCLUDED.liked
        RETURNING *
    `
	var stored model.Like
	err := postgres.Conn(ctx, r.DB).GetContext(ctx, &stored, query, l.ID, l.ProductID, l.Email, l.Liked, l.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &stored, nil
}

func (r *PGRepository) FindLikeByID(ctx context.Context, id string) (*model.Like, error) {
	var l model.Like
	err := postgres.Conn(ctx, r.DB).GetContext(ctx, &l, `SELECT * FROM likes WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &l, nil
}

func (r *PGRepository) FindLikes(ctx context.Context, f *dto.LikeFilters) ([]model.Like, int, error) {
	ex := postgres.Conn(ctx, r.DB)

	conditions := []string{}
	args := map[string]interface{}{}

	if f.ProductID != "" {
		conditions = append(conditions, "product_id = :product_id")
		args["product_id"] = f.ProductID
	}
	if f.Email != "" {
		conditions = append(conditions, "email = lower(:email)")
		args["email"] = f.Email
	}
	if f.Liked != nil {
		conditions = append(conditions, "liked = :liked")
		args["liked"] = *f.Liked
	}

	where := postgres.Where(conditions)

	count, err := postgres.CountNamed(ctx, ex, "SELECT count(*) FROM likes"+where, args)
	if err != nil {
		return nil, 0, err
	}

	query := postgres.Paginate("SELECT * FROM likes"+where+" ORDER BY created_at DESC, id", f.Page, f.PageSize)

	likes := []model.Like{}
	if err := postgres.SelectNamed(ctx, ex, &likes, query, args); err != nil {
		return nil, 0, err
	}
	return likes, count, nil
}

func (r *PGRepository) DeleteLike(ctx context.Context, id string) error {
	_, err := postgres.Conn(ctx, r.DB).ExecContext(ctx, `DELETE FROM likes WHERE id = $1`, id)
	return err
}
