package feedback

import (
	"context"

	"github.com/fekuna/omnipos-backoffice-service/internal/feedback/dto"
	"github.com/fekuna/omnipos-backoffice-service/internal/model"
)

type Repository interface {
	ProductExists(ctx context.Context, productID string) (bool, error)

	CreateReview(ctx context.Context, review *model.Review) error
	FindReviewByID(ctx context.Context, id string) (*model.Review, error)
	FindReviews(ctx context.Context, filters *dto.ReviewFilters) ([]model.Review, int, error)
	DeleteReview(ctx context.Context, id string) error

	// UpsertLike stores the like, replacing the flag of an existing
	// (product, email) pair, and returns the stored row.
	UpsertLike(ctx context.Context, like *model.Like) (*model.Like, error)
	FindLikeByID(ctx context.Context, id string) (*model.Like, error)
	FindLikes(ctx context.Context, filters *dto.LikeFilters) ([]model.Like, int, error)
	DeleteLike(ctx context.Context, id string) error
}
