package feedback

import (
	"context"

	"github.com/fekuna/omnipos-backoffice-service/internal/feedback/dto"
	"github.com/fekuna/omnipos-backoffice-service/internal/model"
)

type UseCase interface {
	AddReview(ctx context.Context, input *dto.AddReviewInput) (*model.Review, error)
	ListReviews(ctx context.Context, filters *dto.ReviewFilters) ([]model.Review, int, error)
	DeleteReview(ctx context.Context, id string) error

	// SetLike records whether email likes the product, one row per pair.
	SetLike(ctx context.Context, input *dto.SetLikeInput) (*model.Like, error)
	ListLikes(ctx context.Context, filters *dto.LikeFilters) ([]model.Like, int, error)
	DeleteLike(ctx context.Context, id string) error
}
