package transport

import (
	"context"
	"errors"

	"github.com/fekuna/omnipos-backoffice-service/internal/apperror"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Error converts a use case error into a gRPC status error.
func Error(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}

	var (
		validation *apperror.ValidationError
		stock      *apperror.InsufficientStockError
		coupon     *apperror.InvalidCouponError
		state      *apperror.InvalidStateError
		conflict   *apperror.ConcurrencyConflictError
		notFound   *apperror.NotFoundError
	)
	switch {
	case errors.As(err, &validation):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.As(err, &stock), errors.As(err, &coupon), errors.As(err, &state):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.As(err, &conflict):
		return status.Error(codes.Aborted, err.Error())
	case errors.As(err, &notFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	}
	return status.Error(codes.Internal, err.Error())
}
