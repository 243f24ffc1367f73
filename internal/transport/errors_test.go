package transport

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/fekuna/omnipos-backoffice-service/internal/apperror"
	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want codes.Code
	}{
		{"validation", apperror.Validation("name", "required"), codes.InvalidArgument},
		{"insufficient stock", &apperror.InsufficientStockError{ProductID: "p", Requested: 2, Available: 1}, codes.FailedPrecondition},
		{"invalid coupon", &apperror.InvalidCouponError{Code: "X", Reason: apperror.CouponExpired}, codes.FailedPrecondition},
		{"invalid state", apperror.InvalidState("arrival", "closed", "close"), codes.FailedPrecondition},
		{"conflict", &apperror.ConcurrencyConflictError{}, codes.Aborted},
		{"not found wrapped", fmt.Errorf("load: %w", apperror.NotFound("order", "1")), codes.NotFound},
		{"canceled", context.Canceled, codes.Canceled},
		{"unknown", errors.New("boom"), codes.Internal},
		{"already a status", status.Error(codes.Unauthenticated, "no"), codes.Unauthenticated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, status.Code(Error(tt.err)))
		})
	}

	assert.NoError(t, Error(nil))
}
