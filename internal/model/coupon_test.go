package model

import (
	"errors"
	"testing"
	"time"

	"github.com/fekuna/omnipos-backoffice-service/internal/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCouponCheckApplicable(t *testing.T) {
	now := time.Date(2024, 12, 20, 12, 0, 0, 0, time.UTC)
	before := now.Add(-time.Hour)
	after := now.Add(time.Hour)

	tests := []struct {
		name   string
		coupon Coupon
		reason string
	}{
		{"valid open window", Coupon{IsValid: true, MaxUsage: 1}, ""},
		{"valid inside window", Coupon{IsValid: true, MaxUsage: 2, UsageCount: 1, ValidFrom: &before, ValidUntil: &after}, ""},
		{"disabled", Coupon{IsValid: false, MaxUsage: 1}, apperror.CouponDisabled},
		{"not started", Coupon{IsValid: true, MaxUsage: 1, ValidFrom: &after}, apperror.CouponNotStarted},
		{"expired", Coupon{IsValid: true, MaxUsage: 1, ValidUntil: &before}, apperror.CouponExpired},
		{"exhausted", Coupon{IsValid: true, MaxUsage: 1, UsageCount: 1}, apperror.CouponExhausted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.coupon.CheckApplicable(now)
			if tt.reason == "" {
				assert.NoError(t, err)
				return
			}
			var ic *apperror.InvalidCouponError
			require.True(t, errors.As(err, &ic))
			assert.Equal(t, tt.reason, ic.Reason)
		})
	}
}
