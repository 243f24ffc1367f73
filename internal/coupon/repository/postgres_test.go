package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/fekuna/omnipos-backoffice-service/internal/coupon"
	"github.com/fekuna/omnipos-backoffice-service/internal/coupon/dto"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) (*PGRepository, sqlmock.Sqlmock) {
	t.Helper()
	raw, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { raw.Close() })
	return NewPGRepository(sqlx.NewDb(raw, "postgres")), mock
}

var couponColumns = []string{
	"id", "code", "coupon_type_id", "description", "discount", "max_usage", "usage_count",
	"is_valid", "valid_from", "valid_until", "created_at", "updated_at",
}

func TestIncrementUsage(t *testing.T) {
	repo, mock := newMock(t)
	update := regexp.QuoteMeta("SET usage_count = usage_count + 1")

	mock.ExpectExec(update).WithArgs("c1").WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.IncrementUsage(context.Background(), "c1"))

	mock.ExpectExec(update).WithArgs("c1").WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.IncrementUsage(context.Background(), "c1"), coupon.ErrUsageExhausted)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByCode(t *testing.T) {
	repo, mock := newMock(t)
	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	query := regexp.QuoteMeta("SELECT * FROM coupons WHERE code = $1")

	mock.ExpectQuery(query).WithArgs("SPRING").WillReturnRows(
		sqlmock.NewRows(couponColumns).
			AddRow("c1", "SPRING", nil, "spring sale", "0.1000", 5, 2, true, nil, nil, now, now),
	)
	c, err := repo.FindByCode(context.Background(), "SPRING")
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.True(t, decimal.RequireFromString("0.1").Equal(c.Discount))
	assert.Equal(t, 2, c.UsageCount)
	assert.Nil(t, c.CouponTypeID)

	mock.ExpectQuery(query).WithArgs("NOPE").WillReturnRows(sqlmock.NewRows(couponColumns))
	c, err = repo.FindByCode(context.Background(), "NOPE")
	require.NoError(t, err)
	assert.Nil(t, c)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindAllBuildsFilters(t *testing.T) {
	repo, mock := newMock(t)
	valid := true

	mock.ExpectQuery(regexp.QuoteMeta("SELECT count(*) FROM coupons WHERE is_valid = $1 AND (code ILIKE $2 OR description ILIKE $3)")).
		WithArgs(true, "%spr%", "%spr%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY created_at DESC, id LIMIT 5 OFFSET 5")).
		WithArgs(true, "%spr%", "%spr%").
		WillReturnRows(sqlmock.NewRows(couponColumns))

	coupons, count, err := repo.FindAll(context.Background(), &dto.CouponFilters{
		IsValid: &valid, Search: "spr", Page: 2, PageSize: 5,
	})
	require.NoError(t, err)
	assert.Equal(t, 7, count)
	assert.Empty(t, coupons)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteTypeDetachesCoupons(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE coupons SET coupon_type_id = NULL WHERE coupon_type_id = $1")).
		WithArgs("t1").WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM coupon_types WHERE id = $1")).
		WithArgs("t1").WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.DeleteType(context.Background(), "t1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
