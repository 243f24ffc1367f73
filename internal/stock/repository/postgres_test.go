package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
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

func TestLockProductsExpandsIDs(t *testing.T) {
	repo, mock := newMock(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("WHERE id IN ($1, $2)")).
		WithArgs("a", "b").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "category_id", "name", "slug", "description", "price", "stock", "is_active", "created_at", "updated_at",
		}).
			AddRow("a", nil, "A", "a", nil, "10.00", 4, true, now, now).
			AddRow("b", nil, "B", "b", nil, "2.50", 0, true, now, now))

	products, err := repo.LockProducts(context.Background(), []string{"a", "b"})
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, 4, products[0].Stock)
	assert.Equal(t, "2.5", products[1].Price.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLockProductsWithoutIDsSkipsQuery(t *testing.T) {
	repo, mock := newMock(t)

	products, err := repo.LockProducts(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, products)
	assert.NoError(t, mock.ExpectationsWereMet())
}
