package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/fekuna/omnipos-backoffice-service/internal/apperror"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	raw, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { raw.Close() })
	return sqlx.NewDb(raw, "postgres"), mock
}

func TestWithinTxCommits(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE products").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := NewTxManager(db, 0).WithinTx(context.Background(), func(ctx context.Context) error {
		_, err := Conn(ctx, db).ExecContext(ctx, "UPDATE products SET stock = stock + 1")
		return err
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithinTxRollsBackOnError(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	boom := errors.New("boom")
	err := NewTxManager(db, 3).WithinTx(context.Background(), func(ctx context.Context) error {
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithinTxRetriesSerializationFailure(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectRollback()
	mock.ExpectBegin()
	mock.ExpectCommit()

	calls := 0
	err := NewTxManager(db, 2).WithinTx(context.Background(), func(ctx context.Context) error {
		calls++
		if calls == 1 {
			return &pq.Error{Code: "40001"}
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithinTxGivesUpAfterRetries(t *testing.T) {
	db, mock := newMock(t)
	for i := 0; i < 2; i++ {
		mock.ExpectBegin()
		mock.ExpectRollback()
	}

	err := NewTxManager(db, 1).WithinTx(context.Background(), func(ctx context.Context) error {
		return &pq.Error{Code: "40P01"}
	})

	assert.True(t, apperror.IsConflict(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithinTxJoinsOuterTransaction(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	m := NewTxManager(db, 0)
	err := m.WithinTx(context.Background(), func(ctx context.Context) error {
		outer := Conn(ctx, db)
		return m.WithinTx(ctx, func(inner context.Context) error {
			assert.Same(t, outer, Conn(inner, db))
			return nil
		})
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTranslateError(t *testing.T) {
	var ve *apperror.ValidationError
	err := TranslateError(&pq.Error{Code: "23505", Constraint: "categories_slug_key"})
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "categories_slug_key", ve.Field)

	assert.Nil(t, TranslateError(nil))
	plain := errors.New("plain")
	assert.Equal(t, plain, TranslateError(plain))
}

func TestPaginate(t *testing.T) {
	assert.Equal(t, "SELECT 1", Paginate("SELECT 1", 1, 0))
	assert.Equal(t, "SELECT 1 LIMIT 20 OFFSET 40", Paginate("SELECT 1", 3, 20))
	assert.Equal(t, "SELECT 1 LIMIT 5 OFFSET 0", Paginate("SELECT 1", 0, 5))
}
