package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/fekuna/omnipos-backoffice-service/internal/apperror"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Executor is satisfied by both *sqlx.DB and *sqlx.Tx.
type Executor interface {
	sqlx.ExtContext
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	NamedExecContext(ctx context.Context, query string, arg interface{}) (sql.Result, error)
}

type txKey struct{}

// Conn returns the transaction bound to ctx, or db when there is none.
func Conn(ctx context.Context, db *sqlx.DB) Executor {
	if tx, ok := ctx.Value(txKey{}).(*sqlx.Tx); ok {
		return tx
	}
	return db
}

type TxManager struct {
	db         *sqlx.DB
	maxRetries int
}

func NewTxManager(db *sqlx.DB, maxRetries int) *TxManager {
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &TxManager{db: db, maxRetries: maxRetries}
}

// WithinTx runs fn in a read-committed transaction. A call made while a
// transaction is already bound to ctx joins it. Serialization failures
// roll back and rerun fn up to maxRetries times.
func (m *TxManager) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*sqlx.Tx); ok {
		return fn(ctx)
	}

	var err error
	for attempt := 0; attempt <= m.maxRetries; attempt++ {
		err = m.run(ctx, fn)
		if !apperror.IsConflict(err) || ctx.Err() != nil {
			return err
		}
	}
	return err
}

func (m *TxManager) run(ctx context.Context, fn func(ctx context.Context) error) error {
	tx, err := m.db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return TranslateError(err)
	}
	defer tx.Rollback()

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		return TranslateError(err)
	}
	return TranslateError(tx.Commit())
}

// TranslateError maps driver errors onto apperror kinds and leaves everything else untouched.
func TranslateError(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}
	switch pqErr.Code {
	case "40001", "40P01":
		return &apperror.ConcurrencyConflictError{Err: err}
	case "23505":
		return &apperror.ValidationError{Field: pqErr.Constraint, Message: "value already exists"}
	case "23503":
		return &apperror.ValidationError{Field: pqErr.Constraint, Message: "referenced record does not exist or is still in use"}
	case "23514":
		return &apperror.ValidationError{Field: pqErr.Constraint, Message: "check constraint violated"}
	case "22P02":
		return &apperror.ValidationError{Field: pqErr.Column, Message: "malformed value"}
	}
	return err
}
