// Package apperror defines the error kinds returned by use cases.
package apperror

import (
	"errors"
	"fmt"
)

// ValidationError reports a uniqueness, format or cycle violation on a field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation failed: " + e.Message
	}
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
}

func Validation(field, format string, args ...interface{}) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// InsufficientStockError aborts a stock change that would drive a product negative.
type InsufficientStockError struct {
	ProductID string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s: requested %d, available %d",
		e.ProductID, e.Requested, e.Available)
}

// Reasons carried by InvalidCouponError.
const (
	CouponDisabled    = "disabled"
	CouponNotStarted  = "not yet valid"
	CouponExpired     = "expired"
	CouponExhausted   = "usage limit reached"
	CouponUnknownCode = "unknown code"
)

type InvalidCouponError struct {
	Code   string
	Reason string
}

func (e *InvalidCouponError) Error() string {
	return fmt.Sprintf("coupon %q is invalid: %s", e.Code, e.Reason)
}

// ConcurrencyConflictError marks a serialization failure. The whole unit of work may be retried.
type ConcurrencyConflictError struct {
	Err error
}

func (e *ConcurrencyConflictError) Error() string {
	if e.Err == nil {
		return "concurrent update conflict"
	}
	return "concurrent update conflict: " + e.Err.Error()
}

func (e *ConcurrencyConflictError) Unwrap() error { return e.Err }

// InvalidStateError rejects an action the entity's current state does not allow.
type InvalidStateError struct {
	Entity string
	State  string
	Action string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("cannot %s %s in state %q", e.Action, e.Entity, e.State)
}

func InvalidState(entity, state, action string) error {
	return &InvalidStateError{Entity: entity, State: state, Action: action}
}

type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

func NotFound(entity, id string) error {
	return &NotFoundError{Entity: entity, ID: id}
}

func IsConflict(err error) bool {
	var c *ConcurrencyConflictError
	return errors.As(err, &c)
}

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
