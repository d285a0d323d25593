package domain

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidTenant      = errors.New("invalid tenant")
	ErrNoTenantMembership = errors.New("no tenant membership")
	ErrItemNotFound       = errors.New("item not found")
	ErrDuplicateItem      = errors.New("duplicate item")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrConflict           = errors.New("write conflict")
	ErrDuplicateEmail     = errors.New("email already registered")
)

// ValidationError marks a malformed or out-of-range request value.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}
