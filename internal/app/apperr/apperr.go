package apperr

import (
	"errors"
	"fmt"

	pkgerrors "github.com/pkg/errors"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrAlreadyExists      = errors.New("already exists")
	ErrValidation         = errors.New("validation failed")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrStoreFailure       = errors.New("store failure")
)

// ValidationError names the field and the first rule it broke.
type ValidationError struct {
	Field  string
	Reason string
}

// Validation constructor
func Validation(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Is matches ErrValidation
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

type storeError struct {
	cause error
}

func (e *storeError) Error() string {
	return e.cause.Error()
}

func (e *storeError) Unwrap() error {
	return e.cause
}

func (e *storeError) Is(target error) bool {
	return target == ErrStoreFailure
}

// StoreFailure wraps an underlying driver error with the failed operation name.
// Errors that already carry an application kind are returned as is.
func StoreFailure(err error, op string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrAlreadyExists) || errors.Is(err, ErrStoreFailure) {
		return err
	}
	return &storeError{cause: pkgerrors.Wrap(err, op)}
}
