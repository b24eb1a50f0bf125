package apperr

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationErrorMatchesKind(t *testing.T) {
	err := fmt.Errorf("register: %w", Validation("email", "invalid email"))

	assert.True(t, errors.Is(err, ErrValidation))
	assert.False(t, errors.Is(err, ErrNotFound))

	var ve *ValidationError
	if assert.True(t, errors.As(err, &ve)) {
		assert.Equal(t, "email", ve.Field)
		assert.Equal(t, "email: invalid email", ve.Error())
	}
}

func TestStoreFailureWrapsCause(t *testing.T) {
	err := StoreFailure(sql.ErrConnDone, "select users")

	assert.True(t, errors.Is(err, ErrStoreFailure))
	assert.True(t, errors.Is(err, sql.ErrConnDone))
	assert.Contains(t, err.Error(), "select users")
}

func TestStoreFailureKeepsKinds(t *testing.T) {
	assert.Nil(t, StoreFailure(nil, "noop"))
	assert.Same(t, ErrNotFound, StoreFailure(ErrNotFound, "select"))
	assert.False(t, errors.Is(StoreFailure(ErrAlreadyExists, "insert"), ErrStoreFailure))
}
