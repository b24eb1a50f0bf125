package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"budget/internal/app/apperr"
)

func TestBcrypt(t *testing.T) {
	h := NewBcrypt(bcrypt.MinCost)

	hash, err := h.Hash("Valid1Pass!")
	require.NoError(t, err)
	assert.NotEqual(t, "Valid1Pass!", hash)

	assert.NoError(t, h.Verify(hash, "Valid1Pass!"))
	assert.ErrorIs(t, h.Verify(hash, "Valid1Pass?"), apperr.ErrInvalidCredentials)
	assert.Error(t, h.Verify("not-a-hash", "Valid1Pass!"))

	h.Waste("anything")
}

func TestNewBcryptFallsBackToDefaultCost(t *testing.T) {
	assert.Equal(t, bcrypt.DefaultCost, NewBcrypt(0).cost)
	assert.Equal(t, bcrypt.MinCost, NewBcrypt(bcrypt.MinCost).cost)
}
