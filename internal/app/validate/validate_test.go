package validate

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"budget/internal/app/apperr"
	"budget/internal/app/model"
	"budget/internal/app/storage/memory"
)

func TestEmail(t *testing.T) {
	tests := []struct {
		email string
		valid bool
	}{
		{"alice@example.com", true},
		{"a.b-c_d@mail-host.org", true},
		{"alice@example", false},
		{"alice@example.c", false},
		{"@example.com", false},
		{"alice example.com", false},
	}
	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			err := Email(tt.email)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, apperr.ErrValidation)
			}
		})
	}
}

func TestPassword(t *testing.T) {
	tests := []struct {
		password string
		reason   string
	}{
		{"Valid1Pass!", ""},
		{"short1", "must be at least 8 characters long"},
		{"lower1pass!", "must contain an uppercase letter"},
		{"UPPER1PASS!", "must contain a lowercase letter"},
		{"NoDigitPass!", "must contain a digit"},
		{"NoSymbol1Pass", "must contain one of !@#$%^&*"},
	}
	for _, tt := range tests {
		t.Run(tt.password, func(t *testing.T) {
			err := Password(tt.password)
			if tt.reason == "" {
				assert.NoError(t, err)
				return
			}
			var verr *apperr.ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, "password", verr.Field)
			assert.Equal(t, tt.reason, verr.Reason)
		})
	}
}

func TestPhone(t *testing.T) {
	assert.NoError(t, Phone("123456789"))
	assert.NoError(t, Phone("0123456789"))
	assert.Error(t, Phone("12345678"))
	assert.Error(t, Phone("01234567890"))
	assert.Error(t, Phone("12345678a"))
	assert.Error(t, Phone(""))
}

func TestUsernameShape(t *testing.T) {
	assert.NoError(t, UsernameShape("alice"))
	assert.NoError(t, UsernameShape("Zoë"))
	assert.Error(t, UsernameShape(""))
	assert.Error(t, UsernameShape("alice1"))
	assert.Error(t, UsernameShape("alice smith"))
}

func TestAmountAndAccountNumber(t *testing.T) {
	assert.NoError(t, Amount(decimal.NewFromInt(1)))
	assert.Error(t, Amount(decimal.Zero))
	assert.Error(t, Amount(decimal.NewFromInt(-5)))
	assert.NoError(t, Amount(decimal.RequireFromString("10.50")))
	assert.NoError(t, Amount(decimal.RequireFromString("10.500")))
	assert.ErrorIs(t, Amount(decimal.RequireFromString("10.005")), apperr.ErrValidation)

	assert.NoError(t, AccountNumber(""))
	assert.NoError(t, AccountNumber("79927398713"))
	assert.Error(t, AccountNumber("79927398710"))
	assert.Error(t, AccountNumber("7992-7398713"))
}

func TestBalanceFloor(t *testing.T) {
	assert.NoError(t, BalanceFloor(decimal.NewFromInt(-100000), DefaultBalanceFloor))
	assert.ErrorIs(t, BalanceFloor(decimal.NewFromInt(-100001), DefaultBalanceFloor), apperr.ErrValidation)
}

func newGate(t *testing.T) *Gate {
	t.Helper()
	users := memory.NewUserRepository()
	_, err := users.Create(context.Background(), &model.User{ID: 1, Name: "alice"})
	require.NoError(t, err)
	return NewGate(users)
}

func TestGate_Username(t *testing.T) {
	ctx := context.Background()
	g := newGate(t)

	exists, err := g.UsernameExists(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = g.UsernameExists(ctx, "Alice")
	require.NoError(t, err)
	assert.False(t, exists)

	assert.ErrorIs(t, g.Username(ctx, "alice", 0), apperr.ErrValidation)
	assert.ErrorIs(t, g.Username(ctx, "alice", 2), apperr.ErrValidation)
	assert.NoError(t, g.Username(ctx, "alice", 1))
	assert.NoError(t, g.Username(ctx, "bob", 0))
}

func TestGate_RegistrationCollectsEveryFailure(t *testing.T) {
	g := newGate(t)

	u := &model.User{Name: "alice", Email: "bad", Phone: "12"}
	err := g.Registration(context.Background(), u, "short1")
	require.ErrorIs(t, err, apperr.ErrValidation)

	fields := make([]string, 0)
	for _, verr := range ValidationErrors(err) {
		fields = append(fields, verr.Field)
	}
	assert.ElementsMatch(t, []string{"user_name", "password", "email", "phone"}, fields)
}

func TestGate_RegistrationValid(t *testing.T) {
	g := newGate(t)

	u := &model.User{Name: "bob", Email: "bob@example.com", Phone: "123456789"}
	assert.NoError(t, g.Registration(context.Background(), u, "Valid1Pass!"))
}

func TestGate_ProfileUpdateKeepsPassword(t *testing.T) {
	g := newGate(t)

	u := &model.User{Name: "alice", Email: "alice@example.com", Phone: "123456789"}
	assert.NoError(t, g.ProfileUpdate(context.Background(), 1, u, ""))
	assert.Error(t, g.ProfileUpdate(context.Background(), 1, u, "weak"))
}

func TestGate_LedgerRecord(t *testing.T) {
	g := newGate(t)

	assert.NoError(t, g.LedgerRecord(&model.LedgerRecord{UserID: 1, Amount: decimal.NewFromInt(10)}))
	assert.NoError(t, g.LedgerRecord(&model.LedgerRecord{Amount: decimal.NewFromInt(10), AccountNumber: "79927398713"}))

	err := g.LedgerRecord(&model.LedgerRecord{UserID: -1, Amount: decimal.NewFromInt(-1), AccountNumber: "1234"})
	assert.Len(t, ValidationErrors(err), 3)
}
