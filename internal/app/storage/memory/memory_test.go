package memory

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"budget/internal/app/apperr"
	"budget/internal/app/model"
)

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	r := NewUserRepository()

	all, err := r.All(ctx)
	require.NoError(t, err)
	assert.NotNil(t, all)
	assert.Empty(t, all)

	id, err := r.Create(ctx, &model.User{ID: 7, Name: "alice"})
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)

	id, err = r.Create(ctx, &model.User{Name: "bob"})
	require.NoError(t, err)
	assert.Equal(t, int64(8), id, "server assigned id follows the highest one")

	_, err = r.Create(ctx, &model.User{ID: 7, Name: "carol"})
	assert.ErrorIs(t, err, apperr.ErrAlreadyExists)

	u, err := r.ReadByName(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(7), u.ID)

	_, err = r.ReadByName(ctx, "Alice")
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	balance, err := r.AdjustBalance(ctx, 7, decimal.NewFromInt(-50))
	require.NoError(t, err)
	assert.Equal(t, "-50", balance.String())

	require.NoError(t, r.Replace(ctx, &model.User{ID: 7, Name: "alice", Email: "a@b.io", Balance: decimal.NewFromInt(999)}))
	u, err = r.Read(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "a@b.io", u.Email)
	assert.Equal(t, "-50", u.Balance.String(), "replace keeps the stored balance")

	assert.ErrorIs(t, r.Replace(ctx, &model.User{ID: 99}), apperr.ErrNotFound)

	require.NoError(t, r.Delete(ctx, 7))
	assert.ErrorIs(t, r.Delete(ctx, 7), apperr.ErrNotFound)
	_, err = r.AdjustBalance(ctx, 7, decimal.NewFromInt(1))
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestLedgerRepository(t *testing.T) {
	ctx := context.Background()
	r := NewLedgerRepository(model.LedgerKindExpense)
	assert.Equal(t, model.LedgerKindExpense, r.Kind())

	id1, err := r.Create(ctx, &model.LedgerRecord{UserID: 1, Amount: decimal.NewFromInt(10)})
	require.NoError(t, err)
	id2, err := r.Create(ctx, &model.LedgerRecord{UserID: 2, Amount: decimal.NewFromInt(20)})
	require.NoError(t, err)
	_, err = r.Create(ctx, &model.LedgerRecord{UserID: 1, Amount: decimal.NewFromInt(30)})
	require.NoError(t, err)
	assert.Equal(t, id1+1, id2)

	_, err = r.Create(ctx, &model.LedgerRecord{ID: id1})
	assert.ErrorIs(t, err, apperr.ErrAlreadyExists)

	rec, err := r.Read(ctx, id1)
	require.NoError(t, err)
	assert.Equal(t, model.LedgerKindExpense, rec.Kind)

	byUser, err := r.AllByUserID(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, byUser, 2)

	n, err := r.DeleteByUserID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	all, err := r.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, id2, all[0].ID)

	assert.ErrorIs(t, r.Replace(ctx, &model.LedgerRecord{ID: id1}), apperr.ErrNotFound)
	assert.ErrorIs(t, r.Delete(ctx, id1), apperr.ErrNotFound)
}
