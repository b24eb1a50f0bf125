package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"budget/internal/app/model"
	"budget/internal/app/storage/memory"
)

func TestMemory_CreateAndRead(t *testing.T) {
	ctx := context.Background()
	users := memory.NewUserRepository()
	id, err := users.Create(ctx, &model.User{Name: "alice"})
	require.NoError(t, err)

	sm := NewMemory("secret", users, WithTokenLifetime(time.Minute))

	token, err := sm.Create(ctx, &model.User{ID: id})
	require.NoError(t, err)

	u, err := sm.Read(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Name)
}

func TestMemory_RejectsForeignAndExpiredTokens(t *testing.T) {
	ctx := context.Background()
	users := memory.NewUserRepository()
	id, err := users.Create(ctx, &model.User{Name: "alice"})
	require.NoError(t, err)

	other := NewMemory("other", users)
	foreign, err := other.Create(ctx, &model.User{ID: id})
	require.NoError(t, err)

	sm := NewMemory("secret", users)
	_, err = sm.Read(ctx, foreign)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = sm.Read(ctx, "garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)

	token, err := sm.Create(ctx, &model.User{ID: id})
	require.NoError(t, err)
	sm.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = sm.Read(ctx, token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestMemory_DeletedUser(t *testing.T) {
	ctx := context.Background()
	users := memory.NewUserRepository()
	id, err := users.Create(ctx, &model.User{Name: "alice"})
	require.NoError(t, err)

	sm := NewMemory("secret", users)
	token, err := sm.Create(ctx, &model.User{ID: id})
	require.NoError(t, err)

	require.NoError(t, users.Delete(ctx, id))
	_, err = sm.Read(ctx, token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
