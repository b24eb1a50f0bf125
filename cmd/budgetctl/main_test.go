package main

import (
	"context"
	"embed"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"budget/internal/app/app"
	"budget/internal/app/config"
	"budget/internal/app/logger"
	"budget/pkg/client"
)

func TestRun(t *testing.T) {
	cfg := config.New()
	cfg.Security.SecretKey = "test-secret"
	cfg.Security.BcryptCost = 4
	cfg.Ledger.BalanceFloor = "-100000"

	a, err := app.New(cfg, *logger.Global(), embed.FS{})
	require.NoError(t, err)
	defer a.Stop()

	srv := httptest.NewServer(a.Router())
	defer srv.Close()

	ctx := context.Background()
	c := client.New(srv.URL)

	_, err = run(ctx, c, []string{"register", "alice", "Valid1Pass!", "alice@example.com", "123456789"})
	require.NoError(t, err)

	out, err := run(ctx, c, []string{"add", "expense", "1", "12.5", "lunch"})
	require.NoError(t, err)
	rec, ok := out.(*client.Record)
	require.True(t, ok)
	assert.Equal(t, "lunch", rec.Description)

	out, err = run(ctx, c, []string{"list", "expense", "1"})
	require.NoError(t, err)
	assert.Len(t, out, 1)

	_, err = run(ctx, c, []string{"remove", "expense", "1"})
	require.NoError(t, err)
}

func TestRun_Usage(t *testing.T) {
	c := client.New("http://127.0.0.1:0")

	for _, args := range [][]string{
		nil,
		{"unknown"},
		{"user"},
		{"user", "abc"},
		{"add", "loan", "1", "5"},
	} {
		_, err := run(context.Background(), c, args)
		assert.ErrorIs(t, err, errUsage, "%v", args)
	}
}
