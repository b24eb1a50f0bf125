package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestLedgerKindEffect(t *testing.T) {
	amount := decimal.RequireFromString("12.50")

	assert.True(t, LedgerKindExpense.Effect(amount).Equal(decimal.RequireFromString("-12.50")))
	assert.True(t, LedgerKindRevenue.Effect(amount).Equal(amount))
	assert.Equal(t, "expense", LedgerKindExpense.String())
	assert.Equal(t, "revenue", LedgerKindRevenue.String())
	assert.Equal(t, "unknown", LedgerKind(0).String())
}
