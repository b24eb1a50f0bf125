package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type LedgerRecord struct {
	ID            int64           `json:"id"`
	Kind          LedgerKind      `json:"-"`
	UserID        int64           `json:"user_id"`
	Amount        decimal.Decimal `json:"amount"`
	Date          time.Time       `json:"date"`
	Description   string          `json:"description"`
	AccountNumber string          `json:"account_number,omitempty"`
}

type LedgerKind int

const (
	LedgerKindExpense LedgerKind = iota + 1
	LedgerKindRevenue
)

func (k LedgerKind) String() string {
	switch k {
	case LedgerKindExpense:
		return "expense"
	case LedgerKindRevenue:
		return "revenue"
	}
	return "unknown"
}

// Effect returns the signed balance change a record of this kind causes.
func (k LedgerKind) Effect(amount decimal.Decimal) decimal.Decimal {
	if k == LedgerKindExpense {
		return amount.Neg()
	}
	return amount
}
