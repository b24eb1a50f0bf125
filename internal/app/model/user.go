package model

import (
	"github.com/shopspring/decimal"
)

type User struct {
	ID           int64           `json:"id"`
	Name         string          `json:"user_name"`
	PasswordHash string          `json:"-"`
	Email        string          `json:"email"`
	Address      string          `json:"address"`
	Phone        string          `json:"phone"`
	Balance      decimal.Decimal `json:"balance"`
}
