package client

import (
	"time"

	"github.com/shopspring/decimal"
)

// Kind of ledger records, also the path segment of their endpoints
type Kind string

const (
	KindExpense Kind = "expense"
	KindRevenue Kind = "revenue"
)

type User struct {
	ID      int64           `json:"id"`
	Name    string          `json:"user_name"`
	Email   string          `json:"email"`
	Address string          `json:"address"`
	Phone   string          `json:"phone"`
	Balance decimal.Decimal `json:"balance"`
}

type UserRequest struct {
	ID       int64  `json:"id,omitempty"`
	Name     string `json:"user_name"`
	Password string `json:"password,omitempty"`
	Email    string `json:"email"`
	Address  string `json:"address,omitempty"`
	Phone    string `json:"phone"`
}

type LoginRequest struct {
	Name     string `json:"user_name"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

type Record struct {
	ID            int64           `json:"id"`
	UserID        int64           `json:"user_id"`
	Amount        decimal.Decimal `json:"amount"`
	Date          time.Time       `json:"date"`
	Description   string          `json:"description"`
	AccountNumber string          `json:"account_number,omitempty"`
}

type RecordRequest struct {
	UserID        int64           `json:"user_id,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	Date          *time.Time      `json:"date,omitempty"`
	Description   string          `json:"description,omitempty"`
	AccountNumber string          `json:"account_number,omitempty"`
}

type FieldError struct {
	Msg   string `json:"msg"`
	Param string `json:"param"`
}

type errorResponse struct {
	Message string       `json:"error"`
	Errors  []FieldError `json:"errors"`
}
