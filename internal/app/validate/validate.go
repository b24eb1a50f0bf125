// Package validate holds the input checks guarding every mutation.
// Predicates are pure; Gate adds the checks that need to read the store
// and aggregates every failure into one error.
package validate

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/ferdypruis/go-luhn"
	"github.com/shopspring/decimal"

	"budget/internal/app/apperr"
)

const (
	passwordMinLength = 8
	passwordSymbols   = "!@#$%^&*"
	phoneMinDigits    = 9
	phoneMaxDigits    = 10
)

// DefaultBalanceFloor is the lowest balance a decreasing mutation may leave.
var DefaultBalanceFloor = decimal.NewFromInt(-100000)

var emailRegex = regexp.MustCompile(`^[\w.-]+@[a-zA-Z0-9-]+\.[a-zA-Z]{2,}$`)

// Email checks the local@domain.tld shape.
func Email(email string) error {
	if !emailRegex.MatchString(email) {
		return apperr.Validation("email", "invalid email format")
	}
	return nil
}

// Password reports the first unmet strength rule.
func Password(password string) error {
	if len(password) < passwordMinLength {
		return apperr.Validation("password", fmt.Sprintf("must be at least %d characters long", passwordMinLength))
	}

	var upper, lower, digit, symbol bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune(passwordSymbols, r):
			symbol = true
		}
	}

	switch {
	case !upper:
		return apperr.Validation("password", "must contain an uppercase letter")
	case !lower:
		return apperr.Validation("password", "must contain a lowercase letter")
	case !digit:
		return apperr.Validation("password", "must contain a digit")
	case !symbol:
		return apperr.Validation("password", "must contain one of "+passwordSymbols)
	}

	return nil
}

// Phone accepts 9 or 10 ASCII digits.
func Phone(phone string) error {
	if len(phone) < phoneMinDigits || len(phone) > phoneMaxDigits || !isDigits(phone) {
		return apperr.Validation("phone", fmt.Sprintf("must be %d to %d digits", phoneMinDigits, phoneMaxDigits))
	}
	return nil
}

// UsernameShape accepts a non-empty name made of letters only.
func UsernameShape(name string) error {
	if name == "" {
		return apperr.Validation("user_name", "must not be empty")
	}
	for _, r := range name {
		if !unicode.IsLetter(r) {
			return apperr.Validation("user_name", "must contain letters only")
		}
	}
	return nil
}

// AmountScale is the number of decimal places amounts and balances are stored with.
const AmountScale = 2

// Amount of a ledger record must be positive with at most AmountScale decimal places.
func Amount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return apperr.Validation("amount", "must be positive")
	}
	if !amount.Equal(amount.Truncate(AmountScale)) {
		return apperr.Validation("amount", fmt.Sprintf("at most %d decimal places", AmountScale))
	}
	return nil
}

// AccountNumber is optional; when set it must be a Luhn-valid digit string.
func AccountNumber(number string) error {
	if number == "" {
		return nil
	}
	if !isDigits(number) || !luhn.Valid(number) {
		return apperr.Validation("account_number", "invalid account number")
	}
	return nil
}

// BalanceFloor rejects a projected balance below floor.
func BalanceFloor(projected, floor decimal.Decimal) error {
	if projected.LessThan(floor) {
		return apperr.Validation("balance", fmt.Sprintf("would fall below %s", floor.String()))
	}
	return nil
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return s != ""
}
