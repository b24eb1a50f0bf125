package password

import (
	"errors"
	"fmt"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"budget/internal/app/apperr"
)

// Hasher turns a plain password into a stored hash and checks it back.
type Hasher interface {
	Hash(password string) (string, error)
	// Verify returns apperr.ErrInvalidCredentials when password does not match hash
	Verify(hash, password string) error
	// Waste spends the time of a verification without a stored hash
	Waste(password string)
}

// Hasher interface implementation
var _ Hasher = (*Bcrypt)(nil)

type Bcrypt struct {
	cost int

	dummyOnce sync.Once
	dummy     []byte
}

func NewBcrypt(cost int) *Bcrypt {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Bcrypt{cost: cost}
}

func (b *Bcrypt) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), b.cost)
	if err != nil {
		return "", fmt.Errorf("bcrypt: %w", err)
	}
	return string(hash), nil
}

func (b *Bcrypt) Verify(hash, password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	switch {
	case err == nil:
		return nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return apperr.ErrInvalidCredentials
	default:
		return fmt.Errorf("bcrypt: %w", err)
	}
}

func (b *Bcrypt) Waste(password string) {
	b.dummyOnce.Do(func() {
		b.dummy, _ = bcrypt.GenerateFromPassword([]byte("budget-dummy-password"), b.cost)
	})
	_ = bcrypt.CompareHashAndPassword(b.dummy, []byte(password))
}
