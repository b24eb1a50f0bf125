package session

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt"

	"budget/internal/app/model"
)

var ErrInvalidToken = errors.New("invalid token")

type Claims struct {
	jwt.StandardClaims
}

// Creator issues a token for an authenticated user
type Creator interface {
	Create(ctx context.Context, u *model.User) (string, error)
}

// Reader resolves a token back into its user
type Reader interface {
	Read(ctx context.Context, token string) (*model.User, error)
}

type Manager interface {
	Creator
	Reader
}

// UserReader is the user lookup a session needs
type UserReader interface {
	Read(ctx context.Context, id int64) (*model.User, error)
}

type MemoryOption func(*Memory)

func WithIssuer(issuer string) MemoryOption {
	return func(m *Memory) {
		m.issuer = issuer
	}
}

func WithTokenLifetime(d time.Duration) MemoryOption {
	return func(m *Memory) {
		if d > 0 {
			m.tokenLifetime = d
		}
	}
}
