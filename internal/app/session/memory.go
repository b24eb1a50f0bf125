package session

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"

	"budget/internal/app/logger"
	"budget/internal/app/model"
)

// session.Manager interface implementation
var _ Manager = (*Memory)(nil)

type (
	Memory struct {
		mu            sync.Mutex
		issuer        string
		secretKey     []byte
		tokenLifetime time.Duration
		users         UserReader
		db            map[string]memorySession
		now           func() time.Time
	}
	memorySession struct {
		UserID    int64
		ExpiresAt time.Time
	}
)

func (svc *Memory) LoggerComponent() string {
	return "Session.Memory"
}

func NewMemory(secretKey string, users UserReader, opts ...MemoryOption) *Memory {
	s := &Memory{
		issuer:        "budget",
		secretKey:     []byte(secretKey),
		users:         users,
		tokenLifetime: time.Hour,
		db:            make(map[string]memorySession),
		now:           time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Create method of session.Creator implementation
func (svc *Memory) Create(ctx context.Context, u *model.User) (string, error) {
	l := logger.Get(ctx, svc)

	id := uuid.New().String()
	now := svc.now()
	exp := now.Add(svc.tokenLifetime)

	claims := &Claims{
		StandardClaims: jwt.StandardClaims{
			Id:        id,
			Subject:   strconv.FormatInt(u.ID, 10),
			IssuedAt:  now.Unix(),
			NotBefore: now.Unix(),
			ExpiresAt: exp.Unix(),
			Issuer:    svc.issuer,
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(svc.secretKey)
	if err != nil {
		l.Error().Err(err).Send()
		return "", fmt.Errorf("jwt encode: %w", err)
	}

	svc.mu.Lock()
	defer svc.mu.Unlock()

	svc.evictExpired(now)
	svc.db[id] = memorySession{UserID: u.ID, ExpiresAt: exp}

	l.Debug().Int64("user_id", u.ID).Str("session_id", id).Msg("Session created")

	return token, nil
}

// Read method of session.Reader implementation
func (svc *Memory) Read(ctx context.Context, tokenString string) (*model.User, error) {
	l := logger.Get(ctx, svc)

	c := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, c, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return svc.secretKey, nil
	})
	if err != nil || !token.Valid {
		l.Debug().Err(err).Msg("Token rejected")
		return nil, ErrInvalidToken
	}

	svc.mu.Lock()
	s, ok := svc.db[c.Id]
	if ok && s.ExpiresAt.Before(svc.now()) {
		delete(svc.db, c.Id)
		ok = false
	}
	svc.mu.Unlock()

	if !ok {
		l.Debug().Str("session_id", c.Id).Msg("Session not found")
		return nil, ErrInvalidToken
	}

	u, err := svc.users.Read(ctx, s.UserID)
	if err != nil {
		l.Debug().Err(err).Int64("user_id", s.UserID).Send()
		return nil, ErrInvalidToken
	}

	return u, nil
}

// evictExpired drops finished sessions, caller holds mu
func (svc *Memory) evictExpired(now time.Time) {
	for id, s := range svc.db {
		if s.ExpiresAt.Before(now) {
			delete(svc.db, id)
		}
	}
}
