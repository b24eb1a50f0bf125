package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"budget/internal/app/apperr"
	"budget/internal/app/lock"
	"budget/internal/app/logger"
	"budget/internal/app/model"
	"budget/internal/app/password"
	"budget/internal/app/storage"
)

// Service owns users. Ledger records are only touched by the cascade of Delete.
type Service struct {
	users   storage.UserRepository
	ledgers []storage.LedgerRepository
	hasher  password.Hasher
	locker  lock.Locker
}

func (s *Service) LoggerComponent() string {
	return "Service.User"
}

// NewService constructor, ledgers are cleared in the given order when a user is deleted
func NewService(
	users storage.UserRepository,
	hasher password.Hasher,
	locker lock.Locker,
	ledgers ...storage.LedgerRepository,
) *Service {
	return &Service{
		users:   users,
		ledgers: ledgers,
		hasher:  hasher,
		locker:  locker,
	}
}

func (s *Service) Read(ctx context.Context, id int64) (*model.User, error) {
	return s.users.Read(ctx, id)
}

func (s *Service) All(ctx context.Context) ([]*model.User, error) {
	return s.users.All(ctx)
}

// Create stores a new user with a zero balance and the hash of plain.
// A caller-assigned id must be free.
func (s *Service) Create(ctx context.Context, u *model.User, plain string) (*model.User, error) {
	l := logger.Get(ctx, s)

	if u.ID != 0 {
		_, err := s.users.Read(ctx, u.ID)
		if err == nil {
			return nil, fmt.Errorf("user %d: %w", u.ID, apperr.ErrAlreadyExists)
		}
		if !errors.Is(err, apperr.ErrNotFound) {
			return nil, err
		}
	}

	hash, err := s.hasher.Hash(plain)
	if err != nil {
		return nil, err
	}

	m := *u
	m.PasswordHash = hash
	m.Balance = decimal.Zero

	id, err := s.users.Create(ctx, &m)
	if err != nil {
		return nil, err
	}
	m.ID = id

	l.Debug().Int64("user_id", id).Str("user_name", m.Name).Msg("User created")

	return &m, nil
}

// Authenticate returns apperr.ErrInvalidCredentials for an unknown name and for a wrong password alike.
func (s *Service) Authenticate(ctx context.Context, name, plain string) (*model.User, error) {
	l := logger.Get(ctx, s)

	u, err := s.users.ReadByName(ctx, name)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			s.hasher.Waste(plain)
			l.Debug().Msg("Login failed")
			return nil, apperr.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := s.hasher.Verify(u.PasswordHash, plain); err != nil {
		l.Debug().Int64("user_id", u.ID).Msg("Login failed")
		return nil, err
	}

	return u, nil
}

// Update overwrites the profile of user id. The balance is never changed here
// and an empty plain keeps the stored password.
func (s *Service) Update(ctx context.Context, id int64, u *model.User, plain string) (*model.User, error) {
	existing, err := s.users.Read(ctx, id)
	if err != nil {
		return nil, err
	}

	m := *u
	m.ID = id
	m.Balance = existing.Balance
	m.PasswordHash = existing.PasswordHash
	if plain != "" {
		if m.PasswordHash, err = s.hasher.Hash(plain); err != nil {
			return nil, err
		}
	}

	if err := s.users.Replace(ctx, &m); err != nil {
		return nil, err
	}

	return &m, nil
}

// Delete removes the user after all of their ledger records.
// The first failing step aborts the rest.
func (s *Service) Delete(ctx context.Context, id int64) error {
	l := logger.Get(ctx, s).With().Int64("user_id", id).Logger()

	unlock, err := s.locker.Lock(ctx, id)
	if err != nil {
		return err
	}
	defer unlock()

	if _, err := s.users.Read(ctx, id); err != nil {
		return err
	}

	for _, r := range s.ledgers {
		n, err := r.DeleteByUserID(ctx, id)
		if err != nil {
			l.Error().Err(err).Str("kind", r.Kind().String()).Msg("Cascade delete failed")
			return fmt.Errorf("delete %s records: %w", r.Kind(), err)
		}
		l.Debug().Int64("deleted", n).Str("kind", r.Kind().String()).Send()
	}

	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}

	l.Debug().Msg("User deleted")

	return nil
}
