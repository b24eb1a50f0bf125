// Package ledger keeps expense and revenue records and the balance of their owners in step.
//
// Every mutation writes the record first and the balance second while the owners are locked.
// When a later step fails the earlier ones are undone and the original error is returned.
package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"budget/internal/app/lock"
	"budget/internal/app/logger"
	"budget/internal/app/model"
	"budget/internal/app/storage"
	"budget/internal/app/validate"
)

type Service struct {
	records storage.LedgerRepository
	users   storage.UserRepository
	locker  lock.Locker
	floor   decimal.Decimal
	now     func() time.Time
}

type Option func(*Service)

// WithBalanceFloor overrides validate.DefaultBalanceFloor
func WithBalanceFloor(floor decimal.Decimal) Option {
	return func(s *Service) {
		s.floor = floor
	}
}

// WithClock sets the time source used to stamp records
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func (s *Service) LoggerComponent() string {
	return "Service.Ledger." + s.records.Kind().String()
}

func NewService(records storage.LedgerRepository, users storage.UserRepository, locker lock.Locker, opts ...Option) *Service {
	s := &Service{
		records: records,
		users:   users,
		locker:  locker,
		floor:   validate.DefaultBalanceFloor,
		now:     time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *Service) Kind() model.LedgerKind {
	return s.records.Kind()
}

func (s *Service) Read(ctx context.Context, id int64) (*model.LedgerRecord, error) {
	return s.records.Read(ctx, id)
}

func (s *Service) All(ctx context.Context) ([]*model.LedgerRecord, error) {
	return s.records.All(ctx)
}

// AllByUserID fails with apperr.ErrNotFound when the user is absent.
func (s *Service) AllByUserID(ctx context.Context, userID int64) ([]*model.LedgerRecord, error) {
	if _, err := s.users.Read(ctx, userID); err != nil {
		return nil, err
	}
	return s.records.AllByUserID(ctx, userID)
}

// adjustment is one balance change of one user
type adjustment struct {
	userID int64
	delta  decimal.Decimal
}

// Create stores a new record of userID under a fresh id and applies its effect.
func (s *Service) Create(ctx context.Context, userID int64, m *model.LedgerRecord) (*model.LedgerRecord, error) {
	l := logger.Get(ctx, s).With().Int64("user_id", userID).Logger()

	unlock, err := s.locker.Lock(ctx, userID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	adj := adjustment{userID: userID, delta: s.Kind().Effect(m.Amount)}
	if err := s.checkFloor(ctx, adj); err != nil {
		return nil, err
	}

	rec := *m
	rec.ID = 0
	rec.UserID = userID
	rec.Kind = s.Kind()
	if rec.Date.IsZero() {
		rec.Date = s.now()
	}

	id, err := s.records.Create(ctx, &rec)
	if err != nil {
		return nil, err
	}
	rec.ID = id

	if _, err := s.users.AdjustBalance(ctx, adj.userID, adj.delta); err != nil {
		if cerr := s.records.Delete(ctx, id); cerr != nil {
			l.Error().Err(cerr).Int64("record_id", id).Msg("Compensating delete failed")
		}
		return nil, err
	}

	l.Debug().Int64("record_id", id).Str("delta", adj.delta.String()).Msg("Record created")

	return &rec, nil
}

// Update replaces record id with m and moves its effect to m.UserID, which
// defaults to the current owner. The record is stamped with the current time.
func (s *Service) Update(ctx context.Context, id int64, m *model.LedgerRecord) (*model.LedgerRecord, error) {
	l := logger.Get(ctx, s).With().Int64("record_id", id).Logger()

	newUserID := m.UserID

	old, unlock, err := s.lockRecord(ctx, id, newUserID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if newUserID == 0 {
		newUserID = old.UserID
	}

	revert := adjustment{userID: old.UserID, delta: s.Kind().Effect(old.Amount).Neg()}
	apply := adjustment{userID: newUserID, delta: s.Kind().Effect(m.Amount)}

	var adjustments []adjustment
	if revert.userID == apply.userID {
		adjustments = []adjustment{{userID: apply.userID, delta: revert.delta.Add(apply.delta)}}
	} else {
		adjustments = []adjustment{revert, apply}
	}

	for _, adj := range adjustments {
		if err := s.checkFloor(ctx, adj); err != nil {
			return nil, err
		}
	}

	rec := *m
	rec.ID = id
	rec.UserID = newUserID
	rec.Kind = s.Kind()
	rec.Date = s.now()

	if err := s.records.Replace(ctx, &rec); err != nil {
		return nil, err
	}

	for i, adj := range adjustments {
		if _, err := s.users.AdjustBalance(ctx, adj.userID, adj.delta); err != nil {
			s.undoAdjustments(ctx, adjustments[:i])
			if cerr := s.records.Replace(ctx, old); cerr != nil {
				l.Error().Err(cerr).Msg("Compensating record restore failed")
			}
			return nil, err
		}
	}

	l.Debug().
		Int64("old_user_id", old.UserID).
		Int64("new_user_id", newUserID).
		Msg("Record updated")

	return &rec, nil
}

// Delete removes record id and reverts its effect.
func (s *Service) Delete(ctx context.Context, id int64) error {
	l := logger.Get(ctx, s).With().Int64("record_id", id).Logger()

	old, unlock, err := s.lockRecord(ctx, id)
	if err != nil {
		return err
	}
	defer unlock()

	adj := adjustment{userID: old.UserID, delta: s.Kind().Effect(old.Amount).Neg()}
	if err := s.checkFloor(ctx, adj); err != nil {
		return err
	}

	if err := s.records.Delete(ctx, id); err != nil {
		return err
	}

	if _, err := s.users.AdjustBalance(ctx, adj.userID, adj.delta); err != nil {
		if _, cerr := s.records.Create(ctx, old); cerr != nil {
			l.Error().Err(cerr).Msg("Compensating re-insert failed")
		}
		return err
	}

	l.Debug().Int64("user_id", old.UserID).Str("delta", adj.delta.String()).Msg("Record deleted")

	return nil
}

// lockRecord locks the owner of record id together with users and returns the
// record as read under the lock. A concurrent owner change restarts the attempt.
func (s *Service) lockRecord(ctx context.Context, id int64, users ...int64) (*model.LedgerRecord, lock.Unlock, error) {
	for {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}

		rec, err := s.records.Read(ctx, id)
		if err != nil {
			return nil, nil, err
		}

		ids := append([]int64{rec.UserID}, users...)
		unlock, err := s.locker.Lock(ctx, nonZero(ids)...)
		if err != nil {
			return nil, nil, err
		}

		cur, err := s.records.Read(ctx, id)
		if err != nil {
			unlock()
			return nil, nil, err
		}
		if cur.UserID == rec.UserID {
			return cur, unlock, nil
		}
		unlock()
	}
}

// checkFloor reads the user under lock and rejects an expense that would leave
// the balance below the floor. Revenue changes are never held back by the floor.
func (s *Service) checkFloor(ctx context.Context, adj adjustment) error {
	u, err := s.users.Read(ctx, adj.userID)
	if err != nil {
		return fmt.Errorf("user %d: %w", adj.userID, err)
	}
	if s.Kind() != model.LedgerKindExpense || !adj.delta.IsNegative() {
		return nil
	}
	if err := validate.BalanceFloor(u.Balance.Add(adj.delta), s.floor); err != nil {
		return err
	}
	return nil
}

func (s *Service) undoAdjustments(ctx context.Context, applied []adjustment) {
	l := logger.Get(ctx, s)
	for i := len(applied) - 1; i >= 0; i-- {
		adj := applied[i]
		if _, err := s.users.AdjustBalance(ctx, adj.userID, adj.delta.Neg()); err != nil {
			l.Error().Err(err).
				Int64("user_id", adj.userID).
				Str("delta", adj.delta.Neg().String()).
				Msg("Compensating balance adjustment failed")
		}
	}
}

func nonZero(ids []int64) []int64 {
	res := ids[:0]
	for _, id := range ids {
		if id != 0 {
			res = append(res, id)
		}
	}
	return res
}
