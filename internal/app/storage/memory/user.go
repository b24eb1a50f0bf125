package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	"budget/internal/app/apperr"
	"budget/internal/app/model"
	"budget/internal/app/storage"
)

// storage.UserRepository interface implementation
var _ storage.UserRepository = (*UserRepository)(nil)

type UserRepository struct {
	mu     sync.RWMutex
	lastID int64
	db     map[int64]model.User
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		db: make(map[int64]model.User),
	}
}

func (r *UserRepository) LoggerComponent() string {
	return "MemoryUserRepository"
}

// All implementation of interface storage.UserRepository
func (r *UserRepository) All(_ context.Context) ([]*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	res := make([]*model.User, 0, len(r.db))
	for _, u := range r.db {
		u := u
		res = append(res, &u)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })

	return res, nil
}

// Read implementation of interface storage.UserRepository
func (r *UserRepository) Read(_ context.Context, id int64) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.db[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}

	return &u, nil
}

// ReadByName implementation of interface storage.UserRepository
func (r *UserRepository) ReadByName(_ context.Context, name string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.db {
		if u.Name == name {
			u := u
			return &u, nil
		}
	}

	return nil, apperr.ErrNotFound
}

// Create implementation of interface storage.UserRepository
func (r *UserRepository) Create(_ context.Context, m *model.User) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.db {
		if u.ID == m.ID || u.Name == m.Name {
			return 0, apperr.ErrAlreadyExists
		}
	}

	id := m.ID
	if id == 0 {
		id = r.lastID + 1
	}
	if id > r.lastID {
		r.lastID = id
	}

	u := *m
	u.ID = id
	r.db[id] = u

	return id, nil
}

// Replace implementation of interface storage.UserRepository
func (r *UserRepository) Replace(_ context.Context, m *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.db[m.ID]
	if !ok {
		return apperr.ErrNotFound
	}
	for _, u := range r.db {
		if u.ID != m.ID && u.Name == m.Name {
			return apperr.ErrAlreadyExists
		}
	}

	u := *m
	u.Balance = existing.Balance
	r.db[m.ID] = u

	return nil
}

// Delete implementation of interface storage.UserRepository
func (r *UserRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.db[id]; !ok {
		return apperr.ErrNotFound
	}
	delete(r.db, id)

	return nil
}

// AdjustBalance implementation of interface storage.UserRepository
func (r *UserRepository) AdjustBalance(_ context.Context, id int64, delta decimal.Decimal) (decimal.Decimal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.db[id]
	if !ok {
		return decimal.Zero, apperr.ErrNotFound
	}
	u.Balance = u.Balance.Add(delta)
	r.db[id] = u

	return u.Balance, nil
}
