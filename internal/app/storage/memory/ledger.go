package memory

import (
	"context"
	"sort"
	"sync"

	"budget/internal/app/apperr"
	"budget/internal/app/model"
	"budget/internal/app/storage"
)

// storage.LedgerRepository interface implementation
var _ storage.LedgerRepository = (*LedgerRepository)(nil)

type LedgerRepository struct {
	mu     sync.RWMutex
	kind   model.LedgerKind
	lastID int64
	db     map[int64]model.LedgerRecord
}

func NewLedgerRepository(kind model.LedgerKind) *LedgerRepository {
	return &LedgerRepository{
		kind: kind,
		db:   make(map[int64]model.LedgerRecord),
	}
}

func (r *LedgerRepository) LoggerComponent() string {
	return "MemoryLedgerRepository." + r.kind.String()
}

// Kind implementation of interface storage.LedgerRepository
func (r *LedgerRepository) Kind() model.LedgerKind {
	return r.kind
}

// All implementation of interface storage.LedgerRepository
func (r *LedgerRepository) All(_ context.Context) ([]*model.LedgerRecord, error) {
	return r.filter(func(model.LedgerRecord) bool { return true }), nil
}

// AllByUserID implementation of interface storage.LedgerRepository
func (r *LedgerRepository) AllByUserID(_ context.Context, userID int64) ([]*model.LedgerRecord, error) {
	return r.filter(func(m model.LedgerRecord) bool { return m.UserID == userID }), nil
}

func (r *LedgerRepository) filter(match func(model.LedgerRecord) bool) []*model.LedgerRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()

	res := make([]*model.LedgerRecord, 0)
	for _, m := range r.db {
		if match(m) {
			m := m
			res = append(res, &m)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })

	return res
}

// Read implementation of interface storage.LedgerRepository
func (r *LedgerRepository) Read(_ context.Context, id int64) (*model.LedgerRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.db[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}

	return &m, nil
}

// Create implementation of interface storage.LedgerRepository
func (r *LedgerRepository) Create(_ context.Context, m *model.LedgerRecord) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := m.ID
	if id == 0 {
		id = r.lastID + 1
	}
	if _, ok := r.db[id]; ok {
		return 0, apperr.ErrAlreadyExists
	}
	if id > r.lastID {
		r.lastID = id
	}

	rec := *m
	rec.ID = id
	rec.Kind = r.kind
	r.db[id] = rec

	return id, nil
}

// Replace implementation of interface storage.LedgerRepository
func (r *LedgerRepository) Replace(_ context.Context, m *model.LedgerRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.db[m.ID]; !ok {
		return apperr.ErrNotFound
	}

	rec := *m
	rec.Kind = r.kind
	r.db[m.ID] = rec

	return nil
}

// Delete implementation of interface storage.LedgerRepository
func (r *LedgerRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.db[id]; !ok {
		return apperr.ErrNotFound
	}
	delete(r.db, id)

	return nil
}

// DeleteByUserID implementation of interface storage.LedgerRepository
func (r *LedgerRepository) DeleteByUserID(_ context.Context, userID int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for id, m := range r.db {
		if m.UserID == userID {
			delete(r.db, id)
			n++
		}
	}

	return n, nil
}
