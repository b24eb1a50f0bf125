package lock

import (
	"context"
	"sync"
)

// Locker interface implementation
var _ Locker = (*Memory)(nil)

// Memory locks users within one process.
type Memory struct {
	mu    sync.Mutex
	slots map[int64]*slot
}

// slot is dropped once no caller holds or waits for it
type slot struct {
	ch   chan struct{}
	refs int
}

func NewMemory() *Memory {
	return &Memory{
		slots: make(map[int64]*slot),
	}
}

func (m *Memory) acquireSlot(id int64) *slot {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.slots[id]
	if !ok {
		s = &slot{ch: make(chan struct{}, 1)}
		m.slots[id] = s
	}
	s.refs++
	return s
}

func (m *Memory) releaseSlot(id int64, s *slot) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s.refs--
	if s.refs == 0 {
		delete(m.slots, id)
	}
}

// Lock waits for every id in turn until ctx is done.
func (m *Memory) Lock(ctx context.Context, userIDs ...int64) (Unlock, error) {
	held := make([]func(), 0, len(userIDs))

	for _, id := range normalize(userIDs) {
		id, s := id, m.acquireSlot(id)
		select {
		case s.ch <- struct{}{}:
			held = append(held, func() {
				<-s.ch
				m.releaseSlot(id, s)
			})
		case <-ctx.Done():
			m.releaseSlot(id, s)
			releaseAll(held)()
			return nil, ctx.Err()
		}
	}

	return releaseAll(held), nil
}
