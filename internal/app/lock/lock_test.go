package lock

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, []int64{1, 2, 5}, normalize([]int64{5, 1, 2, 5, 1}))
	assert.Empty(t, normalize(nil))
}

func TestMemory_Exclusive(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		inside  int
		maxSeen int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := m.Lock(ctx, 1)
			if !assert.NoError(t, err) {
				return
			}
			defer unlock()

			mu.Lock()
			inside++
			if inside > maxSeen {
				maxSeen = inside
			}
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			inside--
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxSeen)
}

func TestMemory_ContextCancelReleasesHeld(t *testing.T) {
	m := NewMemory()

	unlock, err := m.Lock(context.Background(), 2)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err = m.Lock(ctx, 1, 2)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	// user 1 must have been released by the failed call
	unlock1, err := m.Lock(context.Background(), 1)
	require.NoError(t, err)
	unlock1()
	unlock()
}

func TestMemory_DuplicateIDs(t *testing.T) {
	m := NewMemory()

	unlock, err := m.Lock(context.Background(), 3, 3)
	require.NoError(t, err)
	unlock()

	unlock, err = m.Lock(context.Background(), 3)
	require.NoError(t, err)
	unlock()
}

func (m *Memory) size() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.slots)
}

func TestMemory_DropsIdleSlots(t *testing.T) {
	m := NewMemory()

	for id := int64(1); id <= 100; id++ {
		unlock, err := m.Lock(context.Background(), id, id+1)
		require.NoError(t, err)
		unlock()
	}
	assert.Zero(t, m.size())

	unlock, err := m.Lock(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 1, m.size())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = m.Lock(ctx, 7)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1, m.size())

	unlock()
	assert.Zero(t, m.size())
}
