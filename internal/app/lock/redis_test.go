package lock

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRedis keeps string keys in a map and runs the unlock script natively.
type fakeRedis struct {
	redis.Cmdable

	mu       sync.Mutex
	values   map[string]string
	setNX    int
	failWith error
	released []string
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{values: make(map[string]string)}
}

func (f *fakeRedis) SetNX(_ context.Context, key string, value interface{}, _ time.Duration) *redis.BoolCmd {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.setNX++
	if f.failWith != nil {
		return redis.NewBoolResult(false, f.failWith)
	}
	if _, ok := f.values[key]; ok {
		return redis.NewBoolResult(false, nil)
	}
	f.values[key] = value.(string)
	return redis.NewBoolResult(true, nil)
}

func (f *fakeRedis) EvalSha(_ context.Context, _ string, keys []string, args ...interface{}) *redis.Cmd {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := keys[0]
	f.released = append(f.released, key)
	if f.values[key] != args[0] {
		return redis.NewCmdResult(int64(0), nil)
	}
	delete(f.values, key)
	return redis.NewCmdResult(int64(1), nil)
}

func (f *fakeRedis) set(key, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values[key] = value
}

func (f *fakeRedis) get(key string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.values[key]
	return v, ok
}

func TestRedis_LockAndRelease(t *testing.T) {
	f := newFakeRedis()
	r := NewRedis(f, WithPrefix("t:"))

	unlock, err := r.Lock(context.Background(), 5, 2, 5)
	require.NoError(t, err)

	token2, ok := f.get("t:2")
	require.True(t, ok)
	token5, ok := f.get("t:5")
	require.True(t, ok)
	assert.Equal(t, token2, token5)
	assert.Equal(t, 2, f.setNX)

	unlock()
	assert.Equal(t, []string{"t:5", "t:2"}, f.released)
	assert.Empty(t, f.values)
}

func TestRedis_WaitsForHolder(t *testing.T) {
	f := newFakeRedis()
	r := NewRedis(f, WithPrefix("t:"), WithRetryWait(time.Millisecond))
	f.set("t:1", "other")

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := r.Lock(ctx, 1)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Greater(t, f.setNX, 1)

	go func() {
		time.Sleep(5 * time.Millisecond)
		f.mu.Lock()
		delete(f.values, "t:1")
		f.mu.Unlock()
	}()

	unlock, err := r.Lock(context.Background(), 1)
	require.NoError(t, err)
	unlock()
}

func TestRedis_FailedLockReleasesHeld(t *testing.T) {
	f := newFakeRedis()
	r := NewRedis(f, WithPrefix("t:"), WithRetryWait(time.Millisecond))
	f.set("t:3", "other")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := r.Lock(ctx, 3, 1)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	_, held := f.get("t:1")
	assert.False(t, held)
	v, _ := f.get("t:3")
	assert.Equal(t, "other", v)
}

func TestRedis_ReleaseKeepsForeignLock(t *testing.T) {
	f := newFakeRedis()
	r := NewRedis(f, WithPrefix("t:"))

	unlock, err := r.Lock(context.Background(), 4)
	require.NoError(t, err)

	// expired and taken over by another process
	f.set("t:4", "other")
	unlock()

	v, ok := f.get("t:4")
	assert.True(t, ok)
	assert.Equal(t, "other", v)
}

func TestRedis_BreakerOpens(t *testing.T) {
	f := newFakeRedis()
	f.failWith = errors.New("connection refused")
	r := NewRedis(f, WithPrefix("t:"))

	for i := 0; i < 4; i++ {
		_, err := r.Lock(context.Background(), 1)
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrUnavailable)
		assert.Contains(t, err.Error(), "connection refused")
	}

	_, err := r.Lock(context.Background(), 1)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, 4, f.setNX)
}
