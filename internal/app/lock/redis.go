package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rs/xid"
	"github.com/sony/gobreaker"

	"budget/internal/app/logger"
)

// Locker interface implementation
var _ Locker = (*Redis)(nil)

var ErrUnavailable = errors.New("lock backend unavailable")

// compare-and-delete, a lock is only released by its owner
var unlockScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// Redis locks users across processes sharing one Redis.
type Redis struct {
	client    redis.Cmdable
	breaker   *gobreaker.CircuitBreaker
	prefix    string
	ttl       time.Duration
	retryWait time.Duration
}

type RedisOption func(*Redis)

func WithTTL(ttl time.Duration) RedisOption {
	return func(r *Redis) {
		r.ttl = ttl
	}
}

func WithRetryWait(d time.Duration) RedisOption {
	return func(r *Redis) {
		r.retryWait = d
	}
}

func WithPrefix(prefix string) RedisOption {
	return func(r *Redis) {
		r.prefix = prefix
	}
}

func (r *Redis) LoggerComponent() string {
	return "Lock.Redis"
}

func NewRedis(client redis.Cmdable, opts ...RedisOption) *Redis {
	r := &Redis{
		client:    client,
		prefix:    "budget:lock:user:",
		ttl:       10 * time.Second,
		retryWait: 20 * time.Millisecond,
	}

	for _, opt := range opts {
		opt(r)
	}

	r.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "redis-lock",
		Timeout: 5 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 3
		},
	})

	return r
}

func (r *Redis) key(id int64) string {
	return fmt.Sprintf("%s%d", r.prefix, id)
}

// Lock polls every id in turn until acquired or ctx is done.
func (r *Redis) Lock(ctx context.Context, userIDs ...int64) (Unlock, error) {
	token := xid.New().String()
	held := make([]func(), 0, len(userIDs))

	for _, id := range normalize(userIDs) {
		key := r.key(id)
		if err := r.acquire(ctx, key, token); err != nil {
			releaseAll(held)()
			return nil, err
		}
		held = append(held, func() { r.release(ctx, key, token) })
	}

	return releaseAll(held), nil
}

func (r *Redis) acquire(ctx context.Context, key, token string) error {
	for {
		ok, err := r.breaker.Execute(func() (interface{}, error) {
			return r.client.SetNX(ctx, key, token, r.ttl).Result()
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
				return ErrUnavailable
			}
			return fmt.Errorf("lock %s: %w", key, err)
		}
		if ok.(bool) {
			return nil
		}

		t := time.NewTimer(r.retryWait)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
	}
}

// release runs detached from ctx cancellation so a finished request still frees its lock.
func (r *Redis) release(ctx context.Context, key, token string) {
	rctx, cancel := context.WithTimeout(context.Background(), r.ttl)
	defer cancel()

	if err := unlockScript.Run(rctx, r.client, []string{key}, token).Err(); err != nil {
		l := logger.Get(ctx, r)
		l.Error().Err(err).Str("key", key).Msg("Unlock failed")
	}
}
