package redisclient

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

var (
	ErrLockNotAcquired = errors.New("slot lock not acquired")
)

// SlotKey identifies one bookable slot: a doctor, a date and a time of day.
type SlotKey struct {
	DoctorID uuid.UUID
	Date     string
	Time     string
}

func (k SlotKey) String() string {
	return fmt.Sprintf("lock:slot:%s:%s:%s", k.DoctorID, k.Date, strings.ReplaceAll(k.Time, " ", ""))
}

// Locker guards the conflict check and the reservation write for one slot.
type Locker interface {
	WithSlotLock(ctx context.Context, key SlotKey, fn func(ctx context.Context) error) error
}

type redisSlotLocker struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisSlotLocker creates a locker that uses a per slot Redis key
func NewRedisSlotLocker(client *redis.Client, ttl time.Duration) Locker {
	return &redisSlotLocker{
		client: client,
		ttl:    ttl,
	}
}

func (l *redisSlotLocker) WithSlotLock(ctx context.Context, key SlotKey, fn func(ctx context.Context) error) error {
	name := key.String()
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, name, token, l.ttl).Result()
	if err != nil {
		return fmt.Errorf("acquire slot lock: %w", err)
	}
	if !ok {
		return ErrLockNotAcquired
	}

	defer func() {
		// the caller's context may already be done; release on a fresh one
		relCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := l.release(relCtx, name, token); err != nil {
			log.Warn().Err(err).Str("key", name).Msg("slot lock release failed")
		}
	}()

	ctxWithTimeout, cancel := context.WithTimeout(ctx, l.ttl)
	defer cancel()

	return fn(ctxWithTimeout)
}

var unlockScript = redis.NewScript(`
local val = redis.call("GET", KEYS[1])
if val == ARGV[1] then
  return redis.call("DEL", KEYS[1])
else
  return 0
end
`)

func (l *redisSlotLocker) release(ctx context.Context, key, token string) error {
	_, err := unlockScript.Run(ctx, l.client, []string{key}, token).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("release slot lock: %w", err)
	}
	return nil
}

// NoopLocker runs fn directly. Used when SLOT_LOCK_ENABLED=false, which
// leaves concurrent bookings of one slot uncoordinated.
type NoopLocker struct{}

func (NoopLocker) WithSlotLock(ctx context.Context, _ SlotKey, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
