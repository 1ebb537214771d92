package redis

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/UDFJDC-ModelosProgramacion/MP-202530-G81-E5-ViviendaUniversitaria-Back-sub000/internal/domain/shared"
	"github.com/UDFJDC-ModelosProgramacion/MP-202530-G81-E5-ViviendaUniversitaria-Back-sub000/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// HOUSING LOCK
// SET NX PX with a random token; release deletes the key only while it still
// holds our token, so an expired lock taken over by another instance is left alone.
// ══════════════════════════════════════════════════════════════════════════════

const releaseScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`

// Lock timings.
const (
	// DefaultLockTTL bounds how long a crashed holder blocks a unit.
	DefaultLockTTL = 30 * time.Second

	// DefaultLockWait is how long Lock waits for a busy unit before giving up.
	DefaultLockWait = 5 * time.Second

	// DefaultLockRetry is the pause between acquisition attempts.
	DefaultLockRetry = 50 * time.Millisecond
)

type lockClient interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd
}

// HousingLockOptions tunes a HousingLocker. Zero values keep the defaults.
type HousingLockOptions struct {
	TTL   time.Duration
	Wait  time.Duration
	Retry time.Duration
}

// HousingLocker is a distributed per-housing lock.
type HousingLocker struct {
	client lockClient
	opts   HousingLockOptions
	log    *logger.Logger
}

// NewHousingLocker creates a HousingLocker on c.
func NewHousingLocker(c *Client, opts HousingLockOptions, log *logger.Logger) *HousingLocker {
	return newHousingLocker(c.rdb, opts, log)
}

func newHousingLocker(client lockClient, opts HousingLockOptions, log *logger.Logger) *HousingLocker {
	if opts.TTL <= 0 {
		opts.TTL = DefaultLockTTL
	}
	if opts.Wait <= 0 {
		opts.Wait = DefaultLockWait
	}
	if opts.Retry <= 0 {
		opts.Retry = DefaultLockRetry
	}
	if log == nil {
		log = logger.Nop()
	}
	return &HousingLocker{client: client, opts: opts, log: log.With(logger.Component("housing_lock"))}
}

// HousingLockKey returns the Redis key guarding a housing unit.
func HousingLockKey(housingID string) string {
	return LockKey("housing:" + housingID)
}

// Lock blocks until the unit's lock is held. A unit that stays busy for
// longer than the wait time yields a Conflict.
func (l *HousingLocker) Lock(ctx context.Context, housingID string) (func(), error) {
	key := HousingLockKey(housingID)
	token := uuid.NewString()

	deadline := time.Now().Add(l.opts.Wait)
	for {
		ok, err := l.client.SetNX(ctx, key, token, l.opts.TTL).Result()
		if err != nil {
			return nil, fmt.Errorf("acquire housing lock %s: %w", housingID, err)
		}
		if ok {
			break
		}
		if !time.Now().Before(deadline) {
			return nil, shared.Conflict("housing", "Lock", "housing %s is busy, retry the request", housingID)
		}

		timer := time.NewTimer(l.opts.Retry)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := l.client.Eval(releaseCtx, releaseScript, []string{key}, token).Err(); err != nil {
				l.log.Warn("failed to release housing lock", logger.HousingID(housingID), logger.Err(err))
			}
		})
	}, nil
}
