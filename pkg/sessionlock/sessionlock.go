// Package sessionlock serializes wizard editing per case. Only one browser
// session may hold a case's edit lock at a time; a second tab or device gets
// a read-only view until the lock expires or is released.
package sessionlock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrLockHeld is returned when another session currently holds the case lock.
var ErrLockHeld = errors.New("case edit lock held by another session")

// ErrNotHeld is returned when refreshing or releasing a lock this session
// does not own.
var ErrNotHeld = errors.New("case edit lock not held by this session")

// IsLockHeld checks if an error indicates the case lock belongs to another
// session.
func IsLockHeld(err error) bool {
	return errors.Is(err, ErrLockHeld)
}

// DefaultTTL keeps an idle lock alive long enough to survive autosave gaps
// but short enough that an abandoned tab frees the case quickly.
const DefaultTTL = 90 * time.Second

// Manager acquires and maintains per-case edit locks in Redis.
type Manager struct {
	client *redis.Client
	ttl    time.Duration
}

func NewManager(client *redis.Client, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return &Manager{client: client, ttl: ttl}
}

func lockKey(caseID string) string {
	return fmt.Sprintf("intake:case-lock:%s", caseID)
}

// Acquire takes the case's edit lock for the given session token. It fails
// with ErrLockHeld when a different token already owns the lock; re-acquiring
// with the same token refreshes the TTL instead.
func (m *Manager) Acquire(ctx context.Context, caseID, token string) error {
	key := lockKey(caseID)

	ok, err := m.client.SetNX(ctx, key, token, m.ttl).Result()
	if err != nil {
		return fmt.Errorf("acquire lock for case %s: %w", caseID, err)
	}

	if ok {
		return nil
	}

	holder, err := m.client.Get(ctx, key).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("acquire lock for case %s: %w", caseID, err)
	}

	if holder == token {
		return m.Refresh(ctx, caseID, token)
	}

	return ErrLockHeld
}

// refreshScript extends the TTL only when the holder matches.
var refreshScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("pexpire", KEYS[1], ARGV[2])
end
return 0
`)

// Refresh extends the lock's TTL. Called on every autosave so an active
// session never loses its lock mid-edit.
func (m *Manager) Refresh(ctx context.Context, caseID, token string) error {
	res, err := refreshScript.Run(ctx, m.client, []string{lockKey(caseID)}, token, m.ttl.Milliseconds()).Int()
	if err != nil {
		return fmt.Errorf("refresh lock for case %s: %w", caseID, err)
	}

	if res == 0 {
		return ErrNotHeld
	}

	return nil
}

// releaseScript deletes the lock only when the holder matches, so an expired
// session cannot release a lock someone else re-acquired.
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// Release frees the lock if this session still owns it. Releasing a lock
// that already expired is not an error.
func (m *Manager) Release(ctx context.Context, caseID, token string) error {
	res, err := releaseScript.Run(ctx, m.client, []string{lockKey(caseID)}, token).Int()
	if err != nil {
		return fmt.Errorf("release lock for case %s: %w", caseID, err)
	}

	if res == 0 {
		holder, getErr := m.client.Get(ctx, lockKey(caseID)).Result()
		if getErr == nil && holder != token {
			return ErrNotHeld
		}
	}

	return nil
}

// Holder returns the token currently holding the case's lock, empty when the
// case is unlocked.
func (m *Manager) Holder(ctx context.Context, caseID string) (string, error) {
	holder, err := m.client.Get(ctx, lockKey(caseID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("inspect lock for case %s: %w", caseID, err)
	}

	return holder, nil
}
