// Package ratelimit implements the per-user post creation cooldown: a set
// of user IDs barred from creating posts, each entry expiring after a
// fixed delay.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Cooldown is the injected rate-limiter capability. Add bars a user for
// the configured window; Has reports whether the user is currently barred.
type Cooldown interface {
	Add(ctx context.Context, userID uint) error
	Has(ctx context.Context, userID uint) (bool, error)
}

// MemoryCooldown is a process-local Cooldown backed by a TTL map of
// user ID to expiry timestamp. Entries are purged lazily against the
// injected clock, so no background goroutine is needed and tests can
// drive time directly. Safe for concurrent use.
type MemoryCooldown struct {
	mu      sync.Mutex
	expires map[uint]time.Time
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryCooldown creates a MemoryCooldown with the given window. A nil
// now falls back to time.Now.
func NewMemoryCooldown(ttl time.Duration, now func() time.Time) *MemoryCooldown {
	if now == nil {
		now = time.Now
	}
	return &MemoryCooldown{
		expires: make(map[uint]time.Time),
		ttl:     ttl,
		now:     now,
	}
}

// Add bars the user until the cooldown window elapses.
func (c *MemoryCooldown) Add(_ context.Context, userID uint) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.expires[userID] = c.now().Add(c.ttl)
	return nil
}

// Has reports whether the user is currently barred, dropping the entry
// once it has expired.
func (c *MemoryCooldown) Has(_ context.Context, userID uint) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	expiry, ok := c.expires[userID]
	if !ok {
		return false, nil
	}
	if c.now().After(expiry) {
		delete(c.expires, userID)
		return false, nil
	}
	return true, nil
}
