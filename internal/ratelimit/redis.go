package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCooldown is a Cooldown shared across processes, for deployments
// running more than one API instance. Entries expire server-side via the
// key TTL.
type RedisCooldown struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisCooldown creates a RedisCooldown with the given window.
func NewRedisCooldown(rdb *redis.Client, ttl time.Duration) *RedisCooldown {
	return &RedisCooldown{rdb: rdb, ttl: ttl}
}

func (c *RedisCooldown) key(userID uint) string {
	return fmt.Sprintf("cooldown:post:%d", userID)
}

// Add bars the user until the cooldown window elapses.
func (c *RedisCooldown) Add(ctx context.Context, userID uint) error {
	return c.rdb.Set(ctx, c.key(userID), 1, c.ttl).Err()
}

// Has reports whether the user is currently barred.
func (c *RedisCooldown) Has(ctx context.Context, userID uint) (bool, error) {
	n, err := c.rdb.Exists(ctx, c.key(userID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
