package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/userdock/userdock/internal/model"
)

// The full user listing is cached under a single fixed key. There is no
// per-user cache; invalidation is always all-or-nothing for this key.
const (
	userListKey = "users:list"

	// DefaultListTTL is the TTL for the cached user listing.
	DefaultListTTL = 60 * time.Second
)

// Common cache errors.
var (
	ErrCacheMiss = errors.New("cache miss")
)

// GetUserList retrieves the cached user listing.
// Returns ErrCacheMiss if the key is absent or expired.
func (c *Cache) GetUserList(ctx context.Context) ([]model.User, error) {
	result, err := c.client.Get(ctx, userListKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var users []model.User
	if err := json.Unmarshal([]byte(result), &users); err != nil {
		// A corrupt entry must never surface to callers. Drop it and let the
		// next read repopulate from the store.
		c.client.Del(ctx, userListKey)
		return nil, ErrCacheMiss
	}

	return users, nil
}

// SetUserList stores the user listing with an absolute expiration,
// overwriting any previous value.
func (c *Cache) SetUserList(ctx context.Context, users []model.User, ttl time.Duration) error {
	if users == nil {
		users = []model.User{}
	}
	if ttl <= 0 {
		ttl = DefaultListTTL
	}

	data, err := json.Marshal(users)
	if err != nil {
		return fmt.Errorf("marshal user list: %w", err)
	}

	if err := c.client.Set(ctx, userListKey, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache user list: %w", err)
	}

	return nil
}

// InvalidateUserList removes the cached listing unconditionally.
// A subsequent GetUserList reports a miss until the next SetUserList.
func (c *Cache) InvalidateUserList(ctx context.Context) error {
	if err := c.client.Del(ctx, userListKey).Err(); err != nil {
		return fmt.Errorf("failed to invalidate user list: %w", err)
	}

	return nil
}
