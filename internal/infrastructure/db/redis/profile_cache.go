package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/accounthub/user-service/internal/core/domain"
)

// profileTTL is deliberately short: tokens cannot be revoked, so a stale
// cached projection is the only window in which a deleted or updated account
// is still served with old data.
const profileTTL = time.Minute

// ProfileCache caches public user projections in Redis.
// Key format: profile:<user_id>
type ProfileCache struct {
	client *redis.Client
}

// NewProfileCache creates a ProfileCache wrapping the given Redis client.
func NewProfileCache(client *redis.Client) *ProfileCache {
	return &ProfileCache{client: client}
}

// Get returns the cached projection, or (nil, nil) on a miss.
func (c *ProfileCache) Get(ctx context.Context, userID string) (*domain.User, error) {
	raw, err := c.client.Get(ctx, c.key(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("profile cache get: %w", err)
	}

	var user domain.User
	if err := json.Unmarshal(raw, &user); err != nil {
		return nil, fmt.Errorf("profile cache decode: %w", err)
	}
	return &user, nil
}

// Set stores the projection under the user's id for profileTTL. Callers must
// pass a projection with the password hash already cleared.
func (c *ProfileCache) Set(ctx context.Context, user *domain.User) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("profile cache encode: %w", err)
	}
	return c.client.Set(ctx, c.key(user.ID), raw, profileTTL).Err()
}

// Invalidate removes the cached projection after a mutation or deletion.
func (c *ProfileCache) Invalidate(ctx context.Context, userID string) error {
	return c.client.Del(ctx, c.key(userID)).Err()
}

func (c *ProfileCache) key(userID string) string {
	return "profile:" + userID
}
