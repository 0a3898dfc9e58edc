package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/auvet/auth-service/internal/core/domain"
)

const userCacheTTL = 5 * time.Minute

// UserCache is a read-through cache for user lookups, keyed by normalized cpf.
// Login and token validation never read from it, so employee status checks
// always see the repository's current state.
type UserCache struct {
	client *redis.Client
}

func NewUserCache(client *redis.Client) *UserCache {
	return &UserCache{client: client}
}

// Get returns the cached user, or (nil, nil) on a miss.
func (c *UserCache) Get(ctx context.Context, cpf string) (*domain.User, error) {
	raw, err := c.client.Get(ctx, c.key(cpf)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("user cache get: %w", err)
	}

	var user domain.User
	if err := json.Unmarshal(raw, &user); err != nil {
		return nil, fmt.Errorf("user cache decode: %w", err)
	}
	return &user, nil
}

// Set stores the user for userCacheTTL. The password hash is excluded by the
// domain type's JSON encoding.
func (c *UserCache) Set(ctx context.Context, user *domain.User) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("user cache encode: %w", err)
	}
	if err := c.client.Set(ctx, c.key(user.CPF), raw, userCacheTTL).Err(); err != nil {
		return fmt.Errorf("user cache set: %w", err)
	}
	return nil
}

func (c *UserCache) key(cpf string) string {
	return "user:" + cpf
}
