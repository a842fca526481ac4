package service

import (
	"context"
	"encoding/json"
	"fmt"

	"library-be/internal/domain"
	"library-be/pkg/redis"
)

// redisUserCache backs the UserCache port with the usersByLogin and
// usersByEmail key spaces in Redis.
type redisUserCache struct {
	redis *redis.Client
}

// NewRedisUserCache creates a Redis-backed user cache
func NewRedisUserCache(client *redis.Client) UserCache {
	return &redisUserCache{redis: client}
}

func (c *redisUserCache) GetByLogin(ctx context.Context, login string) (*domain.User, error) {
	return c.get(ctx, fmt.Sprintf(redis.KeyUserByLogin, login))
}

func (c *redisUserCache) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return c.get(ctx, fmt.Sprintf(redis.KeyUserByEmail, email))
}

func (c *redisUserCache) get(ctx context.Context, key string) (*domain.User, error) {
	raw, err := c.redis.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if raw == "" {
		return nil, nil
	}

	var user domain.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		// Corrupted entry, treat as a miss so the caller reloads from the store
		return nil, nil
	}
	return &user, nil
}

func (c *redisUserCache) Put(ctx context.Context, user *domain.User) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to marshal user for cache: %w", err)
	}

	if err := c.redis.Set(ctx, fmt.Sprintf(redis.KeyUserByLogin, user.Login), raw, redis.TTLUser); err != nil {
		return err
	}
	if user.Email == "" {
		return nil
	}
	return c.redis.Set(ctx, fmt.Sprintf(redis.KeyUserByEmail, user.Email), raw, redis.TTLUser)
}

func (c *redisUserCache) Evict(ctx context.Context, login, email string) error {
	keys := []string{fmt.Sprintf(redis.KeyUserByLogin, login)}
	if email != "" {
		keys = append(keys, fmt.Sprintf(redis.KeyUserByEmail, email))
	}
	return c.redis.Delete(ctx, keys...)
}

// noopUserCache is used when Redis is not configured, every read is a miss
type noopUserCache struct{}

// NewNoopUserCache creates a cache that stores nothing
func NewNoopUserCache() UserCache {
	return noopUserCache{}
}

func (noopUserCache) GetByLogin(context.Context, string) (*domain.User, error) { return nil, nil }
func (noopUserCache) GetByEmail(context.Context, string) (*domain.User, error) { return nil, nil }
func (noopUserCache) Put(context.Context, *domain.User) error                  { return nil }
func (noopUserCache) Evict(context.Context, string, string) error              { return nil }
