// Copyright (c) 2026 Taskly. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/taskly/internal/platform/apperr"
)

// RedisIdentityCache implements IdentityCache using Redis keys with a TTL.
type RedisIdentityCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisIdentityCache creates a new Redis-backed IdentityCache.
func NewRedisIdentityCache(client *redis.Client, ttl time.Duration) *RedisIdentityCache {
	if ttl <= 0 {
		ttl = DefaultIdentityCacheTTL
	}
	return &RedisIdentityCache{client: client, ttl: ttl}
}

/*
Known reports whether the identity was confirmed within the TTL.

Parameters:
  - context: context.Context
  - identityID: string

Returns:
  - bool: true on a cache hit
  - error: Connectivity errors
*/
func (cache *RedisIdentityCache) Known(context context.Context, identityID string) (bool, error) {
	count, err := cache.client.Exists(context, identityCachePrefix+identityID).Result()
	if err != nil {
		return false, fmt.Errorf("redis_identity_cache_get_failed: %w", err)
	}
	return count > 0, nil
}

// Remember records a confirmed identity for the cache TTL.
func (cache *RedisIdentityCache) Remember(context context.Context, identityID string) error {
	if err := cache.client.Set(context, identityCachePrefix+identityID, 1, cache.ttl).Err(); err != nil {
		return fmt.Errorf("redis_identity_cache_set_failed: %w", err)
	}
	return nil
}

// # Existence Check

// ExistenceChecker confirms that an authenticated identity still has an
// account. It satisfies the middleware's identity check hook.
type ExistenceChecker struct {
	users UserRepository
	cache IdentityCache
}

// NewExistenceChecker builds a checker. cache may be nil.
func NewExistenceChecker(users UserRepository, cache IdentityCache) *ExistenceChecker {
	return &ExistenceChecker{users: users, cache: cache}
}

/*
Exists looks the identity up, consulting the cache first.

Cache failures degrade to a storage lookup; only storage failures are
returned as errors.
*/
func (checker *ExistenceChecker) Exists(context context.Context, identityID string) (bool, error) {
	if checker.cache != nil {
		if known, err := checker.cache.Known(context, identityID); err == nil && known {
			return true, nil
		}
	}

	_, err := checker.users.FindByID(context, identityID)
	if err != nil {
		if apperr.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}

	if checker.cache != nil {
		_ = checker.cache.Remember(context, identityID)
	}
	return true, nil
}
