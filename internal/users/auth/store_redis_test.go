// Copyright (c) 2026 Taskly. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/taskly/internal/users/auth"
)

func newRedisCache(t *testing.T, ttl time.Duration) (*auth.RedisIdentityCache, *miniredis.Miniredis) {
	t.Helper()

	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return auth.NewRedisIdentityCache(client, ttl), server
}

/*
TestRedisIdentityCache_TTL verifies entries expire.
*/
func TestRedisIdentityCache_TTL(t *testing.T) {
	cache, server := newRedisCache(t, time.Minute)
	ctx := context.Background()

	known, err := cache.Known(ctx, "user-1")
	require.NoError(t, err)
	assert.False(t, known)

	require.NoError(t, cache.Remember(ctx, "user-1"))
	known, err = cache.Known(ctx, "user-1")
	require.NoError(t, err)
	assert.True(t, known)

	server.FastForward(2 * time.Minute)
	known, err = cache.Known(ctx, "user-1")
	require.NoError(t, err)
	assert.False(t, known)
}

/*
TestExistenceChecker covers cache misses, hits and deleted accounts.
*/
func TestExistenceChecker(t *testing.T) {
	cache, server := newRedisCache(t, time.Minute)
	users := newMemoryUsers()
	ctx := context.Background()

	require.NoError(t, users.Create(ctx, &auth.User{ID: "user-1", Email: "a@x.com"}))
	checker := auth.NewExistenceChecker(users, cache)

	// 1. Miss falls through to storage and populates the cache
	exists, err := checker.Exists(ctx, "user-1")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.True(t, server.Exists("auth:identity:user-1"))

	// 2. Unknown identity
	exists, err = checker.Exists(ctx, "ghost")
	require.NoError(t, err)
	assert.False(t, exists)

	// 3. Cache outage degrades to storage
	server.Close()
	exists, err = checker.Exists(ctx, "user-1")
	require.NoError(t, err)
	assert.True(t, exists)
}

/*
TestExistenceChecker_WithoutCache works with storage only.
*/
func TestExistenceChecker_WithoutCache(t *testing.T) {
	users := newMemoryUsers()
	checker := auth.NewExistenceChecker(users, nil)

	exists, err := checker.Exists(context.Background(), "user-1")
	require.NoError(t, err)
	assert.False(t, exists)
}
