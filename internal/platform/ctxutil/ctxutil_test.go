// Copyright (c) 2026 Taskly. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package ctxutil_test

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/taskly/internal/platform/ctxutil"
	"github.com/taibuivan/taskly/internal/platform/sec"
)

/*
TestContext_RequestID verifies that Request IDs can be injected and retrieved.
*/
func TestContext_RequestID(t *testing.T) {
	ctx := context.Background()
	requestID := "test-request-id"

	// 1. Initially should be empty
	assert.Empty(t, ctxutil.GetRequestID(ctx))

	// 2. Inject and retrieve
	ctx = ctxutil.WithRequestID(ctx, requestID)
	assert.Equal(t, requestID, ctxutil.GetRequestID(ctx))
}

/*
TestContext_Logger verifies that a custom logger can be stored in context.
*/
func TestContext_Logger(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// 1. Initially should return the default logger
	assert.Equal(t, slog.Default(), ctxutil.GetLogger(ctx))

	// 2. Inject and retrieve
	ctx = ctxutil.WithLogger(ctx, logger)
	assert.Equal(t, logger, ctxutil.GetLogger(ctx))
}

/*
TestContext_ClientIP verifies the resolved client address round-trips.
*/
func TestContext_ClientIP(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, ctxutil.GetClientIP(ctx))

	ctx = ctxutil.WithClientIP(ctx, "203.0.113.7")
	assert.Equal(t, "203.0.113.7", ctxutil.GetClientIP(ctx))
}

/*
TestContext_Identity verifies that an identity can be stored in context and
that an empty identity is reported as absent.
*/
func TestContext_Identity(t *testing.T) {
	ctx := context.Background()

	// 1. Initially absent
	_, ok := ctxutil.GetIdentity(ctx)
	assert.False(t, ok)

	// 2. Zero identity is treated as absent
	_, ok = ctxutil.GetIdentity(ctxutil.WithIdentity(ctx, sec.Identity{}))
	assert.False(t, ok)

	// 3. Inject and retrieve
	ctx = ctxutil.WithIdentity(ctx, sec.Identity{ID: "user-123", Email: "a@x.com"})
	identity, ok := ctxutil.GetIdentity(ctx)

	assert.True(t, ok)
	assert.Equal(t, "user-123", identity.ID)
	assert.Equal(t, "a@x.com", identity.Email)
}
