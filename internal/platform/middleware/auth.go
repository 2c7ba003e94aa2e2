// Copyright (c) 2026 Taskly. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/taibuivan/taskly/internal/platform/apperr"
	"github.com/taibuivan/taskly/internal/platform/constants"
	"github.com/taibuivan/taskly/internal/platform/ctxutil"
	"github.com/taibuivan/taskly/internal/platform/respond"
	"github.com/taibuivan/taskly/internal/platform/sec"
)

// IdentityVerifier turns an access token into an identity.
//
// Defining it here decouples the middleware from [sec.TokenService] so tests
// can inject a stub.
type IdentityVerifier interface {
	IdentityFromToken(token string) (sec.Identity, error)
}

// IdentityCheck confirms that an identity still exists in storage.
type IdentityCheck interface {
	Exists(ctx context.Context, identityID string) (bool, error)
}

// AuthOption customises [Authenticate].
type AuthOption func(*authConfig)

type authConfig struct {
	check IdentityCheck
}

// WithIdentityCheck adds an existence lookup after token verification.
//
// A missing identity is rejected as unauthenticated. A lookup error is logged
// and the request proceeds on the strength of the token alone.
func WithIdentityCheck(check IdentityCheck) AuthOption {
	return func(cfg *authConfig) { cfg.check = check }
}

/*
Authenticate requires a valid Bearer access token on every request.

Flow:
 1. Read 'Authorization: Bearer <token>'.
 2. Verify it through [IdentityVerifier].
 3. Optionally confirm the identity still exists.
 4. Inject [sec.Identity] and an enriched logger into the request context.

Every failure produces the same 401 "Could not validate credentials".
*/
func Authenticate(verifier IdentityVerifier, opts ...AuthOption) func(http.Handler) http.Handler {
	cfg := authConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			ctx := request.Context()

			// ── 1. Header Extraction ──────────────────────────────────────────
			token, ok := BearerToken(request)
			if !ok {
				respond.Error(writer, request, apperr.InvalidCredentials())
				return
			}

			// ── 2. Token Verification ─────────────────────────────────────────
			identity, err := verifier.IdentityFromToken(token)
			if err != nil {
				ctxutil.GetLogger(ctx).DebugContext(ctx, "auth_token_rejected", slog.String("error", err.Error()))
				respond.Error(writer, request, apperr.InvalidCredentials())
				return
			}

			// ── 3. Existence Check ────────────────────────────────────────────
			if cfg.check != nil {
				exists, err := cfg.check.Exists(ctx, identity.ID)
				switch {
				case err != nil:
					ctxutil.GetLogger(ctx).WarnContext(ctx, "auth_identity_check_failed",
						slog.String("identity_id", identity.ID),
						slog.String("error", err.Error()),
					)
				case !exists:
					respond.Error(writer, request, apperr.InvalidCredentials())
					return
				}
			}

			// ── 4. Context Injection ──────────────────────────────────────────
			ctx = ctxutil.WithIdentity(ctx, identity)
			ctx = ctxutil.WithLogger(ctx, ctxutil.GetLogger(ctx).With(slog.String("identity_id", identity.ID)))
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// BearerToken extracts the token from the Authorization header.
// The scheme is matched case-insensitively.
func BearerToken(request *http.Request) (string, bool) {
	scheme, token, found := strings.Cut(request.Header.Get(constants.HeaderAuthorization), " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return "", false
	}
	return token, true
}
