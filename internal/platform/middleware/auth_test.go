// Copyright (c) 2026 Taskly. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/taskly/internal/platform/ctxutil"
	"github.com/taibuivan/taskly/internal/platform/middleware"
	"github.com/taibuivan/taskly/internal/platform/sec"
)

const testSecret = "0123456789abcdef0123456789abcdef"

// stubCheck answers existence lookups from fixed values.
type stubCheck struct {
	exists bool
	err    error
	calls  int
}

func (s *stubCheck) Exists(context.Context, string) (bool, error) {
	s.calls++
	return s.exists, s.err
}

func newTokens(t *testing.T) *sec.TokenService {
	t.Helper()
	tokens, err := sec.NewTokenService(testSecret)
	require.NoError(t, err)
	return tokens
}

// identityEcho writes the authenticated identity id.
var identityEcho = http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
	identity, ok := ctxutil.GetIdentity(request.Context())
	if !ok {
		writer.WriteHeader(http.StatusTeapot)
		return
	}
	_, _ = writer.Write([]byte(identity.ID))
})

func serve(handler http.Handler, authorization string) *httptest.ResponseRecorder {
	request := httptest.NewRequest(http.MethodGet, "/me", nil)
	if authorization != "" {
		request.Header.Set("Authorization", authorization)
	}
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	return recorder
}

/*
TestAuthenticate_Rejections verifies every failure collapses into one 401.
*/
func TestAuthenticate_Rejections(t *testing.T) {
	tokens := newTokens(t)
	handler := middleware.Authenticate(tokens)(identityEcho)

	pair, err := tokens.IssuePair(sec.Identity{ID: "user-1", Email: "a@x.com"})
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
	}{
		{"missing", ""},
		{"wrong_scheme", "Basic dXNlcjpwYXNz"},
		{"no_token", "Bearer "},
		{"garbage", "Bearer abc.def.ghi"},
		{"refresh_token", "Bearer " + pair.RefreshToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := serve(handler, tt.header)

			assert.Equal(t, http.StatusUnauthorized, recorder.Code)
			assert.Equal(t, "Bearer", recorder.Header().Get("WWW-Authenticate"))
			assert.Contains(t, recorder.Body.String(), "Could not validate credentials")
		})
	}
}

/*
TestAuthenticate_Success verifies the identity reaches the handler.
*/
func TestAuthenticate_Success(t *testing.T) {
	tokens := newTokens(t)
	handler := middleware.Authenticate(tokens)(identityEcho)

	access, err := tokens.Issue("user-1", "a@x.com", sec.TokenAccess, 0)
	require.NoError(t, err)

	recorder := serve(handler, "bearer "+access)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "user-1", recorder.Body.String())
}

/*
TestAuthenticate_IdentityCheck covers the optional existence hook.
*/
func TestAuthenticate_IdentityCheck(t *testing.T) {
	tokens := newTokens(t)
	access, err := tokens.Issue("user-1", "a@x.com", sec.TokenAccess, 0)
	require.NoError(t, err)

	tests := []struct {
		name   string
		check  *stubCheck
		status int
	}{
		{"exists", &stubCheck{exists: true}, http.StatusOK},
		{"deleted", &stubCheck{exists: false}, http.StatusUnauthorized},
		{"lookup_error_fails_open", &stubCheck{err: errors.New("redis down")}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := middleware.Authenticate(tokens, middleware.WithIdentityCheck(tt.check))(identityEcho)

			recorder := serve(handler, "Bearer "+access)

			assert.Equal(t, tt.status, recorder.Code)
			assert.Equal(t, 1, tt.check.calls)
		})
	}
}
