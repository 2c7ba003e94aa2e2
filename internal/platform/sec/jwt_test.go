// Copyright (c) 2026 Taskly. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/taskly/internal/platform/sec"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTokenService(t *testing.T, opts ...sec.TokenOption) *sec.TokenService {
	t.Helper()
	service, err := sec.NewTokenService(testSecret, opts...)
	require.NoError(t, err)
	return service
}

/*
TestTokenService_RoundTrip verifies issued claims survive verification.
*/
func TestTokenService_RoundTrip(t *testing.T) {
	service := newTokenService(t, sec.WithIssuer("taskly"))

	token, err := service.Issue("user-1", "a@x.com", sec.TokenAccess, 0)
	require.NoError(t, err)

	claims, err := service.Verify(token, sec.TokenAccess)
	require.NoError(t, err)

	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "a@x.com", claims.Email)
	assert.Equal(t, sec.TokenAccess, claims.Type)
	assert.Equal(t, "taskly", claims.Issuer)
	assert.NotEmpty(t, claims.ID)
}

/*
TestTokenService_DefaultTTL verifies that a non-positive ttl selects the
per-type default lifetime.
*/
func TestTokenService_DefaultTTL(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	service := newTokenService(t, sec.WithClock(func() time.Time { return now }))

	access, err := service.Issue("user-1", "a@x.com", sec.TokenAccess, 0)
	require.NoError(t, err)
	refresh, err := service.Issue("user-1", "a@x.com", sec.TokenRefresh, -time.Second)
	require.NoError(t, err)

	accessClaims, err := service.Verify(access, sec.TokenAny)
	require.NoError(t, err)
	refreshClaims, err := service.Verify(refresh, sec.TokenAny)
	require.NoError(t, err)

	assert.Equal(t, now.Add(sec.DefaultAccessTTL).Unix(), accessClaims.ExpiresAt.Unix())
	assert.Equal(t, now.Add(sec.DefaultRefreshTTL).Unix(), refreshClaims.ExpiresAt.Unix())
}

/*
TestTokenService_TypeMismatch verifies a token is rejected under the other type.
*/
func TestTokenService_TypeMismatch(t *testing.T) {
	service := newTokenService(t)

	pair, err := service.IssuePair(sec.Identity{ID: "user-1", Email: "a@x.com"})
	require.NoError(t, err)

	_, err = service.Verify(pair.AccessToken, sec.TokenRefresh)
	assert.ErrorIs(t, err, sec.ErrInvalidToken)

	_, err = service.Verify(pair.RefreshToken, sec.TokenAccess)
	assert.ErrorIs(t, err, sec.ErrInvalidToken)

	_, err = service.Verify(pair.RefreshToken, sec.TokenRefresh)
	assert.NoError(t, err)
}

/*
TestTokenService_Expiry verifies expired tokens fail and leeway tolerates skew.
*/
func TestTokenService_Expiry(t *testing.T) {
	issuedAt := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	current := issuedAt
	clock := func() time.Time { return current }

	strict := newTokenService(t, sec.WithClock(clock))
	lenient := newTokenService(t, sec.WithClock(clock), sec.WithLeeway(time.Minute))

	token, err := strict.Issue("user-1", "a@x.com", sec.TokenAccess, time.Minute)
	require.NoError(t, err)

	current = issuedAt.Add(90 * time.Second)

	_, err = strict.Verify(token, sec.TokenAccess)
	assert.ErrorIs(t, err, sec.ErrInvalidToken)

	_, err = lenient.Verify(token, sec.TokenAccess)
	assert.NoError(t, err)
}

/*
TestTokenService_Rejects covers tampering, foreign keys and unsigned tokens.
*/
func TestTokenService_Rejects(t *testing.T) {
	service := newTokenService(t)
	other, err := sec.NewTokenService("ffffffffffffffffffffffffffffffff")
	require.NoError(t, err)

	foreign, err := other.Issue("user-1", "a@x.com", sec.TokenAccess, 0)
	require.NoError(t, err)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, sec.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Email: "a@x.com",
		Type:  sec.TokenAccess,
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, sec.Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "user-1"},
		Email:            "a@x.com",
		Type:             sec.TokenAccess,
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	valid, err := service.Issue("user-1", "a@x.com", sec.TokenAccess, 0)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not.a.token"},
		{"foreign_secret", foreign},
		{"alg_none", unsigned},
		{"missing_exp", noExpiry},
		{"tampered", valid[:len(valid)-2] + "xx"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Verify(tt.token, sec.TokenAny)
			assert.ErrorIs(t, err, sec.ErrInvalidToken)
		})
	}
}

/*
TestTokenService_IdentityFromToken verifies the identity is rebuilt from an
access token and that refresh tokens are refused.
*/
func TestTokenService_IdentityFromToken(t *testing.T) {
	service := newTokenService(t)

	pair, err := service.IssuePair(sec.Identity{ID: "user-1", Email: "a@x.com"})
	require.NoError(t, err)

	identity, err := service.IdentityFromToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, sec.Identity{ID: "user-1", Email: "a@x.com"}, identity)

	_, err = service.IdentityFromToken(pair.RefreshToken)
	assert.ErrorIs(t, err, sec.ErrInvalidToken)

	noEmail, err := service.Issue("user-1", "", sec.TokenAccess, 0)
	require.NoError(t, err)
	_, err = service.IdentityFromToken(noEmail)
	assert.ErrorIs(t, err, sec.ErrInvalidToken)
}

/*
TestTokenService_Construction verifies constructor guards.
*/
func TestTokenService_Construction(t *testing.T) {
	_, err := sec.NewTokenService("")
	assert.Error(t, err)

	service := newTokenService(t, sec.WithAccessTTL(time.Minute), sec.WithRefreshTTL(time.Hour))
	assert.Equal(t, time.Minute, service.AccessTTL())
	assert.Equal(t, time.Hour, service.RefreshTTL())

	_, err = service.Issue("user-1", "a@x.com", sec.TokenAny, 0)
	assert.Error(t, err)
}
