// Copyright (c) 2026 Taskly. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sec provides cryptographic primitives and the access policy.
//
// # Architecture
//
// This package isolates security-sensitive code (hashing, token signing,
// ownership checks) from the domain logic. Services receive its types by
// injection; nothing here holds process-wide state.
package sec

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/taibuivan/taskly/pkg/uuid"
)

// # Token Types

// TokenType tags a token as access or refresh.
type TokenType string

const (
	TokenAccess  TokenType = "access"
	TokenRefresh TokenType = "refresh"

	// TokenAny disables the type check in [TokenService.Verify].
	TokenAny TokenType = ""
)

const (
	DefaultAccessTTL  = 30 * time.Minute
	DefaultRefreshTTL = 7 * 24 * time.Hour
)

// ErrInvalidToken is returned for every verification failure. Callers cannot
// distinguish a bad signature from an expired or mistyped token.
var ErrInvalidToken = errors.New("sec: invalid token")

// Claims represents the payload embedded inside a signed token.
//
// The subject carries the identity id so the middleware can rebuild the
// caller without querying the database.
type Claims struct {
	jwt.RegisteredClaims

	Email string    `json:"email"`
	Type  TokenType `json:"type"`
}

// TokenPair is the result of a successful signup or login.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// # Token Service

// TokenService issues and verifies HS256 tokens with a shared secret.
type TokenService struct {
	secret     []byte
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
	leeway     time.Duration
	now        func() time.Time
	parser     *jwt.Parser
}

// TokenOption customises a [TokenService].
type TokenOption func(*TokenService)

// WithIssuer sets the iss claim. Verification then requires a matching issuer.
func WithIssuer(issuer string) TokenOption {
	return func(service *TokenService) { service.issuer = issuer }
}

// WithAccessTTL overrides the default access-token lifetime.
func WithAccessTTL(ttl time.Duration) TokenOption {
	return func(service *TokenService) {
		if ttl > 0 {
			service.accessTTL = ttl
		}
	}
}

// WithRefreshTTL overrides the default refresh-token lifetime.
func WithRefreshTTL(ttl time.Duration) TokenOption {
	return func(service *TokenService) {
		if ttl > 0 {
			service.refreshTTL = ttl
		}
	}
}

// WithLeeway tolerates clock skew when checking expiry.
func WithLeeway(leeway time.Duration) TokenOption {
	return func(service *TokenService) {
		if leeway >= 0 {
			service.leeway = leeway
		}
	}
}

// WithClock replaces the time source. Intended for tests.
func WithClock(now func() time.Time) TokenOption {
	return func(service *TokenService) {
		if now != nil {
			service.now = now
		}
	}
}

// NewTokenService creates a new TokenService signing with secret.
func NewTokenService(secret string, opts ...TokenOption) (*TokenService, error) {
	if secret == "" {
		return nil, errors.New("sec: token secret must not be empty")
	}

	service := &TokenService{
		secret:     []byte(secret),
		accessTTL:  DefaultAccessTTL,
		refreshTTL: DefaultRefreshTTL,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(service)
	}

	parserOptions := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(service.leeway),
		jwt.WithTimeFunc(service.now),
	}
	if service.issuer != "" {
		parserOptions = append(parserOptions, jwt.WithIssuer(service.issuer))
	}
	service.parser = jwt.NewParser(parserOptions...)

	return service, nil
}

// AccessTTL returns the configured access-token lifetime.
func (service *TokenService) AccessTTL() time.Duration { return service.accessTTL }

// RefreshTTL returns the configured refresh-token lifetime.
func (service *TokenService) RefreshTTL() time.Duration { return service.refreshTTL }

/*
Issue signs a new token for an identity.

Parameters:
  - identityID: string (sub claim)
  - email: string
  - tokenType: TokenType (access or refresh)
  - ttl: time.Duration (<= 0 selects the default for the type)

Returns:
  - string: The compact JWS
  - error: Signing failures
*/
func (service *TokenService) Issue(identityID, email string, tokenType TokenType, ttl time.Duration) (string, error) {
	if tokenType != TokenAccess && tokenType != TokenRefresh {
		return "", fmt.Errorf("sec: cannot issue token of type %q", tokenType)
	}

	if ttl <= 0 {
		ttl = service.accessTTL
		if tokenType == TokenRefresh {
			ttl = service.refreshTTL
		}
	}

	currentTime := service.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New(),
			Subject:   identityID,
			Issuer:    service.issuer,
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(currentTime.Add(ttl)),
		},
		Email: email,
		Type:  tokenType,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(service.secret)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign token: %w", err)
	}

	return signedToken, nil
}

// IssuePair signs an access and a refresh token for the identity.
func (service *TokenService) IssuePair(identity Identity) (TokenPair, error) {
	access, err := service.Issue(identity.ID, identity.Email, TokenAccess, 0)
	if err != nil {
		return TokenPair{}, err
	}

	refresh, err := service.Issue(identity.ID, identity.Email, TokenRefresh, 0)
	if err != nil {
		return TokenPair{}, err
	}

	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

/*
Verify checks the signature, expiry and type of a token string.

Parameters:
  - tokenString: string
  - expected: TokenType ([TokenAny] skips the type check)

Returns:
  - *Claims: The decoded payload
  - error: [ErrInvalidToken] on any failure
*/
func (service *TokenService) Verify(tokenString string, expected TokenType) (*Claims, error) {
	claims := &Claims{}
	token, err := service.parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return service.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	if expected != TokenAny && claims.Type != expected {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// IdentityFromToken verifies an access token and returns its identity.
// Tokens without a subject or email are rejected.
func (service *TokenService) IdentityFromToken(tokenString string) (Identity, error) {
	claims, err := service.Verify(tokenString, TokenAccess)
	if err != nil {
		return Identity{}, err
	}

	if claims.Subject == "" || claims.Email == "" {
		return Identity{}, ErrInvalidToken
	}

	return Identity{ID: claims.Subject, Email: claims.Email}, nil
}
