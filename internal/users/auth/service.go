// Copyright (c) 2026 Taskly. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/taibuivan/taskly/internal/platform/apperr"
	"github.com/taibuivan/taskly/internal/platform/ctxutil"
	"github.com/taibuivan/taskly/internal/platform/sec"
	"github.com/taibuivan/taskly/internal/platform/validate"
	"github.com/taibuivan/taskly/pkg/email"
	"github.com/taibuivan/taskly/pkg/uuid"
)

// # Contracts & Types

// PasswordHasher produces and checks credential digests.
type PasswordHasher interface {
	Hash(plainTextPassword string) (string, error)
	Verify(plainTextPassword, existingHash string) bool
}

// TokenProvider signs and verifies identity tokens.
type TokenProvider interface {
	Issue(identityID, email string, tokenType sec.TokenType, ttl time.Duration) (string, error)
	IssuePair(identity sec.Identity) (sec.TokenPair, error)
	Verify(token string, expected sec.TokenType) (*sec.Claims, error)
}

// AttemptLimiter guards credential endpoints against brute force.
type AttemptLimiter interface {
	Allow(client string) bool
	RecordFailure(client string)
	Reset(client string)
}

// Service implements the authentication use cases.
//
// # Review Process
//
// This service is critical for security. Any change to the order of the
// limiter check, the hashing or the token issuance must be reviewed.
type Service struct {
	userRepository UserRepository
	hasher         PasswordHasher
	tokenProvider  TokenProvider
	limiter        AttemptLimiter

	decoyOnce sync.Once
	decoyHash string
}

// NewService constructs a new [Service] with necessary dependencies.
func NewService(
	userRepo UserRepository,
	hasher PasswordHasher,
	tokens TokenProvider,
	limiter AttemptLimiter,
) *Service {
	return &Service{
		userRepository: userRepo,
		hasher:         hasher,
		tokenProvider:  tokens,
		limiter:        limiter,
	}
}

// # Registration Flow

// Credentials holds the email and password submitted to signup or login,
// plus the client key used by the attempt limiter.
type Credentials struct {
	Email    string
	Password string
	ClientIP string
}

/*
Signup validates, hashes, and persists a brand new account, then issues tokens.

Description: The attempt limiter runs before any credential work. The password
strength policy is enforced before the duplicate check.

Parameters:
  - context: context.Context
  - input: Credentials

Returns:
  - *Session: Identity plus access and refresh tokens
  - error: RateLimited, ValidationError, Conflict or storage errors
*/
func (service *Service) Signup(context context.Context, input Credentials) (*Session, error) {
	logger := ctxutil.GetLogger(context)

	// ── 1. Attempt Guard ──────────────────────────────────────────────────
	if !service.limiter.Allow(input.ClientIP) {
		logger.WarnContext(context, "auth_signup_rate_limited")
		return nil, apperr.RateLimited()
	}

	// ── 2. Input Validation ───────────────────────────────────────────────
	address := email.Normalize(input.Email)
	if err := validateEmail(address); err != nil {
		return nil, err
	}

	if err := sec.CheckPasswordStrength(input.Password); err != nil {
		return nil, weakPasswordError(err)
	}

	// ── 3. Duplicate Check ────────────────────────────────────────────────
	_, err := service.userRepository.FindByEmail(context, address)
	if err == nil {
		return nil, apperr.Conflict(MsgEmailRegistered)
	}
	if !apperr.IsNotFound(err) {
		return nil, fmt.Errorf("auth_service_signup_lookup_failed: %w", err)
	}

	// ── 4. Persist ────────────────────────────────────────────────────────
	hashedPassword, err := service.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	user := &User{
		ID:           uuid.New(),
		Email:        address,
		PasswordHash: hashedPassword,
	}

	// A concurrent signup can still win the race; storage reports Conflict.
	if err := service.userRepository.Create(context, user); err != nil {
		if apperr.IsAppError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("auth_service_signup_failed: %w", err)
	}

	// ── 5. Issue Tokens ───────────────────────────────────────────────────
	session, err := service.issueSession(user.Identity())
	if err != nil {
		return nil, err
	}

	service.limiter.Reset(input.ClientIP)
	logger.InfoContext(context, "auth_signup_succeeded", slog.String("identity_id", user.ID))

	return session, nil
}

// # Authentication Flow

/*
Login validates credentials and issues a fresh token pair.

Description: Unknown emails and wrong passwords are indistinguishable to the
caller and both count as a failed attempt. A decoy comparison keeps the
unknown-email path about as slow as a real one.

Parameters:
  - context: context.Context
  - input: Credentials

Returns:
  - *Session: Identity plus access and refresh tokens
  - error: RateLimited, Unauthorized or internal failures
*/
func (service *Service) Login(context context.Context, input Credentials) (*Session, error) {
	logger := ctxutil.GetLogger(context)

	// ── 1. Attempt Guard ──────────────────────────────────────────────────
	if !service.limiter.Allow(input.ClientIP) {
		logger.WarnContext(context, "auth_login_rate_limited")
		return nil, apperr.RateLimited()
	}

	// ── 2. Credential Check ───────────────────────────────────────────────
	user, err := service.userRepository.FindByEmail(context, email.Normalize(input.Email))
	if err != nil && !apperr.IsNotFound(err) {
		return nil, fmt.Errorf("auth_service_login_lookup_failed: %w", err)
	}

	if user == nil {
		service.hasher.Verify(input.Password, service.decoy())
		return nil, service.loginFailed(context, input.ClientIP)
	}

	if !service.hasher.Verify(input.Password, user.PasswordHash) {
		return nil, service.loginFailed(context, input.ClientIP)
	}

	// ── 3. Issue Tokens ───────────────────────────────────────────────────
	session, err := service.issueSession(user.Identity())
	if err != nil {
		return nil, err
	}

	service.limiter.Reset(input.ClientIP)
	logger.InfoContext(context, "auth_login_succeeded", slog.String("identity_id", user.ID))

	return session, nil
}

/*
Refresh exchanges a refresh token for a new access token.

Description: The token is decoded without a type constraint, then its type is
inspected explicitly so that access tokens are refused. The new access token
carries the same subject and email.

Parameters:
  - context: context.Context
  - refreshToken: string

Returns:
  - string: New access token
  - error: apperr.InvalidCredentials on any token problem
*/
func (service *Service) Refresh(context context.Context, refreshToken string) (string, error) {
	claims, err := service.tokenProvider.Verify(refreshToken, sec.TokenAny)
	if err != nil {
		return "", apperr.InvalidCredentials()
	}

	if claims.Type != sec.TokenRefresh || claims.Subject == "" || claims.Email == "" {
		ctxutil.GetLogger(context).InfoContext(context, "auth_refresh_rejected", slog.String("type", string(claims.Type)))
		return "", apperr.InvalidCredentials()
	}

	accessToken, err := service.tokenProvider.Issue(claims.Subject, claims.Email, sec.TokenAccess, 0)
	if err != nil {
		return "", fmt.Errorf("auth_service_refresh_issue_failed: %w", err)
	}

	return accessToken, nil
}

/*
Logout acknowledges a client-side logout.

Tokens are stateless and there is no denylist, so nothing is revoked: the
client discards its tokens and access tokens expire on their own.
*/
func (service *Service) Logout(context context.Context) {
	ctxutil.GetLogger(context).InfoContext(context, "auth_logout")
}

// Me returns the stored account for an authenticated identity.
func (service *Service) Me(context context.Context, identity sec.Identity) (*User, error) {
	user, err := service.userRepository.FindByID(context, identity.ID)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.InvalidCredentials()
		}
		return nil, fmt.Errorf("auth_service_me_failed: %w", err)
	}
	return user, nil
}

// # Helpers

func (service *Service) issueSession(identity sec.Identity) (*Session, error) {
	pair, err := service.tokenProvider.IssuePair(identity)
	if err != nil {
		return nil, fmt.Errorf("auth_service_token_generation_failed: %w", err)
	}

	return &Session{
		User:         identity,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, nil
}

func (service *Service) loginFailed(context context.Context, clientIP string) error {
	service.limiter.RecordFailure(clientIP)
	ctxutil.GetLogger(context).WarnContext(context, "auth_login_failed")
	return apperr.Unauthorized(MsgIncorrectCredentials)
}

// decoy returns a digest that no password matches, computed once.
func (service *Service) decoy() string {
	service.decoyOnce.Do(func() {
		service.decoyHash, _ = service.hasher.Hash(uuid.New())
	})
	return service.decoyHash
}

func validateEmail(address string) error {
	validator := &validate.Validator{}
	validator.Required(FieldEmail, address).
		MaxLen(FieldEmail, address, maxEmailLength)
	if !validator.HasErrors() {
		validator.Email(FieldEmail, address)
	}
	return validator.Err()
}

func weakPasswordError(err error) error {
	var weak *sec.WeakPasswordError
	if !errors.As(err, &weak) {
		return apperr.Internal(err)
	}
	return apperr.ValidationError(weak.Reason, apperr.FieldError{Field: FieldPassword, Message: weak.Reason})
}
