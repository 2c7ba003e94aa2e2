// Copyright (c) 2026 Taskly. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import "time"

// # Client-facing Messages

const (
	MsgIncorrectCredentials = "Incorrect email or password"
	MsgEmailRegistered      = "Email already registered"
	MsgLoggedOut            = "Successfully logged out"
)

// # Identity Cache

const (
	// identityCachePrefix namespaces cached existence checks in Redis.
	identityCachePrefix = "auth:identity:"

	// DefaultIdentityCacheTTL bounds how long a deleted account keeps passing
	// the existence check.
	DefaultIdentityCacheTTL = 5 * time.Minute
)

// # Field Identifiers

// Field names for validation and response mapping in the authentication domain.
const (
	FieldEmail        = "email"
	FieldPassword     = "password"
	FieldUser         = "user"
	FieldToken        = "token"
	FieldRefreshToken = "refresh_token"
)

// maxEmailLength mirrors the RFC 5321 path limit.
const maxEmailLength = 254
