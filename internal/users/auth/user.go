// Copyright (c) 2026 Taskly. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements account registration and credential exchange.

It defines the User entity, its storage contracts, and the flows that turn
an email and password into a pair of signed tokens.

# Architecture

  - Service: Signup, Login, Refresh, Logout and Me.
  - Repository: PostgreSQL and SQLite implementations of [UserRepository].
  - Cache: An optional Redis-backed existence cache for the identity check.
*/
package auth

import (
	"time"

	"github.com/taibuivan/taskly/internal/platform/sec"
)

// # Domain Entities

// User represents a registered account.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Explicitly omitted from JSON for security.
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Identity returns the principal the user authenticates as.
func (user *User) Identity() sec.Identity {
	return sec.Identity{ID: user.ID, Email: user.Email}
}

// Session is the result of a successful signup or login.
type Session struct {
	User         sec.Identity `json:"user"`
	AccessToken  string       `json:"token"`
	RefreshToken string       `json:"refresh_token"`
}
