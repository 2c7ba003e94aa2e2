// Copyright (c) 2026 Taskly. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"

	"github.com/taibuivan/taskly/internal/platform/apperr"
	"github.com/taibuivan/taskly/internal/platform/dberr"
)

// # User Data Access

// UserRepository defines the data access contract for user accounts.
//
// Email uniqueness is enforced here, by the storage engine, not by the service.
type UserRepository interface {

	/*
		FindByID returns the account with the given ID.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *User: Hydrated entity
		  - error: apperr.NotFound or database retrieval failures
	*/
	FindByID(context context.Context, id string) (*User, error)

	/*
		FindByEmail returns the account with the given normalized email.

		Parameters:
		  - context: context.Context
		  - email: string

		Returns:
		  - *User: Hydrated entity
		  - error: apperr.NotFound or database retrieval failures
	*/
	FindByEmail(context context.Context, email string) (*User, error)

	/*
		Create persists a brand-new user account to the storage.

		Parameters:
		  - context: context.Context
		  - user: *User

		Returns:
		  - error: apperr.Conflict on a duplicate email, or persistence failures
	*/
	Create(context context.Context, user *User) error
}

// # Volatile Data Access

// IdentityCache remembers identities recently confirmed to exist.
type IdentityCache interface {
	Known(context context.Context, identityID string) (bool, error)
	Remember(context context.Context, identityID string) error
}

// createError classifies an insert failure. A unique violation on either
// engine is the duplicate-email conflict; anything else is wrapped with event.
func createError(err error, event string) error {
	if err == nil {
		return nil
	}
	if dberr.IsUniqueViolation(err) {
		return apperr.Conflict(MsgEmailRegistered)
	}
	return fmt.Errorf("%s: %w", event, err)
}
