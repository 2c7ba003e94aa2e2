// Copyright (c) 2026 Taskly. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/taskly/internal/platform/apperr"
)

/*
TestPostgresUserStatements checks the column order shared by insert and select.
*/
func TestPostgresUserStatements(t *testing.T) {
	const columns = "id, email, password_hash, created_at, updated_at"

	assert.Equal(t, "SELECT "+columns+" FROM users", pgSelectUser)
	assert.Equal(t, "INSERT INTO users ("+columns+") VALUES ($1, $2, $3, $4, $5)", pgInsertUser)
}

/*
TestCreateError maps insert failures to the duplicate-email conflict or an
internal error.
*/
func TestCreateError(t *testing.T) {
	uniqueViolation := &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "users_email_lower_idx"}

	tests := []struct {
		name     string
		err      error
		conflict bool
	}{
		{"pg_unique", uniqueViolation, true},
		{"pg_unique_wrapped", fmt.Errorf("exec: %w", uniqueViolation), true},
		{"pg_foreign_key", &pgconn.PgError{Code: pgerrcode.ForeignKeyViolation}, false},
		{"connection", errors.New("connection reset"), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := createError(tc.err, "postgres_user_repo_create_failed")

			if tc.conflict {
				appErr := apperr.As(err)
				if assert.NotNil(t, appErr) {
					assert.Equal(t, apperr.CodeConflict, appErr.Code)
					assert.Equal(t, MsgEmailRegistered, appErr.Message)
				}
				return
			}

			assert.False(t, apperr.IsAppError(err))
			assert.ErrorIs(t, err, tc.err)
			assert.Contains(t, err.Error(), "postgres_user_repo_create_failed")
		})
	}

	assert.NoError(t, createError(nil, "postgres_user_repo_create_failed"))
}
