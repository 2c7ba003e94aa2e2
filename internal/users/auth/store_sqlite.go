// Copyright (c) 2026 Taskly. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/taibuivan/taskly/internal/platform/database/schema"
	"github.com/taibuivan/taskly/internal/platform/dberr"
)

// SQLiteUserRepository implements the UserRepository interface on an embedded
// SQLite database. Timestamps are stored as Unix milliseconds.
type SQLiteUserRepository struct {
	db *sql.DB
}

// NewSQLiteUserRepository creates a new SQLite implementation of the UserRepository.
func NewSQLiteUserRepository(db *sql.DB) *SQLiteUserRepository {
	return &SQLiteUserRepository{db: db}
}

var (
	liteSelectUser = fmt.Sprintf(`SELECT %s FROM %s`,
		strings.Join(schema.Users.Columns(), ", "), schema.Users.Table)

	liteInsertUser = fmt.Sprintf(`INSERT INTO %s (%s) VALUES (?, ?, ?, ?, ?)`,
		schema.Users.Table, strings.Join(schema.Users.Columns(), ", "))
)

// Create persists a new user record.
func (repository *SQLiteUserRepository) Create(context context.Context, user *User) error {
	now := time.Now().UTC().Truncate(time.Millisecond)
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	_, err := repository.db.ExecContext(context, liteInsertUser,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.CreatedAt.UnixMilli(),
		user.UpdatedAt.UnixMilli(),
	)
	return createError(err, "sqlite_user_repo_create_failed")
}

// FindByEmail retrieves a user record by their unique email address.
func (repository *SQLiteUserRepository) FindByEmail(context context.Context, email string) (*User, error) {
	query := liteSelectUser + fmt.Sprintf(` WHERE %s = ?`, schema.Users.Email)
	return repository.findOne(context, query, email)
}

// FindByID retrieves a user record by its primary key.
func (repository *SQLiteUserRepository) FindByID(context context.Context, id string) (*User, error) {
	query := liteSelectUser + fmt.Sprintf(` WHERE %s = ?`, schema.Users.ID)
	return repository.findOne(context, query, id)
}

func (repository *SQLiteUserRepository) findOne(context context.Context, query string, arg any) (*User, error) {
	var (
		user      User
		createdAt int64
		updatedAt int64
	)

	err := repository.db.QueryRowContext(context, query, arg).Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "User")
	}

	user.CreatedAt = time.UnixMilli(createdAt).UTC()
	user.UpdatedAt = time.UnixMilli(updatedAt).UTC()
	return &user, nil
}
