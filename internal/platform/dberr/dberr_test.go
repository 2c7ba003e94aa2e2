// Copyright (c) 2026 Taskly. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package dberr_test

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/taskly/internal/platform/apperr"
	"github.com/taibuivan/taskly/internal/platform/dberr"
)

/*
TestWrap_Classification maps driver errors to application codes.
*/
func TestWrap_Classification(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code string
	}{
		{"pgx_no_rows", pgx.ErrNoRows, apperr.CodeNotFound},
		{"sql_no_rows", fmt.Errorf("scan: %w", sql.ErrNoRows), apperr.CodeNotFound},
		{"pg_unique", &pgconn.PgError{Code: pgerrcode.UniqueViolation}, apperr.CodeConflict},
		{"pg_unique_wrapped", fmt.Errorf("insert: %w", &pgconn.PgError{Code: pgerrcode.UniqueViolation}), apperr.CodeConflict},
		{"pg_other", &pgconn.PgError{Code: pgerrcode.SyntaxError}, apperr.CodeInternal},
		{"unknown", errors.New("connection reset"), apperr.CodeInternal},
		{"already_classified", apperr.Conflict("Email already registered"), apperr.CodeConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := dberr.Wrap(tt.err, "Task")
			assert.True(t, apperr.HasCode(wrapped, tt.code))
		})
	}
}

/*
TestWrap_Nil keeps nil as nil.
*/
func TestWrap_Nil(t *testing.T) {
	assert.NoError(t, dberr.Wrap(nil, "Task"))
}

/*
TestWrap_NotFoundMessage names the resource.
*/
func TestWrap_NotFoundMessage(t *testing.T) {
	assert.Equal(t, "Task not found", dberr.Wrap(pgx.ErrNoRows, "Task").Error())
}
