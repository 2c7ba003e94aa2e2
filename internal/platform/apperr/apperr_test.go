// Copyright (c) 2026 Taskly. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package apperr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/taskly/internal/platform/apperr"
)

/*
TestAppError_Constructors verifies the status and code of every constructor.
*/
func TestAppError_Constructors(t *testing.T) {
	tests := []struct {
		name   string
		err    *apperr.AppError
		status int
		code   string
	}{
		{"not_found", apperr.NotFound("Task"), http.StatusNotFound, apperr.CodeNotFound},
		{"unauthorized", apperr.Unauthorized("nope"), http.StatusUnauthorized, apperr.CodeUnauthorized},
		{"invalid_credentials", apperr.InvalidCredentials(), http.StatusUnauthorized, apperr.CodeUnauthorized},
		{"conflict", apperr.Conflict("dup"), http.StatusConflict, apperr.CodeConflict},
		{"validation", apperr.ValidationError("bad"), http.StatusBadRequest, apperr.CodeValidation},
		{"rate_limited", apperr.RateLimited(), http.StatusTooManyRequests, apperr.CodeRateLimited},
		{"too_large", apperr.PayloadTooLarge(), http.StatusRequestEntityTooLarge, apperr.CodeTooLarge},
		{"internal", apperr.Internal(errors.New("boom")), http.StatusInternalServerError, apperr.CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, tt.err.HTTPStatus)
			assert.Equal(t, tt.code, tt.err.Code)
		})
	}
}

/*
TestAppError_Messages checks the client-facing wording that must stay generic.
*/
func TestAppError_Messages(t *testing.T) {
	assert.Equal(t, "Task not found", apperr.NotFound("Task").Error())
	assert.Equal(t, "Could not validate credentials", apperr.InvalidCredentials().Error())
	assert.NotContains(t, apperr.RateLimited().Error(), "5")
}

/*
TestAppError_Chain verifies that wrapped AppErrors are still discoverable.
*/
func TestAppError_Chain(t *testing.T) {
	cause := errors.New("disk on fire")
	wrapped := fmt.Errorf("task_service_list_failed: %w", apperr.Internal(cause))

	require.True(t, apperr.IsAppError(wrapped))
	assert.ErrorIs(t, wrapped, cause)
	assert.Equal(t, apperr.CodeInternal, apperr.As(wrapped).Code)

	assert.True(t, apperr.IsNotFound(fmt.Errorf("x: %w", apperr.NotFound("User"))))
	assert.False(t, apperr.IsNotFound(errors.New("plain")))
	assert.Nil(t, apperr.As(errors.New("plain")))
}
