// Copyright (c) 2026 Taskly. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sqlite_test

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/taskly/internal/platform/sqlite"
)

/*
TestOpen verifies a fresh file opens with foreign keys enforced.
*/
func TestOpen(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	db, err := sqlite.Open(context.Background(), filepath.Join(t.TempDir(), "taskly.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	var foreignKeys int
	require.NoError(t, db.QueryRow("PRAGMA foreign_keys").Scan(&foreignKeys))
	assert.Equal(t, 1, foreignKeys)

	assert.NoError(t, sqlite.Ping(context.Background(), db))
}

/*
TestOpen_EmptyPath rejects a blank path.
*/
func TestOpen_EmptyPath(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	_, err := sqlite.Open(context.Background(), "  ", logger)
	assert.Error(t, err)
}
