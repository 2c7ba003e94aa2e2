// Copyright (c) 2026 Taskly. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package migration

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
TestConvertToPgx5DSN rewrites postgres schemes for the pgx5 driver.
*/
func TestConvertToPgx5DSN(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"postgres://u:p@db:5432/taskly", "pgx5://u:p@db:5432/taskly"},
		{"postgresql://db/taskly", "pgx5://db/taskly"},
		{"pgx5://db/taskly", "pgx5://db/taskly"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, convertToPgx5DSN(tt.in))
		})
	}
}

/*
TestResolve_UnknownDriver rejects engines without migrations.
*/
func TestResolve_UnknownDriver(t *testing.T) {
	_, _, err := resolve("mysql", "mysql://db")
	assert.Error(t, err)
}

/*
TestRunUp_SQLite applies the embedded schema twice to prove idempotency.
*/
func TestRunUp_SQLite(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	path := filepath.Join(t.TempDir(), "taskly.db")

	require.NoError(t, RunUp("sqlite", path, logger))
	require.NoError(t, RunUp("sqlite", path, logger))

	db, err := sqlite.Open(context.Background(), path, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	for _, table := range []string{"users", "tasks"} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		require.NoError(t, err)
		assert.Equal(t, table, name)
	}
}
