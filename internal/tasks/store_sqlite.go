// Copyright (c) 2026 Taskly. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package tasks

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/taibuivan/taskly/internal/platform/database/schema"
	"github.com/taibuivan/taskly/internal/platform/dberr"
)

// SQLiteRepository implements the Repository interface on an embedded SQLite
// database. Timestamps are Unix milliseconds and completed is 0 or 1.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite implementation of the Repository.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

var (
	liteInsertTask = fmt.Sprintf(`INSERT INTO %s (%s) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		schema.Tasks.Table, taskColumns)

	liteSelectTask = fmt.Sprintf(`SELECT %s FROM %s WHERE %s = ? AND %s = ?`,
		taskColumns, schema.Tasks.Table, schema.Tasks.ID, schema.Tasks.OwnerID)

	liteUpdateTask = fmt.Sprintf(`
		UPDATE %[1]s SET
			%[2]s = COALESCE(?, %[2]s),
			%[3]s = CASE WHEN ? THEN NULLIF(?, '') ELSE %[3]s END,
			%[4]s = COALESCE(?, %[4]s),
			%[5]s = ?
		WHERE %[6]s = ? AND %[7]s = ?
		RETURNING %[8]s`,
		schema.Tasks.Table,
		schema.Tasks.Title,
		schema.Tasks.Description,
		schema.Tasks.Completed,
		schema.Tasks.UpdatedAt,
		schema.Tasks.ID,
		schema.Tasks.OwnerID,
		taskColumns,
	)

	liteToggleTask = fmt.Sprintf(`
		UPDATE %[1]s SET %[2]s = 1 - %[2]s, %[3]s = ?
		WHERE %[4]s = ? AND %[5]s = ?
		RETURNING %[6]s`,
		schema.Tasks.Table,
		schema.Tasks.Completed,
		schema.Tasks.UpdatedAt,
		schema.Tasks.ID,
		schema.Tasks.OwnerID,
		taskColumns,
	)

	liteDeleteTask = fmt.Sprintf(`DELETE FROM %s WHERE %s = ? AND %s = ?`,
		schema.Tasks.Table, schema.Tasks.ID, schema.Tasks.OwnerID)
)

// Create persists a new task.
func (repository *SQLiteRepository) Create(context context.Context, task *Task) error {
	now := time.Now().UTC().Truncate(time.Millisecond)
	task.CreatedAt = now
	task.UpdatedAt = now

	_, err := repository.db.ExecContext(context, liteInsertTask,
		task.ID,
		task.OwnerID,
		task.Title,
		task.Description,
		boolToInt(task.Completed),
		task.CreatedAt.UnixMilli(),
		task.UpdatedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("sqlite_task_repo_create_failed: %w", err)
	}

	return nil
}

// List returns the owner's tasks ordered newest first.
func (repository *SQLiteRepository) List(context context.Context, filter ListFilter) ([]*Task, error) {
	conditions := []string{fmt.Sprintf("%s = ?", schema.Tasks.OwnerID)}
	args := []any{filter.OwnerID}

	if completed := filter.Status.Completed(); completed != nil {
		conditions = append(conditions, fmt.Sprintf("%s = ?", schema.Tasks.Completed))
		args = append(args, boolToInt(*completed))
	}

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s ORDER BY %s DESC, %s DESC`,
		taskColumns,
		schema.Tasks.Table,
		strings.Join(conditions, " AND "),
		schema.Tasks.CreatedAt,
		schema.Tasks.ID,
	)

	rows, err := repository.db.QueryContext(context, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite_task_repo_list_failed: %w", err)
	}
	defer rows.Close()

	tasks := make([]*Task, 0)
	for rows.Next() {
		task, err := scanLiteTask(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite_task_repo_scan_failed: %w", err)
		}
		tasks = append(tasks, task)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite_task_repo_rows_failed: %w", err)
	}

	return tasks, nil
}

// Get returns one task owned by ownerID.
func (repository *SQLiteRepository) Get(context context.Context, id, ownerID string) (*Task, error) {
	task, err := scanLiteTask(repository.db.QueryRowContext(context, liteSelectTask, id, ownerID))
	if err != nil {
		return nil, dberr.Wrap(err, resourceName)
	}
	return task, nil
}

// Update applies a partial update in a single statement.
func (repository *SQLiteRepository) Update(context context.Context, id, ownerID string, patch Patch) (*Task, error) {
	var (
		title       any
		description string
		completed   any
	)
	if patch.Title != nil {
		title = *patch.Title
	}
	if patch.Description != nil {
		description = *patch.Description
	}
	if patch.Completed != nil {
		completed = boolToInt(*patch.Completed)
	}

	row := repository.db.QueryRowContext(context, liteUpdateTask,
		title,
		boolToInt(patch.Description != nil),
		description,
		completed,
		time.Now().UTC().UnixMilli(),
		id,
		ownerID,
	)

	task, err := scanLiteTask(row)
	if err != nil {
		return nil, dberr.Wrap(err, resourceName)
	}
	return task, nil
}

// Toggle flips the completion flag atomically.
func (repository *SQLiteRepository) Toggle(context context.Context, id, ownerID string) (*Task, error) {
	row := repository.db.QueryRowContext(context, liteToggleTask, time.Now().UTC().UnixMilli(), id, ownerID)

	task, err := scanLiteTask(row)
	if err != nil {
		return nil, dberr.Wrap(err, resourceName)
	}
	return task, nil
}

// Delete removes a task and reports whether a row matched.
func (repository *SQLiteRepository) Delete(context context.Context, id, ownerID string) (bool, error) {
	result, err := repository.db.ExecContext(context, liteDeleteTask, id, ownerID)
	if err != nil {
		return false, fmt.Errorf("sqlite_task_repo_delete_failed: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("sqlite_task_repo_rows_affected_failed: %w", err)
	}
	return affected > 0, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLiteTask(row rowScanner) (*Task, error) {
	var (
		task        Task
		description sql.NullString
		completed   int64
		createdAt   int64
		updatedAt   int64
	)

	err := row.Scan(
		&task.ID,
		&task.OwnerID,
		&task.Title,
		&description,
		&completed,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if description.Valid {
		task.Description = &description.String
	}
	task.Completed = completed != 0
	task.CreatedAt = time.UnixMilli(createdAt).UTC()
	task.UpdatedAt = time.UnixMilli(updatedAt).UTC()
	return &task, nil
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}
