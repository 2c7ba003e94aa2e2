// Copyright (c) 2026 Taskly. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package tasks

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/taskly/internal/platform/database/schema"
	"github.com/taibuivan/taskly/internal/platform/dberr"
	"github.com/taibuivan/taskly/pkg/pointer"
)

// # Task Repository

// PostgresRepository implements the Repository interface using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL implementation of the Repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

var (
	taskColumns = strings.Join(schema.Tasks.Columns(), ", ")

	pgInsertTask = fmt.Sprintf(`INSERT INTO %s (%s) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		schema.Tasks.Table, taskColumns)

	pgSelectTask = fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 AND %s = $2`,
		taskColumns, schema.Tasks.Table, schema.Tasks.ID, schema.Tasks.OwnerID)

	pgUpdateTask = fmt.Sprintf(`
		UPDATE %[1]s SET
			%[2]s = COALESCE($3, %[2]s),
			%[3]s = CASE WHEN $4::boolean THEN NULLIF($5, '') ELSE %[3]s END,
			%[4]s = COALESCE($6, %[4]s),
			%[5]s = $7
		WHERE %[6]s = $1 AND %[7]s = $2
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

	pgToggleTask = fmt.Sprintf(`
		UPDATE %[1]s SET %[2]s = NOT %[2]s, %[3]s = $3
		WHERE %[4]s = $1 AND %[5]s = $2
		RETURNING %[6]s`,
		schema.Tasks.Table,
		schema.Tasks.Completed,
		schema.Tasks.UpdatedAt,
		schema.Tasks.ID,
		schema.Tasks.OwnerID,
		taskColumns,
	)

	pgDeleteTask = fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s = $2`,
		schema.Tasks.Table, schema.Tasks.ID, schema.Tasks.OwnerID)
)

/*
Create persists a new task.

Parameters:
  - context: context.Context
  - task: *Task

Returns:
  - error: Persistence failures
*/
func (repository *PostgresRepository) Create(context context.Context, task *Task) error {
	now := time.Now().UTC()
	task.CreatedAt = now
	task.UpdatedAt = now

	_, err := repository.pool.Exec(context, pgInsertTask,
		task.ID,
		task.OwnerID,
		task.Title,
		task.Description,
		task.Completed,
		task.CreatedAt,
		task.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres_task_repo_create_failed: %w", err)
	}

	return nil
}

/*
List returns the owner's tasks ordered newest first.

Parameters:
  - context: context.Context
  - filter: ListFilter

Returns:
  - []*Task: Possibly empty
  - error: Database retrieval failures
*/
func (repository *PostgresRepository) List(context context.Context, filter ListFilter) ([]*Task, error) {
	// ── 1. Build Query ──
	query, args := pgListQuery(filter)

	// ── 2. Execute ──
	rows, err := repository.pool.Query(context, query, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres_task_repo_list_failed: %w", err)
	}
	defer rows.Close()

	// ── 3. Hydrate ──
	tasks := make([]*Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres_task_repo_scan_failed: %w", err)
		}
		tasks = append(tasks, task)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres_task_repo_rows_failed: %w", err)
	}

	return tasks, nil
}

// Get returns one task owned by ownerID.
func (repository *PostgresRepository) Get(context context.Context, id, ownerID string) (*Task, error) {
	task, err := scanTask(repository.pool.QueryRow(context, pgSelectTask, id, ownerID))
	if err != nil {
		return nil, dberr.Wrap(err, resourceName)
	}
	return task, nil
}

// Update applies a partial update in a single statement.
func (repository *PostgresRepository) Update(context context.Context, id, ownerID string, patch Patch) (*Task, error) {
	row := repository.pool.QueryRow(context, pgUpdateTask, pgUpdateArgs(id, ownerID, patch, time.Now().UTC())...)

	task, err := scanTask(row)
	if err != nil {
		return nil, dberr.Wrap(err, resourceName)
	}
	return task, nil
}

// Toggle flips the completion flag atomically.
func (repository *PostgresRepository) Toggle(context context.Context, id, ownerID string) (*Task, error) {
	task, err := scanTask(repository.pool.QueryRow(context, pgToggleTask, id, ownerID, time.Now().UTC()))
	if err != nil {
		return nil, dberr.Wrap(err, resourceName)
	}
	return task, nil
}

// Delete removes a task and reports whether a row matched.
func (repository *PostgresRepository) Delete(context context.Context, id, ownerID string) (bool, error) {
	tag, err := repository.pool.Exec(context, pgDeleteTask, id, ownerID)
	if err != nil {
		return false, fmt.Errorf("postgres_task_repo_delete_failed: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// pgUpdateArgs lines a patch up with the pgUpdateTask placeholders. $4 flags a
// provided description so that an empty one clears the column.
func pgUpdateArgs(id, ownerID string, patch Patch, now time.Time) []any {
	return []any{
		id,
		ownerID,
		patch.Title,
		patch.Description != nil,
		pointer.Val(patch.Description),
		patch.Completed,
		now,
	}
}

// pgListQuery builds the owner-scoped listing statement and its arguments.
func pgListQuery(filter ListFilter) (string, []any) {
	conditions := []string{fmt.Sprintf("%s = $1", schema.Tasks.OwnerID)}
	args := []any{filter.OwnerID}

	if completed := filter.Status.Completed(); completed != nil {
		args = append(args, *completed)
		conditions = append(conditions, fmt.Sprintf("%s = $%d", schema.Tasks.Completed, len(args)))
	}

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s ORDER BY %s DESC, %s DESC`,
		taskColumns,
		schema.Tasks.Table,
		strings.Join(conditions, " AND "),
		schema.Tasks.CreatedAt,
		schema.Tasks.ID,
	)
	return query, args
}

func scanTask(row pgx.Row) (*Task, error) {
	task := &Task{}
	err := row.Scan(
		&task.ID,
		&task.OwnerID,
		&task.Title,
		&task.Description,
		&task.Completed,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return task, nil
}
