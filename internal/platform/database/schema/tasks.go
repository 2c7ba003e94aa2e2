// Copyright (c) 2026 Taskly. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// TasksTable represents the 'tasks' table
type TasksTable struct {
	Table       string
	ID          string
	OwnerID     string
	Title       string
	Description string
	Completed   string
	CreatedAt   string
	UpdatedAt   string
}

// Tasks is the schema definition for tasks
var Tasks = TasksTable{
	Table:       "tasks",
	ID:          "id",
	OwnerID:     "owner_id",
	Title:       "title",
	Description: "description",
	Completed:   "completed",
	CreatedAt:   "created_at",
	UpdatedAt:   "updated_at",
}

// Columns returns all standard column names
func (t TasksTable) Columns() []string {
	return []string{t.ID, t.OwnerID, t.Title, t.Description, t.Completed, t.CreatedAt, t.UpdatedAt}
}
