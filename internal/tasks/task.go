// Copyright (c) 2026 Taskly. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package tasks implements the private to-do list owned by each account.

Every operation is scoped to the authenticated identity: storage queries carry
the owner id, and results are re-checked against the ownership policy before
they leave the service. A task that exists but belongs to someone else is
reported exactly like a task that does not exist.
*/
package tasks

import (
	"time"
)

// # Domain Entities

// Task is a single to-do item.
type Task struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"user_id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// # Filters

// StatusFilter narrows a listing by completion state.
type StatusFilter string

const (
	StatusAll        StatusFilter = "all"
	StatusCompleted  StatusFilter = "completed"
	StatusIncomplete StatusFilter = "incomplete"
)

// Completed returns the completion value to filter on, or nil for no filter.
func (filter StatusFilter) Completed() *bool {
	switch filter {
	case StatusCompleted:
		completed := true
		return &completed
	case StatusIncomplete:
		completed := false
		return &completed
	default:
		return nil
	}
}

// ListFilter scopes a listing. OwnerID is always required.
type ListFilter struct {
	OwnerID string
	Status  StatusFilter
}

// Patch carries the fields of a partial update. Nil fields are left unchanged.
type Patch struct {
	Title       *string
	Description *string
	Completed   *bool
}

// IsEmpty reports whether the patch changes nothing.
func (patch Patch) IsEmpty() bool {
	return patch.Title == nil && patch.Description == nil && patch.Completed == nil
}

// # Limits & Field Identifiers

const (
	MaxTitleLength       = 100
	MaxDescriptionLength = 1000
)

const (
	FieldID          = "id"
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldStatus      = "status"
)

// resourceName labels NOT_FOUND errors.
const resourceName = "Task"
