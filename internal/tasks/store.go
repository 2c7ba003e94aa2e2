// Copyright (c) 2026 Taskly. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package tasks

import "context"

// # Task Data Access

// Repository defines the data access contract for tasks.
//
// Every method except Create takes the owner id and includes it in the
// query predicate; a row owned by someone else is never returned or changed.
type Repository interface {

	/*
		Create persists a new task.

		Parameters:
		  - context: context.Context
		  - task: *Task (ID and OwnerID already set)

		Returns:
		  - error: Persistence failures
	*/
	Create(context context.Context, task *Task) error

	/*
		List returns the owner's tasks, newest first.

		Parameters:
		  - context: context.Context
		  - filter: ListFilter

		Returns:
		  - []*Task: Possibly empty, never nil
		  - error: Database retrieval failures
	*/
	List(context context.Context, filter ListFilter) ([]*Task, error)

	/*
		Get returns one task owned by ownerID.

		Returns:
		  - *Task: Hydrated entity
		  - error: apperr.NotFound when absent or owned by someone else
	*/
	Get(context context.Context, id, ownerID string) (*Task, error)

	/*
		Update applies a partial update and returns the new state.

		Returns:
		  - *Task: Updated entity
		  - error: apperr.NotFound when absent or owned by someone else
	*/
	Update(context context.Context, id, ownerID string, patch Patch) (*Task, error)

	/*
		Toggle flips the completion flag and returns the new state.

		Returns:
		  - *Task: Updated entity
		  - error: apperr.NotFound when absent or owned by someone else
	*/
	Toggle(context context.Context, id, ownerID string) (*Task, error)

	/*
		Delete removes a task.

		Returns:
		  - bool: false when nothing matched
		  - error: Persistence failures
	*/
	Delete(context context.Context, id, ownerID string) (bool, error)
}
