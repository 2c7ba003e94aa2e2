// Copyright (c) 2026 Taskly. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/taibuivan/taskly/internal/platform/apperr"
	"github.com/taibuivan/taskly/internal/platform/ctxutil"
	"github.com/taibuivan/taskly/internal/platform/sec"
	"github.com/taibuivan/taskly/internal/platform/validate"
	"github.com/taibuivan/taskly/pkg/pointer"
	"github.com/taibuivan/taskly/pkg/uuid"
)

// # Messages

const (
	MsgInvalidID          = "Invalid task ID format"
	MsgTitleRequired      = "Task title is required"
	MsgTitleTooLong       = "Task title must be 100 characters or less"
	MsgDescriptionTooLong = "Task description must be 1000 characters or less"
	MsgInvalidStatus      = "Status must be one of: all, completed, incomplete"
	MsgTaskDeleted        = "Task deleted successfully"
)

// # Service

// Service implements the task use cases for a single authenticated identity.
type Service struct {
	repository Repository
}

// NewService constructs a new [Service].
func NewService(repository Repository) *Service {
	return &Service{repository: repository}
}

// CreateInput is the payload accepted by [Service.Create].
type CreateInput struct {
	Title       string
	Description *string
	Completed   bool
}

// ListResult is a listing plus its size.
type ListResult struct {
	Tasks []*Task `json:"tasks"`
	Total int     `json:"total"`
}

/*
ParseStatusFilter converts a query value into a [StatusFilter].

An empty value means no filter. Unknown values are rejected rather than
silently ignored.
*/
func ParseStatusFilter(raw string) (StatusFilter, error) {
	switch filter := StatusFilter(strings.ToLower(strings.TrimSpace(raw))); filter {
	case "", StatusAll:
		return StatusAll, nil
	case StatusCompleted, StatusIncomplete:
		return filter, nil
	default:
		return "", validate.RequiredError(FieldStatus, MsgInvalidStatus)
	}
}

/*
List returns the identity's tasks, newest first.

Parameters:
  - context: context.Context
  - identity: sec.Identity
  - status: StatusFilter

Returns:
  - *ListResult: Tasks and their count
  - error: Storage failures
*/
func (service *Service) List(context context.Context, identity sec.Identity, status StatusFilter) (*ListResult, error) {
	tasks, err := service.repository.List(context, ListFilter{OwnerID: identity.ID, Status: status})
	if err != nil {
		return nil, fmt.Errorf("task_service_list_failed: %w", err)
	}

	owned := make([]*Task, 0, len(tasks))
	for _, task := range tasks {
		if identity.Owns(task.OwnerID) {
			owned = append(owned, task)
		}
	}

	return &ListResult{Tasks: owned, Total: len(owned)}, nil
}

/*
Create validates and persists a task owned by the identity.

Parameters:
  - context: context.Context
  - identity: sec.Identity
  - input: CreateInput

Returns:
  - *Task: The stored task
  - error: ValidationError or storage failures
*/
func (service *Service) Create(context context.Context, identity sec.Identity, input CreateInput) (*Task, error) {
	// ── 1. Validate ──
	title := strings.TrimSpace(input.Title)
	description := normalizeDescription(input.Description)

	v := &validate.Validator{}
	v.Custom(FieldTitle, title == "", MsgTitleRequired)
	v.Custom(FieldTitle, utf8.RuneCountInString(title) > MaxTitleLength, MsgTitleTooLong)
	v.Custom(FieldDescription, description != nil && utf8.RuneCountInString(*description) > MaxDescriptionLength, MsgDescriptionTooLong)
	if err := v.Err(); err != nil {
		return nil, err
	}

	// ── 2. Persist ──
	task := &Task{
		ID:          uuid.New(),
		OwnerID:     identity.ID,
		Title:       title,
		Description: description,
		Completed:   input.Completed,
	}

	if err := service.repository.Create(context, task); err != nil {
		return nil, fmt.Errorf("task_service_create_failed: %w", err)
	}

	ctxutil.GetLogger(context).InfoContext(context, "task_created", slog.String("task_id", task.ID))
	return task, nil
}

// Get returns a single task owned by the identity.
func (service *Service) Get(context context.Context, identity sec.Identity, id string) (*Task, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}

	task, err := service.repository.Get(context, id, identity.ID)
	if err != nil {
		return nil, notFoundOr(err, "task_service_get_failed")
	}

	return service.owned(identity, task)
}

/*
Update applies a partial update to a task owned by the identity.

Description: A provided but blank description clears it. An empty patch
returns the current state unchanged.
*/
func (service *Service) Update(context context.Context, identity sec.Identity, id string, patch Patch) (*Task, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}

	// ── 1. Validate ──
	v := &validate.Validator{}
	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		patch.Title = pointer.To(title)
		v.Custom(FieldTitle, title == "", MsgTitleRequired)
		v.Custom(FieldTitle, utf8.RuneCountInString(title) > MaxTitleLength, MsgTitleTooLong)
	}
	if patch.Description != nil {
		description := strings.TrimSpace(*patch.Description)
		patch.Description = pointer.To(description)
		v.Custom(FieldDescription, utf8.RuneCountInString(description) > MaxDescriptionLength, MsgDescriptionTooLong)
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	if patch.IsEmpty() {
		return service.Get(context, identity, id)
	}

	// ── 2. Persist ──
	task, err := service.repository.Update(context, id, identity.ID, patch)
	if err != nil {
		return nil, notFoundOr(err, "task_service_update_failed")
	}

	return service.owned(identity, task)
}

// Toggle flips the completion flag of a task owned by the identity.
func (service *Service) Toggle(context context.Context, identity sec.Identity, id string) (*Task, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}

	task, err := service.repository.Toggle(context, id, identity.ID)
	if err != nil {
		return nil, notFoundOr(err, "task_service_toggle_failed")
	}

	return service.owned(identity, task)
}

// Delete removes a task owned by the identity.
func (service *Service) Delete(context context.Context, identity sec.Identity, id string) error {
	if err := validateID(id); err != nil {
		return err
	}

	deleted, err := service.repository.Delete(context, id, identity.ID)
	if err != nil {
		return fmt.Errorf("task_service_delete_failed: %w", err)
	}
	if !deleted {
		return apperr.NotFound(resourceName)
	}

	ctxutil.GetLogger(context).InfoContext(context, "task_deleted", slog.String("task_id", id))
	return nil
}

// # Helpers

// owned enforces the ownership policy on a row returned by storage.
func (service *Service) owned(identity sec.Identity, task *Task) (*Task, error) {
	if task == nil || !identity.Owns(task.OwnerID) {
		return nil, apperr.NotFound(resourceName)
	}
	return task, nil
}

func validateID(id string) error {
	if !uuid.Valid(id) {
		return validate.RequiredError(FieldID, MsgInvalidID)
	}
	return nil
}

func notFoundOr(err error, event string) error {
	if apperr.IsNotFound(err) {
		return apperr.NotFound(resourceName)
	}
	return fmt.Errorf("%s: %w", event, err)
}

// normalizeDescription trims the value and maps blank to nil.
func normalizeDescription(description *string) *string {
	if description == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*description)
	if trimmed == "" {
		return nil
	}
	return pointer.To(trimmed)
}
