// Copyright (c) 2026 Taskly. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package tasks

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/taskly/internal/platform/request"
	"github.com/taibuivan/taskly/internal/platform/respond"
	"github.com/taibuivan/taskly/pkg/pointer"
)

// # Definitions & Constructors

// Handler implements the task HTTP endpoints.
//
// Every route expects the authentication middleware to have run; a request
// without an identity is refused with 401.
type Handler struct {
	taskService *Service
}

// NewHandler constructs a new [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{taskService: service}
}

// Routes returns a [chi.Router] configured with task routes.
//
// # Endpoints
//   - GET    /             : Lists tasks, optional ?status=all|completed|incomplete.
//   - POST   /             : Creates a task.
//   - GET    /{id}         : Returns one task.
//   - PUT    /{id}         : Partially updates a task.
//   - DELETE /{id}         : Deletes a task.
//   - PATCH  /{id}/toggle  : Flips the completion flag.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.list)
	router.Post("/", handler.create)

	router.Route("/{"+FieldID+"}", func(r chi.Router) {
		r.Get("/", handler.get)
		r.Put("/", handler.update)
		r.Delete("/", handler.delete)
		r.Patch("/toggle", handler.toggle)
	})

	return router
}

// # Request Payloads

type createRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Completed   *bool   `json:"completed"`
}

type updateRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Completed   *bool   `json:"completed"`
}

/*
List returns the caller's tasks, newest first.

GET /api/v1/tasks?status=

Response:
  - 200: ListResult
  - 400: Unknown status filter
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	status, err := ParseStatusFilter(request.URL.Query().Get(FieldStatus))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.taskService.List(request.Context(), identity, status)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, result)
}

/*
Create adds a task for the caller.

POST /api/v1/tasks

Response:
  - 201: Task
  - 400: Missing or oversized fields
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input createRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	task, err := handler.taskService.Create(request.Context(), identity, CreateInput{
		Title:       input.Title,
		Description: input.Description,
		Completed:   pointer.Val(input.Completed),
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, task)
}

// get handles GET /api/v1/tasks/{id}.
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	task, err := handler.taskService.Get(request.Context(), identity, requestutil.Param(request, FieldID))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, task)
}

/*
Update applies the provided fields to a task.

PUT /api/v1/tasks/{id}

Response:
  - 200: Task
  - 400: Invalid id or fields
  - 404: Missing or owned by someone else
*/
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	task, err := handler.taskService.Update(request.Context(), identity, requestutil.Param(request, FieldID), Patch{
		Title:       input.Title,
		Description: input.Description,
		Completed:   input.Completed,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, task)
}

// delete handles DELETE /api/v1/tasks/{id}.
func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.taskService.Delete(request.Context(), identity, requestutil.Param(request, FieldID)); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Message(writer, MsgTaskDeleted)
}

// toggle handles PATCH /api/v1/tasks/{id}/toggle.
func (handler *Handler) toggle(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	task, err := handler.taskService.Toggle(request.Context(), identity, requestutil.Param(request, FieldID))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, task)
}
