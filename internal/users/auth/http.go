// Copyright (c) 2026 Taskly. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/taskly/internal/platform/apperr"
	"github.com/taibuivan/taskly/internal/platform/ctxutil"
	requestutil "github.com/taibuivan/taskly/internal/platform/request"
	"github.com/taibuivan/taskly/internal/platform/respond"
)

// # Definitions & Constructors

// Handler implements authentication-related HTTP endpoints.
//
// # Scope
//
// The handler is a thin transport layer: it decodes payloads, resolves the
// client address and hands everything else to [Service].
type Handler struct {
	authService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{authService: service}
}

// Routes returns a [chi.Router] configured with authentication-specific routes.
//
// Only the credential endpoints pass through throttle; refresh, logout and me
// are never rate limited.
//
// # Endpoints
//   - POST /signup  : Creates an account and returns tokens.
//   - POST /login   : Authenticates and returns tokens.
//   - POST /refresh : Exchanges a refresh token for an access token.
//   - POST /logout  : Acknowledges logout.
//   - GET  /me      : Returns the authenticated account.
func (handler *Handler) Routes(authenticate, throttle func(http.Handler) http.Handler) chi.Router {
	router := chi.NewRouter()

	// Credential endpoints
	router.With(throttle).Post("/signup", handler.signup)
	router.With(throttle).Post("/login", handler.login)

	// Public endpoints
	router.Post("/refresh", handler.refresh)
	router.Post("/logout", handler.logout)

	// Protected endpoints
	router.Group(func(r chi.Router) {
		r.Use(authenticate)
		r.Get("/me", handler.me)
	})

	return router
}

// # Request Payloads

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type refreshResponse struct {
	Token string `json:"token"`
}

/*
Signup handles the creation of a new user account.

POST /api/v1/auth/signup

Request:
  - Body: credentialsRequest (Email, Password)

Response:
  - 201: Session: Identity, access token and refresh token
  - 400: Weak password or malformed input
  - 409: Email already registered
  - 429: Too many failed attempts from this client
*/
func (handler *Handler) signup(writer http.ResponseWriter, request *http.Request) {
	var input credentialsRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.authService.Signup(request.Context(), Credentials{
		Email:    input.Email,
		Password: input.Password,
		ClientIP: ctxutil.GetClientIP(request.Context()),
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, session)
}

/*
Login authenticates a user and issues tokens.

POST /api/v1/auth/login

Request:
  - Body: credentialsRequest (Email, Password)

Response:
  - 200: Session: Identity, access token and refresh token
  - 401: Incorrect email or password
  - 429: Too many failed attempts from this client
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input credentialsRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.authService.Login(request.Context(), Credentials{
		Email:    input.Email,
		Password: input.Password,
		ClientIP: ctxutil.GetClientIP(request.Context()),
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, session)
}

/*
Refresh issues a new access token using a valid refresh token.

POST /api/v1/auth/refresh

Request:
  - Query: refresh_token, or
  - Body: refreshRequest (RefreshToken)

Response:
  - 200: refreshResponse: New access token
  - 401: Missing, invalid, expired or access-typed token
*/
func (handler *Handler) refresh(writer http.ResponseWriter, request *http.Request) {
	token := strings.TrimSpace(request.URL.Query().Get(FieldRefreshToken))

	if token == "" && request.ContentLength != 0 {
		var input refreshRequest
		if err := requestutil.DecodeJSON(request, &input); err != nil {
			respond.Error(writer, request, err)
			return
		}
		token = strings.TrimSpace(input.RefreshToken)
	}

	if token == "" {
		respond.Error(writer, request, apperr.InvalidCredentials())
		return
	}

	accessToken, err := handler.authService.Refresh(request.Context(), token)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, refreshResponse{Token: accessToken})
}

/*
Logout acknowledges a client-side logout.

POST /api/v1/auth/logout

Response:
  - 200: Confirmation message
*/
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	handler.authService.Logout(request.Context())
	respond.Message(writer, MsgLoggedOut)
}

/*
Me returns the authenticated account.

GET /api/v1/auth/me

Response:
  - 200: User
  - 401: Not authenticated or account no longer exists
*/
func (handler *Handler) me(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.authService.Me(request.Context(), identity)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}
