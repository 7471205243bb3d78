package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/staywell/staywell-server/internal/domain"
	"github.com/staywell/staywell-server/internal/http/response"
	"github.com/staywell/staywell-server/internal/service"
	"github.com/staywell/staywell-server/pkg/logger"
)

type UserHandler struct {
	Users service.UserService
}

func NewUserHandler(users service.UserService) *UserHandler {
	return &UserHandler{Users: users}
}

// Get handles GET /user/{email}
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")

	user, err := h.Users.Get(r.Context(), email)
	if err != nil {
		logger.ErrorContext(r.Context(), "Failed to load identity", "error", err, "email", email)
		response.InternalError(w, "failed to load user")
		return
	}
	if user == nil {
		response.NotFound(w, "user not found")
		return
	}

	response.WriteJSON(w, http.StatusOK, user)
}

// List handles GET /users (admin only)
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.Users.List(r.Context())
	if err != nil {
		logger.ErrorContext(r.Context(), "Failed to list identities", "error", err)
		response.InternalError(w, "failed to list users")
		return
	}

	if users == nil {
		users = []domain.User{}
	}
	response.WriteJSON(w, http.StatusOK, users)
}

// Upsert handles PUT /user
func (h *UserHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	var in domain.UserUpsertReq
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.BadRequest(w, "invalid input")
		return
	}

	user, err := h.Users.Upsert(r.Context(), &in)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			response.Unprocessable(w, err.Error())
			return
		}
		logger.ErrorContext(r.Context(), "Failed to upsert identity", "error", err, "email", in.Email)
		response.InternalError(w, "failed to save user")
		return
	}

	response.WriteJSON(w, http.StatusOK, user)
}

// Update handles PATCH /users/update/{email}
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")

	var in domain.UserUpdateReq
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.BadRequest(w, "invalid input")
		return
	}

	user, err := h.Users.UpdateProfile(r.Context(), email, &in)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			response.NotFound(w, "user not found")
		case errors.Is(err, domain.ErrInvalidInput):
			response.Unprocessable(w, err.Error())
		default:
			logger.ErrorContext(r.Context(), "Failed to update identity", "error", err, "email", email)
			response.InternalError(w, "failed to update user")
		}
		return
	}

	response.WriteJSON(w, http.StatusOK, user)
}
