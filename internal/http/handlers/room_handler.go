package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/staywell/staywell-server/internal/domain"
	"github.com/staywell/staywell-server/internal/http/middleware"
	"github.com/staywell/staywell-server/internal/http/response"
	"github.com/staywell/staywell-server/internal/repo/postgres"
	"github.com/staywell/staywell-server/pkg/logger"
)

// RoomHandler covers listing CRUD. Mutations require the host role and only
// touch rooms owned by the session identity.
type RoomHandler struct {
	Rooms postgres.RoomRepo
	Users postgres.UserRepo
}

func NewRoomHandler(rooms postgres.RoomRepo, users postgres.UserRepo) *RoomHandler {
	return &RoomHandler{Rooms: rooms, Users: users}
}

// Create handles POST /room (host only)
func (h *RoomHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := middleware.Claims(r)

	var in domain.RoomReq
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.BadRequest(w, "invalid input")
		return
	}
	if in.Title == "" || in.Price < 0 {
		response.Unprocessable(w, "title is required and price must not be negative")
		return
	}

	hostName := ""
	if user, err := h.Users.FindByEmail(r.Context(), claims.Email); err == nil && user != nil {
		hostName = user.DisplayName
	}

	room, err := h.Rooms.Create(r.Context(), claims.Email, hostName, &in)
	if err != nil {
		logger.ErrorContext(r.Context(), "Failed to create room", "error", err)
		response.InternalError(w, "failed to create room")
		return
	}

	response.WriteJSON(w, http.StatusCreated, room)
}

// List handles GET /rooms?category=
func (h *RoomHandler) List(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	if category == "null" {
		category = ""
	}

	rooms, err := h.Rooms.List(r.Context(), category)
	if err != nil {
		logger.ErrorContext(r.Context(), "Failed to list rooms", "error", err)
		response.InternalError(w, "failed to list rooms")
		return
	}

	if rooms == nil {
		rooms = []domain.Room{}
	}
	response.WriteJSON(w, http.StatusOK, rooms)
}

// Get handles GET /room/{id}
func (h *RoomHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := roomID(r)
	if err != nil {
		response.BadRequest(w, "invalid room id")
		return
	}

	room, err := h.Rooms.GetByID(r.Context(), id)
	if err != nil {
		logger.ErrorContext(r.Context(), "Failed to load room", "error", err, "room_id", id)
		response.InternalError(w, "failed to load room")
		return
	}
	if room == nil {
		response.NotFound(w, "room not found")
		return
	}

	response.WriteJSON(w, http.StatusOK, room)
}

// Update handles PUT /room/update/{id} (host only, own rooms)
func (h *RoomHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims := middleware.Claims(r)

	id, err := roomID(r)
	if err != nil {
		response.BadRequest(w, "invalid room id")
		return
	}

	var in domain.RoomReq
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.BadRequest(w, "invalid input")
		return
	}

	ok, err := h.Rooms.UpdateOwned(r.Context(), id, claims.Email, &in)
	if err != nil {
		logger.ErrorContext(r.Context(), "Failed to update room", "error", err, "room_id", id)
		response.InternalError(w, "failed to update room")
		return
	}
	if !ok {
		response.NotFound(w, "room not found")
		return
	}

	response.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// SetStatus handles PATCH /room/status/{id}
func (h *RoomHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	id, err := roomID(r)
	if err != nil {
		response.BadRequest(w, "invalid room id")
		return
	}

	var in struct {
		Status bool `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.BadRequest(w, "invalid input")
		return
	}

	ok, err := h.Rooms.SetBooked(r.Context(), id, in.Status)
	if err != nil {
		logger.ErrorContext(r.Context(), "Failed to update room status", "error", err, "room_id", id)
		response.InternalError(w, "failed to update room status")
		return
	}
	if !ok {
		response.NotFound(w, "room not found")
		return
	}

	response.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Delete handles DELETE /room/{id} (host only, own rooms)
func (h *RoomHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims := middleware.Claims(r)

	id, err := roomID(r)
	if err != nil {
		response.BadRequest(w, "invalid room id")
		return
	}

	ok, err := h.Rooms.DeleteOwned(r.Context(), id, claims.Email)
	if err != nil {
		logger.ErrorContext(r.Context(), "Failed to delete room", "error", err, "room_id", id)
		response.InternalError(w, "failed to delete room")
		return
	}
	if !ok {
		response.NotFound(w, "room not found")
		return
	}

	response.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// MyListings handles GET /my-listings (host only). The scope email comes
// from the session claim, never from the request.
func (h *RoomHandler) MyListings(w http.ResponseWriter, r *http.Request) {
	claims := middleware.Claims(r)

	rooms, err := h.Rooms.ListByHost(r.Context(), claims.Email)
	if err != nil {
		logger.ErrorContext(r.Context(), "Failed to list host rooms", "error", err)
		response.InternalError(w, "failed to list rooms")
		return
	}

	if rooms == nil {
		rooms = []domain.Room{}
	}
	response.WriteJSON(w, http.StatusOK, rooms)
}

func roomID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}
