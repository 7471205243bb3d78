package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/staywell/staywell-server/internal/domain"
	"github.com/staywell/staywell-server/internal/http/middleware"
	"github.com/staywell/staywell-server/internal/http/response"
	"github.com/staywell/staywell-server/internal/service"
	"github.com/staywell/staywell-server/pkg/logger"
)

type BookingHandler struct {
	Bookings service.BookingService
}

func NewBookingHandler(bookings service.BookingService) *BookingHandler {
	return &BookingHandler{Bookings: bookings}
}

// Create handles POST /booking (authenticated). The guest identity always
// comes from the verified session.
func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := middleware.Claims(r)

	var in domain.BookingReq
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.BadRequest(w, "invalid input")
		return
	}

	booking, err := h.Bookings.Create(r.Context(), claims.Email, &in)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			response.Unprocessable(w, err.Error())
		case errors.Is(err, domain.ErrNotFound):
			response.NotFound(w, "room not found")
		default:
			logger.ErrorContext(r.Context(), "Failed to create booking", "error", err)
			response.InternalError(w, "failed to create booking")
		}
		return
	}

	response.WriteJSON(w, http.StatusCreated, booking)
}

// MyBookings handles GET /my-bookings (authenticated, guest scope)
func (h *BookingHandler) MyBookings(w http.ResponseWriter, r *http.Request) {
	claims := middleware.Claims(r)

	bookings, err := h.Bookings.ListForGuest(r.Context(), claims.Email)
	if err != nil {
		logger.ErrorContext(r.Context(), "Failed to list guest bookings", "error", err)
		response.InternalError(w, "failed to list bookings")
		return
	}

	if bookings == nil {
		bookings = []domain.Booking{}
	}
	response.WriteJSON(w, http.StatusOK, bookings)
}

// ManageBookings handles GET /manage-bookings (host only, host scope)
func (h *BookingHandler) ManageBookings(w http.ResponseWriter, r *http.Request) {
	claims := middleware.Claims(r)

	bookings, err := h.Bookings.ListForHost(r.Context(), claims.Email)
	if err != nil {
		logger.ErrorContext(r.Context(), "Failed to list host bookings", "error", err)
		response.InternalError(w, "failed to list bookings")
		return
	}

	if bookings == nil {
		bookings = []domain.Booking{}
	}
	response.WriteJSON(w, http.StatusOK, bookings)
}

// Delete handles DELETE /booking/{id} (authenticated, owning guest only)
func (h *BookingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims := middleware.Claims(r)

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "invalid booking id")
		return
	}

	if err := h.Bookings.Delete(r.Context(), id, claims.Email); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			response.NotFound(w, "booking not found")
			return
		}
		logger.ErrorContext(r.Context(), "Failed to delete booking", "error", err, "booking_id", id)
		response.InternalError(w, "failed to delete booking")
		return
	}

	response.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}
