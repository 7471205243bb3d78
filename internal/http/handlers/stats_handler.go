package handlers

import (
	"net/http"

	"github.com/staywell/staywell-server/internal/http/middleware"
	"github.com/staywell/staywell-server/internal/http/response"
	"github.com/staywell/staywell-server/internal/metrics"
	"github.com/staywell/staywell-server/internal/service"
	"github.com/staywell/staywell-server/pkg/logger"
)

// StatsHandler serves the role-scoped dashboard summaries. Route access is
// enforced by the middleware chain; each handler only decides the scope.
type StatsHandler struct {
	Stats     service.StatsService
	Collector metrics.Collector
}

func NewStatsHandler(stats service.StatsService, collector metrics.Collector) *StatsHandler {
	return &StatsHandler{Stats: stats, Collector: collector}
}

// Admin handles GET /admin-stat (admin only)
func (h *StatsHandler) Admin(w http.ResponseWriter, r *http.Request) {
	h.Collector.RecordStatsRequest("admin")

	stats, err := h.Stats.AdminStats(r.Context())
	if err != nil {
		logger.ErrorContext(r.Context(), "Failed to aggregate admin statistics", "error", err)
		response.InternalError(w, "failed to load statistics")
		return
	}

	response.WriteJSON(w, http.StatusOK, stats)
}

// Host handles GET /host-stat (host only)
func (h *StatsHandler) Host(w http.ResponseWriter, r *http.Request) {
	h.Collector.RecordStatsRequest("host")
	claims := middleware.Claims(r)

	stats, err := h.Stats.HostStats(r.Context(), claims.Email)
	if err != nil {
		logger.ErrorContext(r.Context(), "Failed to aggregate host statistics", "error", err)
		response.InternalError(w, "failed to load statistics")
		return
	}

	response.WriteJSON(w, http.StatusOK, stats)
}

// Guest handles GET /guest-stat (any authenticated identity)
func (h *StatsHandler) Guest(w http.ResponseWriter, r *http.Request) {
	h.Collector.RecordStatsRequest("guest")
	claims := middleware.Claims(r)

	stats, err := h.Stats.GuestStats(r.Context(), claims.Email)
	if err != nil {
		logger.ErrorContext(r.Context(), "Failed to aggregate guest statistics", "error", err)
		response.InternalError(w, "failed to load statistics")
		return
	}

	response.WriteJSON(w, http.StatusOK, stats)
}
