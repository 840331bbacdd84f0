package get_occupancy

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/venuegrid/VG-ReservationEngine/internal/api/handlers"
	"github.com/venuegrid/VG-ReservationEngine/internal/service/venues"
)

const (
	msgInvalidTenantID     = "некорректный ID заведения"
	msgVenueNotFound       = "заведение не найдено"
	msgOccupancyNotTracked = "заведение не отслеживает заполненность"
)

type Handler struct {
	service VenueService
	logger  Logger
}

func NewHandler(service VenueService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/tenants/{tenantId}/occupancy
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	tenantID, err := strconv.ParseInt(vars["tenantId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /tenants/{tenantId}/occupancy - Invalid tenant ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTenantID)
		return
	}

	result, err := h.service.GetOccupancy(r.Context(), tenantID)
	if err != nil {
		switch {
		case errors.Is(err, venues.ErrVenueNotFound):
			h.logger.Warn("GET /tenants/{tenantId}/occupancy - Venue not found: tenant_id=%d", tenantID)
			handlers.RespondNotFound(w, msgVenueNotFound)

		case errors.Is(err, venues.ErrOccupancyNotTracked):
			h.logger.Warn("GET /tenants/{tenantId}/occupancy - Occupancy not tracked: tenant_id=%d", tenantID)
			handlers.RespondError(w, http.StatusUnprocessableEntity, msgOccupancyNotTracked)

		case errors.Is(err, venues.ErrInvalidInput):
			h.logger.Warn("GET /tenants/{tenantId}/occupancy - Invalid input: tenant_id=%d", tenantID)
			handlers.RespondBadRequest(w, msgInvalidTenantID)

		default:
			h.logger.Error("GET /tenants/{tenantId}/occupancy - Failed: tenant_id=%d, error=%v", tenantID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /tenants/{tenantId}/occupancy - Occupancy %d/%d: tenant_id=%d",
		result.Current, result.Capacity, tenantID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
