package get_booking

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/venuegrid/VG-ReservationEngine/internal/api/handlers"
	"github.com/venuegrid/VG-ReservationEngine/internal/service/bookings"
)

const (
	msgInvalidTenantID = "некорректный ID заведения"
	msgNotFound        = "бронирование не найдено"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/tenants/{tenantId}/bookings/{bookingId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	tenantID, err := strconv.ParseInt(vars["tenantId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /tenants/{tenantId}/bookings/{bookingId} - Invalid tenant ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTenantID)
		return
	}
	bookingID := vars["bookingId"]

	booking, err := h.service.GetByID(r.Context(), bookingID, tenantID)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrBookingNotFound):
			h.logger.Warn("GET /tenants/{tenantId}/bookings/{bookingId} - Booking not found: booking_id=%s", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		default:
			h.logger.Error("GET /tenants/{tenantId}/bookings/{bookingId} - Failed to get booking: booking_id=%s, error=%v",
				bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /tenants/{tenantId}/bookings/{bookingId} - Booking fetched: booking_id=%s", bookingID)
	handlers.RespondJSON(w, http.StatusOK, booking)
}
