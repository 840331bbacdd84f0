package change_booking

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/venuegrid/VG-ReservationEngine/internal/api/handlers"
	changeBooking "github.com/venuegrid/VG-ReservationEngine/internal/usecase/change_booking"
)

const (
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgInvalidTenantID     = "некорректный ID заведения"
	msgPastStartTime       = "время начала бронирования уже прошло"
	msgBookingNotFound     = "бронирование не найдено"
	msgNotReschedulable    = "бронирование нельзя перенести в текущем статусе"
	msgResourceNotFound    = "ресурс не найден"
	msgResourceUnavailable = "ресурс недоступен в выбранный интервал"
	msgSlotConflict        = "запрошенный интервал уже занят"
)

type Handler struct {
	useCase ChangeBookingUseCase
	logger  Logger
}

func NewHandler(useCase ChangeBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/tenants/{tenantId}/bookings/{bookingId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	tenantID, err := strconv.ParseInt(vars["tenantId"], 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /tenants/{tenantId}/bookings/{bookingId} - Invalid tenant ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTenantID)
		return
	}
	bookingID := vars["bookingId"]

	var req ChangeBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /tenants/{tenantId}/bookings/{bookingId} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(bookingID, tenantID))
	if err != nil {
		switch {
		case errors.Is(err, changeBooking.ErrInvalidInput):
			h.logger.Warn("PATCH /tenants/{tenantId}/bookings/{bookingId} - Invalid input: booking_id=%s, error=%v", bookingID, err)
			handlers.RespondBadRequest(w, err.Error())

		case errors.Is(err, changeBooking.ErrPastStartTime):
			h.logger.Warn("PATCH /tenants/{tenantId}/bookings/{bookingId} - Past start time: booking_id=%s", bookingID)
			handlers.RespondBadRequest(w, msgPastStartTime)

		case errors.Is(err, changeBooking.ErrBookingNotFound):
			h.logger.Warn("PATCH /tenants/{tenantId}/bookings/{bookingId} - Booking not found: booking_id=%s", bookingID)
			handlers.RespondNotFound(w, msgBookingNotFound)

		case errors.Is(err, changeBooking.ErrNotReschedulable):
			h.logger.Warn("PATCH /tenants/{tenantId}/bookings/{bookingId} - Not reschedulable: booking_id=%s", bookingID)
			handlers.RespondError(w, http.StatusUnprocessableEntity, msgNotReschedulable)

		case errors.Is(err, changeBooking.ErrResourceNotFound):
			h.logger.Warn("PATCH /tenants/{tenantId}/bookings/{bookingId} - Resource not found: booking_id=%s, error=%v", bookingID, err)
			handlers.RespondNotFound(w, msgResourceNotFound)

		case errors.Is(err, changeBooking.ErrResourceUnavailable):
			h.logger.Warn("PATCH /tenants/{tenantId}/bookings/{bookingId} - Resource unavailable: booking_id=%s, error=%v", bookingID, err)
			handlers.RespondError(w, http.StatusUnprocessableEntity, msgResourceUnavailable)

		case errors.Is(err, changeBooking.ErrSlotConflict):
			h.logger.Warn("PATCH /tenants/{tenantId}/bookings/{bookingId} - Slot conflict: booking_id=%s", bookingID)
			handlers.RespondError(w, http.StatusConflict, msgSlotConflict)

		default:
			h.logger.Error("PATCH /tenants/{tenantId}/bookings/{bookingId} - Failed to reschedule: booking_id=%s, error=%v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /tenants/{tenantId}/bookings/{bookingId} - Booking rescheduled successfully: booking_id=%s, tenant_id=%d",
		bookingID, tenantID)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
