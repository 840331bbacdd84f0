package create_booking

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/venuegrid/VG-ReservationEngine/internal/api/handlers"
	"github.com/venuegrid/VG-ReservationEngine/internal/api/middleware"
	createBooking "github.com/venuegrid/VG-ReservationEngine/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgInvalidTenantID     = "некорректный ID заведения"
	msgMissingUserID       = "отсутствует ID пользователя"
	msgPastStartTime       = "время начала бронирования уже прошло"
	msgVenueNotFound       = "заведение не найдено"
	msgServiceNotFound     = "услуга не найдена"
	msgResourceNotFound    = "ресурс не найден"
	msgResourceUnavailable = "ресурс недоступен в выбранный интервал"
	msgSlotConflict        = "запрошенный интервал уже занят"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/tenants/{tenantId}/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	tenantID, err := strconv.ParseInt(vars["tenantId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /tenants/{tenantId}/bookings - Invalid tenant ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTenantID)
		return
	}

	customerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /tenants/{tenantId}/bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /tenants/{tenantId}/bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(tenantID, customerID))
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /tenants/{tenantId}/bookings - Invalid input: tenant_id=%d, error=%v", tenantID, err)
			handlers.RespondBadRequest(w, err.Error())

		case errors.Is(err, createBooking.ErrPastStartTime):
			h.logger.Warn("POST /tenants/{tenantId}/bookings - Past start time: tenant_id=%d", tenantID)
			handlers.RespondBadRequest(w, msgPastStartTime)

		case errors.Is(err, createBooking.ErrVenueNotFound):
			h.logger.Warn("POST /tenants/{tenantId}/bookings - Venue not found: tenant_id=%d", tenantID)
			handlers.RespondNotFound(w, msgVenueNotFound)

		case errors.Is(err, createBooking.ErrServiceNotFound):
			h.logger.Warn("POST /tenants/{tenantId}/bookings - Service not found: tenant_id=%d", tenantID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, createBooking.ErrResourceNotFound):
			h.logger.Warn("POST /tenants/{tenantId}/bookings - Resource not found: tenant_id=%d, error=%v", tenantID, err)
			handlers.RespondNotFound(w, msgResourceNotFound)

		case errors.Is(err, createBooking.ErrResourceUnavailable):
			h.logger.Warn("POST /tenants/{tenantId}/bookings - Resource unavailable: tenant_id=%d, error=%v", tenantID, err)
			handlers.RespondError(w, http.StatusUnprocessableEntity, msgResourceUnavailable)

		case errors.Is(err, createBooking.ErrSlotConflict):
			h.logger.Warn("POST /tenants/{tenantId}/bookings - Slot conflict: tenant_id=%d, customer_id=%d", tenantID, customerID)
			handlers.RespondError(w, http.StatusConflict, msgSlotConflict)

		default:
			h.logger.Error("POST /tenants/{tenantId}/bookings - Failed to create booking: tenant_id=%d, customer_id=%d, error=%v",
				tenantID, customerID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /tenants/{tenantId}/bookings - Booking created successfully: booking_id=%s, tenant_id=%d, customer_id=%d",
		result.ID, tenantID, customerID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
