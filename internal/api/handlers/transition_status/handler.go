package transition_status

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/venuegrid/VG-ReservationEngine/internal/api/handlers"
	"github.com/venuegrid/VG-ReservationEngine/internal/api/middleware"
	transitionStatus "github.com/venuegrid/VG-ReservationEngine/internal/usecase/transition_status"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidTenantID    = "некорректный ID заведения"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgBookingNotFound    = "бронирование не найдено"
	msgInvalidTransition  = "недопустимый переход статуса"
)

type Handler struct {
	useCase TransitionStatusUseCase
	logger  Logger
}

func NewHandler(useCase TransitionStatusUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/tenants/{tenantId}/bookings/{bookingId}/status
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	tenantID, err := strconv.ParseInt(vars["tenantId"], 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /tenants/{tenantId}/bookings/{bookingId}/status - Invalid tenant ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTenantID)
		return
	}
	bookingID := vars["bookingId"]

	actorID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PATCH /tenants/{tenantId}/bookings/{bookingId}/status - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req TransitionStatusRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /tenants/{tenantId}/bookings/{bookingId}/status - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(bookingID, tenantID, actorID))
	if err != nil {
		switch {
		case errors.Is(err, transitionStatus.ErrInvalidInput):
			h.logger.Warn("PATCH /tenants/{tenantId}/bookings/{bookingId}/status - Invalid input: booking_id=%s, error=%v", bookingID, err)
			handlers.RespondBadRequest(w, err.Error())

		case errors.Is(err, transitionStatus.ErrBookingNotFound):
			h.logger.Warn("PATCH /tenants/{tenantId}/bookings/{bookingId}/status - Booking not found: booking_id=%s", bookingID)
			handlers.RespondNotFound(w, msgBookingNotFound)

		case errors.Is(err, transitionStatus.ErrInvalidTransition):
			h.logger.Warn("PATCH /tenants/{tenantId}/bookings/{bookingId}/status - Invalid transition: booking_id=%s, status=%s",
				bookingID, req.Status)
			handlers.RespondError(w, http.StatusUnprocessableEntity, msgInvalidTransition)

		default:
			h.logger.Error("PATCH /tenants/{tenantId}/bookings/{bookingId}/status - Failed to transition: booking_id=%s, error=%v",
				bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /tenants/{tenantId}/bookings/{bookingId}/status - Status changed: booking_id=%s, %s -> %s",
		bookingID, result.PrevStatus, result.Status)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
