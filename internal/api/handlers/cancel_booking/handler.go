package cancel_booking

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/venuegrid/VG-ReservationEngine/internal/api/handlers"
	"github.com/venuegrid/VG-ReservationEngine/internal/api/middleware"
	transitionStatus "github.com/venuegrid/VG-ReservationEngine/internal/usecase/transition_status"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidTenantID    = "некорректный ID заведения"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgMissingReason      = "причина отмены обязательна"
	msgBookingNotFound    = "бронирование не найдено"
	msgCannotCancel       = "бронирование нельзя отменить в текущем статусе"
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

// Handle PATCH /api/v1/tenants/{tenantId}/bookings/{bookingId}/cancel
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	tenantID, err := strconv.ParseInt(vars["tenantId"], 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /tenants/{tenantId}/bookings/{bookingId}/cancel - Invalid tenant ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTenantID)
		return
	}
	bookingID := vars["bookingId"]

	actorID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PATCH /tenants/{tenantId}/bookings/{bookingId}/cancel - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CancelBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /tenants/{tenantId}/bookings/{bookingId}/cancel - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	if strings.TrimSpace(req.CancellationReason) == "" {
		h.logger.Warn("PATCH /tenants/{tenantId}/bookings/{bookingId}/cancel - Missing cancellation reason: booking_id=%s", bookingID)
		handlers.RespondBadRequest(w, msgMissingReason)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(bookingID, tenantID, actorID))
	if err != nil {
		switch {
		case errors.Is(err, transitionStatus.ErrInvalidInput):
			h.logger.Warn("PATCH /tenants/{tenantId}/bookings/{bookingId}/cancel - Invalid input: booking_id=%s, error=%v", bookingID, err)
			handlers.RespondBadRequest(w, err.Error())

		case errors.Is(err, transitionStatus.ErrBookingNotFound):
			h.logger.Warn("PATCH /tenants/{tenantId}/bookings/{bookingId}/cancel - Booking not found: booking_id=%s", bookingID)
			handlers.RespondNotFound(w, msgBookingNotFound)

		case errors.Is(err, transitionStatus.ErrInvalidTransition):
			h.logger.Warn("PATCH /tenants/{tenantId}/bookings/{bookingId}/cancel - Cannot cancel: booking_id=%s", bookingID)
			handlers.RespondError(w, http.StatusUnprocessableEntity, msgCannotCancel)

		default:
			h.logger.Error("PATCH /tenants/{tenantId}/bookings/{bookingId}/cancel - Failed to cancel: booking_id=%s, error=%v",
				bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /tenants/{tenantId}/bookings/{bookingId}/cancel - Booking cancelled: booking_id=%s, actor_id=%d",
		bookingID, actorID)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
