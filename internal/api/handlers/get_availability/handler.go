package get_availability

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/venuegrid/VG-ReservationEngine/internal/api/handlers"
	getAvailability "github.com/venuegrid/VG-ReservationEngine/internal/usecase/get_availability"
)

const (
	msgInvalidTenantID   = "некорректный ID заведения"
	msgInvalidResourceID = "некорректный ID ресурса"
	msgInvalidDate       = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgResourceNotFound  = "ресурс не найден"
)

type Handler struct {
	useCase GetAvailabilityUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailabilityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/tenants/{tenantId}/resources/{resourceId}/availability?date=YYYY-MM-DD
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	tenantID, err := strconv.ParseInt(vars["tenantId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /tenants/{tenantId}/resources/{resourceId}/availability - Invalid tenant ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTenantID)
		return
	}

	resourceID, err := strconv.ParseInt(vars["resourceId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /tenants/{tenantId}/resources/{resourceId}/availability - Invalid resource ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidResourceID)
		return
	}

	req := &getAvailability.Request{
		TenantID:   tenantID,
		ResourceID: resourceID,
		Date:       r.URL.Query().Get("date"),
	}

	result, err := h.useCase.Execute(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, getAvailability.ErrInvalidInput):
			h.logger.Warn("GET /tenants/{tenantId}/resources/{resourceId}/availability - Invalid input: resource_id=%d, error=%v",
				resourceID, err)
			handlers.RespondBadRequest(w, msgInvalidDate)

		case errors.Is(err, getAvailability.ErrResourceNotFound):
			h.logger.Warn("GET /tenants/{tenantId}/resources/{resourceId}/availability - Resource not found: resource_id=%d", resourceID)
			handlers.RespondNotFound(w, msgResourceNotFound)

		default:
			h.logger.Error("GET /tenants/{tenantId}/resources/{resourceId}/availability - Failed: resource_id=%d, error=%v",
				resourceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /tenants/{tenantId}/resources/{resourceId}/availability - %d windows: resource_id=%d, date=%s",
		len(result.Windows), resourceID, result.Date)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
