package cancel_booking

import (
	"time"

	"github.com/venuegrid/VG-ReservationEngine/internal/domain"
	transitionStatus "github.com/venuegrid/VG-ReservationEngine/internal/usecase/transition_status"
)

// CancelBookingRequest HTTP request model
type CancelBookingRequest struct {
	CancellationReason string `json:"cancellationReason"`
}

// CancelBookingResponse HTTP response model
type CancelBookingResponse struct {
	ID          string     `json:"id"`
	Status      string     `json:"status"`
	CancelledAt *time.Time `json:"cancelledAt,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
// Отмена идет через общий механизм переходов со статусом cancelled
func (r *CancelBookingRequest) ToUseCaseRequest(bookingID string, tenantID, actorID int64) *transitionStatus.Request {
	return &transitionStatus.Request{
		BookingID:          bookingID,
		TenantID:           tenantID,
		NewStatus:          domain.StatusCancelled,
		ActorID:            actorID,
		CancellationReason: &r.CancellationReason,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *transitionStatus.Response) *CancelBookingResponse {
	return &CancelBookingResponse{
		ID:          resp.ID,
		Status:      resp.Status,
		CancelledAt: resp.CancelledAt,
	}
}
