package change_booking

import (
	"time"

	changeBooking "github.com/venuegrid/VG-ReservationEngine/internal/usecase/change_booking"
)

// ChangeBookingRequest HTTP request model
type ChangeBookingRequest struct {
	StartTime time.Time `json:"startTime"` // RFC3339
	EndTime   time.Time `json:"endTime"`

	// ResourceIDs новый набор ресурсов; отсутствие поля означает «оставить текущие»
	ResourceIDs []int64 `json:"resourceIds,omitempty"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID          string    `json:"id"`
	TenantID    int64     `json:"tenantId"`
	CustomerID  int64     `json:"customerId"`
	Kind        string    `json:"kind"`
	StartTime   time.Time `json:"startTime"`
	EndTime     time.Time `json:"endTime"`
	Status      string    `json:"status"`
	HeadCount   int       `json:"headCount"`
	ResourceIDs []int64   `json:"resourceIds"`
	UpdatedAt   string    `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *ChangeBookingRequest) ToUseCaseRequest(bookingID string, tenantID int64) *changeBooking.Request {
	return &changeBooking.Request{
		BookingID:   bookingID,
		TenantID:    tenantID,
		StartTime:   r.StartTime,
		EndTime:     r.EndTime,
		ResourceIDs: r.ResourceIDs,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *changeBooking.Response) *BookingResponse {
	return &BookingResponse{
		ID:          resp.ID,
		TenantID:    resp.TenantID,
		CustomerID:  resp.CustomerID,
		Kind:        resp.Kind,
		StartTime:   resp.StartTime,
		EndTime:     resp.EndTime,
		Status:      resp.Status,
		HeadCount:   resp.HeadCount,
		ResourceIDs: resp.ResourceIDs,
		UpdatedAt:   resp.UpdatedAt.Format(time.RFC3339),
	}
}
