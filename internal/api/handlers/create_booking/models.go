package create_booking

import (
	"time"

	"github.com/venuegrid/VG-ReservationEngine/internal/domain"
	createBooking "github.com/venuegrid/VG-ReservationEngine/internal/usecase/create_booking"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	Kind        string     `json:"kind"`                  // appointment | restaurant | nightclub
	StartTime   time.Time  `json:"startTime"`             // RFC3339
	EndTime     *time.Time `json:"endTime,omitempty"`     // обязателен, если не указана услуга
	ServiceID   *int64     `json:"serviceId,omitempty"`   // конец интервала выводится из длительности услуги
	ResourceIDs []int64    `json:"resourceIds,omitempty"` // запрошенные ресурсы
	HeadCount   int        `json:"headCount"`
	Notes       *string    `json:"notes,omitempty"`
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
	ServiceID   *int64    `json:"serviceId,omitempty"`
	ServiceName *string   `json:"serviceName,omitempty"`
	Notes       *string   `json:"notes,omitempty"`
	CreatedAt   string    `json:"createdAt"`
	UpdatedAt   string    `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(tenantID, customerID int64) *createBooking.Request {
	return &createBooking.Request{
		TenantID:    tenantID,
		CustomerID:  customerID,
		Kind:        domain.BookingKind(r.Kind),
		StartTime:   r.StartTime,
		EndTime:     r.EndTime,
		ServiceID:   r.ServiceID,
		ResourceIDs: r.ResourceIDs,
		HeadCount:   r.HeadCount,
		Notes:       r.Notes,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
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
		ServiceID:   resp.ServiceID,
		ServiceName: resp.ServiceName,
		Notes:       resp.Notes,
		CreatedAt:   resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   resp.UpdatedAt.Format(time.RFC3339),
	}
}
