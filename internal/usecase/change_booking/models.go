package change_booking

import (
	"time"

	"github.com/venuegrid/VG-ReservationEngine/internal/domain"
)

// Request модель запроса на перенос бронирования
type Request struct {
	BookingID string // ID бронирования
	TenantID  int64  // ID заведения (для проверки принадлежности)

	StartTime time.Time // Новое начало интервала
	EndTime   time.Time // Новый конец интервала

	// ResourceIDs новый набор ресурсов; nil означает «оставить текущие»
	ResourceIDs []int64
}

// Response модель ответа с перенесенным бронированием
type Response struct {
	ID         string
	TenantID   int64
	CustomerID int64
	Kind       string
	StartTime  time.Time
	EndTime    time.Time
	Status     string
	HeadCount  int

	ResourceIDs []int64

	UpdatedAt time.Time
}

func newResponse(b *domain.Booking) *Response {
	return &Response{
		ID:          b.ID,
		TenantID:    b.TenantID,
		CustomerID:  b.CustomerID,
		Kind:        string(b.Kind),
		StartTime:   b.Interval.Start,
		EndTime:     b.Interval.End,
		Status:      string(b.Status),
		HeadCount:   b.HeadCount,
		ResourceIDs: b.ResourceIDs(),
		UpdatedAt:   b.UpdatedAt,
	}
}
