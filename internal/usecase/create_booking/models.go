package create_booking

import (
	"time"

	"github.com/venuegrid/VG-ReservationEngine/internal/domain"
)

// Request модель запроса на создание бронирования
type Request struct {
	TenantID   int64              // ID заведения
	CustomerID int64              // ID клиента
	Kind       domain.BookingKind // Вид бронирования (appointment, restaurant, nightclub)
	StartTime  time.Time          // Начало интервала

	// EndTime конец интервала; обязателен, если не указана услуга
	EndTime *time.Time

	// ServiceID услуга из каталога; конец интервала выводится из её длительности
	ServiceID *int64

	ResourceIDs []int64 // Запрошенные ресурсы (0..N)
	HeadCount   int     // Число гостей
	Notes       *string // Дополнительные заметки (опционально)
}

// Response модель ответа с созданным бронированием
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

	ServiceID   *int64
	ServiceName *string
	Notes       *string

	CreatedAt time.Time
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
		ServiceID:   b.ServiceID,
		ServiceName: b.ServiceName,
		Notes:       b.Notes,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}
