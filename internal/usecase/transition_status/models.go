package transition_status

import (
	"time"

	"github.com/venuegrid/VG-ReservationEngine/internal/domain"
	"github.com/venuegrid/VG-ReservationEngine/internal/occupancy"
)

// Request модель запроса на смену статуса бронирования
type Request struct {
	BookingID string               // ID бронирования
	TenantID  int64                // ID заведения (для проверки принадлежности)
	NewStatus domain.BookingStatus // Целевой статус
	ActorID   int64                // Кто инициировал переход (клиент или сотрудник)

	// EffectiveTime момент события; по умолчанию текущее время
	// Прибытие и завершение фиксируются этим временем
	EffectiveTime *time.Time

	// FinalSpend итоговый чек; учитывается только при переходе в completed
	FinalSpend *float64

	// CancellationReason причина отмены; учитывается только при переходе в cancelled
	CancellationReason *string
}

// OccupancySummary агрегат заполненности заведения после перехода
type OccupancySummary struct {
	Current  int
	Capacity int
	Rate     float64
	Warning  domain.OccupancyWarningLevel
}

// Response модель ответа со сменившимся статусом
type Response struct {
	ID         string
	Status     string
	PrevStatus string

	ArrivedAt   *time.Time
	DepartedAt  *time.Time
	CancelledAt *time.Time
	FinalSpend  *float64

	// Occupancy заполняется, когда переход изменил счетчик заполненности
	Occupancy *OccupancySummary

	UpdatedAt time.Time
}

func newResponse(b *domain.Booking, prev domain.BookingStatus, snap *occupancy.Snapshot) *Response {
	resp := &Response{
		ID:          b.ID,
		Status:      string(b.Status),
		PrevStatus:  string(prev),
		ArrivedAt:   b.ArrivedAt,
		DepartedAt:  b.DepartedAt,
		CancelledAt: b.CancelledAt,
		FinalSpend:  b.FinalSpend,
		UpdatedAt:   b.UpdatedAt,
	}
	if snap != nil {
		resp.Occupancy = &OccupancySummary{
			Current:  snap.Current,
			Capacity: snap.Capacity,
			Rate:     snap.Rate,
			Warning:  snap.Warning,
		}
	}
	return resp
}
