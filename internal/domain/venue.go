package domain

import "time"

// Venue represents a tenant establishment: a salon, a restaurant or a
// nightclub. Capacity-bounded venues (nightclubs) additionally carry a
// live occupancy counter maintained by the engine.
type Venue struct {
	ID       int64
	TenantID int64
	Name     string
	Kind     BookingKind

	// TotalCapacity вместимость заведения; 0 = заполненность не отслеживается
	TotalCapacity int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TracksOccupancy returns true if the venue maintains a live headcount
func (v *Venue) TracksOccupancy() bool {
	return v.TotalCapacity > 0
}

// DefaultStatusForKind возвращает начальный статус бронирования для вида заведения
// Салонная запись подтверждается сразу, ресторан и клуб требуют подтверждения
func DefaultStatusForKind(kind BookingKind) BookingStatus {
	if kind == KindAppointment {
		return StatusConfirmed
	}
	return StatusPending
}
