package domain

import "time"

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusArrived   BookingStatus = "arrived"
	StatusCompleted BookingStatus = "completed"
	StatusCancelled BookingStatus = "cancelled"
	StatusNoShow    BookingStatus = "no_show"
)

// BookingKind represents the kind of a booking
type BookingKind string

const (
	KindAppointment BookingKind = "appointment" // салон: одна услуга, один сотрудник
	KindRestaurant  BookingKind = "restaurant"  // ресторан: 0..N столов
	KindNightclub   BookingKind = "nightclub"   // клуб: 0..N столов, учет заполненности
)

// ResourceAssignment привязка бронирования к ресурсу
// EntryID идентификатор записи в леджере ресурса
type ResourceAssignment struct {
	ResourceID int64
	EntryID    string
}

// Booking represents a customer's claim on a time interval, optionally
// bound to one or more resources. Bookings are never hard-deleted:
// cancellation and no-show are terminal statuses, not removal.
type Booking struct {
	ID         string
	TenantID   int64
	CustomerID int64
	Kind       BookingKind
	Interval   TimeInterval
	Status     BookingStatus

	// Assignments зарезервированные ресурсы (0..N)
	Assignments []ResourceAssignment

	// HeadCount число гостей; участвует в учете заполненности заведения
	HeadCount int

	// Denormalized data for history
	ServiceID   *int64
	ServiceName *string
	Notes       *string

	ArrivedAt  *time.Time
	DepartedAt *time.Time
	FinalSpend *float64

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the booking still holds its reservations
func (b *Booking) IsActive() bool {
	return b.Status != StatusCancelled &&
		b.Status != StatusNoShow &&
		b.Status != StatusCompleted
}

// IsTerminal returns true if no further transitions are possible
func (b *Booking) IsTerminal() bool {
	return b.Status.IsTerminal()
}

// CanBeCancelled returns true if the booking can be cancelled
func (b *Booking) CanBeCancelled() bool {
	return CanTransition(b.Status, StatusCancelled)
}

// CanBeRescheduled returns true if the booking can be moved to a new slot
func (b *Booking) CanBeRescheduled() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// ResourceIDs возвращает идентификаторы всех назначенных ресурсов
func (b *Booking) ResourceIDs() []int64 {
	ids := make([]int64, 0, len(b.Assignments))
	for _, a := range b.Assignments {
		ids = append(ids, a.ResourceID)
	}
	return ids
}

// StatusHistoryEntry запись истории переходов статуса
// Хранится для каждого бронирования (аудит, отчетность по no-show)
type StatusHistoryEntry struct {
	BookingID  string
	Status     BookingStatus
	ActorID    int64
	OccurredAt time.Time
}

// TenantBookingsFilter фильтр для получения бронирований заведения
type TenantBookingsFilter struct {
	TenantID        int64          // Обязательный параметр
	ResourceID      *int64         // Фильтр по ресурсу (опционально)
	StartDate       *time.Time     // Начало периода (опционально)
	EndDate         *time.Time     // Конец периода (опционально)
	Status          *BookingStatus // Фильтр по статусу (опционально)
	IncludeInactive bool           // Включать ли завершенные/отмененные бронирования
}
