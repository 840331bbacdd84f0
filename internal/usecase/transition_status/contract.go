package transition_status

import (
	"context"
	"time"

	"github.com/venuegrid/VG-ReservationEngine/internal/domain"
	"github.com/venuegrid/VG-ReservationEngine/internal/occupancy"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	Update(ctx context.Context, booking *domain.Booking) error
	AppendHistory(ctx context.Context, entry domain.StatusHistoryEntry) error
}

// LedgerRepository интерфейс репозитория записей леджеров
type LedgerRepository interface {
	DeleteByBooking(ctx context.Context, bookingID string) error
}

// ResourceRepository интерфейс репозитория ресурсов
type ResourceRepository interface {
	SetOccupied(ctx context.Context, id int64, occupied bool) error
}

// VenueRepository интерфейс репозитория заведений
type VenueRepository interface {
	GetByTenant(ctx context.Context, tenantID int64) (*domain.Venue, error)
}

// OccupancyRepository интерфейс хранилища состояния заполненности
type OccupancyRepository interface {
	UpsertCurrent(ctx context.Context, venueID int64, current int) error
	UpsertDailyPeak(ctx context.Context, venueID int64, day string, peak int) error
}

// OccupancyManager интерфейс счетчиков заполненности заведений
type OccupancyManager interface {
	Adjust(venueID int64, delta int, now time.Time) (occupancy.Snapshot, occupancy.AdjustReceipt, bool)
	Revert(receipt occupancy.AdjustReceipt) (occupancy.Snapshot, bool)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics интерфейс счетчиков usecase (может быть nil, если метрики выключены)
type Metrics interface {
	IncLifecycleTransition(from, to string)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
