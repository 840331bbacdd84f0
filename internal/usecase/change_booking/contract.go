package change_booking

import (
	"context"
	"time"

	"github.com/venuegrid/VG-ReservationEngine/internal/domain"
	ledgerRepo "github.com/venuegrid/VG-ReservationEngine/internal/infra/storage/ledger"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	Update(ctx context.Context, booking *domain.Booking) error
	ReplaceAssignments(ctx context.Context, bookingID string, assignments []domain.ResourceAssignment) error
}

// LedgerRepository интерфейс репозитория записей леджеров
type LedgerRepository interface {
	InsertMany(ctx context.Context, entries []ledgerRepo.Entry) error
	DeleteByBooking(ctx context.Context, bookingID string) error
}

// ResourceRepository интерфейс репозитория ресурсов
type ResourceRepository interface {
	GetByIDs(ctx context.Context, ids []int64) ([]*domain.Resource, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics интерфейс счетчиков usecase (может быть nil, если метрики выключены)
type Metrics interface {
	IncBookingConflict()
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
