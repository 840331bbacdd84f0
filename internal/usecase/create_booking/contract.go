package create_booking

import (
	"context"
	"time"

	"github.com/venuegrid/VG-ReservationEngine/internal/domain"
	ledgerRepo "github.com/venuegrid/VG-ReservationEngine/internal/infra/storage/ledger"
	"github.com/venuegrid/VG-ReservationEngine/internal/integrations/catalogservice"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	AppendHistory(ctx context.Context, entry domain.StatusHistoryEntry) error
}

// LedgerRepository интерфейс репозитория записей леджеров
type LedgerRepository interface {
	InsertMany(ctx context.Context, entries []ledgerRepo.Entry) error
}

// ResourceRepository интерфейс репозитория ресурсов
type ResourceRepository interface {
	GetByIDs(ctx context.Context, ids []int64) ([]*domain.Resource, error)
}

// VenueRepository интерфейс репозитория заведений
type VenueRepository interface {
	GetByTenant(ctx context.Context, tenantID int64) (*domain.Venue, error)
}

// CatalogServiceClient интерфейс клиента каталога услуг
type CatalogServiceClient interface {
	GetService(ctx context.Context, tenantID, serviceID int64) (*catalogservice.Service, error)
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
