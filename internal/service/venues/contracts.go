package venues

import (
	"context"

	"github.com/venuegrid/VG-ReservationEngine/internal/domain"
	"github.com/venuegrid/VG-ReservationEngine/internal/occupancy"
)

// VenueRepository интерфейс репозитория заведений
type VenueRepository interface {
	GetByTenant(ctx context.Context, tenantID int64) (*domain.Venue, error)
}

// OccupancyManager интерфейс счетчиков заполненности заведений
type OccupancyManager interface {
	ForVenue(venueID int64) *occupancy.Tracker
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
