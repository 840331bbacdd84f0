package get_occupancy

import (
	"context"

	"github.com/venuegrid/VG-ReservationEngine/internal/service/venues/models"
)

type VenueService interface {
	GetOccupancy(ctx context.Context, tenantID int64) (*models.OccupancyResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
