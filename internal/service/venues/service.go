package venues

import (
	"context"
	"errors"
	"fmt"
	"time"

	venueRepo "github.com/venuegrid/VG-ReservationEngine/internal/infra/storage/venue"
	"github.com/venuegrid/VG-ReservationEngine/internal/service/venues/models"
)

// Service сервис чтения заполненности заведений
type Service struct {
	venueRepo    VenueRepository
	occupancyMgr OccupancyManager
	logger       Logger
}

// NewService создает новый экземпляр сервиса заведений
func NewService(venueRepo VenueRepository, occupancyMgr OccupancyManager, logger Logger) *Service {
	return &Service{
		venueRepo:    venueRepo,
		occupancyMgr: occupancyMgr,
		logger:       logger,
	}
}

// GetOccupancy возвращает текущий снимок заполненности заведения арендатора:
// счетчик гостей, вместимость, долю, уровень предупреждения и пик дня
func (s *Service) GetOccupancy(ctx context.Context, tenantID int64) (*models.OccupancyResponse, error) {
	s.logger.Info("GetOccupancy: fetching occupancy for tenant=%d", tenantID)

	if tenantID <= 0 {
		return nil, fmt.Errorf("%w: tenantID must be positive", ErrInvalidInput)
	}

	venue, err := s.venueRepo.GetByTenant(ctx, tenantID)
	if err != nil {
		if errors.Is(err, venueRepo.ErrVenueNotFound) {
			s.logger.Warn("GetOccupancy: venue for tenant=%d not found", tenantID)
			return nil, ErrVenueNotFound
		}
		s.logger.Error("GetOccupancy: repository error for tenant=%d: %v", tenantID, err)
		return nil, fmt.Errorf("%w: GetOccupancy - repository error: %v", ErrInternal, err)
	}

	tracker := s.occupancyMgr.ForVenue(venue.ID)
	if tracker == nil {
		s.logger.Warn("GetOccupancy: venue id=%d does not track occupancy", venue.ID)
		return nil, ErrOccupancyNotTracked
	}

	snap := tracker.Snapshot(time.Now())

	s.logger.Info("GetOccupancy: venue id=%d occupancy %d/%d (%s)", venue.ID, snap.Current, snap.Capacity, snap.Warning)
	return models.FromSnapshot(snap, venue.Name), nil
}
