package get_availability

import (
	"context"
	"errors"
	"fmt"

	"github.com/venuegrid/VG-ReservationEngine/internal/domain"
	resourceRepo "github.com/venuegrid/VG-ReservationEngine/internal/infra/storage/resource"
	"github.com/venuegrid/VG-ReservationEngine/internal/ledger"
)

// UseCase use case для получения свободных окон ресурса на дату
// Окна считаются по in-memory леджеру (единственному арбитру занятости)
// и окнам недоступности ресурса
type UseCase struct {
	resourceRepo ResourceRepository
	registry     *ledger.Registry
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(resourceRepo ResourceRepository, registry *ledger.Registry, logger Logger) *UseCase {
	return &UseCase{
		resourceRepo: resourceRepo,
		registry:     registry,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case получения свободных окон
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailability: tenant=%d, resource=%d, date=%s", req.TenantID, req.ResourceID, req.Date)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailability: validation failed: %v", err)
		return nil, err
	}

	day, err := parseDate(req.Date)
	if err != nil {
		uc.logger.Warn("GetAvailability: invalid date %q", req.Date)
		return nil, err
	}
	dayStart := day
	dayEnd := day.AddDate(0, 0, 1)

	// 2. Получаем ресурс и проверяем принадлежность заведению
	resource, err := uc.resourceRepo.GetByID(ctx, req.ResourceID)
	if err != nil {
		if errors.Is(err, resourceRepo.ErrResourceNotFound) {
			uc.logger.Warn("GetAvailability: resource id=%d not found", req.ResourceID)
			return nil, ErrResourceNotFound
		}
		uc.logger.Error("GetAvailability: failed to get resource id=%d: %v", req.ResourceID, err)
		return nil, fmt.Errorf("%w: failed to get resource: %v", ErrInternal, err)
	}
	// Чужие ресурсы неотличимы от несуществующих
	if !resource.BelongsTo(req.TenantID) {
		uc.logger.Warn("GetAvailability: resource id=%d belongs to another tenant", req.ResourceID)
		return nil, ErrResourceNotFound
	}

	// 3. Неактивный ресурс свободных окон не имеет
	if !resource.Active {
		return &Response{ResourceID: req.ResourceID, Date: req.Date, Windows: []Window{}}, nil
	}

	// 4. Занятость: записи леджера плюс окна недоступности
	busy := make([]domain.TimeInterval, 0)
	for _, entry := range uc.registry.ForResource(req.ResourceID).Entries() {
		busy = append(busy, entry.Interval)
	}
	busy = append(busy, resource.Blackouts...)

	windows := freeWindows(dayStart, dayEnd, busy)

	uc.logger.Info("GetAvailability: resource id=%d has %d free windows on %s", req.ResourceID, len(windows), req.Date)

	return &Response{ResourceID: req.ResourceID, Date: req.Date, Windows: windows}, nil
}
