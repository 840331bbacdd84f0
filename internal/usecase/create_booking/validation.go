package create_booking

import (
	"fmt"
	"time"

	"github.com/venuegrid/VG-ReservationEngine/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.TenantID <= 0 {
		return fmt.Errorf("%w: tenantID must be positive", ErrInvalidInput)
	}

	if req.CustomerID <= 0 {
		return fmt.Errorf("%w: customerID must be positive", ErrInvalidInput)
	}

	switch req.Kind {
	case domain.KindAppointment, domain.KindRestaurant, domain.KindNightclub:
	default:
		return fmt.Errorf("%w: unknown booking kind %q", ErrInvalidInput, req.Kind)
	}

	if req.StartTime.IsZero() {
		return fmt.Errorf("%w: startTime is required", ErrInvalidInput)
	}

	// Конец интервала либо задан явно, либо выводится из длительности услуги
	if req.ServiceID == nil && req.EndTime == nil {
		return fmt.Errorf("%w: either serviceId or endTime is required", ErrInvalidInput)
	}
	if req.ServiceID != nil && *req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}

	if req.HeadCount < domain.MinHeadCount {
		return fmt.Errorf("%w: headCount must be at least %d", ErrInvalidInput, domain.MinHeadCount)
	}
	if req.HeadCount > domain.MaxHeadCount {
		return fmt.Errorf("%w: headCount must not exceed %d", ErrInvalidInput, domain.MaxHeadCount)
	}

	// Запись в салон привязывается максимум к одному сотруднику
	if req.Kind == domain.KindAppointment && len(req.ResourceIDs) > 1 {
		return fmt.Errorf("%w: appointment binds at most one staff resource", ErrInvalidInput)
	}

	if err := validateResourceIDs(req.ResourceIDs); err != nil {
		return err
	}

	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes must not exceed %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	return nil
}

// validateResourceIDs проверяет, что идентификаторы ресурсов положительны и уникальны
func validateResourceIDs(ids []int64) error {
	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if id <= 0 {
			return fmt.Errorf("%w: resourceID must be positive", ErrInvalidInput)
		}
		if _, ok := seen[id]; ok {
			return fmt.Errorf("%w: duplicate resourceID %d", ErrInvalidInput, id)
		}
		seen[id] = struct{}{}
	}
	return nil
}

// validateStartNotInPast проверяет, что начало бронирования не в прошлом
func validateStartNotInPast(start, now time.Time) error {
	if start.Before(now) {
		return ErrPastStartTime
	}
	return nil
}

// buildInterval строит интервал бронирования
// Для услуги конец выводится как start + duration, иначе берется явный EndTime
func buildInterval(req *Request, serviceDuration int) (domain.TimeInterval, error) {
	if req.ServiceID != nil {
		interval, err := domain.IntervalFromDuration(req.StartTime, serviceDuration)
		if err != nil {
			return domain.TimeInterval{}, fmt.Errorf("%w: service duration must be positive", ErrInvalidInput)
		}
		return interval, nil
	}

	interval, err := domain.NewTimeInterval(req.StartTime, *req.EndTime)
	if err != nil {
		return domain.TimeInterval{}, fmt.Errorf("%w: endTime must be after startTime", ErrInvalidInput)
	}
	if interval.DurationMinutes() > domain.MaxBookingMinutes {
		return domain.TimeInterval{}, fmt.Errorf("%w: booking must not exceed %d minutes", ErrInvalidInput, domain.MaxBookingMinutes)
	}
	return interval, nil
}

// validateResources проверяет принадлежность, активность и доступность ресурсов
func validateResources(resources []*domain.Resource, requested []int64, tenantID int64, interval domain.TimeInterval) error {
	byID := make(map[int64]*domain.Resource, len(resources))
	for _, res := range resources {
		byID[res.ID] = res
	}

	for _, id := range requested {
		res, ok := byID[id]
		if !ok {
			return fmt.Errorf("%w: resource id=%d", ErrResourceNotFound, id)
		}
		// Чужие ресурсы неотличимы от несуществующих
		if !res.BelongsTo(tenantID) {
			return fmt.Errorf("%w: resource id=%d", ErrResourceNotFound, id)
		}
		if !res.Active {
			return fmt.Errorf("%w: resource id=%d is deactivated", ErrResourceUnavailable, id)
		}
		if res.IsBlackedOut(interval) {
			return fmt.Errorf("%w: resource id=%d is blacked out for the interval", ErrResourceUnavailable, id)
		}
	}

	return nil
}
