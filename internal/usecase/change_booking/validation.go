package change_booking

import (
	"fmt"
	"time"

	"github.com/venuegrid/VG-ReservationEngine/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.BookingID == "" {
		return fmt.Errorf("%w: bookingID is required", ErrInvalidInput)
	}

	if req.TenantID <= 0 {
		return fmt.Errorf("%w: tenantID must be positive", ErrInvalidInput)
	}

	if req.StartTime.IsZero() || req.EndTime.IsZero() {
		return fmt.Errorf("%w: startTime and endTime are required", ErrInvalidInput)
	}

	if req.ResourceIDs != nil {
		seen := make(map[int64]struct{}, len(req.ResourceIDs))
		for _, id := range req.ResourceIDs {
			if id <= 0 {
				return fmt.Errorf("%w: resourceID must be positive", ErrInvalidInput)
			}
			if _, ok := seen[id]; ok {
				return fmt.Errorf("%w: duplicate resourceID %d", ErrInvalidInput, id)
			}
			seen[id] = struct{}{}
		}
	}

	return nil
}

// validateStartNotInPast проверяет, что новое начало бронирования не в прошлом
func validateStartNotInPast(start, now time.Time) error {
	if start.Before(now) {
		return ErrPastStartTime
	}
	return nil
}

// buildInterval строит новый интервал бронирования
func buildInterval(req *Request) (domain.TimeInterval, error) {
	interval, err := domain.NewTimeInterval(req.StartTime, req.EndTime)
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
