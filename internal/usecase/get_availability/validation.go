package get_availability

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

	if req.ResourceID <= 0 {
		return fmt.Errorf("%w: resourceID must be positive", ErrInvalidInput)
	}

	if req.Date == "" {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	return nil
}

// parseDate парсит дату запроса
func parseDate(date string) (time.Time, error) {
	parsed, err := time.Parse(domain.DateFormat, date)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date must be in format %s", ErrInvalidInput, domain.DateFormat)
	}
	return parsed, nil
}
