package transition_status

import (
	"fmt"

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

	if req.ActorID <= 0 {
		return fmt.Errorf("%w: actorID must be positive", ErrInvalidInput)
	}

	if !domain.IsValidStatus(req.NewStatus) {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidInput, req.NewStatus)
	}

	if req.FinalSpend != nil {
		if req.NewStatus != domain.StatusCompleted {
			return fmt.Errorf("%w: finalSpend is allowed only for completed", ErrInvalidInput)
		}
		if *req.FinalSpend < 0 {
			return fmt.Errorf("%w: finalSpend must not be negative", ErrInvalidInput)
		}
	}

	if req.CancellationReason != nil {
		if req.NewStatus != domain.StatusCancelled {
			return fmt.Errorf("%w: cancellationReason is allowed only for cancelled", ErrInvalidInput)
		}
		if len(*req.CancellationReason) > domain.MaxCancellationReasonLength {
			return fmt.Errorf("%w: cancellationReason must not exceed %d characters",
				ErrInvalidInput, domain.MaxCancellationReasonLength)
		}
	}

	return nil
}
