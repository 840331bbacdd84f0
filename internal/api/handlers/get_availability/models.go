package get_availability

import (
	"time"

	getAvailability "github.com/venuegrid/VG-ReservationEngine/internal/usecase/get_availability"
)

// WindowResponse свободное окно ресурса
type WindowResponse struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// AvailabilityResponse HTTP response model
type AvailabilityResponse struct {
	ResourceID int64            `json:"resourceId"`
	Date       string           `json:"date"`
	Windows    []WindowResponse `json:"windows"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailability.Response) *AvailabilityResponse {
	windows := make([]WindowResponse, len(resp.Windows))
	for i, w := range resp.Windows {
		windows[i] = WindowResponse{Start: w.Start, End: w.End}
	}
	return &AvailabilityResponse{
		ResourceID: resp.ResourceID,
		Date:       resp.Date,
		Windows:    windows,
	}
}
