package transition_status

import (
	"time"

	"github.com/venuegrid/VG-ReservationEngine/internal/domain"
	transitionStatus "github.com/venuegrid/VG-ReservationEngine/internal/usecase/transition_status"
)

// TransitionStatusRequest HTTP request model
type TransitionStatusRequest struct {
	Status        string     `json:"status"`                  // целевой статус
	EffectiveTime *time.Time `json:"effectiveTime,omitempty"` // момент события, по умолчанию сейчас
	FinalSpend    *float64   `json:"finalSpend,omitempty"`    // только для completed
}

// OccupancyResponse заполненность заведения после перехода
type OccupancyResponse struct {
	Current  int     `json:"current"`
	Capacity int     `json:"capacity"`
	Rate     float64 `json:"rate"`
	Warning  string  `json:"warning"`
}

// TransitionStatusResponse HTTP response model
type TransitionStatusResponse struct {
	ID         string `json:"id"`
	Status     string `json:"status"`
	PrevStatus string `json:"prevStatus"`

	ArrivedAt   *time.Time `json:"arrivedAt,omitempty"`
	DepartedAt  *time.Time `json:"departedAt,omitempty"`
	CancelledAt *time.Time `json:"cancelledAt,omitempty"`
	FinalSpend  *float64   `json:"finalSpend,omitempty"`

	Occupancy *OccupancyResponse `json:"occupancy,omitempty"`

	UpdatedAt string `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *TransitionStatusRequest) ToUseCaseRequest(bookingID string, tenantID, actorID int64) *transitionStatus.Request {
	return &transitionStatus.Request{
		BookingID:     bookingID,
		TenantID:      tenantID,
		NewStatus:     domain.BookingStatus(r.Status),
		ActorID:       actorID,
		EffectiveTime: r.EffectiveTime,
		FinalSpend:    r.FinalSpend,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *transitionStatus.Response) *TransitionStatusResponse {
	out := &TransitionStatusResponse{
		ID:          resp.ID,
		Status:      resp.Status,
		PrevStatus:  resp.PrevStatus,
		ArrivedAt:   resp.ArrivedAt,
		DepartedAt:  resp.DepartedAt,
		CancelledAt: resp.CancelledAt,
		FinalSpend:  resp.FinalSpend,
		UpdatedAt:   resp.UpdatedAt.Format(time.RFC3339),
	}
	if resp.Occupancy != nil {
		out.Occupancy = &OccupancyResponse{
			Current:  resp.Occupancy.Current,
			Capacity: resp.Occupancy.Capacity,
			Rate:     resp.Occupancy.Rate,
			Warning:  string(resp.Occupancy.Warning),
		}
	}
	return out
}
