package models

import (
	"errors"
	"time"

	"github.com/venuegrid/VG-ReservationEngine/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid booking status")
)

// Request модели

// GetCustomerBookingsRequest запрос на получение бронирований клиента
type GetCustomerBookingsRequest struct {
	CustomerID int64   `json:"customerId"`
	Status     *string `json:"status,omitempty"`
}

// GetTenantBookingsRequest запрос на получение бронирований заведения
type GetTenantBookingsRequest struct {
	TenantID        int64      `json:"tenantId"`
	ResourceID      *int64     `json:"resourceId,omitempty"`      // Фильтр по ресурсу (опционально)
	StartDate       *time.Time `json:"startDate,omitempty"`       // Начало периода (опционально)
	EndDate         *time.Time `json:"endDate,omitempty"`         // Конец периода (опционально)
	Status          *string    `json:"status,omitempty"`          // Фильтр по статусу (опционально)
	IncludeInactive bool       `json:"includeInactive,omitempty"` // Включить отмененные и неявки
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *GetTenantBookingsRequest) ToDomainFilter() (domain.TenantBookingsFilter, error) {
	filter := domain.TenantBookingsFilter{
		TenantID:        r.TenantID,
		ResourceID:      r.ResourceID,
		StartDate:       r.StartDate,
		EndDate:         r.EndDate,
		IncludeInactive: r.IncludeInactive,
	}

	if r.Status != nil {
		status, err := ToDomainBookingStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// Response модели

// StatusHistoryItem запись истории смены статуса
type StatusHistoryItem struct {
	Status     string    `json:"status"`
	ActorID    int64     `json:"actorId"`
	OccurredAt time.Time `json:"occurredAt"`
}

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID         string    `json:"id"`
	TenantID   int64     `json:"tenantId"`
	CustomerID int64     `json:"customerId"`
	Kind       string    `json:"kind"`
	StartTime  time.Time `json:"startTime"`
	EndTime    time.Time `json:"endTime"`
	Status     string    `json:"status"`
	HeadCount  int       `json:"headCount"`

	ResourceIDs []int64 `json:"resourceIds"`

	ServiceID   *int64  `json:"serviceId,omitempty"`
	ServiceName *string `json:"serviceName,omitempty"`
	Notes       *string `json:"notes,omitempty"`

	ArrivedAt          *time.Time `json:"arrivedAt,omitempty"`
	DepartedAt         *time.Time `json:"departedAt,omitempty"`
	FinalSpend         *float64   `json:"finalSpend,omitempty"`
	CancellationReason *string    `json:"cancellationReason,omitempty"`
	CancelledAt        *time.Time `json:"cancelledAt,omitempty"`

	// History заполняется только при запросе одного бронирования
	History []StatusHistoryItem `json:"history,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []*BookingResponse `json:"bookings"`
	Total    int                `json:"total"`
}

// FromDomainBooking конвертирует domain модель в response
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	return &BookingResponse{
		ID:                 b.ID,
		TenantID:           b.TenantID,
		CustomerID:         b.CustomerID,
		Kind:               string(b.Kind),
		StartTime:          b.Interval.Start,
		EndTime:            b.Interval.End,
		Status:             string(b.Status),
		HeadCount:          b.HeadCount,
		ResourceIDs:        b.ResourceIDs(),
		ServiceID:          b.ServiceID,
		ServiceName:        b.ServiceName,
		Notes:              b.Notes,
		ArrivedAt:          b.ArrivedAt,
		DepartedAt:         b.DepartedAt,
		FinalSpend:         b.FinalSpend,
		CancellationReason: b.CancellationReason,
		CancelledAt:        b.CancelledAt,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}
}

// FromDomainBookingList конвертирует список domain моделей в response
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	result := make([]*BookingResponse, len(bookings))
	for i, b := range bookings {
		result[i] = FromDomainBooking(b)
	}
	return &BookingListResponse{
		Bookings: result,
		Total:    len(result),
	}
}

// FromDomainHistory конвертирует историю статусов в response
func FromDomainHistory(entries []domain.StatusHistoryEntry) []StatusHistoryItem {
	result := make([]StatusHistoryItem, len(entries))
	for i, e := range entries {
		result[i] = StatusHistoryItem{
			Status:     string(e.Status),
			ActorID:    e.ActorID,
			OccurredAt: e.OccurredAt,
		}
	}
	return result
}

// ToDomainBookingStatus конвертирует строку в domain статус
func ToDomainBookingStatus(s string) (domain.BookingStatus, error) {
	status := domain.BookingStatus(s)
	if !domain.IsValidStatus(status) {
		return "", ErrInvalidStatus
	}
	return status, nil
}
