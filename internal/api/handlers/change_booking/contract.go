package change_booking

import (
	"context"

	changeBooking "github.com/venuegrid/VG-ReservationEngine/internal/usecase/change_booking"
)

type ChangeBookingUseCase interface {
	Execute(ctx context.Context, req *changeBooking.Request) (*changeBooking.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
