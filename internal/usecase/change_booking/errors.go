package change_booking

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("change_booking: invalid input data")

	// ErrPastStartTime возвращается, когда новое начало бронирования в прошлом
	ErrPastStartTime = errors.New("change_booking: start time is in the past")

	// ErrBookingNotFound возвращается, когда бронирование не найдено
	// или принадлежит другому заведению
	ErrBookingNotFound = errors.New("change_booking: booking not found")

	// ErrNotReschedulable возвращается, когда бронирование нельзя перенести
	// из текущего статуса (перенос доступен только из pending и confirmed)
	ErrNotReschedulable = errors.New("change_booking: booking cannot be rescheduled in its current status")

	// ErrResourceNotFound возвращается, когда ресурс не найден или принадлежит другому заведению
	ErrResourceNotFound = errors.New("change_booking: resource not found")

	// ErrResourceUnavailable возвращается, когда ресурс неактивен или недоступен в новый интервал
	ErrResourceUnavailable = errors.New("change_booking: resource is unavailable")

	// ErrSlotConflict возвращается, когда новый интервал конфликтует с чужим бронированием
	// Собственная резервация бронирования из проверки исключается
	ErrSlotConflict = errors.New("change_booking: requested interval conflicts with an existing reservation")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("change_booking: internal error")
)
