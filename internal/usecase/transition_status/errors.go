package transition_status

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("transition_status: invalid input data")

	// ErrBookingNotFound возвращается, когда бронирование не найдено
	// или принадлежит другому заведению
	ErrBookingNotFound = errors.New("transition_status: booking not found")

	// ErrInvalidTransition возвращается при недопустимом переходе статуса
	// Статус бронирования при этом не меняется
	ErrInvalidTransition = errors.New("transition_status: invalid status transition")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("transition_status: internal error")
)
