package create_booking

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrPastStartTime возвращается, когда начало бронирования в прошлом
	ErrPastStartTime = errors.New("create_booking: start time is in the past")

	// ErrVenueNotFound возвращается, когда заведение арендатора не найдено
	ErrVenueNotFound = errors.New("create_booking: venue not found")

	// ErrServiceNotFound возвращается, когда услуга отсутствует в каталоге
	// Запрос отклоняется целиком: длительность по умолчанию не подставляется
	ErrServiceNotFound = errors.New("create_booking: service not found")

	// ErrResourceNotFound возвращается, когда ресурс не найден или принадлежит другому заведению
	ErrResourceNotFound = errors.New("create_booking: resource not found")

	// ErrResourceUnavailable возвращается, когда ресурс неактивен или недоступен в запрошенный интервал
	ErrResourceUnavailable = errors.New("create_booking: resource is unavailable")

	// ErrSlotConflict возвращается, когда хотя бы один ресурс занят в запрошенный интервал
	// Запрос отклоняется целиком: частичное назначение ресурсов не фиксируется
	ErrSlotConflict = errors.New("create_booking: requested interval conflicts with an existing reservation")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
