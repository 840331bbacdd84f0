package get_availability

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("get_availability: invalid input data")

	// ErrResourceNotFound возвращается, когда ресурс не найден
	// или принадлежит другому заведению
	ErrResourceNotFound = errors.New("get_availability: resource not found")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_availability: internal error")
)
