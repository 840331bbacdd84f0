package venues

import "errors"

var (
	// ErrVenueNotFound возвращается, когда заведение не найдено
	ErrVenueNotFound = errors.New("venue not found")

	// ErrOccupancyNotTracked возвращается, когда заведение не отслеживает заполненность
	// (вместимость не задана)
	ErrOccupancyNotTracked = errors.New("venue does not track occupancy")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
