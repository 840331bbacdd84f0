package catalogservice

import "errors"

var (
	// ErrServiceNotFound возвращается, когда услуга отсутствует в каталоге
	// Пробрасывается как ошибка валидации запроса: длительность по умолчанию не подставляется
	ErrServiceNotFound = errors.New("catalogservice client: service not found")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("catalogservice client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("catalogservice client: invalid response")
)
