package ledger

import "errors"

var (
	// ErrConflict возвращается, когда интервал пересекается с существующей записью леджера
	// Проигравший гонку запрос получает именно эту ошибку; автоматических повторов нет
	ErrConflict = errors.New("ledger: interval conflicts with a committed reservation")

	// ErrInvalidInterval возвращается при попытке зарезервировать некорректный интервал
	ErrInvalidInterval = errors.New("ledger: invalid interval")
)
