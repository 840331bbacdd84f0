package occupancy

import "errors"

var (
	// ErrStateNotFound возвращается, когда состояние заполненности заведения не найдено
	ErrStateNotFound = errors.New("occupancy.repository: state not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("occupancy.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("occupancy.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("occupancy.repository: failed to scan row")
)
