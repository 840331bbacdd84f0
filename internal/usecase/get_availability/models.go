package get_availability

import "time"

// Request модель запроса свободных окон ресурса на дату
type Request struct {
	TenantID   int64  // ID заведения (для проверки принадлежности)
	ResourceID int64  // ID ресурса
	Date       string // Дата в формате YYYY-MM-DD
}

// Window свободное окно ресурса
type Window struct {
	Start time.Time
	End   time.Time
}

// Response модель ответа со свободными окнами
type Response struct {
	ResourceID int64
	Date       string
	Windows    []Window
}
