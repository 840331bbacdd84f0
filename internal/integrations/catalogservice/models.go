package catalogservice

// Service услуга из каталога заведения
type Service struct {
	ID              int64    `json:"id"`
	TenantID        int64    `json:"tenantId"`
	Name            string   `json:"name"`
	DurationMinutes int      `json:"durationMinutes"`
	Price           *float64 `json:"price,omitempty"`
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
