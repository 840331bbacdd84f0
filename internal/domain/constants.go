package domain

// Business validation constants
const (
	MinHeadCount                = 1
	MaxHeadCount                = 500
	MaxBookingMinutes           = 24 * 60 // сутки
	MaxNotesLength              = 500
	MaxCancellationReasonLength = 500
)

// Occupancy warning thresholds (advisory only, never block a booking)
const (
	OccupancyWarnRate     = 0.80
	OccupancyCriticalRate = 0.90
	OccupancyFullRate     = 1.00
)

// OccupancyWarningLevel уровень предупреждения о заполненности заведения
type OccupancyWarningLevel string

const (
	OccupancyOK       OccupancyWarningLevel = "ok"
	OccupancyWarn     OccupancyWarningLevel = "warning"     // >= 80%
	OccupancyCritical OccupancyWarningLevel = "critical"    // >= 90%
	OccupancyFull     OccupancyWarningLevel = "at_capacity" // >= 100%
)

// WarningLevelForRate возвращает уровень предупреждения для доли заполненности
func WarningLevelForRate(rate float64) OccupancyWarningLevel {
	switch {
	case rate >= OccupancyFullRate:
		return OccupancyFull
	case rate >= OccupancyCriticalRate:
		return OccupancyCritical
	case rate >= OccupancyWarnRate:
		return OccupancyWarn
	default:
		return OccupancyOK
	}
}

// Time format constants
const (
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// InactiveStatuses список статусов, не удерживающих резервацию ресурсов
// Используется при фильтрации бронирований заведения
var InactiveStatuses = []BookingStatus{
	StatusCompleted,
	StatusCancelled,
	StatusNoShow,
}

// ActiveStatuses список статусов бронирований, удерживающих резервацию
var ActiveStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
	StatusArrived,
}
