package domain

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidInterval возвращается при попытке создать интервал с start >= end
var ErrInvalidInterval = errors.New("domain: interval start must be before end")

// TimeInterval represents a half-open interval [Start, End) on a single
// resource's timeline. Touching endpoints do not overlap: a booking that
// ends at 11:00 does not conflict with one that starts at 11:00.
type TimeInterval struct {
	Start time.Time
	End   time.Time
}

// NewTimeInterval создает интервал, проверяя инвариант Start < End
func NewTimeInterval(start, end time.Time) (TimeInterval, error) {
	if !start.Before(end) {
		return TimeInterval{}, ErrInvalidInterval
	}
	return TimeInterval{Start: start, End: end}, nil
}

// IntervalFromDuration создает интервал [start, start + minutes)
// Длительность должна быть положительной
func IntervalFromDuration(start time.Time, minutes int) (TimeInterval, error) {
	if minutes <= 0 {
		return TimeInterval{}, ErrInvalidInterval
	}
	return TimeInterval{Start: start, End: start.Add(time.Duration(minutes) * time.Minute)}, nil
}

// Overlaps returns true if the two half-open intervals share any instant.
// a.Start < b.End && b.Start < a.End; boundary contact is not an overlap.
func (i TimeInterval) Overlaps(other TimeInterval) bool {
	return i.Start.Before(other.End) && other.Start.Before(i.End)
}

// Contains проверяет, что момент t попадает в интервал
func (i TimeInterval) Contains(t time.Time) bool {
	return !t.Before(i.Start) && t.Before(i.End)
}

// DurationMinutes возвращает длительность интервала в минутах
func (i TimeInterval) DurationMinutes() int {
	return int(i.End.Sub(i.Start) / time.Minute)
}

// IsZero проверяет, что интервал не заполнен
func (i TimeInterval) IsZero() bool {
	return i.Start.IsZero() && i.End.IsZero()
}

// String возвращает читаемое представление интервала
func (i TimeInterval) String() string {
	return fmt.Sprintf("[%s, %s)", i.Start.Format(time.RFC3339), i.End.Format(time.RFC3339))
}
