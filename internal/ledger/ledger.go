package ledger

import (
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/venuegrid/VG-ReservationEngine/internal/domain"
)

// Entry запись леджера: зарезервированный интервал одного бронирования
type Entry struct {
	ID        string
	BookingID string
	Interval  domain.TimeInterval
}

// Ledger is the committed-interval timeline of one resource. Its mutex is
// the sole arbiter of conflict truth for the resource: the check-and-insert
// in Reserve runs as a single critical section, so two racing requests for
// the same slot cannot both succeed. Persistence happens outside the lock.
type Ledger struct {
	resourceID int64

	mu      sync.Mutex
	entries []Entry // отсортированы по Interval.Start
}

// NewLedger создает пустой леджер ресурса
func NewLedger(resourceID int64) *Ledger {
	return &Ledger{resourceID: resourceID}
}

// ResourceID возвращает идентификатор ресурса леджера
func (l *Ledger) ResourceID() int64 {
	return l.resourceID
}

// IsFree проверяет, что интервал не пересекается ни с одной записью леджера
// Записи бронирования excludeBookingID игнорируются (используется при переносе)
func (l *Ledger) IsFree(interval domain.TimeInterval, excludeBookingID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.findConflict(interval, excludeBookingID) == nil
}

// Reserve re-validates and inserts in one critical section. Entries of the
// same booking never conflict with the new interval, which lets a booking
// move within its own slot during a reschedule.
// Возвращает идентификатор созданной записи или ErrConflict
func (l *Ledger) Reserve(interval domain.TimeInterval, bookingID string) (string, error) {
	if !interval.Start.Before(interval.End) {
		return "", ErrInvalidInterval
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if conflict := l.findConflict(interval, bookingID); conflict != nil {
		return "", ErrConflict
	}

	entry := Entry{
		ID:        uuid.NewString(),
		BookingID: bookingID,
		Interval:  interval,
	}

	// Вставка с сохранением сортировки по началу интервала
	idx := sort.Search(len(l.entries), func(i int) bool {
		return l.entries[i].Interval.Start.After(interval.Start)
	})
	l.entries = append(l.entries, Entry{})
	copy(l.entries[idx+1:], l.entries[idx:])
	l.entries[idx] = entry

	return entry.ID, nil
}

// Release удаляет запись по идентификатору
// Идемпотентна: повторное освобождение уже удаленной записи не является ошибкой
func (l *Ledger) Release(entryID string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i, e := range l.entries {
		if e.ID == entryID {
			l.entries = append(l.entries[:i], l.entries[i+1:]...)
			return
		}
	}
}

// ReleaseByBooking удаляет все записи бронирования
// Возвращает идентификаторы удаленных записей
func (l *Ledger) ReleaseByBooking(bookingID string) []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	released := make([]string, 0)
	kept := l.entries[:0]
	for _, e := range l.entries {
		if e.BookingID == bookingID {
			released = append(released, e.ID)
			continue
		}
		kept = append(kept, e)
	}
	l.entries = kept

	return released
}

// Entries возвращает копию всех записей леджера (для отладки и warm-up проверок)
func (l *Ledger) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// load загружает записи без проверки конфликтов (hydration при старте)
// Записи в хранилище уже прошли проверку при создании
func (l *Ledger) load(entries []Entry) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = append(l.entries, entries...)
	sort.Slice(l.entries, func(i, j int) bool {
		return l.entries[i].Interval.Start.Before(l.entries[j].Interval.Start)
	})
}

// findConflict ищет пересекающуюся запись; вызывается под мьютексом
func (l *Ledger) findConflict(interval domain.TimeInterval, excludeBookingID string) *Entry {
	for i := range l.entries {
		e := &l.entries[i]
		if excludeBookingID != "" && e.BookingID == excludeBookingID {
			continue
		}
		// Записи отсортированы: как только начало записи >= конца интервала,
		// пересечений дальше быть не может
		if !e.Interval.Start.Before(interval.End) {
			break
		}
		if e.Interval.Overlaps(interval) {
			return e
		}
	}
	return nil
}
