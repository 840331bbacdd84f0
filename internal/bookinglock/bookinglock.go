package bookinglock

import "sync"

// Guard serializes concurrent mutations of one booking. A reschedule or a
// status transition reads the booking, reserves ledgers and commits as one
// unit; two writers working from the same stale read would each keep their
// own view of the assignments and leak ledger entries.
type Guard struct {
	mu    sync.Mutex
	locks map[string]*lock
}

type lock struct {
	mu   sync.Mutex
	refs int
}

// NewGuard создает реестр блокировок бронирований
func NewGuard() *Guard {
	return &Guard{locks: make(map[string]*lock)}
}

// Lock захватывает блокировку бронирования и возвращает функцию освобождения
// Блокировки без владельца и ожидающих удаляются из реестра
func (g *Guard) Lock(bookingID string) func() {
	g.mu.Lock()
	l, ok := g.locks[bookingID]
	if !ok {
		l = &lock{}
		g.locks[bookingID] = l
	}
	l.refs++
	g.mu.Unlock()

	l.mu.Lock()

	return func() {
		l.mu.Unlock()

		g.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(g.locks, bookingID)
		}
		g.mu.Unlock()
	}
}
