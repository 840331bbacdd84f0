package ledger

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/venuegrid/VG-ReservationEngine/internal/domain"
)

func interval(t *testing.T, startHour, startMin, endHour, endMin int) domain.TimeInterval {
	t.Helper()
	iv, err := domain.NewTimeInterval(
		time.Date(2025, 10, 15, startHour, startMin, 0, 0, time.UTC),
		time.Date(2025, 10, 15, endHour, endMin, 0, 0, time.UTC),
	)
	require.NoError(t, err)
	return iv
}

func TestLedgerReserve(t *testing.T) {
	t.Run("reserve on empty ledger succeeds", func(t *testing.T) {
		l := NewLedger(1)

		entryID, err := l.Reserve(interval(t, 14, 0, 14, 30), "booking-1")
		require.NoError(t, err)
		assert.NotEmpty(t, entryID)
		assert.Len(t, l.Entries(), 1)
	})

	t.Run("overlapping reserve returns conflict", func(t *testing.T) {
		l := NewLedger(1)

		_, err := l.Reserve(interval(t, 14, 0, 14, 30), "booking-1")
		require.NoError(t, err)

		_, err = l.Reserve(interval(t, 14, 15, 14, 45), "booking-2")
		assert.ErrorIs(t, err, ErrConflict)
		assert.Len(t, l.Entries(), 1, "losing request must not leave an entry")
	})

	t.Run("touching intervals both succeed", func(t *testing.T) {
		l := NewLedger(1)

		_, err := l.Reserve(interval(t, 10, 0, 11, 0), "booking-1")
		require.NoError(t, err)

		_, err = l.Reserve(interval(t, 11, 0, 12, 0), "booking-2")
		require.NoError(t, err, "half-open intervals: touching endpoints do not overlap")
	})

	t.Run("same booking does not conflict with itself", func(t *testing.T) {
		l := NewLedger(1)

		_, err := l.Reserve(interval(t, 10, 0, 11, 0), "booking-1")
		require.NoError(t, err)

		// Перенос внутри собственного слота
		_, err = l.Reserve(interval(t, 10, 30, 11, 30), "booking-1")
		require.NoError(t, err)
	})

	t.Run("invalid interval rejected", func(t *testing.T) {
		l := NewLedger(1)

		_, err := l.Reserve(domain.TimeInterval{
			Start: time.Date(2025, 10, 15, 12, 0, 0, 0, time.UTC),
			End:   time.Date(2025, 10, 15, 12, 0, 0, 0, time.UTC),
		}, "booking-1")
		assert.ErrorIs(t, err, ErrInvalidInterval)
	})

	t.Run("entries stay sorted by start", func(t *testing.T) {
		l := NewLedger(1)

		_, err := l.Reserve(interval(t, 15, 0, 16, 0), "b1")
		require.NoError(t, err)
		_, err = l.Reserve(interval(t, 9, 0, 10, 0), "b2")
		require.NoError(t, err)
		_, err = l.Reserve(interval(t, 12, 0, 13, 0), "b3")
		require.NoError(t, err)

		entries := l.Entries()
		require.Len(t, entries, 3)
		for i := 1; i < len(entries); i++ {
			assert.True(t, entries[i-1].Interval.Start.Before(entries[i].Interval.Start))
		}
	})
}

func TestLedgerIsFree(t *testing.T) {
	l := NewLedger(1)
	_, err := l.Reserve(interval(t, 14, 0, 14, 30), "booking-1")
	require.NoError(t, err)

	assert.False(t, l.IsFree(interval(t, 14, 15, 14, 45), ""))
	assert.True(t, l.IsFree(interval(t, 14, 30, 15, 0), ""))
	assert.True(t, l.IsFree(interval(t, 14, 15, 14, 45), "booking-1"),
		"own entries excluded during reschedule scan")
}

func TestLedgerRelease(t *testing.T) {
	t.Run("release removes the entry", func(t *testing.T) {
		l := NewLedger(1)
		entryID, err := l.Reserve(interval(t, 14, 0, 14, 30), "booking-1")
		require.NoError(t, err)

		l.Release(entryID)
		assert.Empty(t, l.Entries())

		// Слот снова свободен для нового бронирования
		_, err = l.Reserve(interval(t, 14, 0, 14, 30), "booking-2")
		assert.NoError(t, err)
	})

	t.Run("release is idempotent", func(t *testing.T) {
		l := NewLedger(1)
		entryID, err := l.Reserve(interval(t, 14, 0, 14, 30), "booking-1")
		require.NoError(t, err)
		_, err = l.Reserve(interval(t, 15, 0, 15, 30), "booking-2")
		require.NoError(t, err)

		l.Release(entryID)
		stateAfterFirst := l.Entries()

		l.Release(entryID)
		assert.Equal(t, stateAfterFirst, l.Entries())
	})

	t.Run("release by booking removes all entries of the booking", func(t *testing.T) {
		l := NewLedger(1)
		_, err := l.Reserve(interval(t, 10, 0, 11, 0), "booking-1")
		require.NoError(t, err)
		_, err = l.Reserve(interval(t, 12, 0, 13, 0), "booking-1")
		require.NoError(t, err)
		keepID, err := l.Reserve(interval(t, 14, 0, 15, 0), "booking-2")
		require.NoError(t, err)

		released := l.ReleaseByBooking("booking-1")
		assert.Len(t, released, 2)

		entries := l.Entries()
		require.Len(t, entries, 1)
		assert.Equal(t, keepID, entries[0].ID)
	})
}

// TestLedgerNoDoubleBooking гонка за один слот: из N конкурентных запросов
// выигрывает ровно один, леджер не содержит пересекающихся записей
func TestLedgerNoDoubleBooking(t *testing.T) {
	l := NewLedger(1)
	slot := interval(t, 20, 0, 22, 0)

	const workers = 32
	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			if _, err := l.Reserve(slot, fmt.Sprintf("booking-%d", n)); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)

	entries := l.Entries()
	require.Len(t, entries, 1)
	for i := 0; i < len(entries); i++ {
		for j := i + 1; j < len(entries); j++ {
			assert.False(t, entries[i].Interval.Overlaps(entries[j].Interval))
		}
	}
}

func TestRegistry(t *testing.T) {
	t.Run("same ledger instance per resource", func(t *testing.T) {
		r := NewRegistry()
		assert.Same(t, r.ForResource(7), r.ForResource(7))
		assert.NotSame(t, r.ForResource(7), r.ForResource(8))
	})

	t.Run("load hydrates entries", func(t *testing.T) {
		r := NewRegistry()
		r.Load(5, []Entry{
			{ID: "e2", BookingID: "b2", Interval: interval(t, 12, 0, 13, 0)},
			{ID: "e1", BookingID: "b1", Interval: interval(t, 10, 0, 11, 0)},
		})

		l := r.ForResource(5)
		entries := l.Entries()
		require.Len(t, entries, 2)
		assert.Equal(t, "e1", entries[0].ID, "hydrated entries sorted by start")
		assert.False(t, l.IsFree(interval(t, 10, 30, 11, 30), ""))
	})
}
