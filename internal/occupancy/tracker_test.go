package occupancy

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/venuegrid/VG-ReservationEngine/internal/domain"
)

var testNow = time.Date(2025, 10, 15, 22, 0, 0, 0, time.UTC)

func TestTrackerAdjust(t *testing.T) {
	t.Run("increment and decrement", func(t *testing.T) {
		tr := NewTracker(1, 100)

		snap, _ := tr.Adjust(4, testNow)
		assert.Equal(t, 4, snap.Current)

		snap, _ = tr.Adjust(-3, testNow)
		assert.Equal(t, 1, snap.Current)
	})

	t.Run("clamps at zero", func(t *testing.T) {
		tr := NewTracker(1, 100)

		tr.Adjust(2, testNow)
		snap, _ := tr.Adjust(-10, testNow)
		assert.Equal(t, 0, snap.Current, "decrements beyond zero clamp, never negative")
	})

	t.Run("daily peak updated at write time", func(t *testing.T) {
		tr := NewTracker(1, 100)

		tr.Adjust(10, testNow)
		tr.Adjust(5, testNow)
		tr.Adjust(-8, testNow)
		snap, _ := tr.Adjust(1, testNow)

		assert.Equal(t, 8, snap.Current)
		assert.Equal(t, 15, snap.TodayPeak)

		// Пик предыдущего дня не затрагивается
		nextDay := testNow.AddDate(0, 0, 1)
		snap, _ = tr.Adjust(3, nextDay)
		assert.Equal(t, 11, snap.TodayPeak)
		assert.Equal(t, 15, tr.PeakFor("2025-10-15"))
	})

	t.Run("warning thresholds are advisory", func(t *testing.T) {
		tr := NewTracker(1, 100)

		snap, _ := tr.Adjust(96, testNow)
		assert.Equal(t, domain.OccupancyCritical, snap.Warning)

		// Прибытие группы из 4 человек при 96/100: успех с предупреждением, не блокировка
		snap, _ = tr.Adjust(4, testNow)
		assert.Equal(t, 100, snap.Current)
		assert.InDelta(t, 1.0, snap.Rate, 1e-9)
		assert.Equal(t, domain.OccupancyFull, snap.Warning)

		// Пороги только предупреждают: счетчик может превысить вместимость
		snap, _ = tr.Adjust(5, testNow)
		assert.Equal(t, 105, snap.Current)
		assert.Equal(t, domain.OccupancyFull, snap.Warning)
	})

	t.Run("warning level boundaries", func(t *testing.T) {
		tr := NewTracker(1, 100)

		snap, _ := tr.Adjust(79, testNow)
		assert.Equal(t, domain.OccupancyOK, snap.Warning)

		snap, _ = tr.Adjust(1, testNow) // 80
		assert.Equal(t, domain.OccupancyWarn, snap.Warning)

		snap, _ = tr.Adjust(10, testNow) // 90
		assert.Equal(t, domain.OccupancyCritical, snap.Warning)
	})
}

func TestTrackerRevert(t *testing.T) {
	day := testNow.Format(domain.DateFormat)

	t.Run("rewinds peak set by the reverted adjust", func(t *testing.T) {
		tr := NewTracker(1, 100)

		_, receipt := tr.Adjust(4, testNow)
		snap := tr.Revert(receipt)

		assert.Equal(t, 0, snap.Current)
		assert.Equal(t, 0, tr.PeakFor(day), "пик отмененного прибытия не должен сохраняться")
	})

	t.Run("keeps peak reached earlier in the day", func(t *testing.T) {
		tr := NewTracker(1, 100)

		tr.Adjust(10, testNow)
		tr.Adjust(-6, testNow)
		_, receipt := tr.Adjust(2, testNow)

		snap := tr.Revert(receipt)
		assert.Equal(t, 4, snap.Current)
		assert.Equal(t, 10, tr.PeakFor(day))
	})

	t.Run("keeps peak raised further by another adjust", func(t *testing.T) {
		tr := NewTracker(1, 100)

		_, receipt := tr.Adjust(4, testNow)
		tr.Adjust(3, testNow)

		snap := tr.Revert(receipt)
		assert.Equal(t, 3, snap.Current)
		assert.Equal(t, 7, tr.PeakFor(day))
	})

	t.Run("clamped decrement compensates exactly", func(t *testing.T) {
		tr := NewTracker(1, 100)

		tr.Adjust(2, testNow)
		_, receipt := tr.Adjust(-10, testNow)
		assert.Equal(t, -2, receipt.Applied)

		snap := tr.Revert(receipt)
		assert.Equal(t, 2, snap.Current, "компенсация возвращает примененную величину, не запрошенную")
	})
}

// TestTrackerConcurrentAdjust конкурентные дельты не теряются и не уводят счетчик в минус
func TestTrackerConcurrentAdjust(t *testing.T) {
	tr := NewTracker(1, 1000)

	const pairs = 200
	var wg sync.WaitGroup
	for i := 0; i < pairs; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			tr.Adjust(2, testNow)
		}()
		go func() {
			defer wg.Done()
			tr.Adjust(-2, testNow)
		}()
	}
	wg.Wait()

	snap := tr.Snapshot(testNow)
	assert.GreaterOrEqual(t, snap.Current, 0)
	assert.Equal(t, 0, snap.Current%2, "deltas apply atomically")
}

func TestManager(t *testing.T) {
	t.Run("unregistered venue is a no-op", func(t *testing.T) {
		m := NewManager(nil)

		_, _, ok := m.Adjust(99, 5, testNow)
		assert.False(t, ok)
		assert.Nil(t, m.ForVenue(99))
	})

	t.Run("register and adjust", func(t *testing.T) {
		m := NewManager(nil)
		m.Register(1, 150)

		snap, _, ok := m.Adjust(1, 10, testNow)
		require.True(t, ok)
		assert.Equal(t, 10, snap.Current)
		assert.Equal(t, 150, snap.Capacity)
	})

	t.Run("revert undoes an adjust", func(t *testing.T) {
		m := NewManager(nil)
		m.Register(3, 50)

		_, receipt, ok := m.Adjust(3, 6, testNow)
		require.True(t, ok)

		snap, ok := m.Revert(receipt)
		require.True(t, ok)
		assert.Equal(t, 0, snap.Current)
		assert.Equal(t, 0, m.ForVenue(3).PeakFor(testNow.Format(domain.DateFormat)))
	})

	t.Run("load restores state from storage", func(t *testing.T) {
		m := NewManager(nil)
		m.Load(2, 100, 42, map[string]int{"2025-10-14": 97})

		tr := m.ForVenue(2)
		require.NotNil(t, tr)
		assert.Equal(t, 42, tr.Snapshot(testNow).Current)
		assert.Equal(t, 97, tr.PeakFor("2025-10-14"))
	})
}
