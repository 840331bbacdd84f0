package occupancy

import (
	"sync"
	"time"

	"github.com/venuegrid/VG-ReservationEngine/internal/domain"
)

// Snapshot состояние заполненности заведения на момент вызова
type Snapshot struct {
	VenueID   int64
	Current   int
	Capacity  int
	Rate      float64 // доля заполненности, может превышать 1.0
	Warning   domain.OccupancyWarningLevel
	TodayPeak int
}

// Tracker maintains the live headcount of one capacity-bounded venue.
// Updates are deltas driven by booking-status transitions only; the counter
// clamps at zero and the per-day peak log is updated at write time, not by
// a scheduled job. Capacity thresholds are advisory and never block.
type Tracker struct {
	venueID  int64
	capacity int

	mu         sync.Mutex
	current    int
	dailyPeaks map[string]int // YYYY-MM-DD -> пиковая заполненность
}

// NewTracker создает трекер заполненности заведения
func NewTracker(venueID int64, capacity int) *Tracker {
	return &Tracker{
		venueID:    venueID,
		capacity:   capacity,
		dailyPeaks: make(map[string]int),
	}
}

// AdjustReceipt фактически примененная корректировка
// Applied учитывает ограничение счетчика нулем и может отличаться от
// запрошенной дельты; Revert компенсирует ровно примененную величину
type AdjustReceipt struct {
	VenueID int64
	Day     string
	Applied int

	prevPeak int
	newPeak  int
}

// Adjust атомарно применяет дельту к текущей заполненности
// Счетчик не уходит ниже нуля; пик дня обновляется при превышении
func (t *Tracker) Adjust(delta int, now time.Time) (Snapshot, AdjustReceipt) {
	t.mu.Lock()
	defer t.mu.Unlock()

	before := t.current
	t.current += delta
	if t.current < 0 {
		t.current = 0
	}

	day := now.Format(domain.DateFormat)
	prevPeak := t.dailyPeaks[day]
	if t.current > prevPeak {
		t.dailyPeaks[day] = t.current
	}

	receipt := AdjustReceipt{
		VenueID:  t.venueID,
		Day:      day,
		Applied:  t.current - before,
		prevPeak: prevPeak,
		newPeak:  t.dailyPeaks[day],
	}

	return t.snapshotLocked(day), receipt
}

// Revert откатывает ранее примененную корректировку
// Пик дня снимается только если его установила именно откатываемая
// корректировка и текущая заполненность его больше не подтверждает
func (t *Tracker) Revert(r AdjustReceipt) Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.current -= r.Applied
	if t.current < 0 {
		t.current = 0
	}

	if r.newPeak > r.prevPeak && t.dailyPeaks[r.Day] == r.newPeak {
		peak := r.prevPeak
		if t.current > peak {
			peak = t.current
		}
		t.dailyPeaks[r.Day] = peak
	}

	return t.snapshotLocked(r.Day)
}

// Snapshot возвращает текущее состояние заполненности
func (t *Tracker) Snapshot(now time.Time) Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshotLocked(now.Format(domain.DateFormat))
}

// PeakFor возвращает пиковую заполненность за указанный день
func (t *Tracker) PeakFor(day string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.dailyPeaks[day]
}

// load восстанавливает состояние из хранилища (warm-up при старте)
func (t *Tracker) load(current int, peaks map[string]int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if current > 0 {
		t.current = current
	}
	for day, peak := range peaks {
		t.dailyPeaks[day] = peak
	}
}

func (t *Tracker) snapshotLocked(day string) Snapshot {
	rate := 0.0
	if t.capacity > 0 {
		rate = float64(t.current) / float64(t.capacity)
	}
	return Snapshot{
		VenueID:   t.venueID,
		Current:   t.current,
		Capacity:  t.capacity,
		Rate:      rate,
		Warning:   domain.WarningLevelForRate(rate),
		TodayPeak: t.dailyPeaks[day],
	}
}
