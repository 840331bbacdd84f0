package occupancy

import (
	"sync"
	"time"
)

// MetricsRecorder интерфейс для экспорта заполненности в метрики
type MetricsRecorder interface {
	SetVenueOccupancy(venue string, current int, capacity int)
}

// Manager реестр трекеров заполненности: один трекер на заведение
type Manager struct {
	mu       sync.RWMutex
	trackers map[int64]*Tracker
	metrics  MetricsRecorder // может быть nil, если метрики выключены
}

// NewManager создает реестр трекеров
func NewManager(metrics MetricsRecorder) *Manager {
	return &Manager{
		trackers: make(map[int64]*Tracker),
		metrics:  metrics,
	}
}

// Register регистрирует заведение с отслеживаемой вместимостью
func (m *Manager) Register(venueID int64, capacity int) *Tracker {
	m.mu.Lock()
	defer m.mu.Unlock()

	if t, ok := m.trackers[venueID]; ok {
		return t
	}
	t := NewTracker(venueID, capacity)
	m.trackers[venueID] = t
	return t
}

// ForVenue возвращает трекер заведения
// Возвращает nil, если заведение не отслеживает заполненность
func (m *Manager) ForVenue(venueID int64) *Tracker {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.trackers[venueID]
}

// Adjust применяет дельту к заполненности заведения и обновляет метрики
// Для незарегистрированных заведений дельта игнорируется (ok == false)
func (m *Manager) Adjust(venueID int64, delta int, now time.Time) (Snapshot, AdjustReceipt, bool) {
	t := m.ForVenue(venueID)
	if t == nil {
		return Snapshot{}, AdjustReceipt{}, false
	}

	snap, receipt := t.Adjust(delta, now)
	m.publish(snap)
	return snap, receipt, true
}

// Revert откатывает корректировку, примененную через Adjust
func (m *Manager) Revert(r AdjustReceipt) (Snapshot, bool) {
	t := m.ForVenue(r.VenueID)
	if t == nil {
		return Snapshot{}, false
	}

	snap := t.Revert(r)
	m.publish(snap)
	return snap, true
}

// Load восстанавливает состояние трекера из хранилища
func (m *Manager) Load(venueID int64, capacity int, current int, peaks map[string]int) {
	t := m.Register(venueID, capacity)
	t.load(current, peaks)
	m.publish(t.Snapshot(time.Now()))
}

func (m *Manager) publish(snap Snapshot) {
	if m.metrics == nil {
		return
	}
	m.metrics.SetVenueOccupancy(formatVenueID(snap.VenueID), snap.Current, snap.Capacity)
}
