package ledger

import "sync"

// Registry реестр леджеров: один леджер на ресурс
// Леджеры разных ресурсов независимы и модифицируются конкурентно
type Registry struct {
	mu      sync.RWMutex
	ledgers map[int64]*Ledger
}

// NewRegistry создает пустой реестр леджеров
func NewRegistry() *Registry {
	return &Registry{ledgers: make(map[int64]*Ledger)}
}

// ForResource возвращает леджер ресурса, создавая его при первом обращении
func (r *Registry) ForResource(resourceID int64) *Ledger {
	r.mu.RLock()
	l, ok := r.ledgers[resourceID]
	r.mu.RUnlock()
	if ok {
		return l
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if l, ok := r.ledgers[resourceID]; ok {
		return l
	}
	l = NewLedger(resourceID)
	r.ledgers[resourceID] = l
	return l
}

// Load гидрирует леджер ресурса записями из хранилища (warm-up при старте)
func (r *Registry) Load(resourceID int64, entries []Entry) {
	r.ForResource(resourceID).load(entries)
}
