package domain

import "time"

// ResourceKind represents the kind of a bookable resource
type ResourceKind string

const (
	ResourceKindStaff ResourceKind = "staff"
	ResourceKindTable ResourceKind = "table"
)

// Resource represents a bookable, time-exclusive entity: a staff member
// or a physical table. Resources are created by the tenant's admin flow
// and deactivated rather than deleted while bookings still reference them.
type Resource struct {
	ID       int64
	TenantID int64
	Kind     ResourceKind
	Name     string
	Capacity int  // число мест (только для столов)
	Active   bool
	Occupied bool // стол занят прямо сейчас (гости прибыли)

	// Blackouts окна недоступности (отсутствия сотрудника)
	Blackouts []TimeInterval

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsBlackedOut проверяет, что интервал пересекается с окном недоступности ресурса
func (r *Resource) IsBlackedOut(interval TimeInterval) bool {
	for _, b := range r.Blackouts {
		if b.Overlaps(interval) {
			return true
		}
	}
	return false
}

// BelongsTo проверяет принадлежность ресурса заведению
func (r *Resource) BelongsTo(tenantID int64) bool {
	return r.TenantID == tenantID
}
