package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/venuegrid/VG-ReservationEngine/internal/domain"
	"github.com/venuegrid/VG-ReservationEngine/pkg/ptr"
)

func TestTenantBookingsQuery_PeriodBounds(t *testing.T) {
	endDate := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)

	sql, args, err := tenantBookingsQuery(domain.TenantBookingsFilter{
		TenantID: 1,
		EndDate:  &endDate,
	}).ToSql()
	require.NoError(t, err)

	// Граница конца периода полуоткрытая: бронирование, начинающееся ровно
	// в полночь следующего дня, в период не попадает
	assert.Contains(t, sql, "b.start_ts < ")
	assert.NotContains(t, sql, "b.start_ts <= ")
	assert.Contains(t, args, endDate.AddDate(0, 0, 1))
}

func TestTenantBookingsQuery_Filters(t *testing.T) {
	startDate := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	status := domain.StatusConfirmed

	sql, args, err := tenantBookingsQuery(domain.TenantBookingsFilter{
		TenantID:   1,
		ResourceID: ptr.Ptr(int64(10)),
		StartDate:  &startDate,
		Status:     &status,
	}).ToSql()
	require.NoError(t, err)

	assert.Contains(t, sql, "JOIN booking_assignments ba ON ba.booking_id = b.id")
	assert.Contains(t, sql, "b.end_ts >= ")
	assert.Contains(t, sql, "b.status = ")
	assert.Contains(t, args, startDate)
	assert.Contains(t, args, status)
}

func TestTenantBookingsQuery_ActiveOnlyByDefault(t *testing.T) {
	sql, _, err := tenantBookingsQuery(domain.TenantBookingsFilter{TenantID: 1}).ToSql()
	require.NoError(t, err)
	assert.Contains(t, sql, "b.status NOT IN")

	sql, _, err = tenantBookingsQuery(domain.TenantBookingsFilter{TenantID: 1, IncludeInactive: true}).ToSql()
	require.NoError(t, err)
	assert.NotContains(t, sql, "b.status NOT IN")
}
