package change_booking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/venuegrid/VG-ReservationEngine/internal/bookinglock"
	"github.com/venuegrid/VG-ReservationEngine/internal/domain"
	bookingRepo "github.com/venuegrid/VG-ReservationEngine/internal/infra/storage/booking"
	ledgerRepo "github.com/venuegrid/VG-ReservationEngine/internal/infra/storage/ledger"
	"github.com/venuegrid/VG-ReservationEngine/internal/ledger"
)

type fakeBookingRepo struct {
	bookings    map[string]*domain.Booking
	updated     []*domain.Booking
	updateErr   error
	assignments map[string][]domain.ResourceAssignment
}

func (f *fakeBookingRepo) GetByID(_ context.Context, id string) (*domain.Booking, error) {
	b, ok := f.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	copied := *b
	return &copied, nil
}

func (f *fakeBookingRepo) Update(_ context.Context, b *domain.Booking) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updated = append(f.updated, b)
	f.bookings[b.ID] = b
	return nil
}

func (f *fakeBookingRepo) ReplaceAssignments(_ context.Context, bookingID string, assignments []domain.ResourceAssignment) error {
	if f.assignments == nil {
		f.assignments = make(map[string][]domain.ResourceAssignment)
	}
	f.assignments[bookingID] = assignments
	return nil
}

type fakeLedgerRepo struct {
	inserted []ledgerRepo.Entry
	deleted  []string
}

func (f *fakeLedgerRepo) InsertMany(_ context.Context, entries []ledgerRepo.Entry) error {
	f.inserted = append(f.inserted, entries...)
	return nil
}

func (f *fakeLedgerRepo) DeleteByBooking(_ context.Context, bookingID string) error {
	f.deleted = append(f.deleted, bookingID)
	return nil
}

type fakeResourceRepo struct {
	resources map[int64]*domain.Resource
}

func (f *fakeResourceRepo) GetByIDs(_ context.Context, ids []int64) ([]*domain.Resource, error) {
	out := make([]*domain.Resource, 0, len(ids))
	for _, id := range ids {
		if res, ok := f.resources[id]; ok {
			out = append(out, res)
		}
	}
	return out, nil
}

type fakeTxManager struct {
	err  error
	gate *txGate
}

// txGate останавливает первую транзакцию до явного освобождения
type txGate struct {
	once    sync.Once
	entered chan struct{}
	release chan struct{}
}

func (f *fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if f.err != nil {
		return f.err
	}
	if f.gate != nil {
		f.gate.once.Do(func() {
			f.gate.entered <- struct{}{}
			<-f.gate.release
		})
	}
	return fn(ctx)
}

type fakeMetrics struct {
	conflicts int
}

func (f *fakeMetrics) IncBookingConflict() { f.conflicts++ }

type fakeTimeProvider struct {
	now time.Time
}

func (f *fakeTimeProvider) Now() time.Time { return f.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fixture struct {
	uc       *UseCase
	bookings *fakeBookingRepo
	registry *ledger.Registry
	metrics  *fakeMetrics
	now      time.Time
	booking  *domain.Booking
	interval domain.TimeInterval
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	now := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
	interval, err := domain.NewTimeInterval(now.Add(2*time.Hour), now.Add(3*time.Hour))
	require.NoError(t, err)

	registry := ledger.NewRegistry()
	entryID, err := registry.ForResource(10).Reserve(interval, "booking-1")
	require.NoError(t, err)

	booking := &domain.Booking{
		ID:         "booking-1",
		TenantID:   1,
		CustomerID: 100,
		Kind:       domain.KindRestaurant,
		Interval:   interval,
		Status:     domain.StatusConfirmed,
		HeadCount:  4,
		Assignments: []domain.ResourceAssignment{
			{ResourceID: 10, EntryID: entryID},
		},
	}

	bookings := &fakeBookingRepo{bookings: map[string]*domain.Booking{"booking-1": booking}}
	metrics := &fakeMetrics{}

	uc := NewUseCase(
		bookings,
		&fakeLedgerRepo{},
		&fakeResourceRepo{resources: map[int64]*domain.Resource{
			10: {ID: 10, TenantID: 1, Kind: domain.ResourceKindTable, Name: "Стол 1", Capacity: 4, Active: true},
			11: {ID: 11, TenantID: 1, Kind: domain.ResourceKindTable, Name: "Стол 2", Capacity: 4, Active: true},
		}},
		registry,
		bookinglock.NewGuard(),
		&fakeTxManager{},
		metrics,
		nopLogger{},
	)
	uc.timeProvider = &fakeTimeProvider{now: now}

	return &fixture{uc: uc, bookings: bookings, registry: registry, metrics: metrics, now: now, booking: booking, interval: interval}
}

func TestExecute_RescheduleWithinOwnSlot(t *testing.T) {
	f := newFixture(t)

	// Сдвиг на 30 минут внутри собственного слота не конфликтует сам с собой
	req := &Request{
		BookingID: "booking-1",
		TenantID:  1,
		StartTime: f.interval.Start.Add(30 * time.Minute),
		EndTime:   f.interval.End.Add(30 * time.Minute),
	}

	resp, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, req.StartTime, resp.StartTime)
	assert.Equal(t, req.EndTime, resp.EndTime)
	assert.Equal(t, []int64{10}, resp.ResourceIDs)

	// Старая резервация снята: освободившиеся первые 30 минут доступны другим
	vacated, err := domain.NewTimeInterval(f.interval.Start, f.interval.Start.Add(30*time.Minute))
	require.NoError(t, err)
	assert.True(t, f.registry.ForResource(10).IsFree(vacated, ""))
	require.Len(t, f.bookings.updated, 1)
}

func TestExecute_MoveToAnotherResource(t *testing.T) {
	f := newFixture(t)

	req := &Request{
		BookingID:   "booking-1",
		TenantID:    1,
		StartTime:   f.interval.Start,
		EndTime:     f.interval.End,
		ResourceIDs: []int64{11},
	}

	resp, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, []int64{11}, resp.ResourceIDs)
	assert.True(t, f.registry.ForResource(10).IsFree(f.interval, ""))
	assert.False(t, f.registry.ForResource(11).IsFree(f.interval, ""))
}

func TestExecute_ConflictWithForeignBooking(t *testing.T) {
	f := newFixture(t)

	// Целевой интервал занят чужим бронированием
	target, err := domain.NewTimeInterval(f.now.Add(5*time.Hour), f.now.Add(6*time.Hour))
	require.NoError(t, err)
	_, err = f.registry.ForResource(10).Reserve(target, "booking-2")
	require.NoError(t, err)

	req := &Request{
		BookingID: "booking-1",
		TenantID:  1,
		StartTime: target.Start,
		EndTime:   target.End,
	}

	_, err = f.uc.Execute(context.Background(), req)
	require.ErrorIs(t, err, ErrSlotConflict)

	// Старая резервация не тронута
	assert.False(t, f.registry.ForResource(10).IsFree(f.interval, ""))
	assert.Equal(t, 1, f.metrics.conflicts)
}

func TestExecute_BookingNotFound(t *testing.T) {
	f := newFixture(t)

	req := &Request{
		BookingID: "missing",
		TenantID:  1,
		StartTime: f.now.Add(time.Hour),
		EndTime:   f.now.Add(2 * time.Hour),
	}

	_, err := f.uc.Execute(context.Background(), req)
	require.ErrorIs(t, err, ErrBookingNotFound)
}

func TestExecute_ForeignTenant(t *testing.T) {
	f := newFixture(t)

	req := &Request{
		BookingID: "booking-1",
		TenantID:  2,
		StartTime: f.now.Add(time.Hour),
		EndTime:   f.now.Add(2 * time.Hour),
	}

	// Чужое бронирование неотличимо от несуществующего
	_, err := f.uc.Execute(context.Background(), req)
	require.ErrorIs(t, err, ErrBookingNotFound)
}

func TestExecute_TerminalStatusNotReschedulable(t *testing.T) {
	f := newFixture(t)
	f.booking.Status = domain.StatusCompleted

	req := &Request{
		BookingID: "booking-1",
		TenantID:  1,
		StartTime: f.now.Add(time.Hour),
		EndTime:   f.now.Add(2 * time.Hour),
	}

	_, err := f.uc.Execute(context.Background(), req)
	require.ErrorIs(t, err, ErrNotReschedulable)
}

func TestExecute_PersistenceFailureKeepsOldReservation(t *testing.T) {
	f := newFixture(t)
	f.uc.txManager = &fakeTxManager{err: errors.New("connection refused")}

	newStart := f.now.Add(5 * time.Hour)
	req := &Request{
		BookingID: "booking-1",
		TenantID:  1,
		StartTime: newStart,
		EndTime:   newStart.Add(time.Hour),
	}

	_, err := f.uc.Execute(context.Background(), req)
	require.Error(t, err)

	// Старая резервация на месте, новая снята
	assert.False(t, f.registry.ForResource(10).IsFree(f.interval, ""))
	newInterval, err := domain.NewTimeInterval(newStart, newStart.Add(time.Hour))
	require.NoError(t, err)
	assert.True(t, f.registry.ForResource(10).IsFree(newInterval, ""))
}

func TestExecute_ConcurrentReschedulesLeaveNoOrphanEntries(t *testing.T) {
	f := newFixture(t)
	gate := &txGate{entered: make(chan struct{}), release: make(chan struct{})}
	f.uc.txManager = &fakeTxManager{gate: gate}

	firstStart := f.now.Add(4 * time.Hour)
	secondStart := f.now.Add(6 * time.Hour)

	firstDone := make(chan error, 1)
	go func() {
		_, err := f.uc.Execute(context.Background(), &Request{
			BookingID: "booking-1",
			TenantID:  1,
			StartTime: firstStart,
			EndTime:   firstStart.Add(time.Hour),
		})
		firstDone <- err
	}()

	// Первый перенос стоит внутри транзакции и держит блокировку бронирования
	<-gate.entered

	secondDone := make(chan error, 1)
	go func() {
		_, err := f.uc.Execute(context.Background(), &Request{
			BookingID: "booking-1",
			TenantID:  1,
			StartTime: secondStart,
			EndTime:   secondStart.Add(time.Hour),
		})
		secondDone <- err
	}()

	close(gate.release)
	require.NoError(t, <-firstDone)
	require.NoError(t, <-secondDone)

	// В леджере ровно одна запись, и она совпадает с сохраненным назначением:
	// второй перенос дождался первого и снял его резервацию, а не устаревшую исходную
	entries := f.registry.ForResource(10).Entries()
	require.Len(t, entries, 1)
	persisted := f.bookings.assignments["booking-1"]
	require.Len(t, persisted, 1)
	assert.Equal(t, persisted[0].EntryID, entries[0].ID)
	assert.Equal(t, secondStart, entries[0].Interval.Start)
}

func TestExecute_PastStartTime(t *testing.T) {
	f := newFixture(t)

	req := &Request{
		BookingID: "booking-1",
		TenantID:  1,
		StartTime: f.now.Add(-time.Hour),
		EndTime:   f.now,
	}

	_, err := f.uc.Execute(context.Background(), req)
	require.ErrorIs(t, err, ErrPastStartTime)
}
