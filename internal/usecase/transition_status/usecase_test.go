package transition_status

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
	"github.com/venuegrid/VG-ReservationEngine/internal/ledger"
	"github.com/venuegrid/VG-ReservationEngine/internal/occupancy"
	"github.com/venuegrid/VG-ReservationEngine/pkg/ptr"
)

type fakeBookingRepo struct {
	bookings  map[string]*domain.Booking
	updated   []*domain.Booking
	history   []domain.StatusHistoryEntry
	updateErr error
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

func (f *fakeBookingRepo) AppendHistory(_ context.Context, entry domain.StatusHistoryEntry) error {
	f.history = append(f.history, entry)
	return nil
}

type fakeLedgerRepo struct {
	deleted []string
}

func (f *fakeLedgerRepo) DeleteByBooking(_ context.Context, bookingID string) error {
	f.deleted = append(f.deleted, bookingID)
	return nil
}

type fakeResourceRepo struct {
	occupied map[int64]bool
}

func (f *fakeResourceRepo) SetOccupied(_ context.Context, id int64, occupied bool) error {
	if f.occupied == nil {
		f.occupied = make(map[int64]bool)
	}
	f.occupied[id] = occupied
	return nil
}

type fakeVenueRepo struct {
	venue *domain.Venue
}

func (f *fakeVenueRepo) GetByTenant(_ context.Context, _ int64) (*domain.Venue, error) {
	return f.venue, nil
}

type fakeOccupancyRepo struct {
	current map[int64]int
	peaks   map[string]int
}

func (f *fakeOccupancyRepo) UpsertCurrent(_ context.Context, venueID int64, current int) error {
	if f.current == nil {
		f.current = make(map[int64]int)
	}
	f.current[venueID] = current
	return nil
}

func (f *fakeOccupancyRepo) UpsertDailyPeak(_ context.Context, _ int64, day string, peak int) error {
	if f.peaks == nil {
		f.peaks = make(map[string]int)
	}
	f.peaks[day] = peak
	return nil
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
	transitions []string
}

func (f *fakeMetrics) IncLifecycleTransition(from, to string) {
	f.transitions = append(f.transitions, from+"->"+to)
}

type fakeTimeProvider struct {
	now time.Time
}

func (f *fakeTimeProvider) Now() time.Time { return f.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fixture struct {
	uc        *UseCase
	bookings  *fakeBookingRepo
	entries   *fakeLedgerRepo
	resources *fakeResourceRepo
	occState  *fakeOccupancyRepo
	manager   *occupancy.Manager
	registry  *ledger.Registry
	metrics   *fakeMetrics
	now       time.Time
	booking   *domain.Booking
	interval  domain.TimeInterval
}

func newFixture(t *testing.T, status domain.BookingStatus) *fixture {
	t.Helper()

	now := time.Date(2025, 6, 2, 19, 0, 0, 0, time.UTC)
	interval, err := domain.NewTimeInterval(now, now.Add(2*time.Hour))
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
		Status:     status,
		HeadCount:  4,
		Assignments: []domain.ResourceAssignment{
			{ResourceID: 10, EntryID: entryID},
		},
	}

	bookings := &fakeBookingRepo{bookings: map[string]*domain.Booking{"booking-1": booking}}
	entries := &fakeLedgerRepo{}
	resources := &fakeResourceRepo{}
	occState := &fakeOccupancyRepo{}
	manager := occupancy.NewManager(nil)
	manager.Register(7, 100)
	metrics := &fakeMetrics{}

	uc := NewUseCase(
		bookings,
		entries,
		resources,
		&fakeVenueRepo{venue: &domain.Venue{ID: 7, TenantID: 1, Name: "Тестовое заведение", Kind: domain.KindRestaurant, TotalCapacity: 100}},
		occState,
		manager,
		registry,
		bookinglock.NewGuard(),
		&fakeTxManager{},
		metrics,
		nopLogger{},
	)
	uc.timeProvider = &fakeTimeProvider{now: now}

	return &fixture{
		uc: uc, bookings: bookings, entries: entries, resources: resources,
		occState: occState, manager: manager, registry: registry, metrics: metrics,
		now: now, booking: booking, interval: interval,
	}
}

func TestExecute_Arrival(t *testing.T) {
	f := newFixture(t, domain.StatusConfirmed)

	resp, err := f.uc.Execute(context.Background(), &Request{
		BookingID: "booking-1",
		TenantID:  1,
		NewStatus: domain.StatusArrived,
		ActorID:   500,
	})
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusArrived), resp.Status)
	require.NotNil(t, resp.ArrivedAt)
	assert.Equal(t, f.now, *resp.ArrivedAt)

	// Заполненность выросла на число гостей, стол помечен занятым
	require.NotNil(t, resp.Occupancy)
	assert.Equal(t, 4, resp.Occupancy.Current)
	assert.True(t, f.resources.occupied[10])

	// Интервал остался в леджере: он был зарезервирован при создании
	assert.False(t, f.registry.ForResource(10).IsFree(f.interval, ""))
	assert.Empty(t, f.entries.deleted)

	assert.Equal(t, []string{"confirmed->arrived"}, f.metrics.transitions)
	require.Len(t, f.bookings.history, 1)
	assert.Equal(t, int64(500), f.bookings.history[0].ActorID)
}

func TestExecute_Completion(t *testing.T) {
	f := newFixture(t, domain.StatusConfirmed)

	_, err := f.uc.Execute(context.Background(), &Request{
		BookingID: "booking-1",
		TenantID:  1,
		NewStatus: domain.StatusArrived,
		ActorID:   500,
	})
	require.NoError(t, err)

	resp, err := f.uc.Execute(context.Background(), &Request{
		BookingID:  "booking-1",
		TenantID:   1,
		NewStatus:  domain.StatusCompleted,
		ActorID:    500,
		FinalSpend: ptr.Ptr(250.50),
	})
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusCompleted), resp.Status)
	require.NotNil(t, resp.DepartedAt)
	require.NotNil(t, resp.FinalSpend)
	assert.Equal(t, 250.50, *resp.FinalSpend)

	// Заполненность вернулась к нулю, стол освобожден, леджер очищен
	require.NotNil(t, resp.Occupancy)
	assert.Equal(t, 0, resp.Occupancy.Current)
	assert.False(t, f.resources.occupied[10])
	assert.True(t, f.registry.ForResource(10).IsFree(f.interval, ""))
	assert.Equal(t, []string{"booking-1"}, f.entries.deleted)

	// Пик дня сохранил максимум
	assert.Equal(t, 4, f.occState.peaks[f.now.Format(domain.DateFormat)])
}

func TestExecute_InvalidTransition(t *testing.T) {
	f := newFixture(t, domain.StatusCompleted)

	// Завершенное бронирование нельзя вернуть в confirmed
	_, err := f.uc.Execute(context.Background(), &Request{
		BookingID: "booking-1",
		TenantID:  1,
		NewStatus: domain.StatusConfirmed,
		ActorID:   500,
	})
	require.ErrorIs(t, err, ErrInvalidTransition)

	// Статус не изменился
	assert.Empty(t, f.bookings.updated)
	assert.Equal(t, domain.StatusCompleted, f.booking.Status)
}

func TestExecute_CancelPendingLeavesOccupancyUntouched(t *testing.T) {
	f := newFixture(t, domain.StatusPending)

	resp, err := f.uc.Execute(context.Background(), &Request{
		BookingID:          "booking-1",
		TenantID:           1,
		NewStatus:          domain.StatusCancelled,
		ActorID:            100,
		CancellationReason: ptr.Ptr("планы изменились"),
	})
	require.NoError(t, err)

	// Гость не прибывал: заполненность не корректируется
	assert.Nil(t, resp.Occupancy)
	require.NotNil(t, resp.CancelledAt)

	// Леджер освобожден
	assert.True(t, f.registry.ForResource(10).IsFree(f.interval, ""))
	assert.Equal(t, []string{"booking-1"}, f.entries.deleted)
}

func TestExecute_CancelArrivedDecrementsOccupancy(t *testing.T) {
	f := newFixture(t, domain.StatusConfirmed)

	_, err := f.uc.Execute(context.Background(), &Request{
		BookingID: "booking-1",
		TenantID:  1,
		NewStatus: domain.StatusArrived,
		ActorID:   500,
	})
	require.NoError(t, err)

	resp, err := f.uc.Execute(context.Background(), &Request{
		BookingID:          "booking-1",
		TenantID:           1,
		NewStatus:          domain.StatusCancelled,
		ActorID:            500,
		CancellationReason: ptr.Ptr("инцидент в зале"),
	})
	require.NoError(t, err)

	// Гости уже были внутри: счетчик уменьшается, стол освобождается
	require.NotNil(t, resp.Occupancy)
	assert.Equal(t, 0, resp.Occupancy.Current)
	assert.False(t, f.resources.occupied[10])
}

func TestExecute_NoShowReleasesLedgerOnly(t *testing.T) {
	f := newFixture(t, domain.StatusConfirmed)

	resp, err := f.uc.Execute(context.Background(), &Request{
		BookingID: "booking-1",
		TenantID:  1,
		NewStatus: domain.StatusNoShow,
		ActorID:   500,
	})
	require.NoError(t, err)

	assert.Nil(t, resp.Occupancy)
	assert.True(t, f.registry.ForResource(10).IsFree(f.interval, ""))
}

func TestExecute_PersistenceFailureCompensatesOccupancy(t *testing.T) {
	f := newFixture(t, domain.StatusConfirmed)
	f.uc.txManager = &fakeTxManager{err: errors.New("connection refused")}

	_, err := f.uc.Execute(context.Background(), &Request{
		BookingID: "booking-1",
		TenantID:  1,
		NewStatus: domain.StatusArrived,
		ActorID:   500,
	})
	require.Error(t, err)

	// Примененная дельта компенсирована, леджер не тронут
	snap := f.manager.ForVenue(7).Snapshot(f.now)
	assert.Equal(t, 0, snap.Current)
	assert.False(t, f.registry.ForResource(10).IsFree(f.interval, ""))

	// Пик дня не хранит след незафиксированного прибытия
	assert.Equal(t, 0, f.manager.ForVenue(7).PeakFor(f.now.Format(domain.DateFormat)))
}

func TestExecute_ConcurrentArrivalsIncrementOccupancyOnce(t *testing.T) {
	f := newFixture(t, domain.StatusConfirmed)
	gate := &txGate{entered: make(chan struct{}), release: make(chan struct{})}
	f.uc.txManager = &fakeTxManager{gate: gate}

	firstDone := make(chan error, 1)
	go func() {
		_, err := f.uc.Execute(context.Background(), &Request{
			BookingID: "booking-1",
			TenantID:  1,
			NewStatus: domain.StatusArrived,
			ActorID:   500,
		})
		firstDone <- err
	}()

	// Первый переход стоит внутри транзакции и держит блокировку бронирования
	<-gate.entered

	secondDone := make(chan error, 1)
	go func() {
		_, err := f.uc.Execute(context.Background(), &Request{
			BookingID: "booking-1",
			TenantID:  1,
			NewStatus: domain.StatusArrived,
			ActorID:   501,
		})
		secondDone <- err
	}()

	close(gate.release)
	require.NoError(t, <-firstDone)

	// Второй переход видит уже примененный статус arrived и отклоняется
	require.ErrorIs(t, <-secondDone, ErrInvalidTransition)

	// Гости посчитаны один раз, история содержит единственный переход
	snap := f.manager.ForVenue(7).Snapshot(f.now)
	assert.Equal(t, 4, snap.Current)
	require.Len(t, f.bookings.history, 1)
	assert.Equal(t, []string{"confirmed->arrived"}, f.metrics.transitions)
}

func TestExecute_ForeignTenant(t *testing.T) {
	f := newFixture(t, domain.StatusConfirmed)

	_, err := f.uc.Execute(context.Background(), &Request{
		BookingID: "booking-1",
		TenantID:  2,
		NewStatus: domain.StatusArrived,
		ActorID:   500,
	})
	require.ErrorIs(t, err, ErrBookingNotFound)
}

func TestExecute_EffectiveTimeStampsArrival(t *testing.T) {
	f := newFixture(t, domain.StatusConfirmed)

	effective := f.now.Add(-10 * time.Minute)
	resp, err := f.uc.Execute(context.Background(), &Request{
		BookingID:     "booking-1",
		TenantID:      1,
		NewStatus:     domain.StatusArrived,
		ActorID:       500,
		EffectiveTime: &effective,
	})
	require.NoError(t, err)

	require.NotNil(t, resp.ArrivedAt)
	assert.Equal(t, effective, *resp.ArrivedAt)
}
