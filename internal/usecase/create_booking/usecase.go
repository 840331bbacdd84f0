package create_booking

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/venuegrid/VG-ReservationEngine/internal/domain"
	ledgerRepo "github.com/venuegrid/VG-ReservationEngine/internal/infra/storage/ledger"
	venueRepo "github.com/venuegrid/VG-ReservationEngine/internal/infra/storage/venue"
	catalogClient "github.com/venuegrid/VG-ReservationEngine/internal/integrations/catalogservice"
	"github.com/venuegrid/VG-ReservationEngine/internal/ledger"
)

// UseCase use case для создания бронирования
// Проверка и резервация ресурсов выполняются в критических секциях леджеров,
// персистентность догоняет после выхода из них
type UseCase struct {
	bookingRepo  BookingRepository
	ledgerStore  LedgerRepository
	resourceRepo ResourceRepository
	venueRepo    VenueRepository
	catalog      CatalogServiceClient
	registry     *ledger.Registry
	txManager    TransactionManager
	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	ledgerStore LedgerRepository,
	resourceRepo ResourceRepository,
	venueRepo VenueRepository,
	catalog CatalogServiceClient,
	registry *ledger.Registry,
	txManager TransactionManager,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		ledgerStore:  ledgerStore,
		resourceRepo: resourceRepo,
		venueRepo:    venueRepo,
		catalog:      catalog,
		registry:     registry,
		txManager:    txManager,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case создания бронирования
// Проверка и вставка для каждого ресурса атомарны; при проигрыше гонки после
// предварительной проверки уже зарезервированные ресурсы откатываются,
// поэтому частично закоммиченных бронирований не бывает
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: tenant=%d, customer=%d, kind=%s, start=%s, resources=%v, headcount=%d",
		req.TenantID, req.CustomerID, req.Kind, req.StartTime.Format("2006-01-02 15:04"), req.ResourceIDs, req.HeadCount)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Начало бронирования не в прошлом (относительно времени запроса)
	now := uc.timeProvider.Now()
	if err := validateStartNotInPast(req.StartTime, now); err != nil {
		uc.logger.Warn("CreateBooking: start time %s is in the past", req.StartTime.Format("2006-01-02 15:04"))
		return nil, err
	}

	// 3. Проверяем, что заведение арендатора существует
	// Вместимость заведения не ограничивает создание: пороги загрузки только предупреждают
	if _, err := uc.venueRepo.GetByTenant(ctx, req.TenantID); err != nil {
		if errors.Is(err, venueRepo.ErrVenueNotFound) {
			uc.logger.Warn("CreateBooking: venue for tenant=%d not found", req.TenantID)
			return nil, ErrVenueNotFound
		}
		uc.logger.Error("CreateBooking: failed to get venue for tenant=%d: %v", req.TenantID, err)
		return nil, fmt.Errorf("%w: failed to get venue: %v", ErrInternal, err)
	}

	// 4. Выводим интервал: из длительности услуги или из явного EndTime
	// Отсутствие услуги в каталоге отклоняет запрос, длительность по умолчанию не подставляется
	var serviceName *string
	serviceDuration := 0
	if req.ServiceID != nil {
		service, err := uc.catalog.GetService(ctx, req.TenantID, *req.ServiceID)
		if err != nil {
			if errors.Is(err, catalogClient.ErrServiceNotFound) {
				uc.logger.Warn("CreateBooking: service id=%d not found in catalog", *req.ServiceID)
				return nil, ErrServiceNotFound
			}
			uc.logger.Error("CreateBooking: failed to get service id=%d: %v", *req.ServiceID, err)
			return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
		}
		serviceDuration = service.DurationMinutes
		serviceName = &service.Name
	}

	interval, err := buildInterval(req, serviceDuration)
	if err != nil {
		uc.logger.Warn("CreateBooking: interval validation failed: %v", err)
		return nil, err
	}

	// 5. Проверяем принадлежность и доступность ресурсов
	if len(req.ResourceIDs) > 0 {
		resources, err := uc.resourceRepo.GetByIDs(ctx, req.ResourceIDs)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to get resources %v: %v", req.ResourceIDs, err)
			return nil, fmt.Errorf("%w: failed to get resources: %v", ErrInternal, err)
		}
		if err := validateResources(resources, req.ResourceIDs, req.TenantID, interval); err != nil {
			uc.logger.Warn("CreateBooking: resource validation failed: %v", err)
			return nil, err
		}
	}

	// 6. Фиксированный глобальный порядок ресурсов (защита от взаимной блокировки)
	orderedIDs := append([]int64(nil), req.ResourceIDs...)
	sort.Slice(orderedIDs, func(i, j int) bool { return orderedIDs[i] < orderedIDs[j] })

	// 7. Предварительная проверка: свободны ли все ресурсы
	// Запрос отклоняется целиком, если занят хотя бы один (all-or-nothing)
	conflicting := make([]int64, 0)
	for _, id := range orderedIDs {
		if !uc.registry.ForResource(id).IsFree(interval, "") {
			conflicting = append(conflicting, id)
		}
	}
	if len(conflicting) > 0 {
		uc.logger.Warn("CreateBooking: interval %s conflicts on resources %v", interval, conflicting)
		if uc.metrics != nil {
			uc.metrics.IncBookingConflict()
		}
		return nil, fmt.Errorf("%w: resources %v", ErrSlotConflict, conflicting)
	}

	booking := &domain.Booking{
		ID:          uuid.NewString(),
		TenantID:    req.TenantID,
		CustomerID:  req.CustomerID,
		Kind:        req.Kind,
		Interval:    interval,
		Status:      domain.DefaultStatusForKind(req.Kind),
		HeadCount:   req.HeadCount,
		ServiceID:   req.ServiceID,
		ServiceName: serviceName,
		Notes:       req.Notes,
	}

	// 8. Резервируем леджеры в фиксированном порядке
	// Проигрыш гонки после шага 7 откатывает уже зарезервированное
	assignments := make([]domain.ResourceAssignment, 0, len(orderedIDs))
	for _, id := range orderedIDs {
		entryID, err := uc.registry.ForResource(id).Reserve(interval, booking.ID)
		if err != nil {
			uc.rollbackReservations(assignments)
			uc.logger.Warn("CreateBooking: lost the race for resource id=%d, rolled back %d reservations",
				id, len(assignments))
			if uc.metrics != nil {
				uc.metrics.IncBookingConflict()
			}
			return nil, fmt.Errorf("%w: resources [%d]", ErrSlotConflict, id)
		}
		assignments = append(assignments, domain.ResourceAssignment{ResourceID: id, EntryID: entryID})
	}
	booking.Assignments = assignments

	// 9. Персистентность после выхода из критических секций:
	// бронирование, назначения, записи леджеров и история статусов в одной транзакции
	txErr := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		if _, err := uc.bookingRepo.Create(txCtx, booking); err != nil {
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		entries := make([]ledgerRepo.Entry, 0, len(assignments))
		for _, a := range assignments {
			entries = append(entries, ledgerRepo.Entry{
				ID:         a.EntryID,
				ResourceID: a.ResourceID,
				BookingID:  booking.ID,
				Start:      interval.Start,
				End:        interval.End,
			})
		}
		if err := uc.ledgerStore.InsertMany(txCtx, entries); err != nil {
			return fmt.Errorf("%w: failed to persist ledger entries: %v", ErrInternal, err)
		}

		history := domain.StatusHistoryEntry{
			BookingID:  booking.ID,
			Status:     booking.Status,
			ActorID:    req.CustomerID,
			OccurredAt: now,
		}
		if err := uc.bookingRepo.AppendHistory(txCtx, history); err != nil {
			return fmt.Errorf("%w: failed to append status history: %v", ErrInternal, err)
		}

		return nil
	})
	if txErr != nil {
		// БД отклонила запись: снимаем in-memory резервации
		uc.rollbackReservations(assignments)
		uc.logger.Error("CreateBooking: persistence failed, reservations rolled back: %v", txErr)
		return nil, txErr
	}

	uc.logger.Info("CreateBooking: successfully created booking id=%s, status=%s", booking.ID, booking.Status)

	return newResponse(booking), nil
}

// rollbackReservations освобождает записи леджеров незавершенного запроса
func (uc *UseCase) rollbackReservations(assignments []domain.ResourceAssignment) {
	for _, a := range assignments {
		uc.registry.ForResource(a.ResourceID).Release(a.EntryID)
	}
}
