package change_booking

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/venuegrid/VG-ReservationEngine/internal/bookinglock"
	"github.com/venuegrid/VG-ReservationEngine/internal/domain"
	bookingRepo "github.com/venuegrid/VG-ReservationEngine/internal/infra/storage/booking"
	ledgerRepo "github.com/venuegrid/VG-ReservationEngine/internal/infra/storage/ledger"
	"github.com/venuegrid/VG-ReservationEngine/internal/ledger"
)

// UseCase use case для переноса бронирования на новый интервал и/или ресурсы
type UseCase struct {
	bookingRepo  BookingRepository
	ledgerStore  LedgerRepository
	resourceRepo ResourceRepository
	registry     *ledger.Registry
	locks        *bookinglock.Guard
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
	registry *ledger.Registry,
	locks *bookinglock.Guard,
	txManager TransactionManager,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		ledgerStore:  ledgerStore,
		resourceRepo: resourceRepo,
		registry:     registry,
		locks:        locks,
		txManager:    txManager,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case переноса бронирования
// Новая резервация фиксируется до снятия старой: бронирование никогда
// не остается без слота из-за проигранной гонки («release-then-fail» исключен).
// Собственные записи бронирования из проверки конфликтов исключаются,
// поэтому перенос внутри своего же слота не конфликтует сам с собой
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ChangeBooking: booking=%s, tenant=%d, start=%s, resources=%v",
		req.BookingID, req.TenantID, req.StartTime.Format("2006-01-02 15:04"), req.ResourceIDs)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("ChangeBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Новое начало не в прошлом
	now := uc.timeProvider.Now()
	if err := validateStartNotInPast(req.StartTime, now); err != nil {
		uc.logger.Warn("ChangeBooking: start time %s is in the past", req.StartTime.Format("2006-01-02 15:04"))
		return nil, err
	}

	// 3. Строим новый интервал
	interval, err := buildInterval(req)
	if err != nil {
		uc.logger.Warn("ChangeBooking: interval validation failed: %v", err)
		return nil, err
	}

	// 4. Изменения одного бронирования выполняются строго последовательно:
	// конкурентный перенос или смена статуса ждет завершения текущего
	unlock := uc.locks.Lock(req.BookingID)
	defer unlock()

	// 5. Получаем бронирование и проверяем принадлежность заведению
	booking, err := uc.bookingRepo.GetByID(ctx, req.BookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			uc.logger.Warn("ChangeBooking: booking id=%s not found", req.BookingID)
			return nil, ErrBookingNotFound
		}
		uc.logger.Error("ChangeBooking: failed to get booking id=%s: %v", req.BookingID, err)
		return nil, fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
	}
	// Чужие бронирования неотличимы от несуществующих
	if booking.TenantID != req.TenantID {
		uc.logger.Warn("ChangeBooking: booking id=%s belongs to another tenant", req.BookingID)
		return nil, ErrBookingNotFound
	}

	// 6. Перенос доступен только из pending и confirmed
	if !booking.CanBeRescheduled() {
		uc.logger.Warn("ChangeBooking: booking id=%s has status %s and cannot be rescheduled",
			booking.ID, booking.Status)
		return nil, fmt.Errorf("%w: status %s", ErrNotReschedulable, booking.Status)
	}

	// 7. Целевой набор ресурсов: новый, если передан, иначе текущий
	targetIDs := req.ResourceIDs
	if targetIDs == nil {
		targetIDs = booking.ResourceIDs()
	}

	// Запись в салон привязывается максимум к одному сотруднику
	if booking.Kind == domain.KindAppointment && len(targetIDs) > 1 {
		return nil, fmt.Errorf("%w: appointment binds at most one staff resource", ErrInvalidInput)
	}

	// 8. Проверяем принадлежность и доступность целевых ресурсов
	if len(targetIDs) > 0 {
		resources, err := uc.resourceRepo.GetByIDs(ctx, targetIDs)
		if err != nil {
			uc.logger.Error("ChangeBooking: failed to get resources %v: %v", targetIDs, err)
			return nil, fmt.Errorf("%w: failed to get resources: %v", ErrInternal, err)
		}
		if err := validateResources(resources, targetIDs, req.TenantID, interval); err != nil {
			uc.logger.Warn("ChangeBooking: resource validation failed: %v", err)
			return nil, err
		}
	}

	orderedIDs := append([]int64(nil), targetIDs...)
	sort.Slice(orderedIDs, func(i, j int) bool { return orderedIDs[i] < orderedIDs[j] })

	// 9. Предварительная проверка с исключением собственной резервации
	conflicting := make([]int64, 0)
	for _, id := range orderedIDs {
		if !uc.registry.ForResource(id).IsFree(interval, booking.ID) {
			conflicting = append(conflicting, id)
		}
	}
	if len(conflicting) > 0 {
		uc.logger.Warn("ChangeBooking: interval %s conflicts on resources %v", interval, conflicting)
		if uc.metrics != nil {
			uc.metrics.IncBookingConflict()
		}
		return nil, fmt.Errorf("%w: resources %v", ErrSlotConflict, conflicting)
	}

	// 10. Резервируем новый слот; старые записи того же бронирования конфликт не дают
	newAssignments := make([]domain.ResourceAssignment, 0, len(orderedIDs))
	for _, id := range orderedIDs {
		entryID, err := uc.registry.ForResource(id).Reserve(interval, booking.ID)
		if err != nil {
			uc.releaseAssignments(newAssignments)
			uc.logger.Warn("ChangeBooking: lost the race for resource id=%d, rolled back %d new reservations",
				id, len(newAssignments))
			if uc.metrics != nil {
				uc.metrics.IncBookingConflict()
			}
			return nil, fmt.Errorf("%w: resources [%d]", ErrSlotConflict, id)
		}
		newAssignments = append(newAssignments, domain.ResourceAssignment{ResourceID: id, EntryID: entryID})
	}

	oldAssignments := booking.Assignments
	booking.Interval = interval
	booking.Assignments = newAssignments

	// 11. Персистентность: интервал, назначения, записи леджеров в одной транзакции
	txErr := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		if err := uc.bookingRepo.Update(txCtx, booking); err != nil {
			return fmt.Errorf("%w: failed to update booking: %v", ErrInternal, err)
		}
		if err := uc.bookingRepo.ReplaceAssignments(txCtx, booking.ID, newAssignments); err != nil {
			return fmt.Errorf("%w: failed to replace assignments: %v", ErrInternal, err)
		}

		if err := uc.ledgerStore.DeleteByBooking(txCtx, booking.ID); err != nil {
			return fmt.Errorf("%w: failed to delete old ledger entries: %v", ErrInternal, err)
		}
		entries := make([]ledgerRepo.Entry, 0, len(newAssignments))
		for _, a := range newAssignments {
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

		return nil
	})
	if txErr != nil {
		// БД отклонила запись: снимаем новую резервацию, старая остается нетронутой
		uc.releaseAssignments(newAssignments)
		booking.Assignments = oldAssignments
		uc.logger.Error("ChangeBooking: persistence failed, new reservations rolled back: %v", txErr)
		return nil, txErr
	}

	// 12. Старая резервация снимается только после фиксации новой
	uc.releaseAssignments(oldAssignments)

	uc.logger.Info("ChangeBooking: successfully rescheduled booking id=%s to %s", booking.ID, interval)

	return newResponse(booking), nil
}

// releaseAssignments освобождает записи леджеров по назначениям
func (uc *UseCase) releaseAssignments(assignments []domain.ResourceAssignment) {
	for _, a := range assignments {
		uc.registry.ForResource(a.ResourceID).Release(a.EntryID)
	}
}
