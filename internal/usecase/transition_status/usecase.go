package transition_status

import (
	"context"
	"errors"
	"fmt"

	"github.com/venuegrid/VG-ReservationEngine/internal/bookinglock"
	"github.com/venuegrid/VG-ReservationEngine/internal/domain"
	bookingRepo "github.com/venuegrid/VG-ReservationEngine/internal/infra/storage/booking"
	"github.com/venuegrid/VG-ReservationEngine/internal/ledger"
	"github.com/venuegrid/VG-ReservationEngine/internal/occupancy"
)

// UseCase use case для перевода бронирования по жизненному циклу
// Каждый переход несет побочные эффекты: освобождение леджеров, изменение
// счетчика заполненности, фиксация времени прибытия/ухода и статуса столов
type UseCase struct {
	bookingRepo   BookingRepository
	ledgerStore   LedgerRepository
	resourceRepo  ResourceRepository
	venueRepo     VenueRepository
	occupancyRepo OccupancyRepository
	occupancyMgr  OccupancyManager
	registry      *ledger.Registry
	locks         *bookinglock.Guard
	txManager     TransactionManager
	metrics       Metrics
	timeProvider  TimeProvider
	logger        Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	ledgerStore LedgerRepository,
	resourceRepo ResourceRepository,
	venueRepo VenueRepository,
	occupancyRepo OccupancyRepository,
	occupancyMgr OccupancyManager,
	registry *ledger.Registry,
	locks *bookinglock.Guard,
	txManager TransactionManager,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:   bookingRepo,
		ledgerStore:   ledgerStore,
		resourceRepo:  resourceRepo,
		venueRepo:     venueRepo,
		occupancyRepo: occupancyRepo,
		occupancyMgr:  occupancyMgr,
		registry:      registry,
		locks:         locks,
		txManager:     txManager,
		metrics:       metrics,
		timeProvider:  &RealTimeProvider{},
		logger:        logger,
	}
}

// Execute выполняет use case смены статуса
// Недопустимый переход отклоняется без изменения статуса
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("TransitionStatus: booking=%s, tenant=%d, newStatus=%s, actor=%d",
		req.BookingID, req.TenantID, req.NewStatus, req.ActorID)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("TransitionStatus: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()
	effective := now
	if req.EffectiveTime != nil {
		effective = *req.EffectiveTime
	}

	// 2. Изменения одного бронирования выполняются строго последовательно:
	// допустимость перехода проверяется по актуальному статусу, а не по
	// снимку, сделанному до завершения конкурентного изменения
	unlock := uc.locks.Lock(req.BookingID)
	defer unlock()

	// 3. Получаем бронирование и проверяем принадлежность заведению
	booking, err := uc.bookingRepo.GetByID(ctx, req.BookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			uc.logger.Warn("TransitionStatus: booking id=%s not found", req.BookingID)
			return nil, ErrBookingNotFound
		}
		uc.logger.Error("TransitionStatus: failed to get booking id=%s: %v", req.BookingID, err)
		return nil, fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
	}
	if booking.TenantID != req.TenantID {
		uc.logger.Warn("TransitionStatus: booking id=%s belongs to another tenant", req.BookingID)
		return nil, ErrBookingNotFound
	}

	// 4. Проверяем допустимость перехода
	prev := booking.Status
	if !domain.CanTransition(prev, req.NewStatus) {
		uc.logger.Warn("TransitionStatus: transition %s -> %s is not allowed for booking id=%s",
			prev, req.NewStatus, booking.ID)
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, prev, req.NewStatus)
	}

	// 5. Применяем переход и его эффекты к модели
	effects := domain.EffectsFor(prev, req.NewStatus)
	booking.Status = req.NewStatus
	if effects.RecordArrival {
		booking.ArrivedAt = &effective
	}
	if effects.RecordDeparture {
		booking.DepartedAt = &effective
		booking.FinalSpend = req.FinalSpend
	}
	if req.NewStatus == domain.StatusCancelled {
		booking.CancellationReason = req.CancellationReason
		booking.CancelledAt = &effective
	}

	// 6. Изменяем счетчик заполненности (in-memory, до транзакции:
	// состояние счетчика уходит в БД тем же коммитом)
	var snap *occupancy.Snapshot
	var receipt occupancy.AdjustReceipt
	adjusted := false
	var venueID int64
	if effects.OccupancyDelta != 0 {
		venue, err := uc.venueRepo.GetByTenant(ctx, booking.TenantID)
		if err != nil {
			uc.logger.Error("TransitionStatus: failed to get venue for tenant=%d: %v", booking.TenantID, err)
			return nil, fmt.Errorf("%w: failed to get venue: %v", ErrInternal, err)
		}
		venueID = venue.ID
		occupancyDelta := effects.OccupancyDelta * booking.HeadCount
		if s, r, ok := uc.occupancyMgr.Adjust(venueID, occupancyDelta, effective); ok {
			snap = &s
			receipt = r
			adjusted = true
			if s.Warning != domain.OccupancyOK {
				uc.logger.Warn("TransitionStatus: venue id=%d occupancy %d/%d (%s)",
					venueID, s.Current, s.Capacity, s.Warning)
			}
		}
	}

	// 7. Персистентность: бронирование, история, леджер, заполненность
	// и статус столов в одной транзакции
	txErr := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		if err := uc.bookingRepo.Update(txCtx, booking); err != nil {
			return fmt.Errorf("%w: failed to update booking: %v", ErrInternal, err)
		}

		history := domain.StatusHistoryEntry{
			BookingID:  booking.ID,
			Status:     booking.Status,
			ActorID:    req.ActorID,
			OccurredAt: effective,
		}
		if err := uc.bookingRepo.AppendHistory(txCtx, history); err != nil {
			return fmt.Errorf("%w: failed to append status history: %v", ErrInternal, err)
		}

		if effects.ReleaseLedger {
			if err := uc.ledgerStore.DeleteByBooking(txCtx, booking.ID); err != nil {
				return fmt.Errorf("%w: failed to delete ledger entries: %v", ErrInternal, err)
			}
		}

		if snap != nil {
			if err := uc.occupancyRepo.UpsertCurrent(txCtx, venueID, snap.Current); err != nil {
				return fmt.Errorf("%w: failed to persist occupancy: %v", ErrInternal, err)
			}
			day := effective.Format(domain.DateFormat)
			if err := uc.occupancyRepo.UpsertDailyPeak(txCtx, venueID, day, snap.TodayPeak); err != nil {
				return fmt.Errorf("%w: failed to persist daily peak: %v", ErrInternal, err)
			}
		}

		if effects.MarkOccupied || effects.MarkAvailable {
			for _, a := range booking.Assignments {
				if err := uc.resourceRepo.SetOccupied(txCtx, a.ResourceID, effects.MarkOccupied); err != nil {
					return fmt.Errorf("%w: failed to update resource id=%d: %v", ErrInternal, a.ResourceID, err)
				}
			}
		}

		return nil
	})
	if txErr != nil {
		// Откат in-memory эффекта: компенсация снимает и счетчик,
		// и пик дня, поднятый незафиксированным переходом
		if adjusted {
			uc.occupancyMgr.Revert(receipt)
		}
		uc.logger.Error("TransitionStatus: persistence failed: %v", txErr)
		return nil, txErr
	}

	// 8. Освобождаем записи леджеров после фиксации в БД
	// Снимаются все записи бронирования целиком: терминальный статус
	// не должен оставить запись, которой нет в списке назначений
	if effects.ReleaseLedger {
		for _, a := range booking.Assignments {
			uc.registry.ForResource(a.ResourceID).ReleaseByBooking(booking.ID)
		}
	}

	if uc.metrics != nil {
		uc.metrics.IncLifecycleTransition(string(prev), string(booking.Status))
	}

	uc.logger.Info("TransitionStatus: booking id=%s moved %s -> %s", booking.ID, prev, booking.Status)

	return newResponse(booking, prev, snap), nil
}
