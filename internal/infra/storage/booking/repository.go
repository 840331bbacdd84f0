package booking

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/venuegrid/VG-ReservationEngine/internal/domain"
	"github.com/venuegrid/VG-ReservationEngine/pkg/dbmetrics"
	"github.com/venuegrid/VG-ReservationEngine/pkg/psqlbuilder"
)

const bookingColumns = "id, tenant_id, customer_id, kind, start_ts, end_ts, status, head_count, " +
	"service_id, service_name, notes, arrived_at, departed_at, final_spend, " +
	"cancellation_reason, cancelled_at, created_at, updated_at"

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет новое бронирование вместе с назначениями ресурсов
// Вызывается внутри транзакции: запись бронирования, назначения и первая
// строка истории статусов должны фиксироваться атомарно
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"id",
			"tenant_id",
			"customer_id",
			"kind",
			"start_ts",
			"end_ts",
			"status",
			"head_count",
			"service_id",
			"service_name",
			"notes",
		).
		Values(
			booking.ID,
			booking.TenantID,
			booking.CustomerID,
			booking.Kind,
			booking.Interval.Start,
			booking.Interval.End,
			booking.Status,
			booking.HeadCount,
			booking.ServiceID,
			booking.ServiceName,
			booking.Notes,
		).
		Suffix("RETURNING created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	if err := r.replaceAssignments(ctx, executor, booking.ID, booking.Assignments); err != nil {
		return nil, err
	}

	return booking, nil
}

// GetByID получает бронирование по ID вместе с назначениями ресурсов
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns).
		From("bookings").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	row := executor.QueryRowContext(ctx, query, args...)
	booking, err := scanBooking(row.Scan)
	if err == sql.ErrNoRows {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %v", ErrScanRow, err)
	}

	assignments, err := r.loadAssignments(ctx, executor, booking.ID)
	if err != nil {
		return nil, err
	}
	booking.Assignments = assignments

	return booking, nil
}

// GetByCustomer получает список бронирований клиента
// Опционально фильтрует по статусу
func (r *Repository) GetByCustomer(ctx context.Context, customerID int64, status *domain.BookingStatus) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns).
		From("bookings").
		Where(squirrel.Eq{"customer_id": customerID}).
		OrderBy("start_ts DESC")

	// Фильтрация по статусу, если указан
	if status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *status})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByCustomer - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByCustomer - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanBookings(rows)
}

// GetByTenantWithFilter получает бронирования заведения с гибкой фильтрацией
// Поддерживает фильтрацию по ресурсу, периоду, статусу и включению неактивных бронирований
func (r *Repository) GetByTenantWithFilter(ctx context.Context, filter domain.TenantBookingsFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := tenantBookingsQuery(filter).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByTenantWithFilter - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByTenantWithFilter - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanBookings(rows)
}

// tenantBookingsQuery строит запрос листинга бронирований заведения
func tenantBookingsQuery(filter domain.TenantBookingsFilter) squirrel.SelectBuilder {
	selectBuilder := psqlbuilder.Select("b." + bookingColumnsPrefixed()).
		From("bookings b").
		Where(squirrel.Eq{"b.tenant_id": filter.TenantID})

	// Фильтрация по ресурсу через назначения
	if filter.ResourceID != nil {
		selectBuilder = selectBuilder.
			Join("booking_assignments ba ON ba.booking_id = b.id").
			Where(squirrel.Eq{"ba.resource_id": *filter.ResourceID})
	}

	// Фильтрация по периоду: границы дат полуоткрытые, как и интервалы
	if filter.StartDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"b.end_ts": *filter.StartDate})
	}
	if filter.EndDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.Lt{"b.start_ts": filter.EndDate.AddDate(0, 0, 1)})
	}

	// Фильтрация по статусу
	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"b.status": *filter.Status})
	} else if !filter.IncludeInactive {
		inactiveStatusStrings := make([]string, len(domain.InactiveStatuses))
		for i, s := range domain.InactiveStatuses {
			inactiveStatusStrings[i] = string(s)
		}
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"b.status": inactiveStatusStrings})
	}

	return selectBuilder.OrderBy("b.start_ts ASC")
}

// Update сохраняет изменяемые поля бронирования после перехода статуса или переноса
func (r *Repository) Update(ctx context.Context, booking *domain.Booking) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", booking.Status).
		Set("start_ts", booking.Interval.Start).
		Set("end_ts", booking.Interval.End).
		Set("head_count", booking.HeadCount).
		Set("arrived_at", booking.ArrivedAt).
		Set("departed_at", booking.DepartedAt).
		Set("final_spend", booking.FinalSpend).
		Set("cancellation_reason", booking.CancellationReason).
		Set("cancelled_at", booking.CancelledAt).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": booking.ID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Update - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Update - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

// ReplaceAssignments заменяет назначения ресурсов бронирования (используется при переносе)
func (r *Repository) ReplaceAssignments(ctx context.Context, bookingID string, assignments []domain.ResourceAssignment) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("booking_assignments").
		Where(squirrel.Eq{"booking_id": bookingID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: ReplaceAssignments - build delete query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: ReplaceAssignments - execute delete: %v", ErrExecQuery, err)
	}

	return r.replaceAssignments(ctx, executor, bookingID, assignments)
}

// AppendHistory добавляет запись в историю переходов статусов
func (r *Repository) AppendHistory(ctx context.Context, entry domain.StatusHistoryEntry) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("booking_status_history").
		Columns("booking_id", "status", "actor_id", "occurred_at").
		Values(entry.BookingID, entry.Status, entry.ActorID, entry.OccurredAt).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: AppendHistory - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: AppendHistory - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// GetHistory получает историю переходов статусов бронирования
func (r *Repository) GetHistory(ctx context.Context, bookingID string) ([]domain.StatusHistoryEntry, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("booking_id", "status", "actor_id", "occurred_at").
		From("booking_status_history").
		Where(squirrel.Eq{"booking_id": bookingID}).
		OrderBy("occurred_at ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetHistory - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetHistory - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	history := make([]domain.StatusHistoryEntry, 0)
	for rows.Next() {
		var entry domain.StatusHistoryEntry
		if err := rows.Scan(&entry.BookingID, &entry.Status, &entry.ActorID, &entry.OccurredAt); err != nil {
			return nil, fmt.Errorf("%w: GetHistory - scan row: %v", ErrScanRow, err)
		}
		history = append(history, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetHistory - rows error: %v", ErrScanRow, err)
	}

	return history, nil
}

// replaceAssignments вставляет назначения; вызывается после удаления старых
func (r *Repository) replaceAssignments(ctx context.Context, executor DBExecutor, bookingID string, assignments []domain.ResourceAssignment) error {
	if len(assignments) == 0 {
		return nil
	}

	insertBuilder := psqlbuilder.Insert("booking_assignments").
		Columns("booking_id", "resource_id", "entry_id")
	for _, a := range assignments {
		insertBuilder = insertBuilder.Values(bookingID, a.ResourceID, a.EntryID)
	}

	query, args, err := insertBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: replaceAssignments - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: replaceAssignments - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// loadAssignments загружает назначения ресурсов бронирования
func (r *Repository) loadAssignments(ctx context.Context, executor DBExecutor, bookingID string) ([]domain.ResourceAssignment, error) {
	query, args, err := psqlbuilder.Select("resource_id", "entry_id").
		From("booking_assignments").
		Where(squirrel.Eq{"booking_id": bookingID}).
		OrderBy("resource_id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: loadAssignments - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: loadAssignments - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	assignments := make([]domain.ResourceAssignment, 0)
	for rows.Next() {
		var a domain.ResourceAssignment
		if err := rows.Scan(&a.ResourceID, &a.EntryID); err != nil {
			return nil, fmt.Errorf("%w: loadAssignments - scan row: %v", ErrScanRow, err)
		}
		assignments = append(assignments, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: loadAssignments - rows error: %v", ErrScanRow, err)
	}

	return assignments, nil
}

// scanBookings сканирует результаты запроса в слайс бронирований
// Назначения ресурсов подгружаются отдельно для каждого бронирования
func (r *Repository) scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		booking, err := scanBooking(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan row: %v", ErrScanRow, err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}

// scanBooking сканирует одну строку бронирования
func scanBooking(scan func(dest ...interface{}) error) (*domain.Booking, error) {
	var booking domain.Booking
	var createdAt, updatedAt sql.NullTime

	err := scan(
		&booking.ID,
		&booking.TenantID,
		&booking.CustomerID,
		&booking.Kind,
		&booking.Interval.Start,
		&booking.Interval.End,
		&booking.Status,
		&booking.HeadCount,
		&booking.ServiceID,
		&booking.ServiceName,
		&booking.Notes,
		&booking.ArrivedAt,
		&booking.DepartedAt,
		&booking.FinalSpend,
		&booking.CancellationReason,
		&booking.CancelledAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return &booking, nil
}

func bookingColumnsPrefixed() string {
	return "id, b.tenant_id, b.customer_id, b.kind, b.start_ts, b.end_ts, b.status, b.head_count, " +
		"b.service_id, b.service_name, b.notes, b.arrived_at, b.departed_at, b.final_spend, " +
		"b.cancellation_reason, b.cancelled_at, b.created_at, b.updated_at"
}
