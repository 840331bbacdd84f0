package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/venuegrid/VG-ReservationEngine/pkg/dbmetrics"
	"github.com/venuegrid/VG-ReservationEngine/pkg/psqlbuilder"
)

// Entry персистентная запись леджера
// Хранилище дублирует in-memory леджер: истина о конфликтах живет в памяти,
// строки нужны для восстановления состояния при рестарте
type Entry struct {
	ID         string
	ResourceID int64
	BookingID  string
	Start      time.Time
	End        time.Time
}

// Repository репозиторий для работы с записями леджеров
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория записей леджеров
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Insert сохраняет запись леджера
func (r *Repository) Insert(ctx context.Context, entry Entry) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("ledger_entries").
		Columns("id", "resource_id", "booking_id", "start_ts", "end_ts").
		Values(entry.ID, entry.ResourceID, entry.BookingID, entry.Start, entry.End).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Insert - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: Insert - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// InsertMany сохраняет несколько записей леджера одним запросом
func (r *Repository) InsertMany(ctx context.Context, entries []Entry) error {
	if len(entries) == 0 {
		return nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	insertBuilder := psqlbuilder.Insert("ledger_entries").
		Columns("id", "resource_id", "booking_id", "start_ts", "end_ts")
	for _, e := range entries {
		insertBuilder = insertBuilder.Values(e.ID, e.ResourceID, e.BookingID, e.Start, e.End)
	}

	query, args, err := insertBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: InsertMany - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: InsertMany - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// Delete удаляет запись леджера
// Идемпотентна: отсутствие строки не является ошибкой
func (r *Repository) Delete(ctx context.Context, entryID string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("ledger_entries").
		Where(squirrel.Eq{"id": entryID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %v", ErrExecQuery, err)
	}

	return nil
}

// DeleteByBooking удаляет все записи леджера бронирования
func (r *Repository) DeleteByBooking(ctx context.Context, bookingID string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("ledger_entries").
		Where(squirrel.Eq{"booking_id": bookingID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: DeleteByBooking - build delete query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: DeleteByBooking - execute delete: %v", ErrExecQuery, err)
	}

	return nil
}

// ListAll возвращает все записи леджеров (warm-up реестра при старте сервиса)
// Записи удаляются при освобождении, поэтому все строки таблицы актуальны
func (r *Repository) ListAll(ctx context.Context) ([]Entry, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "resource_id", "booking_id", "start_ts", "end_ts").
		From("ledger_entries").
		OrderBy("resource_id ASC, start_ts ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListAll - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListAll - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	entries := make([]Entry, 0)
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.ResourceID, &e.BookingID, &e.Start, &e.End); err != nil {
			return nil, fmt.Errorf("%w: ListAll - scan row: %v", ErrScanRow, err)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListAll - rows error: %v", ErrScanRow, err)
	}

	return entries, nil
}

// ListByResource возвращает записи леджера ресурса за период
func (r *Repository) ListByResource(ctx context.Context, resourceID int64, from, to time.Time) ([]Entry, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "resource_id", "booking_id", "start_ts", "end_ts").
		From("ledger_entries").
		Where(squirrel.Eq{"resource_id": resourceID}).
		Where(squirrel.Lt{"start_ts": to}).
		Where(squirrel.Gt{"end_ts": from}).
		OrderBy("start_ts ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListByResource - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByResource - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	entries := make([]Entry, 0)
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.ResourceID, &e.BookingID, &e.Start, &e.End); err != nil {
			return nil, fmt.Errorf("%w: ListByResource - scan row: %v", ErrScanRow, err)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByResource - rows error: %v", ErrScanRow, err)
	}

	return entries, nil
}
