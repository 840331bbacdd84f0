package occupancy

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/venuegrid/VG-ReservationEngine/pkg/dbmetrics"
	"github.com/venuegrid/VG-ReservationEngine/pkg/psqlbuilder"
)

// Repository репозиторий состояния заполненности заведений
// Хранилище догоняет in-memory трекер после выхода из критической секции;
// строки нужны для восстановления счетчиков при рестарте
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория заполненности
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetCurrent возвращает сохраненную текущую заполненность заведения
func (r *Repository) GetCurrent(ctx context.Context, venueID int64) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("current_occupancy").
		From("venue_occupancy").
		Where(squirrel.Eq{"venue_id": venueID}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: GetCurrent - build select query: %v", ErrBuildQuery, err)
	}

	var current int
	err = executor.QueryRowContext(ctx, query, args...).Scan(&current)
	if err == sql.ErrNoRows {
		return 0, ErrStateNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("%w: GetCurrent - scan row: %v", ErrScanRow, err)
	}

	return current, nil
}

// UpsertCurrent сохраняет текущую заполненность заведения
func (r *Repository) UpsertCurrent(ctx context.Context, venueID int64, current int) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("venue_occupancy").
		Columns("venue_id", "current_occupancy", "updated_at").
		Values(venueID, current, squirrel.Expr("NOW()")).
		Suffix("ON CONFLICT (venue_id) DO UPDATE SET current_occupancy = EXCLUDED.current_occupancy, updated_at = NOW()").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpsertCurrent - build upsert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: UpsertCurrent - execute upsert: %v", ErrExecQuery, err)
	}

	return nil
}

// UpsertDailyPeak сохраняет пиковую заполненность за день
// Пик только растет: существующее большее значение не перезаписывается
func (r *Repository) UpsertDailyPeak(ctx context.Context, venueID int64, day string, peak int) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("occupancy_daily_peaks").
		Columns("venue_id", "day", "max_occupancy").
		Values(venueID, day, peak).
		Suffix("ON CONFLICT (venue_id, day) DO UPDATE SET max_occupancy = GREATEST(occupancy_daily_peaks.max_occupancy, EXCLUDED.max_occupancy)").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpsertDailyPeak - build upsert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: UpsertDailyPeak - execute upsert: %v", ErrExecQuery, err)
	}

	return nil
}

// ListPeaks возвращает историю пиков заполненности заведения
func (r *Repository) ListPeaks(ctx context.Context, venueID int64) (map[string]int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("day", "max_occupancy").
		From("occupancy_daily_peaks").
		Where(squirrel.Eq{"venue_id": venueID}).
		OrderBy("day ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListPeaks - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListPeaks - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	peaks := make(map[string]int)
	for rows.Next() {
		var day string
		var peak int
		if err := rows.Scan(&day, &peak); err != nil {
			return nil, fmt.Errorf("%w: ListPeaks - scan row: %v", ErrScanRow, err)
		}
		peaks[day] = peak
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListPeaks - rows error: %v", ErrScanRow, err)
	}

	return peaks, nil
}
