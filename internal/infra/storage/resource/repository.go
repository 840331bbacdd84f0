package resource

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/venuegrid/VG-ReservationEngine/internal/domain"
	"github.com/venuegrid/VG-ReservationEngine/pkg/dbmetrics"
	"github.com/venuegrid/VG-ReservationEngine/pkg/psqlbuilder"
)

// Repository репозиторий для работы с ресурсами (сотрудники, столы)
// Ресурсы создаются внешним админским контуром; здесь только чтение и
// переключение флага занятости стола
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория ресурсов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает ресурс по ID вместе с окнами недоступности
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Resource, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id", "tenant_id", "kind", "name", "capacity", "active", "occupied", "created_at", "updated_at",
	).
		From("resources").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var res domain.Resource
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&res.ID,
		&res.TenantID,
		&res.Kind,
		&res.Name,
		&res.Capacity,
		&res.Active,
		&res.Occupied,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrResourceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan resource: %v", ErrScanRow, err)
	}

	res.CreatedAt = createdAt.Time
	res.UpdatedAt = updatedAt.Time

	blackouts, err := r.loadBlackouts(ctx, executor, res.ID)
	if err != nil {
		return nil, err
	}
	res.Blackouts = blackouts

	return &res, nil
}

// GetByIDs получает несколько ресурсов одним запросом
// Отсутствующие идентификаторы не являются ошибкой: вызывающая сторона
// сверяет длину результата со списком запрошенных
func (r *Repository) GetByIDs(ctx context.Context, ids []int64) ([]*domain.Resource, error) {
	if len(ids) == 0 {
		return []*domain.Resource{}, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id", "tenant_id", "kind", "name", "capacity", "active", "occupied", "created_at", "updated_at",
	).
		From("resources").
		Where(squirrel.Eq{"id": ids}).
		OrderBy("id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByIDs - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByIDs - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	resources := make([]*domain.Resource, 0, len(ids))
	for rows.Next() {
		var res domain.Resource
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&res.ID,
			&res.TenantID,
			&res.Kind,
			&res.Name,
			&res.Capacity,
			&res.Active,
			&res.Occupied,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: GetByIDs - scan row: %v", ErrScanRow, err)
		}

		res.CreatedAt = createdAt.Time
		res.UpdatedAt = updatedAt.Time
		resources = append(resources, &res)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetByIDs - rows error: %v", ErrScanRow, err)
	}

	for _, res := range resources {
		blackouts, err := r.loadBlackouts(ctx, executor, res.ID)
		if err != nil {
			return nil, err
		}
		res.Blackouts = blackouts
	}

	return resources, nil
}

// SetOccupied переключает флаг занятости стола (гости прибыли / ушли)
func (r *Repository) SetOccupied(ctx context.Context, id int64, occupied bool) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("resources").
		Set("occupied", occupied).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: SetOccupied - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: SetOccupied - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: SetOccupied - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrResourceNotFound
	}

	return nil
}

// loadBlackouts загружает окна недоступности ресурса
func (r *Repository) loadBlackouts(ctx context.Context, executor DBExecutor, resourceID int64) ([]domain.TimeInterval, error) {
	query, args, err := psqlbuilder.Select("start_ts", "end_ts").
		From("resource_blackouts").
		Where(squirrel.Eq{"resource_id": resourceID}).
		OrderBy("start_ts ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: loadBlackouts - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: loadBlackouts - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	blackouts := make([]domain.TimeInterval, 0)
	for rows.Next() {
		var iv domain.TimeInterval
		if err := rows.Scan(&iv.Start, &iv.End); err != nil {
			return nil, fmt.Errorf("%w: loadBlackouts - scan row: %v", ErrScanRow, err)
		}
		blackouts = append(blackouts, iv)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: loadBlackouts - rows error: %v", ErrScanRow, err)
	}

	return blackouts, nil
}
