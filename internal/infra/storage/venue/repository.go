package venue

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/venuegrid/VG-ReservationEngine/internal/domain"
	"github.com/venuegrid/VG-ReservationEngine/pkg/dbmetrics"
	"github.com/venuegrid/VG-ReservationEngine/pkg/psqlbuilder"
)

// Repository репозиторий для работы с заведениями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория заведений
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByTenant получает заведение арендатора
func (r *Repository) GetByTenant(ctx context.Context, tenantID int64) (*domain.Venue, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id", "tenant_id", "name", "kind", "total_capacity", "created_at", "updated_at",
	).
		From("venues").
		Where(squirrel.Eq{"tenant_id": tenantID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByTenant - build select query: %v", ErrBuildQuery, err)
	}

	return r.scanVenue(executor.QueryRowContext(ctx, query, args...))
}

// GetByID получает заведение по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Venue, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id", "tenant_id", "name", "kind", "total_capacity", "created_at", "updated_at",
	).
		From("venues").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	return r.scanVenue(executor.QueryRowContext(ctx, query, args...))
}

// ListCapacityBounded возвращает заведения с отслеживаемой вместимостью
// Используется для warm-up трекеров заполненности при старте сервиса
func (r *Repository) ListCapacityBounded(ctx context.Context) ([]*domain.Venue, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id", "tenant_id", "name", "kind", "total_capacity", "created_at", "updated_at",
	).
		From("venues").
		Where(squirrel.Gt{"total_capacity": 0}).
		OrderBy("id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListCapacityBounded - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListCapacityBounded - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	venues := make([]*domain.Venue, 0)
	for rows.Next() {
		var v domain.Venue
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(&v.ID, &v.TenantID, &v.Name, &v.Kind, &v.TotalCapacity, &createdAt, &updatedAt)
		if err != nil {
			return nil, fmt.Errorf("%w: ListCapacityBounded - scan row: %v", ErrScanRow, err)
		}

		v.CreatedAt = createdAt.Time
		v.UpdatedAt = updatedAt.Time
		venues = append(venues, &v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListCapacityBounded - rows error: %v", ErrScanRow, err)
	}

	return venues, nil
}

func (r *Repository) scanVenue(row *sql.Row) (*domain.Venue, error) {
	var v domain.Venue
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(&v.ID, &v.TenantID, &v.Name, &v.Kind, &v.TotalCapacity, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrVenueNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: scanVenue - scan venue: %v", ErrScanRow, err)
	}

	v.CreatedAt = createdAt.Time
	v.UpdatedAt = updatedAt.Time

	return &v, nil
}
