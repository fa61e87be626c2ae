package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/felixgeelhaar/orbita/internal/scheduling/domain"
	sharedPersistence "github.com/felixgeelhaar/orbita/internal/shared/infrastructure/persistence"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresScheduleItemRepository implements domain.ScheduleItemRepository
// using PostgreSQL.
type PostgresScheduleItemRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresScheduleItemRepository(pool *pgxpool.Pool) *PostgresScheduleItemRepository {
	return &PostgresScheduleItemRepository{pool: pool}
}

type scheduleItemRow struct {
	ID        uuid.UUID
	OwnerID   uuid.UUID
	Title     string
	StartTime time.Time
	EndTime   time.Time
	ItemType  string
	TaskID    *uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (r *PostgresScheduleItemRepository) Save(ctx context.Context, item *domain.ScheduleItem) error {
	exec := sharedPersistence.Executor(ctx, r.pool)
	query := `
		INSERT INTO scheduling_items (
			id, owner_id, title, start_time, end_time, item_type, task_id, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			start_time = EXCLUDED.start_time,
			end_time = EXCLUDED.end_time,
			updated_at = EXCLUDED.updated_at
	`
	_, err := exec.Exec(ctx, query,
		item.ID(), item.OwnerID(), item.Title(), item.StartTime(), item.EndTime(),
		string(item.Type()), item.TaskID(), item.CreatedAt(), item.UpdatedAt(),
	)
	return err
}

func (r *PostgresScheduleItemRepository) FindByID(ctx context.Context, ownerID, id uuid.UUID) (*domain.ScheduleItem, error) {
	exec := sharedPersistence.Executor(ctx, r.pool)
	query := `
		SELECT id, owner_id, title, start_time, end_time, item_type, task_id, created_at, updated_at
		FROM scheduling_items WHERE owner_id = $1 AND id = $2
	`
	var row scheduleItemRow
	err := exec.QueryRow(ctx, query, ownerID, id).Scan(
		&row.ID, &row.OwnerID, &row.Title, &row.StartTime, &row.EndTime,
		&row.ItemType, &row.TaskID, &row.CreatedAt, &row.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return rowToScheduleItem(row), nil
}

func (r *PostgresScheduleItemRepository) FindByTaskID(ctx context.Context, ownerID, taskID uuid.UUID) (*domain.ScheduleItem, error) {
	exec := sharedPersistence.Executor(ctx, r.pool)
	query := `
		SELECT id, owner_id, title, start_time, end_time, item_type, task_id, created_at, updated_at
		FROM scheduling_items WHERE owner_id = $1 AND task_id = $2
	`
	var row scheduleItemRow
	err := exec.QueryRow(ctx, query, ownerID, taskID).Scan(
		&row.ID, &row.OwnerID, &row.Title, &row.StartTime, &row.EndTime,
		&row.ItemType, &row.TaskID, &row.CreatedAt, &row.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return rowToScheduleItem(row), nil
}

// FindOverlapping returns items whose raw [start,end) interval overlaps
// [from,to), excluding the mirror items of excludeTaskIDs. Event-buffer
// widening is the caller's responsibility via ScheduleItem.ConflictRange.
func (r *PostgresScheduleItemRepository) FindOverlapping(ctx context.Context, ownerID uuid.UUID, from, to time.Time, excludeTaskIDs []uuid.UUID) ([]*domain.ScheduleItem, error) {
	exec := sharedPersistence.Executor(ctx, r.pool)
	query := `
		SELECT id, owner_id, title, start_time, end_time, item_type, task_id, created_at, updated_at
		FROM scheduling_items
		WHERE owner_id = $1 AND start_time < $3 AND end_time > $2
		  AND (task_id IS NULL OR NOT (task_id = ANY($4)))
		ORDER BY start_time
	`
	rows, err := exec.Query(ctx, query, ownerID, from, to, excludeTaskIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanScheduleItems(rows)
}

func (r *PostgresScheduleItemRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID, itemType *domain.ItemType, from, to *time.Time) ([]*domain.ScheduleItem, error) {
	exec := sharedPersistence.Executor(ctx, r.pool)
	query := `
		SELECT id, owner_id, title, start_time, end_time, item_type, task_id, created_at, updated_at
		FROM scheduling_items
		WHERE owner_id = $1
		  AND ($2::text IS NULL OR item_type = $2)
		  AND ($3::timestamptz IS NULL OR end_time >= $3)
		  AND ($4::timestamptz IS NULL OR start_time <= $4)
		ORDER BY start_time
	`
	var typeArg *string
	if itemType != nil {
		s := string(*itemType)
		typeArg = &s
	}
	rows, err := exec.Query(ctx, query, ownerID, typeArg, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanScheduleItems(rows)
}

func (r *PostgresScheduleItemRepository) DeleteByTaskID(ctx context.Context, ownerID, taskID uuid.UUID) error {
	exec := sharedPersistence.Executor(ctx, r.pool)
	_, err := exec.Exec(ctx, `DELETE FROM scheduling_items WHERE owner_id = $1 AND task_id = $2`, ownerID, taskID)
	return err
}

func (r *PostgresScheduleItemRepository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	exec := sharedPersistence.Executor(ctx, r.pool)
	_, err := exec.Exec(ctx, `DELETE FROM scheduling_items WHERE owner_id = $1 AND id = $2`, ownerID, id)
	return err
}

func scanScheduleItems(rows pgx.Rows) ([]*domain.ScheduleItem, error) {
	items := make([]*domain.ScheduleItem, 0)
	for rows.Next() {
		var row scheduleItemRow
		if err := rows.Scan(
			&row.ID, &row.OwnerID, &row.Title, &row.StartTime, &row.EndTime,
			&row.ItemType, &row.TaskID, &row.CreatedAt, &row.UpdatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, rowToScheduleItem(row))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func rowToScheduleItem(row scheduleItemRow) *domain.ScheduleItem {
	return domain.RehydrateScheduleItem(
		row.ID, row.OwnerID, row.Title, row.StartTime, row.EndTime,
		domain.ItemType(row.ItemType), row.TaskID, row.CreatedAt, row.UpdatedAt,
	)
}
