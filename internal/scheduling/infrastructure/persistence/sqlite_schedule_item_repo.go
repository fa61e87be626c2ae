package persistence

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/felixgeelhaar/orbita/internal/scheduling/domain"
	sharedPersistence "github.com/felixgeelhaar/orbita/internal/shared/infrastructure/persistence"
	"github.com/google/uuid"
)

// SQLiteScheduleItemRepository implements domain.ScheduleItemRepository
// using SQLite.
type SQLiteScheduleItemRepository struct {
	db *sql.DB
}

func NewSQLiteScheduleItemRepository(db *sql.DB) *SQLiteScheduleItemRepository {
	return &SQLiteScheduleItemRepository{db: db}
}

func (r *SQLiteScheduleItemRepository) Save(ctx context.Context, item *domain.ScheduleItem) error {
	exec := sharedPersistence.SQLiteExecutor(ctx, r.db)
	query := `
		INSERT INTO scheduling_items (
			id, owner_id, title, start_time, end_time, item_type, task_id, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			title = excluded.title,
			start_time = excluded.start_time,
			end_time = excluded.end_time,
			updated_at = excluded.updated_at
	`
	_, err := exec.ExecContext(ctx, query,
		item.ID().String(), item.OwnerID().String(), item.Title(), item.StartTime(), item.EndTime(),
		string(item.Type()), nullableUUID(item.TaskID()), item.CreatedAt(), item.UpdatedAt(),
	)
	return err
}

func (r *SQLiteScheduleItemRepository) FindByID(ctx context.Context, ownerID, id uuid.UUID) (*domain.ScheduleItem, error) {
	exec := sharedPersistence.SQLiteExecutor(ctx, r.db)
	query := `
		SELECT id, owner_id, title, start_time, end_time, item_type, task_id, created_at, updated_at
		FROM scheduling_items WHERE owner_id = ? AND id = ?
	`
	row := exec.QueryRowContext(ctx, query, ownerID.String(), id.String())
	item, err := scanScheduleItemRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return item, err
}

func (r *SQLiteScheduleItemRepository) FindByTaskID(ctx context.Context, ownerID, taskID uuid.UUID) (*domain.ScheduleItem, error) {
	exec := sharedPersistence.SQLiteExecutor(ctx, r.db)
	query := `
		SELECT id, owner_id, title, start_time, end_time, item_type, task_id, created_at, updated_at
		FROM scheduling_items WHERE owner_id = ? AND task_id = ?
	`
	row := exec.QueryRowContext(ctx, query, ownerID.String(), taskID.String())
	item, err := scanScheduleItemRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return item, err
}

// FindOverlapping returns items whose raw [start,end) interval overlaps
// [from,to), excluding the mirror items of excludeTaskIDs. Event-buffer
// widening is the caller's responsibility via ScheduleItem.ConflictRange.
func (r *SQLiteScheduleItemRepository) FindOverlapping(ctx context.Context, ownerID uuid.UUID, from, to time.Time, excludeTaskIDs []uuid.UUID) ([]*domain.ScheduleItem, error) {
	exec := sharedPersistence.SQLiteExecutor(ctx, r.db)
	excludeSet := make(map[string]struct{}, len(excludeTaskIDs))
	for _, id := range excludeTaskIDs {
		excludeSet[id.String()] = struct{}{}
	}
	query := `
		SELECT id, owner_id, title, start_time, end_time, item_type, task_id, created_at, updated_at
		FROM scheduling_items
		WHERE owner_id = ? AND start_time < ? AND end_time > ?
		ORDER BY start_time
	`
	rows, err := exec.QueryContext(ctx, query, ownerID.String(), to, from)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items, err := scanScheduleItemRows(rows)
	if err != nil {
		return nil, err
	}
	filtered := make([]*domain.ScheduleItem, 0, len(items))
	for _, item := range items {
		if item.TaskID() != nil {
			if _, excluded := excludeSet[item.TaskID().String()]; excluded {
				continue
			}
		}
		filtered = append(filtered, item)
	}
	return filtered, nil
}

func (r *SQLiteScheduleItemRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID, itemType *domain.ItemType, from, to *time.Time) ([]*domain.ScheduleItem, error) {
	exec := sharedPersistence.SQLiteExecutor(ctx, r.db)
	query := `
		SELECT id, owner_id, title, start_time, end_time, item_type, task_id, created_at, updated_at
		FROM scheduling_items
		WHERE owner_id = ?
		  AND (? IS NULL OR item_type = ?)
		  AND (? IS NULL OR end_time >= ?)
		  AND (? IS NULL OR start_time <= ?)
		ORDER BY start_time
	`
	var typeArg any
	if itemType != nil {
		typeArg = string(*itemType)
	}
	fromArg := nullableTime(from)
	toArg := nullableTime(to)
	rows, err := exec.QueryContext(ctx, query, ownerID.String(), typeArg, typeArg, fromArg, fromArg, toArg, toArg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanScheduleItemRows(rows)
}

func (r *SQLiteScheduleItemRepository) DeleteByTaskID(ctx context.Context, ownerID, taskID uuid.UUID) error {
	exec := sharedPersistence.SQLiteExecutor(ctx, r.db)
	_, err := exec.ExecContext(ctx, `DELETE FROM scheduling_items WHERE owner_id = ? AND task_id = ?`, ownerID.String(), taskID.String())
	return err
}

func (r *SQLiteScheduleItemRepository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	exec := sharedPersistence.SQLiteExecutor(ctx, r.db)
	_, err := exec.ExecContext(ctx, `DELETE FROM scheduling_items WHERE owner_id = ? AND id = ?`, ownerID.String(), id.String())
	return err
}

func scanScheduleItemRow(scanner sqliteScanner) (*domain.ScheduleItem, error) {
	var (
		id, ownerID, title, itemType string
		taskID                       sql.NullString
		startTime, endTime           time.Time
		createdAt, updatedAt         time.Time
	)
	if err := scanner.Scan(&id, &ownerID, &title, &startTime, &endTime, &itemType, &taskID, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	return rowToSQLiteScheduleItem(id, ownerID, title, startTime, endTime, itemType, taskID, createdAt, updatedAt)
}

func scanScheduleItemRows(rows *sql.Rows) ([]*domain.ScheduleItem, error) {
	items := make([]*domain.ScheduleItem, 0)
	for rows.Next() {
		item, err := scanScheduleItemRow(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func rowToSQLiteScheduleItem(idStr, ownerIDStr, title string, startTime, endTime time.Time, itemTypeStr string, taskIDStr sql.NullString, createdAt, updatedAt time.Time) (*domain.ScheduleItem, error) {
	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, err
	}
	ownerID, err := uuid.Parse(ownerIDStr)
	if err != nil {
		return nil, err
	}
	var taskID *uuid.UUID
	if taskIDStr.Valid {
		parsed, err := uuid.Parse(taskIDStr.String)
		if err != nil {
			return nil, err
		}
		taskID = &parsed
	}
	return domain.RehydrateScheduleItem(
		id, ownerID, title, startTime, endTime,
		domain.ItemType(itemTypeStr), taskID, createdAt, updatedAt,
	), nil
}

func nullableUUID(id *uuid.UUID) any {
	if id == nil {
		return nil
	}
	return id.String()
}
