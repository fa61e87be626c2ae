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

// SQLiteTaskRepository implements domain.TaskRepository using SQLite.
type SQLiteTaskRepository struct {
	db *sql.DB
}

func NewSQLiteTaskRepository(db *sql.DB) *SQLiteTaskRepository {
	return &SQLiteTaskRepository{db: db}
}

func (r *SQLiteTaskRepository) Save(ctx context.Context, task *domain.Task) error {
	exec := sharedPersistence.SQLiteExecutor(ctx, r.db)
	query := `
		INSERT INTO scheduling_tasks (
			id, owner_id, title, description, duration_minutes, priority, tag,
			auto_schedule, status, start_time, end_time, created_at, updated_at, version
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			title = excluded.title,
			description = excluded.description,
			duration_minutes = excluded.duration_minutes,
			priority = excluded.priority,
			tag = excluded.tag,
			auto_schedule = excluded.auto_schedule,
			status = excluded.status,
			start_time = excluded.start_time,
			end_time = excluded.end_time,
			updated_at = excluded.updated_at,
			version = scheduling_tasks.version + 1
	`
	_, err := exec.ExecContext(ctx, query,
		task.ID().String(), task.OwnerID().String(), task.Title(), task.Description(),
		int(task.EstimatedDuration().Minutes()), task.Priority(), string(task.Tag()),
		task.IsAutoSchedule(), int(task.Status()), nullableTime(task.StartTime()), nullableTime(task.EndTime()),
		task.CreatedAt(), task.UpdatedAt(), task.Version(),
	)
	return err
}

func (r *SQLiteTaskRepository) FindByID(ctx context.Context, ownerID, id uuid.UUID) (*domain.Task, error) {
	exec := sharedPersistence.SQLiteExecutor(ctx, r.db)
	query := `
		SELECT id, owner_id, title, description, duration_minutes, priority, tag,
		       auto_schedule, status, start_time, end_time, created_at, updated_at, version
		FROM scheduling_tasks
		WHERE owner_id = ? AND id = ?
	`
	row := exec.QueryRowContext(ctx, query, ownerID.String(), id.String())
	task, err := scanTaskRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return task, err
}

func (r *SQLiteTaskRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID, status *domain.Status, from, to *time.Time) ([]*domain.Task, error) {
	exec := sharedPersistence.SQLiteExecutor(ctx, r.db)
	query := `
		SELECT id, owner_id, title, description, duration_minutes, priority, tag,
		       auto_schedule, status, start_time, end_time, created_at, updated_at, version
		FROM scheduling_tasks
		WHERE owner_id = ?
		  AND (? IS NULL OR status = ?)
		  AND (? IS NULL OR end_time >= ?)
		  AND (? IS NULL OR start_time <= ?)
		ORDER BY start_time IS NULL, start_time, created_at
	`
	var statusArg any
	if status != nil {
		statusArg = int(*status)
	}
	fromArg := nullableTime(from)
	toArg := nullableTime(to)
	rows, err := exec.QueryContext(ctx, query, ownerID.String(), statusArg, statusArg, fromArg, fromArg, toArg, toArg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTaskRows(rows)
}

func (r *SQLiteTaskRepository) FindPlacedAutoScheduled(ctx context.Context, ownerID uuid.UUID) ([]*domain.Task, error) {
	exec := sharedPersistence.SQLiteExecutor(ctx, r.db)
	query := `
		SELECT id, owner_id, title, description, duration_minutes, priority, tag,
		       auto_schedule, status, start_time, end_time, created_at, updated_at, version
		FROM scheduling_tasks
		WHERE owner_id = ? AND auto_schedule = 1 AND status = 0 AND start_time IS NOT NULL
		ORDER BY start_time
	`
	rows, err := exec.QueryContext(ctx, query, ownerID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTaskRows(rows)
}

func (r *SQLiteTaskRepository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	exec := sharedPersistence.SQLiteExecutor(ctx, r.db)
	_, err := exec.ExecContext(ctx, `DELETE FROM scheduling_tasks WHERE owner_id = ? AND id = ?`, ownerID.String(), id.String())
	return err
}

type sqliteScanner interface {
	Scan(dest ...any) error
}

func scanTaskRow(scanner sqliteScanner) (*domain.Task, error) {
	var (
		id, ownerID, title, description, tag string
		durationMinutes, priority, version, status int
		autoSchedule                               bool
		startTime, endTime                         sql.NullTime
		createdAt, updatedAt                       time.Time
	)
	if err := scanner.Scan(
		&id, &ownerID, &title, &description, &durationMinutes, &priority, &tag,
		&autoSchedule, &status, &startTime, &endTime, &createdAt, &updatedAt, &version,
	); err != nil {
		return nil, err
	}
	return rowToSQLiteTask(id, ownerID, title, description, durationMinutes, priority, tag, autoSchedule, status, startTime, endTime, createdAt, updatedAt, version)
}

func scanTaskRows(rows *sql.Rows) ([]*domain.Task, error) {
	tasks := make([]*domain.Task, 0)
	for rows.Next() {
		task, err := scanTaskRow(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tasks, nil
}

func rowToSQLiteTask(idStr, ownerIDStr, title, description string, durationMinutes, priorityRaw int, tagStr string, autoSchedule bool, statusRaw int, startTime, endTime sql.NullTime, createdAt, updatedAt time.Time, version int) (*domain.Task, error) {
	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, err
	}
	ownerID, err := uuid.Parse(ownerIDStr)
	if err != nil {
		return nil, err
	}
	duration, err := domain.NewDuration(time.Duration(durationMinutes) * time.Minute)
	if err != nil {
		return nil, err
	}
	statusVal := domain.Status(statusRaw)
	var start, end *time.Time
	if startTime.Valid {
		t := startTime.Time
		start = &t
	}
	if endTime.Valid {
		t := endTime.Time
		end = &t
	}
	return domain.RehydrateTask(
		id, ownerID, title, description, duration,
		priorityRaw, domain.Tag(tagStr), autoSchedule, statusVal,
		start, end, createdAt, updatedAt, version,
	), nil
}

func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}
