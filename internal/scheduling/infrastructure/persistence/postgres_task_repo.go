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

// PostgresTaskRepository implements domain.TaskRepository using PostgreSQL.
type PostgresTaskRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresTaskRepository(pool *pgxpool.Pool) *PostgresTaskRepository {
	return &PostgresTaskRepository{pool: pool}
}

type taskRow struct {
	ID                uuid.UUID
	OwnerID           uuid.UUID
	Title             string
	Description       string
	DurationMinutes   int
	Priority          int
	Tag               string
	AutoSchedule      bool
	Status            int
	StartTime         *time.Time
	EndTime           *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
	Version           int
}

// Save upserts a task, keyed by ID.
func (r *PostgresTaskRepository) Save(ctx context.Context, task *domain.Task) error {
	exec := sharedPersistence.Executor(ctx, r.pool)
	query := `
		INSERT INTO scheduling_tasks (
			id, owner_id, title, description, duration_minutes, priority, tag,
			auto_schedule, status, start_time, end_time, created_at, updated_at, version
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			duration_minutes = EXCLUDED.duration_minutes,
			priority = EXCLUDED.priority,
			tag = EXCLUDED.tag,
			auto_schedule = EXCLUDED.auto_schedule,
			status = EXCLUDED.status,
			start_time = EXCLUDED.start_time,
			end_time = EXCLUDED.end_time,
			updated_at = EXCLUDED.updated_at,
			version = scheduling_tasks.version + 1
	`
	_, err := exec.Exec(ctx, query,
		task.ID(), task.OwnerID(), task.Title(), task.Description(),
		task.EstimatedDuration().Minutes(), task.Priority(), string(task.Tag()),
		task.IsAutoSchedule(), int(task.Status()), task.StartTime(), task.EndTime(),
		task.CreatedAt(), task.UpdatedAt(), task.Version(),
	)
	return err
}

func (r *PostgresTaskRepository) FindByID(ctx context.Context, ownerID, id uuid.UUID) (*domain.Task, error) {
	exec := sharedPersistence.Executor(ctx, r.pool)
	query := `
		SELECT id, owner_id, title, description, duration_minutes, priority, tag,
		       auto_schedule, status, start_time, end_time, created_at, updated_at, version
		FROM scheduling_tasks
		WHERE owner_id = $1 AND id = $2
	`
	var row taskRow
	err := exec.QueryRow(ctx, query, ownerID, id).Scan(
		&row.ID, &row.OwnerID, &row.Title, &row.Description, &row.DurationMinutes,
		&row.Priority, &row.Tag, &row.AutoSchedule, &row.Status, &row.StartTime,
		&row.EndTime, &row.CreatedAt, &row.UpdatedAt, &row.Version,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return rowToTask(row)
}

func (r *PostgresTaskRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID, status *domain.Status, from, to *time.Time) ([]*domain.Task, error) {
	exec := sharedPersistence.Executor(ctx, r.pool)
	query := `
		SELECT id, owner_id, title, description, duration_minutes, priority, tag,
		       auto_schedule, status, start_time, end_time, created_at, updated_at, version
		FROM scheduling_tasks
		WHERE owner_id = $1
		  AND ($2::int IS NULL OR status = $2)
		  AND ($3::timestamptz IS NULL OR end_time >= $3)
		  AND ($4::timestamptz IS NULL OR start_time <= $4)
		ORDER BY start_time NULLS LAST, created_at
	`
	var statusArg *int
	if status != nil {
		s := int(*status)
		statusArg = &s
	}
	rows, err := exec.Query(ctx, query, ownerID, statusArg, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTasks(rows)
}

// FindPlacedAutoScheduled returns pending, auto-scheduled tasks that
// currently carry a placement, for re-placing tasks after a calendar event
// is removed.
func (r *PostgresTaskRepository) FindPlacedAutoScheduled(ctx context.Context, ownerID uuid.UUID) ([]*domain.Task, error) {
	exec := sharedPersistence.Executor(ctx, r.pool)
	query := `
		SELECT id, owner_id, title, description, duration_minutes, priority, tag,
		       auto_schedule, status, start_time, end_time, created_at, updated_at, version
		FROM scheduling_tasks
		WHERE owner_id = $1 AND auto_schedule = true AND status = 0 AND start_time IS NOT NULL
		ORDER BY start_time
	`
	rows, err := exec.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTasks(rows)
}

func (r *PostgresTaskRepository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	exec := sharedPersistence.Executor(ctx, r.pool)
	_, err := exec.Exec(ctx, `DELETE FROM scheduling_tasks WHERE owner_id = $1 AND id = $2`, ownerID, id)
	return err
}

func scanTasks(rows pgx.Rows) ([]*domain.Task, error) {
	tasks := make([]*domain.Task, 0)
	for rows.Next() {
		var row taskRow
		if err := rows.Scan(
			&row.ID, &row.OwnerID, &row.Title, &row.Description, &row.DurationMinutes,
			&row.Priority, &row.Tag, &row.AutoSchedule, &row.Status, &row.StartTime,
			&row.EndTime, &row.CreatedAt, &row.UpdatedAt, &row.Version,
		); err != nil {
			return nil, err
		}
		task, err := rowToTask(row)
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

func rowToTask(row taskRow) (*domain.Task, error) {
	duration, err := domain.NewDuration(time.Duration(row.DurationMinutes) * time.Minute)
	if err != nil {
		return nil, err
	}
	return domain.RehydrateTask(
		row.ID, row.OwnerID, row.Title, row.Description, duration,
		row.Priority, domain.Tag(row.Tag), row.AutoSchedule, domain.Status(row.Status),
		row.StartTime, row.EndTime, row.CreatedAt, row.UpdatedAt, row.Version,
	), nil
}
