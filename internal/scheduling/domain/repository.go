package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TaskRepository persists Task aggregates.
type TaskRepository interface {
	Save(ctx context.Context, task *Task) error
	FindByID(ctx context.Context, ownerID, id uuid.UUID) (*Task, error)
	FindByOwner(ctx context.Context, ownerID uuid.UUID, status *Status, from, to *time.Time) ([]*Task, error)
	// FindPlacedAutoScheduled returns pending, auto-scheduled tasks with a
	// placed start time, used to re-place tasks after a calendar event is removed.
	FindPlacedAutoScheduled(ctx context.Context, ownerID uuid.UUID) ([]*Task, error)
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
}

// ScheduleItemRepository persists ScheduleItem entities.
type ScheduleItemRepository interface {
	Save(ctx context.Context, item *ScheduleItem) error
	FindByID(ctx context.Context, ownerID, id uuid.UUID) (*ScheduleItem, error)
	FindByTaskID(ctx context.Context, ownerID, taskID uuid.UUID) (*ScheduleItem, error)
	// FindOverlapping returns items for ownerID whose (unwidened) interval
	// overlaps [from, to), excluding the given task IDs' mirror items.
	FindOverlapping(ctx context.Context, ownerID uuid.UUID, from, to time.Time, excludeTaskIDs []uuid.UUID) ([]*ScheduleItem, error)
	FindByOwner(ctx context.Context, ownerID uuid.UUID, itemType *ItemType, from, to *time.Time) ([]*ScheduleItem, error)
	DeleteByTaskID(ctx context.Context, ownerID, taskID uuid.UUID) error
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
}

// EnergySampleRepository persists recorded EnergySample rows.
type EnergySampleRepository interface {
	Save(ctx context.Context, sample *EnergySample) error
	FindByOwnerAndDate(ctx context.Context, ownerID uuid.UUID, date time.Time) ([]*EnergySample, error)
	FindAllByOwner(ctx context.Context, ownerID uuid.UUID) ([]*EnergySample, error)
}

// HistoricalPatternRepository persists the 24 per-hour running-mean
// rows for a user.
type HistoricalPatternRepository interface {
	Upsert(ctx context.Context, pattern *HistoricalEnergyPattern) error
	FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*HistoricalEnergyPattern, error)
}

// SleepScheduleRepository persists one SleepSchedule per user.
type SleepScheduleRepository interface {
	Get(ctx context.Context, ownerID uuid.UUID) (*SleepSchedule, error)
	Save(ctx context.Context, schedule *SleepSchedule) error
}
