package domain

import (
	"errors"
	"time"

	"github.com/felixgeelhaar/orbita/internal/shared/domain"
	"github.com/google/uuid"
)

var (
	ErrInvalidInterval = errors.New("schedule item end must be after start")
	ErrItemIsEvent      = errors.New("schedule item is an event and has no backing task")
)

// ItemType discriminates a calendar placement's origin.
type ItemType string

const (
	ItemTypeTask  ItemType = "task"
	ItemTypeEvent ItemType = "event"
)

// ScheduleItem is a calendar placement: either the mirror of an
// auto-scheduled Task, or a manually created immovable event.
type ScheduleItem struct {
	domain.BaseEntity
	ownerID   uuid.UUID
	title     string
	startTime time.Time
	endTime   time.Time
	itemType  ItemType
	taskID    *uuid.UUID
}

// NewScheduleItem validates and constructs a ScheduleItem.
func NewScheduleItem(ownerID uuid.UUID, title string, start, end time.Time, itemType ItemType, taskID *uuid.UUID) (*ScheduleItem, error) {
	if !end.After(start) {
		return nil, ErrInvalidInterval
	}
	if itemType == ItemTypeTask && taskID == nil {
		return nil, errors.New("a task-type schedule item must carry a taskID")
	}
	return &ScheduleItem{
		BaseEntity: domain.NewBaseEntity(),
		ownerID:    ownerID,
		title:      title,
		startTime:  start,
		endTime:    end,
		itemType:   itemType,
		taskID:     taskID,
	}, nil
}

// RehydrateScheduleItem reconstructs a ScheduleItem from persisted state.
func RehydrateScheduleItem(id, ownerID uuid.UUID, title string, start, end time.Time, itemType ItemType, taskID *uuid.UUID, createdAt, updatedAt time.Time) *ScheduleItem {
	return &ScheduleItem{
		BaseEntity: domain.RehydrateBaseEntity(id, createdAt, updatedAt),
		ownerID:    ownerID,
		title:      title,
		startTime:  start,
		endTime:    end,
		itemType:   itemType,
		taskID:     taskID,
	}
}

func (s *ScheduleItem) OwnerID() uuid.UUID   { return s.ownerID }
func (s *ScheduleItem) Title() string        { return s.title }
func (s *ScheduleItem) StartTime() time.Time { return s.startTime }
func (s *ScheduleItem) EndTime() time.Time   { return s.endTime }
func (s *ScheduleItem) Type() ItemType       { return s.itemType }
func (s *ScheduleItem) TaskID() *uuid.UUID   { return s.taskID }
func (s *ScheduleItem) IsEvent() bool        { return s.itemType == ItemTypeEvent }
func (s *ScheduleItem) IsTask() bool         { return s.itemType == ItemTypeTask }

// Reschedule moves the item to a new interval. Used by the cascade when a
// displaced task's mirror item is updated.
func (s *ScheduleItem) Reschedule(start, end time.Time) error {
	if !end.After(start) {
		return ErrInvalidInterval
	}
	s.startTime = start
	s.endTime = end
	s.Touch()
	return nil
}

// TimeRange is a half-open [Start, End) interval used throughout the
// conflict-detection and slot-enumeration code.
type TimeRange struct {
	Start time.Time
	End   time.Time
}

// Overlaps reports whether two half-open intervals intersect.
func (r TimeRange) Overlaps(other TimeRange) bool {
	return r.Start.Before(other.End) && other.Start.Before(r.End)
}

// Widen returns a copy of r padded by buf on each side.
func (r TimeRange) Widen(buf time.Duration) TimeRange {
	return TimeRange{Start: r.Start.Add(-buf), End: r.End.Add(buf)}
}

// ConflictRange returns the item's interval, widened by EventBuffer if it is an
// event (spec.md §4.3 step 4) and left verbatim if it is a task.
func (s *ScheduleItem) ConflictRange() TimeRange {
	r := TimeRange{Start: s.startTime, End: s.endTime}
	if s.IsEvent() {
		return r.Widen(EventBuffer)
	}
	return r
}
