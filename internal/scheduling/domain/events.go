package domain

import (
	"github.com/felixgeelhaar/orbita/internal/shared/domain"
	"github.com/google/uuid"
)

const (
	AggregateTypeTask         = "Task"
	AggregateTypeScheduleItem = "ScheduleItem"

	RoutingKeyTaskCreated     = "scheduling.task.created"
	RoutingKeyTaskCompleted   = "scheduling.task.completed"
	RoutingKeyTaskPlaced      = "scheduling.task.placed"
	RoutingKeyTaskRescheduled = "scheduling.task.rescheduled"
	RoutingKeyTaskDisplaced   = "scheduling.task.displaced"
	RoutingKeyItemCreated     = "scheduling.schedule_item.created"
	RoutingKeyItemRemoved     = "scheduling.schedule_item.removed"
)

// TaskCreated is emitted when a new task is created, placed or not.
type TaskCreated struct {
	domain.BaseEvent
	OwnerID  uuid.UUID `json:"owner_id"`
	Title    string    `json:"title"`
	Priority int       `json:"priority"`
	Tag      string    `json:"tag"`
}

func NewTaskCreated(taskID, ownerID uuid.UUID, title string, priority int, tag string) TaskCreated {
	return TaskCreated{
		BaseEvent: domain.NewBaseEvent(taskID, AggregateTypeTask, RoutingKeyTaskCreated),
		OwnerID:   ownerID,
		Title:     title,
		Priority:  priority,
		Tag:       tag,
	}
}

// TaskCompleted is emitted when a task transitions to completed.
type TaskCompleted struct {
	domain.BaseEvent
	OwnerID uuid.UUID `json:"owner_id"`
}

func NewTaskCompleted(taskID, ownerID uuid.UUID) TaskCompleted {
	return TaskCompleted{
		BaseEvent: domain.NewBaseEvent(taskID, AggregateTypeTask, RoutingKeyTaskCompleted),
		OwnerID:   ownerID,
	}
}

// TaskPlaced is emitted when the Decision Engine assigns a task a slot.
type TaskPlaced struct {
	domain.BaseEvent
	OwnerID   uuid.UUID `json:"owner_id"`
	StartTime string    `json:"start_time"`
	EndTime   string    `json:"end_time"`
}

func NewTaskPlaced(taskID, ownerID uuid.UUID, start, end string) TaskPlaced {
	return TaskPlaced{
		BaseEvent: domain.NewBaseEvent(taskID, AggregateTypeTask, RoutingKeyTaskPlaced),
		OwnerID:   ownerID,
		StartTime: start,
		EndTime:   end,
	}
}

// TaskRescheduled is emitted by the cascade when a displaced task is
// successfully re-placed.
type TaskRescheduled struct {
	domain.BaseEvent
	OwnerID    uuid.UUID `json:"owner_id"`
	OldStart   string    `json:"old_start"`
	NewStart   string    `json:"new_start"`
	Displacer  uuid.UUID `json:"displacer"`
}

func NewTaskRescheduled(taskID, ownerID, displacer uuid.UUID, oldStart, newStart string) TaskRescheduled {
	return TaskRescheduled{
		BaseEvent: domain.NewBaseEvent(taskID, AggregateTypeTask, RoutingKeyTaskRescheduled),
		OwnerID:   ownerID,
		OldStart:  oldStart,
		NewStart:  newStart,
		Displacer: displacer,
	}
}

// TaskDisplaced is emitted when a task is identified as needing to move
// but before the replacement search runs.
type TaskDisplaced struct {
	domain.BaseEvent
	OwnerID   uuid.UUID `json:"owner_id"`
	Displacer uuid.UUID `json:"displacer"`
}

func NewTaskDisplaced(taskID, ownerID, displacer uuid.UUID) TaskDisplaced {
	return TaskDisplaced{
		BaseEvent: domain.NewBaseEvent(taskID, AggregateTypeTask, RoutingKeyTaskDisplaced),
		OwnerID:   ownerID,
		Displacer: displacer,
	}
}
