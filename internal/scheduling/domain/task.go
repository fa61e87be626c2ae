package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/felixgeelhaar/orbita/internal/shared/domain"
	"github.com/google/uuid"
)

var (
	ErrEmptyTitle       = errors.New("task title cannot be empty")
	ErrInvalidPriority  = errors.New("priority must be between 1 and 5")
	ErrInvalidTag       = errors.New("unrecognized task tag")
	ErrTaskCompleted    = errors.New("task is already completed")
	ErrTaskNotAutoSched = errors.New("task is not auto-scheduled and cannot be displaced")
)

// Tag is the coarse task category that drives the required energy band.
type Tag string

const (
	TagDeep     Tag = "deep"
	TagCreative Tag = "creative"
	TagAdmin    Tag = "admin"
	TagPersonal Tag = "personal"
)

func (t Tag) Valid() bool {
	switch t {
	case TagDeep, TagCreative, TagAdmin, TagPersonal:
		return true
	default:
		return false
	}
}

// Status is the task lifecycle state. Transitions are one-way:
// pending -> completed.
type Status int

const (
	StatusPending Status = iota
	StatusCompleted
)

func (s Status) String() string {
	if s == StatusCompleted {
		return "completed"
	}
	return "pending"
}

// Task is a unit of work that may be auto-scheduled onto the calendar.
type Task struct {
	domain.BaseAggregateRoot
	ownerID           uuid.UUID
	title             string
	description       string
	estimatedDuration Duration
	priority          int
	tag               Tag
	autoSchedule      bool
	status            Status
	startTime         *time.Time
	// endTime overloads as a deadline before the task is placed and as the
	// scheduled end time afterward — see spec.md §3.
	endTime *time.Time
}

// NewTaskSpec is the input to NewTask.
type NewTaskSpec struct {
	OwnerID           uuid.UUID
	Title             string
	Description       string
	EstimatedDuration Duration
	Priority          int
	Tag               Tag
	AutoSchedule      bool
	StartTime         *time.Time
	EndTime           *time.Time
}

// NewTask constructs a pending Task from a validated spec.
func NewTask(spec NewTaskSpec) (*Task, error) {
	title := strings.TrimSpace(spec.Title)
	if title == "" {
		return nil, ErrEmptyTitle
	}
	if spec.Priority < 1 || spec.Priority > 5 {
		return nil, ErrInvalidPriority
	}
	if spec.Tag != "" && !spec.Tag.Valid() {
		return nil, ErrInvalidTag
	}

	t := &Task{
		BaseAggregateRoot: domain.NewBaseAggregateRoot(),
		ownerID:           spec.OwnerID,
		title:             title,
		description:       strings.TrimSpace(spec.Description),
		estimatedDuration: spec.EstimatedDuration,
		priority:          spec.Priority,
		tag:               spec.Tag,
		autoSchedule:      spec.AutoSchedule,
		status:            StatusPending,
		startTime:         spec.StartTime,
		endTime:           spec.EndTime,
	}

	t.AddDomainEvent(NewTaskCreated(t.ID(), t.ownerID, t.title, t.priority, string(t.tag)))

	return t, nil
}

// RehydrateTask reconstructs a Task from persisted state without emitting
// domain events.
func RehydrateTask(
	id, ownerID uuid.UUID,
	title, description string,
	estimatedDuration Duration,
	priority int,
	tag Tag,
	autoSchedule bool,
	status Status,
	startTime, endTime *time.Time,
	createdAt, updatedAt time.Time,
	version int,
) *Task {
	entity := domain.RehydrateBaseEntity(id, createdAt, updatedAt)
	return &Task{
		BaseAggregateRoot: domain.RehydrateBaseAggregateRoot(entity, version),
		ownerID:           ownerID,
		title:             title,
		description:       description,
		estimatedDuration: estimatedDuration,
		priority:          priority,
		tag:               tag,
		autoSchedule:      autoSchedule,
		status:            status,
		startTime:         startTime,
		endTime:           endTime,
	}
}

// Getters

func (t *Task) OwnerID() uuid.UUID            { return t.ownerID }
func (t *Task) Title() string                 { return t.title }
func (t *Task) Description() string           { return t.description }
func (t *Task) EstimatedDuration() Duration   { return t.estimatedDuration }
func (t *Task) Priority() int                 { return t.priority }
func (t *Task) Tag() Tag                      { return t.tag }
func (t *Task) IsAutoSchedule() bool          { return t.autoSchedule }
func (t *Task) Status() Status                { return t.status }
func (t *Task) StartTime() *time.Time         { return t.startTime }
func (t *Task) EndTime() *time.Time           { return t.endTime }
func (t *Task) IsCompleted() bool             { return t.status == StatusCompleted }
func (t *Task) IsPlaced() bool                { return t.startTime != nil && !t.startTime.IsZero() }

// IsDisplaceable reports whether the cascade may move this task — only
// auto-scheduled, pending tasks may ever be displaced (spec.md §4.8).
func (t *Task) IsDisplaceable() bool {
	return t.autoSchedule && t.status == StatusPending
}

// Place records a concrete placement chosen by the Decision Engine,
// deriving EndTime from EstimatedDuration regardless of any
// caller-supplied deadline that previously occupied EndTime.
func (t *Task) Place(start time.Time) {
	end := start.Add(t.estimatedDuration.Value())
	t.startTime = &start
	t.endTime = &end
	t.Touch()
}

// TaskPatch is a partial update of a task's editable fields, applied by
// ApplyPatch. Only non-nil fields are applied.
type TaskPatch struct {
	Title             *string
	Description       *string
	EstimatedDuration *Duration
	Priority          *int
	Tag               *Tag
	AutoSchedule      *bool
	StartTime         **time.Time // set to non-nil to clear or change
	EndTime           **time.Time
}

func (t *Task) ApplyPatch(patch TaskPatch) error {
	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return ErrEmptyTitle
		}
		t.title = title
	}
	if patch.Description != nil {
		t.description = strings.TrimSpace(*patch.Description)
	}
	if patch.EstimatedDuration != nil {
		t.estimatedDuration = *patch.EstimatedDuration
	}
	if patch.Priority != nil {
		if *patch.Priority < 1 || *patch.Priority > 5 {
			return ErrInvalidPriority
		}
		t.priority = *patch.Priority
	}
	if patch.Tag != nil {
		if *patch.Tag != "" && !patch.Tag.Valid() {
			return ErrInvalidTag
		}
		t.tag = *patch.Tag
	}
	if patch.AutoSchedule != nil {
		t.autoSchedule = *patch.AutoSchedule
	}
	if patch.StartTime != nil {
		t.startTime = *patch.StartTime
	}
	if patch.EndTime != nil {
		t.endTime = *patch.EndTime
	}
	t.Touch()
	return nil
}

// Complete marks the task as completed. One-way transition.
func (t *Task) Complete() error {
	if t.IsCompleted() {
		return ErrTaskCompleted
	}
	t.status = StatusCompleted
	t.Touch()
	t.AddDomainEvent(NewTaskCompleted(t.ID(), t.ownerID))
	return nil
}
