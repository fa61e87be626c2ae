package domain

import (
	"time"

	"github.com/google/uuid"
)

// NotificationType enumerates the user-actionable scheduling events the
// core surfaces. See spec.md §4.6.
type NotificationType string

const (
	NotificationNoOptimalTime         NotificationType = "no_optimal_time"
	NotificationTaskRescheduled       NotificationType = "task_rescheduled"
	NotificationTaskDisplaced         NotificationType = "task_displaced"
	NotificationLateWindDownConflict  NotificationType = "late_wind_down_conflict"
	NotificationDeadlineApproaching   NotificationType = "task_deadline_approaching"
	NotificationManualTaskConflict    NotificationType = "manual_task_conflict"
	NotificationEventConflict         NotificationType = "event_conflict"
	NotificationMultipleConflicts     NotificationType = "multiple_conflicts"
)

// Severity classifies how urgently a notification needs attention.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
	SeveritySuccess Severity = "success"
)

// ActionStyle is the visual weight the transport layer should give an
// action button.
type ActionStyle string

const (
	ActionPrimary   ActionStyle = "primary"
	ActionSecondary ActionStyle = "secondary"
	ActionDanger    ActionStyle = "danger"
)

// Action is one ordered, opaque-payload action a user may take in
// response to a notification.
type Action struct {
	Label   string      `json:"label"`
	Tag     string      `json:"tag"`
	Style   ActionStyle `json:"style"`
	Payload any         `json:"payload,omitempty"`
}

// NotificationMetadata carries the typed, optional context fields a
// notification may need beyond its message text.
type NotificationMetadata struct {
	OldStartTime      *time.Time `json:"old_start_time,omitempty"`
	NewStartTime      *time.Time `json:"new_start_time,omitempty"`
	Deadline          *time.Time `json:"deadline,omitempty"`
	Priority          *int       `json:"priority,omitempty"`
	Tag               *string    `json:"tag,omitempty"`
	DisplacingTaskID  *uuid.UUID `json:"displacing_task_id,omitempty"`
	HoursRemaining    *float64   `json:"hours_remaining,omitempty"`
	ConflictingItemID *uuid.UUID `json:"conflicting_item_id,omitempty"`
}

// Notification is a structured record describing one user-actionable
// scheduling decision.
type Notification struct {
	ID        uuid.UUID
	Type      NotificationType
	Severity  Severity
	Title     string
	Message   string
	Timestamp time.Time
	OwnerID   uuid.UUID
	TaskID    *uuid.UUID
	Actions   []Action
	Metadata  NotificationMetadata
}

// NewNotification constructs a Notification with a fresh ID and the
// current timestamp. Construction is pure — dispatch to a transport is
// the caller's responsibility.
func NewNotification(ownerID uuid.UUID, typ NotificationType, severity Severity, title, message string) Notification {
	return Notification{
		ID:        uuid.New(),
		Type:      typ,
		Severity:  severity,
		Title:     title,
		Message:   message,
		Timestamp: time.Now().UTC(),
		OwnerID:   ownerID,
	}
}

// WithTask attaches a task reference and returns the modified copy.
func (n Notification) WithTask(taskID uuid.UUID) Notification {
	n.TaskID = &taskID
	return n
}

// WithMetadata attaches metadata and returns the modified copy.
func (n Notification) WithMetadata(meta NotificationMetadata) Notification {
	n.Metadata = meta
	return n
}

// WithActions attaches an ordered action list and returns the modified
// copy.
func (n Notification) WithActions(actions ...Action) Notification {
	n.Actions = actions
	return n
}
