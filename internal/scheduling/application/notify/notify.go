// Package notify builds domain.Notification values for each of the
// Notification Pump's eight types (spec.md §4.6). Construction is pure;
// callers own dispatch through the outbox.
package notify

import (
	"time"

	"github.com/felixgeelhaar/orbita/internal/scheduling/domain"
	"github.com/google/uuid"
)

// NoOptimalTime reports that the Decision Engine found no placement
// for task within its search horizon.
func NoOptimalTime(ownerID, taskID uuid.UUID, title string) domain.Notification {
	return domain.NewNotification(ownerID, domain.NotificationNoOptimalTime, domain.SeverityWarning,
		"No time found", "Couldn't find a good time for \""+title+"\".").
		WithTask(taskID).
		WithActions(
			domain.Action{Label: "Schedule manually", Tag: "schedule_manually", Style: domain.ActionPrimary},
			domain.Action{Label: "Dismiss", Tag: "dismiss", Style: domain.ActionSecondary},
		)
}

// TaskRescheduled reports that task moved from oldStart to newStart,
// e.g. as a cascade side effect.
func TaskRescheduled(ownerID, taskID uuid.UUID, title string, oldStart, newStart time.Time) domain.Notification {
	return domain.NewNotification(ownerID, domain.NotificationTaskRescheduled, domain.SeverityInfo,
		"Task rescheduled", "\""+title+"\" moved to a new time.").
		WithTask(taskID).
		WithMetadata(domain.NotificationMetadata{OldStartTime: &oldStart, NewStartTime: &newStart})
}

// TaskDisplaced reports that task was bumped out of its slot by a
// strictly preferable incoming task.
func TaskDisplaced(ownerID, taskID, displacingTaskID uuid.UUID, title string, oldStart time.Time) domain.Notification {
	return domain.NewNotification(ownerID, domain.NotificationTaskDisplaced, domain.SeverityWarning,
		"Task displaced", "\""+title+"\" was displaced by a higher-priority task.").
		WithTask(taskID).
		WithMetadata(domain.NotificationMetadata{OldStartTime: &oldStart, DisplacingTaskID: &displacingTaskID}).
		WithActions(
			domain.Action{Label: "Undo", Tag: "undo_displacement", Style: domain.ActionSecondary},
			domain.Action{Label: "Keep new time", Tag: "dismiss", Style: domain.ActionPrimary},
		)
}

// LateWindDownConflict reports that a slot was only reachable by
// invoking the late-wind-down concession.
func LateWindDownConflict(ownerID, taskID uuid.UUID, title string) domain.Notification {
	return domain.NewNotification(ownerID, domain.NotificationLateWindDownConflict, domain.SeverityWarning,
		"Scheduled close to bedtime", "\""+title+"\" was placed in your wind-down window.").
		WithTask(taskID)
}

// DeadlineApproaching reports that task's deadline is within
// hoursRemaining hours and still pending.
func DeadlineApproaching(ownerID, taskID uuid.UUID, title string, deadline time.Time, hoursRemaining float64) domain.Notification {
	return domain.NewNotification(ownerID, domain.NotificationDeadlineApproaching, domain.SeverityWarning,
		"Deadline approaching", "\""+title+"\" is due soon.").
		WithTask(taskID).
		WithMetadata(domain.NotificationMetadata{Deadline: &deadline, HoursRemaining: &hoursRemaining})
}

// ManualTaskConflict reports that an incoming placement would overlap
// a manually-placed (non-auto-scheduled) task, which the cascade never
// moves.
func ManualTaskConflict(ownerID, taskID, conflictingItemID uuid.UUID, title string) domain.Notification {
	return domain.NewNotification(ownerID, domain.NotificationManualTaskConflict, domain.SeverityError,
		"Conflicts with a manual task", "\""+title+"\" overlaps a task you scheduled yourself.").
		WithTask(taskID).
		WithMetadata(domain.NotificationMetadata{ConflictingItemID: &conflictingItemID})
}

// EventConflict reports that an incoming placement would overlap a
// calendar event.
func EventConflict(ownerID, taskID, conflictingItemID uuid.UUID, title string) domain.Notification {
	return domain.NewNotification(ownerID, domain.NotificationEventConflict, domain.SeverityError,
		"Conflicts with an event", "\""+title+"\" overlaps a calendar event.").
		WithTask(taskID).
		WithMetadata(domain.NotificationMetadata{ConflictingItemID: &conflictingItemID})
}

// MultipleConflicts reports that a placement or a new event conflicted
// with more than one existing task.
func MultipleConflicts(ownerID, taskID uuid.UUID, title string) domain.Notification {
	return domain.NewNotification(ownerID, domain.NotificationMultipleConflicts, domain.SeverityError,
		"Multiple conflicts", "\""+title+"\" overlaps more than one existing commitment.").
		WithTask(taskID)
}
