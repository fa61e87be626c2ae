package commands

import (
	"context"
	"errors"
	"time"

	"github.com/felixgeelhaar/orbita/internal/scheduling/application/apperrors"
	"github.com/felixgeelhaar/orbita/internal/scheduling/application/decision"
	"github.com/felixgeelhaar/orbita/internal/scheduling/application/notify"
	"github.com/felixgeelhaar/orbita/internal/scheduling/domain"
	"github.com/google/uuid"
)

// RescheduleTaskCommand names the task to force a fresh search for.
type RescheduleTaskCommand struct {
	OwnerID uuid.UUID
	TaskID  uuid.UUID
}

// RescheduleTask discards a task's current placement and runs the
// Decision Engine again from today, ignoring its own existing
// ScheduleItem when checking for conflicts. A failed search is a
// recoverable SchedulingRefusal carrying a no_optimal_time
// notification; the task is left at its previous placement.
func (h *Handlers) RescheduleTask(ctx context.Context, now time.Time, cmd RescheduleTaskCommand) (*CreateTaskResult, error) {
	var result *CreateTaskResult
	err := h.withOwnerLock(ctx, cmd.OwnerID, func(ctx context.Context) error {
		r, err := h.rescheduleTask(ctx, now, cmd)
		result = r
		return err
	})
	return result, err
}

func (h *Handlers) rescheduleTask(ctx context.Context, now time.Time, cmd RescheduleTaskCommand) (*CreateTaskResult, error) {
	task, err := h.Tasks.FindByID(ctx, cmd.OwnerID, cmd.TaskID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, apperrors.New(apperrors.KindNotFound, errors.New("task not found"))
	}
	if !task.IsAutoSchedule() {
		return nil, apperrors.New(apperrors.KindValidationFailure, errors.New("task is not auto-scheduled"))
	}

	target := startOfDay(now, h.Location)
	slot, err := h.Engine.FindOptimalSlot(ctx, now, target, 0, decision.Params{
		OwnerID:        cmd.OwnerID,
		Duration:       task.EstimatedDuration().Value(),
		Tag:            task.Tag(),
		Priority:       task.Priority(),
		Deadline:       task.EndTime(),
		ExcludeTaskIDs: []uuid.UUID{task.ID()},
	})
	if err != nil {
		return nil, err
	}
	if slot == nil {
		notification := notify.NoOptimalTime(cmd.OwnerID, task.ID(), task.Title())
		return nil, apperrors.New(apperrors.KindSchedulingRefusal, errors.New("no optimal time found")).WithNotification(notification)
	}

	oldStart := task.StartTime()
	task.Place(slot.Start)
	if oldStart != nil {
		task.AddDomainEvent(domain.NewTaskRescheduled(task.ID(), cmd.OwnerID, cmd.TaskID, oldStart.Format(time.RFC3339), slot.Start.Format(time.RFC3339)))
	} else {
		task.AddDomainEvent(domain.NewTaskPlaced(task.ID(), cmd.OwnerID, slot.Start.Format(time.RFC3339), slot.End.Format(time.RFC3339)))
	}

	if err := h.persistPlacedTaskUpdate(ctx, task); err != nil {
		return nil, err
	}

	var notifications []domain.Notification
	if oldStart != nil {
		notifications = append(notifications, notify.TaskRescheduled(cmd.OwnerID, task.ID(), task.Title(), *oldStart, slot.Start))
	}
	return &CreateTaskResult{Task: task, Notifications: notifications}, nil
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}
