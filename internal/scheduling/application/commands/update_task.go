package commands

import (
	"context"
	"errors"
	"time"

	"github.com/felixgeelhaar/orbita/internal/scheduling/application/apperrors"
	"github.com/felixgeelhaar/orbita/internal/scheduling/application/classify"
	"github.com/felixgeelhaar/orbita/internal/scheduling/application/decision"
	"github.com/felixgeelhaar/orbita/internal/scheduling/application/notify"
	"github.com/felixgeelhaar/orbita/internal/scheduling/domain"
	sharedApplication "github.com/felixgeelhaar/orbita/internal/shared/application"
	"github.com/google/uuid"
)

// UpdateTaskCommand carries a partial update. A nil field leaves the
// corresponding task field untouched; StartTimeCleared requests
// dropping the task's current placement without setting a new one.
type UpdateTaskCommand struct {
	OwnerID           uuid.UUID
	TaskID            uuid.UUID
	Title             *string
	Description       *string
	EstimatedDuration *domain.Duration
	Priority          *int
	Tag               *domain.Tag
	AutoSchedule      *bool
	StartTimeCleared  bool
	StartTime         *time.Time
	EndTime           *time.Time
}

// UpdateTask applies cmd to the task it names. If the change set
// invalidates the current placement (spec.md §4.1's
// changesRequireRescheduling), it runs the Decision Engine and Cascade
// before persisting anything; a failed re-placement aborts the whole
// update rather than applying a partial patch.
func (h *Handlers) UpdateTask(ctx context.Context, now time.Time, cmd UpdateTaskCommand) (*CreateTaskResult, error) {
	var result *CreateTaskResult
	err := h.withOwnerLock(ctx, cmd.OwnerID, func(ctx context.Context) error {
		r, err := h.updateTask(ctx, now, cmd)
		result = r
		return err
	})
	return result, err
}

func (h *Handlers) updateTask(ctx context.Context, now time.Time, cmd UpdateTaskCommand) (*CreateTaskResult, error) {
	task, err := h.Tasks.FindByID(ctx, cmd.OwnerID, cmd.TaskID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, apperrors.New(apperrors.KindNotFound, errors.New("task not found"))
	}

	classifyPatch := classify.TaskPatch{
		StartTimeCleared: cmd.StartTimeCleared,
		StartTime:        cmd.StartTime,
		EndTime:          cmd.EndTime,
	}
	if cmd.Priority != nil {
		classifyPatch.PriorityDelta = cmd.Priority
	}
	if cmd.EstimatedDuration != nil {
		d := cmd.EstimatedDuration.Value()
		classifyPatch.DurationDelta = &d
	}
	needsReschedule := classify.ChangesRequireRescheduling(task, classifyPatch, h.Location)

	domainPatch := domain.TaskPatch{
		Title:             cmd.Title,
		Description:       cmd.Description,
		EstimatedDuration: cmd.EstimatedDuration,
		Priority:          cmd.Priority,
		Tag:               cmd.Tag,
		AutoSchedule:      cmd.AutoSchedule,
	}
	if cmd.EndTime != nil {
		domainPatch.EndTime = ptrToPtr(cmd.EndTime)
	}
	if cmd.StartTimeCleared {
		domainPatch.StartTime = ptrToPtr[*time.Time](nil)
	} else if cmd.StartTime != nil {
		domainPatch.StartTime = ptrToPtr(cmd.StartTime)
	}

	if !needsReschedule {
		if err := task.ApplyPatch(domainPatch); err != nil {
			return nil, apperrors.New(apperrors.KindValidationFailure, err)
		}
		if err := h.persistTaskOnly(ctx, task); err != nil {
			return nil, err
		}
		return &CreateTaskResult{Task: task}, nil
	}

	// Rescheduling is required: clear the placement first so
	// DetermineTargetDate reads the patched deadline/start, not the
	// stale placement the task currently carries.
	domainPatch.StartTime = ptrToPtr[*time.Time](nil)
	if err := task.ApplyPatch(domainPatch); err != nil {
		return nil, apperrors.New(apperrors.KindValidationFailure, err)
	}

	targetDate := classify.DetermineTargetDate(task, now, h.Location)
	if targetDate == nil {
		return nil, apperrors.New(apperrors.KindDeadlineInfeasible, errors.New("task has no reachable target date"))
	}

	slot, err := h.Engine.FindOptimalSlot(ctx, now, *targetDate, 0, decision.Params{
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

	task.Place(slot.Start)
	task.AddDomainEvent(domain.NewTaskPlaced(task.ID(), cmd.OwnerID, slot.Start.Format(time.RFC3339), slot.End.Format(time.RFC3339)))

	if err := h.persistPlacedTaskUpdate(ctx, task); err != nil {
		return nil, err
	}

	notifications, err := h.runCascade(ctx, cmd.OwnerID, task, now)
	if err != nil {
		return nil, err
	}
	return &CreateTaskResult{Task: task, Notifications: notifications}, nil
}

// persistPlacedTaskUpdate saves Task and updates (or creates) its
// ScheduleItem mirror in one transaction.
func (h *Handlers) persistPlacedTaskUpdate(ctx context.Context, task *domain.Task) error {
	return sharedApplication.WithUnitOfWork(ctx, h.UoW, func(txCtx context.Context) error {
		if err := h.Tasks.Save(txCtx, task); err != nil {
			return err
		}
		item, err := h.Items.FindByTaskID(txCtx, task.OwnerID(), task.ID())
		if err != nil {
			return err
		}
		if item == nil {
			item, err = domain.NewScheduleItem(task.OwnerID(), task.Title(), *task.StartTime(), *task.EndTime(), domain.ItemTypeTask, taskIDPtr(task))
			if err != nil {
				return err
			}
		} else if err := item.Reschedule(*task.StartTime(), *task.EndTime()); err != nil {
			return err
		}
		if err := h.Items.Save(txCtx, item); err != nil {
			return err
		}
		return h.publishEvents(txCtx, task.OwnerID(), task)
	})
}

func ptrToPtr[T any](v T) *T { return &v }
