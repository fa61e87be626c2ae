// Package commands implements the Core API Surface (spec.md §4.7): the
// four entry points that combine the Classifier, the Decision Engine
// and the Cascade into transactional operations against the owner's
// tasks and schedule.
package commands

import (
	"context"
	"errors"
	"time"

	"github.com/felixgeelhaar/orbita/internal/scheduling/application/apperrors"
	"github.com/felixgeelhaar/orbita/internal/scheduling/application/cascade"
	"github.com/felixgeelhaar/orbita/internal/scheduling/application/classify"
	"github.com/felixgeelhaar/orbita/internal/scheduling/application/decision"
	"github.com/felixgeelhaar/orbita/internal/scheduling/application/notify"
	"github.com/felixgeelhaar/orbita/internal/scheduling/domain"
	"github.com/felixgeelhaar/orbita/internal/scheduling/infrastructure/locking"
	sharedApplication "github.com/felixgeelhaar/orbita/internal/shared/application"
	"github.com/felixgeelhaar/orbita/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
)

// Handlers wires the repositories, Decision Engine, Cascade resolver
// and transactional plumbing every command needs. A single instance is
// shared across all four entry points.
type Handlers struct {
	Tasks      domain.TaskRepository
	Items      domain.ScheduleItemRepository
	Engine     *decision.Engine
	Resolver   *cascade.Resolver
	OutboxRepo outbox.Repository
	UoW        sharedApplication.UnitOfWork
	Location   *time.Location
	// Locker serializes command execution per owner (spec.md §5). When
	// nil, commands run unserialized - callers that never see
	// concurrent requests for the same owner can leave it unset.
	Locker locking.Locker
}

func NewHandlers(
	tasks domain.TaskRepository,
	items domain.ScheduleItemRepository,
	engine *decision.Engine,
	resolver *cascade.Resolver,
	outboxRepo outbox.Repository,
	uow sharedApplication.UnitOfWork,
	loc *time.Location,
	locker locking.Locker,
) *Handlers {
	return &Handlers{
		Tasks:      tasks,
		Items:      items,
		Engine:     engine,
		Resolver:   resolver,
		OutboxRepo: outboxRepo,
		UoW:        uow,
		Location:   loc,
		Locker:     locker,
	}
}

// withOwnerLock runs fn under h.Locker when one is configured, otherwise
// runs it directly.
func (h *Handlers) withOwnerLock(ctx context.Context, ownerID uuid.UUID, fn func(ctx context.Context) error) error {
	if h.Locker == nil {
		return fn(ctx)
	}
	return h.Locker.WithLock(ctx, ownerID, fn)
}

// CreateTaskCommand is the input to CreateTask.
type CreateTaskCommand struct {
	OwnerID           uuid.UUID
	Title             string
	Description       string
	EstimatedDuration domain.Duration
	Priority          int
	Tag               domain.Tag
	AutoSchedule      bool
	StartTime         *time.Time
	EndTime           *time.Time
}

// CreateTaskResult is the output of a successful CreateTask.
type CreateTaskResult struct {
	Task          *domain.Task
	Notifications []domain.Notification
}

// CreateTask persists cmd directly when it needs no initial placement.
// Otherwise it runs the Decision Engine first: a slot found is
// persisted together with its ScheduleItem mirror in one transaction
// and then fed to the Cascade; no slot found means nothing is
// persisted and the caller gets a SchedulingRefusal with a
// no_optimal_time notification.
func (h *Handlers) CreateTask(ctx context.Context, now time.Time, cmd CreateTaskCommand) (*CreateTaskResult, error) {
	var result *CreateTaskResult
	err := h.withOwnerLock(ctx, cmd.OwnerID, func(ctx context.Context) error {
		r, err := h.createTask(ctx, now, cmd)
		result = r
		return err
	})
	return result, err
}

func (h *Handlers) createTask(ctx context.Context, now time.Time, cmd CreateTaskCommand) (*CreateTaskResult, error) {
	task, err := domain.NewTask(domain.NewTaskSpec{
		OwnerID:           cmd.OwnerID,
		Title:             cmd.Title,
		Description:       cmd.Description,
		EstimatedDuration: cmd.EstimatedDuration,
		Priority:          cmd.Priority,
		Tag:               cmd.Tag,
		AutoSchedule:      cmd.AutoSchedule,
		StartTime:         cmd.StartTime,
		EndTime:           cmd.EndTime,
	})
	if err != nil {
		return nil, apperrors.New(apperrors.KindValidationFailure, err)
	}

	if !classify.NeedsInitialScheduling(task, h.Location) {
		if err := h.persistTaskOnly(ctx, task); err != nil {
			return nil, err
		}
		return &CreateTaskResult{Task: task}, nil
	}

	targetDate := classify.DetermineTargetDate(task, now, h.Location)
	if targetDate == nil {
		return nil, apperrors.New(apperrors.KindDeadlineInfeasible, errors.New("task has no reachable target date"))
	}

	slot, err := h.Engine.FindOptimalSlot(ctx, now, *targetDate, 0, decision.Params{
		OwnerID:  cmd.OwnerID,
		Duration: cmd.EstimatedDuration.Value(),
		Tag:      cmd.Tag,
		Priority: cmd.Priority,
		Deadline: task.EndTime(),
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

	if err := h.persistPlacedTask(ctx, task); err != nil {
		return nil, err
	}

	notifications, err := h.runCascade(ctx, cmd.OwnerID, task, now)
	if err != nil {
		return nil, err
	}
	return &CreateTaskResult{Task: task, Notifications: notifications}, nil
}

func (h *Handlers) persistTaskOnly(ctx context.Context, task *domain.Task) error {
	return sharedApplication.WithUnitOfWork(ctx, h.UoW, func(txCtx context.Context) error {
		if err := h.Tasks.Save(txCtx, task); err != nil {
			return err
		}
		return h.publishEvents(txCtx, task.OwnerID(), task)
	})
}

// persistPlacedTask saves the Task and its ScheduleItem mirror within
// one transaction, per spec.md §4.7's atomicity requirement.
func (h *Handlers) persistPlacedTask(ctx context.Context, task *domain.Task) error {
	return sharedApplication.WithUnitOfWork(ctx, h.UoW, func(txCtx context.Context) error {
		if err := h.Tasks.Save(txCtx, task); err != nil {
			return err
		}
		item, err := domain.NewScheduleItem(task.OwnerID(), task.Title(), *task.StartTime(), *task.EndTime(), domain.ItemTypeTask, taskIDPtr(task))
		if err != nil {
			return err
		}
		if err := h.Items.Save(txCtx, item); err != nil {
			return err
		}
		return h.publishEvents(txCtx, task.OwnerID(), task)
	})
}

func (h *Handlers) publishEvents(ctx context.Context, ownerID uuid.UUID, task *domain.Task) error {
	events := task.DomainEvents()
	sharedApplication.ApplyEventMetadata(events, sharedApplication.NewEventMetadata(ownerID))

	msgs := make([]*outbox.Message, 0, len(events))
	for _, event := range events {
		msg, err := outbox.NewMessage(event)
		if err != nil {
			return err
		}
		msgs = append(msgs, msg)
	}
	if err := h.OutboxRepo.SaveBatch(ctx, msgs); err != nil {
		return err
	}
	task.ClearDomainEvents()
	return nil
}

// runCascade resolves conflicts the newly placed task introduced and
// turns the outcomes into user-facing notifications. Cascade writes run
// outside the placement's own transaction: each displaced task is its
// own aggregate and its own consistency boundary.
func (h *Handlers) runCascade(ctx context.Context, ownerID uuid.UUID, placed *domain.Task, now time.Time) ([]domain.Notification, error) {
	results, err := h.Resolver.Resolve(ctx, ownerID, placed, now)
	if err != nil {
		return nil, err
	}

	var notifications []domain.Notification
	for _, result := range results {
		switch result.Outcome {
		case cascade.OutcomeRescheduled:
			notifications = append(notifications, notify.TaskRescheduled(ownerID, result.Task.ID(), result.Task.Title(), result.OldStart, *result.Task.StartTime()))
		case cascade.OutcomeNoOptimalTime:
			notifications = append(notifications, notify.NoOptimalTime(ownerID, result.Task.ID(), result.Task.Title()))
		case cascade.OutcomeIncomingYields:
			notifications = append(notifications, notify.ManualTaskConflict(ownerID, placed.ID(), result.Task.ID(), placed.Title()))
		}
	}
	if len(results) > 1 {
		notifications = append(notifications, notify.MultipleConflicts(ownerID, placed.ID(), placed.Title()))
	}
	return notifications, nil
}

func taskIDPtr(t *domain.Task) *uuid.UUID {
	id := t.ID()
	return &id
}
