// Package cascade implements Displacement & Cascade (spec.md §4.5): for
// each task an incoming placement conflicts with, it decides whether
// the incoming task outranks the existing one and, if so, searches for
// a replacement slot for the displaced task.
package cascade

import (
	"context"
	"time"

	"github.com/felixgeelhaar/orbita/internal/scheduling/application/decision"
	"github.com/felixgeelhaar/orbita/internal/scheduling/domain"
	"github.com/google/uuid"
)

// Outcome classifies what happened to one conflicting task.
type Outcome string

const (
	// OutcomeRescheduled: the existing task lost its slot and was
	// successfully replanted elsewhere.
	OutcomeRescheduled Outcome = "rescheduled"
	// OutcomeNoOptimalTime: the existing task lost its slot but no
	// replacement was found; it is left at its previous time.
	OutcomeNoOptimalTime Outcome = "no_optimal_time"
	// OutcomeIncomingYields: the incoming task does not outrank the
	// existing one (or the existing task isn't displaceable at all);
	// the incoming placement itself must not proceed.
	OutcomeIncomingYields Outcome = "incoming_yields"
	// OutcomeManualConflict: an incoming calendar event overlaps a
	// manually-placed task that the cascade never moves.
	OutcomeManualConflict Outcome = "manual_conflict"
)

// Result records what the cascade decided for one conflicting task.
type Result struct {
	Task     *domain.Task
	Outcome  Outcome
	OldStart time.Time
}

// Resolver wires the repositories and Decision Engine the cascade
// needs to evaluate and act on conflicts.
type Resolver struct {
	Tasks    domain.TaskRepository
	Items    domain.ScheduleItemRepository
	Engine   *decision.Engine
	Location *time.Location
}

func NewResolver(tasks domain.TaskRepository, items domain.ScheduleItemRepository, engine *decision.Engine, loc *time.Location) *Resolver {
	return &Resolver{Tasks: tasks, Items: items, Engine: engine, Location: loc}
}

// Resolve finds every existing task conflicting with incoming's
// current [start,end) interval and applies the displacement predicate
// to each, evaluating only direct conflicts of the originating
// placement — no transitive recursion.
func (r *Resolver) Resolve(ctx context.Context, ownerID uuid.UUID, incoming *domain.Task, now time.Time) ([]Result, error) {
	start := incoming.StartTime()
	end := incoming.EndTime()
	if start == nil || end == nil {
		return nil, nil
	}

	conflicting, err := r.Items.FindOverlapping(ctx, ownerID, *start, *end, []uuid.UUID{incoming.ID()})
	if err != nil {
		return nil, err
	}

	var results []Result
	for _, item := range conflicting {
		if !item.IsTask() || item.TaskID() == nil || *item.TaskID() == incoming.ID() {
			continue
		}
		existing, err := r.Tasks.FindByID(ctx, ownerID, *item.TaskID())
		if err != nil {
			return nil, err
		}

		if !existing.IsDisplaceable() || !displaces(incoming, existing) {
			results = append(results, Result{Task: existing, Outcome: OutcomeIncomingYields})
			continue
		}

		result, err := r.displace(ctx, ownerID, existing, incoming.ID(), now)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	return results, nil
}

// ResolveEvent finds every task overlapping a newly recorded calendar
// event's buffered interval and displaces each displaceable one — a
// calendar event always outranks an auto-scheduled task. Manually
// placed tasks are reported as an unresolved conflict instead.
func (r *Resolver) ResolveEvent(ctx context.Context, ownerID uuid.UUID, event *domain.ScheduleItem, now time.Time) ([]Result, error) {
	window := event.ConflictRange()
	conflicting, err := r.Items.FindOverlapping(ctx, ownerID, window.Start, window.End, nil)
	if err != nil {
		return nil, err
	}

	var results []Result
	for _, item := range conflicting {
		if !item.IsTask() || item.TaskID() == nil {
			continue
		}
		existing, err := r.Tasks.FindByID(ctx, ownerID, *item.TaskID())
		if err != nil {
			return nil, err
		}
		if !existing.IsDisplaceable() {
			results = append(results, Result{Task: existing, Outcome: OutcomeManualConflict})
			continue
		}
		result, err := r.displace(ctx, ownerID, existing, existing.ID(), now)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	return results, nil
}

// displaces reports whether incoming outranks existing: strictly
// higher priority, or equal priority with an earlier deadline.
func displaces(incoming, existing *domain.Task) bool {
	if incoming.Priority() > existing.Priority() {
		return true
	}
	if incoming.Priority() < existing.Priority() {
		return false
	}
	if incoming.EndTime() == nil || existing.EndTime() == nil {
		return false
	}
	return incoming.EndTime().Before(*existing.EndTime())
}

func (r *Resolver) displace(ctx context.Context, ownerID uuid.UUID, existing *domain.Task, excludeID uuid.UUID, now time.Time) (Result, error) {
	oldStart := *existing.StartTime()

	// A placed task's EndTime has already been overwritten with its
	// scheduled end by Place; the original deadline is gone by the time
	// it's displaced, so the replacement search runs unbounded within
	// the engine's own look-ahead horizon rather than against a
	// deadline that no longer exists on the aggregate.
	slot, err := r.Engine.FindOptimalSlot(ctx, now, startOfDay(now, r.Location), 0, decision.Params{
		OwnerID:        ownerID,
		Duration:       existing.EstimatedDuration().Value(),
		Tag:            existing.Tag(),
		Priority:       existing.Priority(),
		ExcludeTaskIDs: []uuid.UUID{excludeID},
	})
	if err != nil {
		return Result{}, err
	}
	if slot == nil {
		return Result{Task: existing, Outcome: OutcomeNoOptimalTime, OldStart: oldStart}, nil
	}

	existing.Place(slot.Start)
	if err := r.Tasks.Save(ctx, existing); err != nil {
		return Result{}, err
	}
	item, err := r.Items.FindByTaskID(ctx, ownerID, existing.ID())
	if err != nil {
		return Result{}, err
	}
	if item != nil {
		if err := item.Reschedule(*existing.StartTime(), *existing.EndTime()); err != nil {
			return Result{}, err
		}
		if err := r.Items.Save(ctx, item); err != nil {
			return Result{}, err
		}
	}
	return Result{Task: existing, Outcome: OutcomeRescheduled, OldStart: oldStart}, nil
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}
