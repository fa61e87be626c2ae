// Package classify implements the pure predicates of the Task & Context
// Classifier (spec.md §4.1). No function here performs I/O.
package classify

import (
	"math"
	"time"

	"github.com/felixgeelhaar/orbita/internal/scheduling/domain"
)

// Strategy names which energy substrate the Decision Engine should
// consult for a given target date.
type Strategy string

const (
	StrategyToday  Strategy = "today"
	StrategyFuture Strategy = "future"
)

// IsDateOnly reports whether t's local time-of-day, in loc, is exactly
// midnight. Clients encode "sometime on this day" as a bare midnight
// timestamp.
func IsDateOnly(t time.Time, loc *time.Location) bool {
	local := t.In(loc)
	return local.Hour() == 0 && local.Minute() == 0 && local.Second() == 0 && local.Nanosecond() == 0
}

// NeedsInitialScheduling reports whether task requires the Decision
// Engine to place it: it must be auto-scheduled and either carry a
// date-only start time, or carry only an end time (a deadline) with no
// start time at all.
func NeedsInitialScheduling(task *domain.Task, loc *time.Location) bool {
	if !task.IsAutoSchedule() {
		return false
	}
	start := task.StartTime()
	end := task.EndTime()
	if start != nil && IsDateOnly(*start, loc) {
		return true
	}
	if start == nil && end != nil {
		return true
	}
	return false
}

// TaskPatch mirrors the subset of domain.TaskPatch fields the
// rescheduling predicate needs to inspect, decoupled from the
// aggregate's own setter semantics.
type TaskPatch struct {
	StartTimeCleared  bool
	StartTime         *time.Time
	PriorityDelta     *int // new priority, to be diffed against task.Priority()
	DurationDelta     *time.Duration
	EndTime           *time.Time
}

// ChangesRequireRescheduling reports whether an update patch invalidates
// the task's current placement and requires a fresh Decision Engine run.
func ChangesRequireRescheduling(task *domain.Task, patch TaskPatch, loc *time.Location) bool {
	if patch.StartTimeCleared {
		return true
	}
	if patch.StartTime != nil && IsDateOnly(*patch.StartTime, loc) {
		return true
	}
	if patch.PriorityDelta != nil {
		if abs(*patch.PriorityDelta-task.Priority()) >= 2 {
			return true
		}
	}
	if patch.DurationDelta != nil {
		current := task.EstimatedDuration().Value()
		diff := *patch.DurationDelta - current
		if diff < 0 {
			diff = -diff
		}
		if diff >= 30*time.Minute {
			return true
		}
	}
	if patch.EndTime != nil && task.EndTime() != nil {
		if patch.EndTime.Before(*task.EndTime()) {
			return true
		}
	}
	return false
}

// DetermineTargetDate returns the calendar day the Decision Engine
// should start searching from, or nil if none can be determined.
func DetermineTargetDate(task *domain.Task, now time.Time, loc *time.Location) *time.Time {
	if start := task.StartTime(); start != nil && IsDateOnly(*start, loc) {
		d := startOfDay(*start, loc)
		return &d
	}
	if task.StartTime() == nil && task.EndTime() != nil {
		d := startOfDay(now, loc)
		return &d
	}
	if end := task.EndTime(); end != nil && end.After(now) {
		d := startOfDay(*end, loc)
		return &d
	}
	return nil
}

// DetermineStrategy picks the "today" vs "future" substrate based on
// whether targetDate's calendar day equals today's, both evaluated in
// UTC.
func DetermineStrategy(targetDate time.Time, now time.Time) Strategy {
	ty, tm, td := targetDate.UTC().Date()
	ny, nm, nd := now.UTC().Date()
	if ty == ny && tm == nm && td == nd {
		return StrategyToday
	}
	return StrategyFuture
}

// CalculateSchedulingWindow returns how many days, capped at
// domain.LookAheadDays+1, the Decision Engine may search before giving
// up, based on the task's deadline.
func CalculateSchedulingWindow(task *domain.Task, now time.Time) int {
	const defaultWindow = 7
	end := task.EndTime()
	if end == nil {
		return defaultWindow
	}
	remaining := end.Sub(now)
	if remaining <= 0 {
		return defaultWindow
	}
	days := int(math.Ceil(remaining.Hours() / 24))
	if days > defaultWindow {
		return defaultWindow
	}
	if days < 1 {
		days = 1
	}
	return days
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
