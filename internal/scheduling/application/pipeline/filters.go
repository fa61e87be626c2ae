package pipeline

import (
	"time"

	"github.com/felixgeelhaar/orbita/internal/scheduling/domain"
)

// TaskContext carries the per-task facts the late-wind-down concession
// needs, decoupled from the domain.Task type so filters stay testable
// with plain values.
type TaskContext struct {
	Tag             domain.Tag
	Priority        int
	DeadlineIsToday bool
}

// dropPastOrNearPast removes slots starting before now+NearPastGuard
// (spec.md §4.3 step 2).
func dropPastOrNearPast(slots []CandidateSlot, now time.Time) []CandidateSlot {
	cutoff := now.Add(domain.NearPastGuard)
	return filter(slots, func(s CandidateSlot) bool { return !s.StartTime.Before(cutoff) })
}

// dropOutsideEnergyBand removes slots whose level falls outside the
// required band (spec.md §4.3 step 3).
func dropOutsideEnergyBand(slots []CandidateSlot, band domain.EnergyBand) []CandidateSlot {
	return filter(slots, func(s CandidateSlot) bool { return band.Contains(s.EnergyLevel) })
}

// dropCalendarConflicts removes slots whose [start,end) intersects any
// calendar item's conflict range (spec.md §4.3 step 4).
func dropCalendarConflicts(slots []CandidateSlot, items []*domain.ScheduleItem) []CandidateSlot {
	return filter(slots, func(s CandidateSlot) bool {
		slotRange := domain.TimeRange{Start: s.StartTime, End: s.EndTime}
		for _, item := range items {
			if slotRange.Overlaps(item.ConflictRange()) {
				return false
			}
		}
		return true
	})
}

// dropSleepHours removes slots whose local hour falls in the sleep
// window (spec.md §4.3 step 5).
func dropSleepHours(slots []CandidateSlot, sleep *domain.SleepSchedule, loc *time.Location) []CandidateSlot {
	return filter(slots, func(s CandidateSlot) bool {
		return !sleep.IsSleepHour(s.StartTime.In(loc).Hour())
	})
}

// dropLateWindDown removes slots in the two hours preceding bedtime,
// unless the sole permitted concession holds: a personal, priority-5
// task with a same-day deadline (spec.md §4.3 step 6).
func dropLateWindDown(slots []CandidateSlot, sleep *domain.SleepSchedule, loc *time.Location, task TaskContext) []CandidateSlot {
	concession := task.Tag == domain.TagPersonal && task.Priority == 5 && task.DeadlineIsToday
	if concession {
		return slots
	}
	return filter(slots, func(s CandidateSlot) bool {
		return !sleep.IsLateWindDown(s.StartTime.In(loc).Hour())
	})
}

func filter(slots []CandidateSlot, keep func(CandidateSlot) bool) []CandidateSlot {
	out := make([]CandidateSlot, 0, len(slots))
	for _, s := range slots {
		if keep(s) {
			out = append(out, s)
		}
	}
	return out
}
