package pipeline

import (
	"time"

	"github.com/felixgeelhaar/orbita/internal/scheduling/domain"
)

// Run executes the full six-step filter pipeline (spec.md §4.3) and
// returns the surviving candidate slots, in enumeration order.
func Run(sctx SchedulingContext, now time.Time, duration time.Duration, band domain.EnergyBand, sleep *domain.SleepSchedule, task TaskContext) []CandidateSlot {
	slots := Enumerate(sctx, now, duration, band)
	slots = dropPastOrNearPast(slots, now)
	slots = dropOutsideEnergyBand(slots, band)
	slots = dropCalendarConflicts(slots, sctx.CalendarItems)
	slots = dropSleepHours(slots, sleep, sctx.Location)
	slots = dropLateWindDown(slots, sleep, sctx.Location, task)
	return slots
}
