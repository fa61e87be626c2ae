package pipeline

import (
	"time"

	"github.com/felixgeelhaar/orbita/internal/scheduling/application/classify"
	"github.com/felixgeelhaar/orbita/internal/scheduling/domain"
)

// Enumerate produces the raw candidate slot list (spec.md §4.3 step 1),
// before any filter stage runs. duration is the task's required
// duration; it fixes each candidate's end time regardless of the
// 1-hour sample/pattern grain the slot was derived from. now anchors
// the 7-day sweep used when sctx carries no target date.
func Enumerate(sctx SchedulingContext, now time.Time, duration time.Duration, band domain.EnergyBand) []CandidateSlot {
	switch {
	case sctx.Strategy == classify.StrategyToday:
		return enumerateFromForecast(sctx, duration)
	case sctx.TargetDate != nil:
		return enumerateFromPatterns(sctx, duration, band)
	default:
		return enumerateNextWeek(sctx, now, duration)
	}
}

func enumerateFromForecast(sctx SchedulingContext, duration time.Duration) []CandidateSlot {
	slots := make([]CandidateSlot, 0, len(sctx.Forecast))
	for _, sample := range sctx.Forecast {
		start := sample.SlotStart(sctx.Location)
		slots = append(slots, CandidateSlot{
			StartTime:   start,
			EndTime:     start.Add(duration),
			EnergyLevel: sample.EnergyLevel(),
			Stage:       sample.Stage(),
			IsToday:     true,
		})
	}
	return slots
}

func enumerateFromPatterns(sctx SchedulingContext, duration time.Duration, band domain.EnergyBand) []CandidateSlot {
	slots := make([]CandidateSlot, 0, len(sctx.Patterns))
	for _, pattern := range sctx.Patterns {
		if !band.Contains(pattern.AverageLevel()) {
			continue
		}
		start := pattern.SlotStart(*sctx.TargetDate, sctx.Location)
		slots = append(slots, CandidateSlot{
			StartTime:    start,
			EndTime:      start.Add(duration),
			EnergyLevel:  pattern.AverageLevel(),
			Stage:        pattern.Stage(),
			IsHistorical: true,
		})
	}
	return slots
}

// enumerateNextWeek handles the no-target-date case: 7 × 24 slots
// spanning the week starting "today", one per pattern hour, unfiltered
// by energy band (the band filter runs as its own stage below).
func enumerateNextWeek(sctx SchedulingContext, now time.Time, duration time.Duration) []CandidateSlot {
	local := now.In(sctx.Location)
	startOfToday := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, sctx.Location)

	slots := make([]CandidateSlot, 0, 7*24)
	for dayOffset := 0; dayOffset < 7; dayOffset++ {
		date := startOfToday.AddDate(0, 0, dayOffset)
		for _, pattern := range sctx.Patterns {
			start := pattern.SlotStart(date, sctx.Location)
			slots = append(slots, CandidateSlot{
				StartTime:    start,
				EndTime:      start.Add(duration),
				EnergyLevel:  pattern.AverageLevel(),
				Stage:        pattern.Stage(),
				IsHistorical: true,
			})
		}
	}
	return slots
}
