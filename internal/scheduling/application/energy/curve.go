// Package energy implements the Energy Substrate (spec.md §4.2): the
// today-forecast and historical-pattern read paths, the running-mean
// updater, and the deterministic sleep-schedule fallback generator
// (§4.2.1) both paths fall back to.
package energy

import (
	"math"

	"github.com/felixgeelhaar/orbita/internal/scheduling/domain"
)

const (
	minClamp = 0.04
	maxClamp = 0.97
)

// HourLevel returns the fallback energy level and stage for the given
// local hour, derived purely from schedule's bedtime/wakeHour/chronotype
// per the curve-region table in spec.md §4.2.1. It performs no I/O and
// injects no randomness — seeding noise is applied separately by
// SeedDailySamples.
func HourLevel(schedule *domain.SleepSchedule, hour int) (float64, domain.Stage) {
	if schedule.IsSleepHour(hour) {
		return 0.065, domain.StageSleepPhase
	}

	relative := schedule.RelativePosition(hour)
	level, stage := regionLevel(schedule, hour, relative)
	level = applyChronotype(schedule.Chronotype(), relative, level)
	return clamp(level), stage
}

func regionLevel(schedule *domain.SleepSchedule, hour int, relative float64) (float64, domain.Stage) {
	switch {
	case relative < 0.15:
		t := relative / 0.15
		return lerp(0.32, 0.50, t), domain.StageMorningRise
	case relative < 0.35:
		t := (relative - 0.15) / 0.20
		return 0.85 + 0.12*math.Sin(t*math.Pi/2), domain.StageMorningPeak
	case relative < 0.55:
		t := (relative - 0.35) / 0.20
		return lerp(0.28, 0.30, t), domain.StageMiddayDip
	case relative < 0.70:
		t := (relative - 0.55) / 0.15
		return lerp(0.62, 0.70, t), domain.StageAfternoonRebound
	default:
		t := (relative - 0.70) / 0.30
		if schedule.IsLateWindDown(hour) {
			return lerp(0.21, 0.13, t), domain.StageWindDown
		}
		return lerp(0.26, 0.20, t), domain.StageWindDown
	}
}

// applyChronotype shifts the wake-window curve for morning/evening
// chronotypes. Morning types run hot in the first 30% of the wake
// window and cool in the last 30%; evening types mirror that.
func applyChronotype(ct domain.Chronotype, relative, level float64) float64 {
	switch ct {
	case domain.ChronotypeMorning:
		switch {
		case relative < 0.30:
			return level * lerp(1.10, 1.15, relative/0.30)
		case relative > 0.70:
			return level * 0.85
		}
	case domain.ChronotypeEvening:
		switch {
		case relative > 0.70:
			return level * lerp(1.10, 1.15, (relative-0.70)/0.30)
		case relative < 0.30:
			return level * 0.85
		}
	}
	return level
}

func lerp(a, b, t float64) float64 {
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	return a + (b-a)*t
}

func clamp(v float64) float64 {
	if v < minClamp {
		return minClamp
	}
	if v > maxClamp {
		return maxClamp
	}
	return v
}
