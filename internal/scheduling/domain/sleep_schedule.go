package domain

import (
	"errors"

	"github.com/google/uuid"
)

var ErrInvalidHour24 = errors.New("hour must be between 0 and 23")

// Chronotype shifts the energy curve earlier or later in the wake
// window.
type Chronotype string

const (
	ChronotypeMorning Chronotype = "morning"
	ChronotypeEvening Chronotype = "evening"
	ChronotypeNeutral Chronotype = "neutral"
)

// SleepSchedule is a user's bedtime/wake window, optionally tagged with
// a chronotype that shifts the fallback energy curve.
type SleepSchedule struct {
	ownerID    uuid.UUID
	bedtime    int // 0..23
	wakeHour   int // 0..23
	chronotype Chronotype
}

// NewSleepSchedule validates and constructs a SleepSchedule.
func NewSleepSchedule(ownerID uuid.UUID, bedtime, wakeHour int, chronotype Chronotype) (*SleepSchedule, error) {
	if bedtime < 0 || bedtime > 23 {
		return nil, ErrInvalidHour24
	}
	if wakeHour < 0 || wakeHour > 23 {
		return nil, ErrInvalidHour24
	}
	if chronotype == "" {
		chronotype = ChronotypeNeutral
	}
	return &SleepSchedule{ownerID: ownerID, bedtime: bedtime, wakeHour: wakeHour, chronotype: chronotype}, nil
}

func (s *SleepSchedule) OwnerID() uuid.UUID      { return s.ownerID }
func (s *SleepSchedule) Bedtime() int            { return s.bedtime }
func (s *SleepSchedule) WakeHour() int           { return s.wakeHour }
func (s *SleepSchedule) Chronotype() Chronotype  { return s.chronotype }

// CrossesMidnight reports whether the wake period straddles midnight,
// i.e. bedtime >= wakeHour.
func (s *SleepSchedule) CrossesMidnight() bool {
	return s.bedtime >= s.wakeHour
}

// IsSleepHour reports whether the given local hour falls within the
// closed-open sleep window [bedtime, wakeHour), wrapping midnight as
// needed.
func (s *SleepSchedule) IsSleepHour(hour int) bool {
	if s.CrossesMidnight() {
		return hour >= s.bedtime || hour < s.wakeHour
	}
	return hour >= s.bedtime && hour < s.wakeHour
}

// IsLateWindDown reports whether the given local hour falls within the
// two hours immediately preceding bedtime.
func (s *SleepSchedule) IsLateWindDown(hour int) bool {
	start := s.bedtime - 2
	if start < 0 {
		start += 24
	}
	if start <= s.bedtime {
		return hour >= start && hour < s.bedtime
	}
	// bedtime == 0: window is [22,23]
	return hour >= start || hour < s.bedtime
}

// sleepWindowHours returns the length, in hours, of the sleep window.
func (s *SleepSchedule) sleepWindowHours() int {
	if s.CrossesMidnight() {
		return 24 - s.bedtime + s.wakeHour
	}
	return s.wakeHour - s.bedtime
}

// WakeWindowHours returns the length, in hours, of the wake period.
func (s *SleepSchedule) WakeWindowHours() int {
	return 24 - s.sleepWindowHours()
}

// RelativePosition returns how far into the wake window the given hour
// falls, in [0,1). Hours within the sleep window return -1.
func (s *SleepSchedule) RelativePosition(hour int) float64 {
	if s.IsSleepHour(hour) {
		return -1
	}
	window := s.WakeWindowHours()
	if window <= 0 {
		return -1
	}
	hoursSinceWake := hour - s.wakeHour
	if hoursSinceWake < 0 {
		hoursSinceWake += 24
	}
	return float64(hoursSinceWake) / float64(window)
}
