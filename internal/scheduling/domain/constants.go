package domain

import "time"

// EventBuffer is the padding applied on each side of a fixed calendar
// event before it is treated as occupied when checking for conflicts.
const EventBuffer = 10 * time.Minute

// NearPastGuard is the minimum lead time a placed slot must have over
// "now" — nothing may be scheduled to start in the past or in the next
// few minutes.
const NearPastGuard = 15 * time.Minute

// CognitiveLoadBuffer pads deep-work placements so back-to-back
// high-focus blocks aren't packed without a recovery gap. Reserved for
// future filter stages; the v1 pipeline in §4.3 does not apply it
// between same-tag slots, only between a slot and a calendar event via
// EventBuffer.
const CognitiveLoadBuffer = 30 * time.Minute

// LateWindDownWindow is the length of the wind-down period immediately
// preceding bedtime that is off-limits except for the single named
// concession.
const LateWindDownWindow = 2 * time.Hour

// LookAheadDays bounds how many additional days the Decision Engine will
// search past the target date before giving up.
const LookAheadDays = 6

// MinTaskDuration and MaxTaskDuration bound Task.EstimatedDuration.
const (
	MinTaskDuration = 1 * time.Minute
	MaxTaskDuration = 720 * time.Minute
)

// EnergyBand is the closed interval [Min, Max] a slot's energy level
// must fall within for a given task tag.
type EnergyBand struct {
	Min float64
	Max float64
}

// EnergyBandForTag returns the required energy band for a task tag,
// falling back to the default band for an unrecognized tag.
func EnergyBandForTag(tag Tag) EnergyBand {
	switch tag {
	case TagDeep:
		return EnergyBand{Min: 0.7, Max: 1.0}
	case TagCreative:
		return EnergyBand{Min: 0.4, Max: 1.0}
	case TagAdmin:
		return EnergyBand{Min: 0.3, Max: 0.7}
	case TagPersonal:
		return EnergyBand{Min: 0.1, Max: 0.7}
	default:
		return EnergyBand{Min: 0.3, Max: 1.0}
	}
}

// Contains reports whether level falls within the band, inclusive.
func (b EnergyBand) Contains(level float64) bool {
	return level >= b.Min && level <= b.Max
}
