package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidHour        = errors.New("hour must be between 0 and 23")
	ErrInvalidEnergyLevel = errors.New("energy level must be between 0 and 1")
)

// Stage is a human-readable label for a region of the daily energy
// curve.
type Stage string

const (
	StageMorningRise      Stage = "morning_rise"
	StageMorningPeak      Stage = "morning_peak"
	StageMiddayDip        Stage = "midday_dip"
	StageAfternoonRebound Stage = "afternoon_rebound"
	StageWindDown         Stage = "wind_down"
	StageSleepPhase       Stage = "sleep_phase"
)

// EnergySample is one recorded or seeded hourly energy reading.
// Uniqueness key: (OwnerID, Date, Hour).
type EnergySample struct {
	id               uuid.UUID
	ownerID          uuid.UUID
	date             time.Time // day precision, UTC midnight
	hour             int
	energyLevel      float64
	stage            Stage
	moodLabel        string
	hasManualCheckIn bool
	createdAt        time.Time
}

// NewEnergySample validates and constructs an EnergySample.
func NewEnergySample(ownerID uuid.UUID, date time.Time, hour int, level float64, stage Stage, moodLabel string, manual bool) (*EnergySample, error) {
	if hour < 0 || hour > 23 {
		return nil, ErrInvalidHour
	}
	if level < 0 || level > 1 {
		return nil, ErrInvalidEnergyLevel
	}
	return &EnergySample{
		id:               uuid.New(),
		ownerID:          ownerID,
		date:             dayPrecision(date),
		hour:             hour,
		energyLevel:      level,
		stage:            stage,
		moodLabel:        moodLabel,
		hasManualCheckIn: manual,
		createdAt:        time.Now().UTC(),
	}, nil
}

// RehydrateEnergySample reconstructs a sample from persisted state.
func RehydrateEnergySample(id, ownerID uuid.UUID, date time.Time, hour int, level float64, stage Stage, moodLabel string, manual bool, createdAt time.Time) *EnergySample {
	return &EnergySample{
		id: id, ownerID: ownerID, date: date, hour: hour,
		energyLevel: level, stage: stage, moodLabel: moodLabel,
		hasManualCheckIn: manual, createdAt: createdAt,
	}
}

func (e *EnergySample) ID() uuid.UUID        { return e.id }
func (e *EnergySample) OwnerID() uuid.UUID   { return e.ownerID }
func (e *EnergySample) Date() time.Time      { return e.date }
func (e *EnergySample) Hour() int            { return e.hour }
func (e *EnergySample) EnergyLevel() float64 { return e.energyLevel }
func (e *EnergySample) Stage() Stage         { return e.stage }
func (e *EnergySample) MoodLabel() string    { return e.moodLabel }
func (e *EnergySample) HasManualCheckIn() bool { return e.hasManualCheckIn }
func (e *EnergySample) CreatedAt() time.Time { return e.createdAt }

// SlotStart returns the absolute instant this sample's hour begins, in
// the given location.
func (e *EnergySample) SlotStart(loc *time.Location) time.Time {
	d := e.date.In(loc)
	return time.Date(d.Year(), d.Month(), d.Day(), e.hour, 0, 0, 0, loc)
}

func dayPrecision(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// HistoricalEnergyPattern is the running arithmetic mean of all recorded
// EnergySample levels for one hour of the day. Uniqueness key:
// (OwnerID, Hour).
type HistoricalEnergyPattern struct {
	ownerID      uuid.UUID
	hour         int
	averageLevel float64
	sampleCount  int
	stage        Stage
	lastUpdated  time.Time
}

func NewHistoricalEnergyPattern(ownerID uuid.UUID, hour int, avg float64, count int, stage Stage, lastUpdated time.Time) (*HistoricalEnergyPattern, error) {
	if hour < 0 || hour > 23 {
		return nil, ErrInvalidHour
	}
	return &HistoricalEnergyPattern{
		ownerID: ownerID, hour: hour, averageLevel: avg,
		sampleCount: count, stage: stage, lastUpdated: lastUpdated,
	}, nil
}

func (p *HistoricalEnergyPattern) OwnerID() uuid.UUID   { return p.ownerID }
func (p *HistoricalEnergyPattern) Hour() int            { return p.hour }
func (p *HistoricalEnergyPattern) AverageLevel() float64 { return p.averageLevel }
func (p *HistoricalEnergyPattern) SampleCount() int     { return p.sampleCount }
func (p *HistoricalEnergyPattern) Stage() Stage         { return p.stage }
func (p *HistoricalEnergyPattern) LastUpdated() time.Time { return p.lastUpdated }

// IsEstimated reports whether this pattern row was synthesized rather
// than derived from at least one recorded sample.
func (p *HistoricalEnergyPattern) IsEstimated() bool { return p.sampleCount == 0 }

// SlotStart returns the absolute instant this pattern's hour begins on
// the given date, in the given location.
func (p *HistoricalEnergyPattern) SlotStart(date time.Time, loc *time.Location) time.Time {
	d := date.In(loc)
	return time.Date(d.Year(), d.Month(), d.Day(), p.hour, 0, 0, 0, loc)
}
