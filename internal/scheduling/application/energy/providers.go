package energy

import (
	"context"
	"math/rand"
	"sort"
	"time"

	"github.com/felixgeelhaar/orbita/internal/scheduling/domain"
	"github.com/google/uuid"
)

// Providers wires the Energy Substrate's repositories together.
type Providers struct {
	Samples  domain.EnergySampleRepository
	Patterns domain.HistoricalPatternRepository
	Sleep    domain.SleepScheduleRepository
}

func NewProviders(samples domain.EnergySampleRepository, patterns domain.HistoricalPatternRepository, sleep domain.SleepScheduleRepository) *Providers {
	return &Providers{Samples: samples, Patterns: patterns, Sleep: sleep}
}

// TodayForecast returns EnergySample rows for the calendar day of now,
// hour-sorted. If nothing has been recorded yet, it falls back to the
// deterministic sleep-schedule curve without persisting anything.
func (p *Providers) TodayForecast(ctx context.Context, ownerID uuid.UUID, now time.Time) ([]*domain.EnergySample, error) {
	recorded, err := p.Samples.FindByOwnerAndDate(ctx, ownerID, now)
	if err != nil {
		return nil, err
	}
	if len(recorded) > 0 {
		sort.Slice(recorded, func(i, j int) bool { return recorded[i].Hour() < recorded[j].Hour() })
		return recorded, nil
	}

	schedule, err := p.Sleep.Get(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	forecast := make([]*domain.EnergySample, 0, 24)
	for hour := 0; hour < 24; hour++ {
		level, stage := HourLevel(schedule, hour)
		sample, err := domain.NewEnergySample(ownerID, now, hour, level, stage, "", false)
		if err != nil {
			return nil, err
		}
		forecast = append(forecast, sample)
	}
	return forecast, nil
}

// HistoricalPatterns returns the 24 per-hour running-mean rows for a
// user. If none are stored, it synthesizes all 24 from the user's
// SleepSchedule; if some are stored, missing hours are filled with
// sleep-schedule-based estimated defaults so exactly 24 rows are
// always returned.
func (p *Providers) HistoricalPatterns(ctx context.Context, ownerID uuid.UUID) ([]*domain.HistoricalEnergyPattern, error) {
	stored, err := p.Patterns.FindByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	byHour := make(map[int]*domain.HistoricalEnergyPattern, len(stored))
	for _, pattern := range stored {
		byHour[pattern.Hour()] = pattern
	}
	if len(byHour) == 24 {
		sort.Slice(stored, func(i, j int) bool { return stored[i].Hour() < stored[j].Hour() })
		return stored, nil
	}

	schedule, err := p.Sleep.Get(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	complete := make([]*domain.HistoricalEnergyPattern, 24)
	for hour := 0; hour < 24; hour++ {
		if existing, ok := byHour[hour]; ok {
			complete[hour] = existing
			continue
		}
		level, stage := HourLevel(schedule, hour)
		pattern, err := domain.NewHistoricalEnergyPattern(ownerID, hour, level, 0, stage, now)
		if err != nil {
			return nil, err
		}
		complete[hour] = pattern
	}
	return complete, nil
}

// UpdateHistoricalPatterns recomputes the per-hour running mean across
// every EnergySample recorded for ownerID and upserts all 24 hours.
// Hours with no samples receive a sleep-schedule-based estimated
// default (sampleCount 0).
func (p *Providers) UpdateHistoricalPatterns(ctx context.Context, ownerID uuid.UUID) error {
	samples, err := p.Samples.FindAllByOwner(ctx, ownerID)
	if err != nil {
		return err
	}

	type acc struct {
		sum   float64
		count int
		stage domain.Stage
	}
	byHour := make(map[int]*acc, 24)
	for _, sample := range samples {
		a, ok := byHour[sample.Hour()]
		if !ok {
			a = &acc{}
			byHour[sample.Hour()] = a
		}
		a.sum += sample.EnergyLevel()
		a.count++
		a.stage = sample.Stage()
	}

	schedule, err := p.Sleep.Get(ctx, ownerID)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	for hour := 0; hour < 24; hour++ {
		if a, ok := byHour[hour]; ok {
			pattern, err := domain.NewHistoricalEnergyPattern(ownerID, hour, a.sum/float64(a.count), a.count, a.stage, now)
			if err != nil {
				return err
			}
			if err := p.Patterns.Upsert(ctx, pattern); err != nil {
				return err
			}
			continue
		}
		level, stage := HourLevel(schedule, hour)
		pattern, err := domain.NewHistoricalEnergyPattern(ownerID, hour, level, 0, stage, now)
		if err != nil {
			return err
		}
		if err := p.Patterns.Upsert(ctx, pattern); err != nil {
			return err
		}
	}
	return nil
}

// noiseSpread bounds the seeding jitter applied around the curve's
// deterministic level, kept small enough that seeded data still
// resembles the underlying schedule.
const noiseSpread = 0.03

// SeedDailySamples builds 24 EnergySample rows for date from schedule's
// curve, diversified with small bounded noise from rng. Callers own
// persistence and rng determinism (tests pass a fixed-seed source).
func SeedDailySamples(ownerID uuid.UUID, date time.Time, schedule *domain.SleepSchedule, rng *rand.Rand) ([]*domain.EnergySample, error) {
	samples := make([]*domain.EnergySample, 0, 24)
	for hour := 0; hour < 24; hour++ {
		level, stage := HourLevel(schedule, hour)
		jitter := (rng.Float64()*2 - 1) * noiseSpread
		sample, err := domain.NewEnergySample(ownerID, date, hour, clamp(level+jitter), stage, "", false)
		if err != nil {
			return nil, err
		}
		samples = append(samples, sample)
	}
	return samples, nil
}
