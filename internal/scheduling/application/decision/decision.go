// Package decision implements findOptimalSlot, the recursive Decision
// Engine of spec.md §4.4.
package decision

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/felixgeelhaar/orbita/internal/scheduling/application/classify"
	"github.com/felixgeelhaar/orbita/internal/scheduling/application/energy"
	"github.com/felixgeelhaar/orbita/internal/scheduling/application/pipeline"
	"github.com/felixgeelhaar/orbita/internal/scheduling/domain"
	"github.com/google/uuid"
)

// Slot is the engine's chosen placement: a concrete start/end pair.
type Slot struct {
	Start time.Time
	End   time.Time
}

// Engine assembles SchedulingContext snapshots and runs the filter
// pipeline across a bounded day-by-day search.
type Engine struct {
	Energy    *energy.Providers
	Schedule  domain.ScheduleItemRepository
	Sleep     domain.SleepScheduleRepository
	Location  *time.Location
}

func NewEngine(e *energy.Providers, schedule domain.ScheduleItemRepository, sleep domain.SleepScheduleRepository, loc *time.Location) *Engine {
	return &Engine{Energy: e, Schedule: schedule, Sleep: sleep, Location: loc}
}

// Params bundles the per-task facts the search needs at every
// recursion depth.
type Params struct {
	OwnerID        uuid.UUID
	Duration       time.Duration
	Tag            domain.Tag
	Priority       int
	Deadline       *time.Time
	ExcludeTaskIDs []uuid.UUID
}

// FindOptimalSlot searches forward from targetDate, at most
// domain.LookAheadDays additional days, for the best-ranked surviving
// candidate slot. now is the moment the search was invoked from, used
// for the past/near-past cut and the "deadline is today" concession;
// it does not advance across recursive calls.
func (e *Engine) FindOptimalSlot(ctx context.Context, now, targetDate time.Time, dayOffset int, p Params) (*Slot, error) {
	if dayOffset > domain.LookAheadDays {
		return nil, nil
	}

	sctx, err := e.buildContext(ctx, now, targetDate, p)
	if err != nil {
		return nil, err
	}

	band := domain.EnergyBandForTag(p.Tag)
	sleep, err := e.Sleep.Get(ctx, p.OwnerID)
	if err != nil {
		return nil, err
	}
	taskCtx := pipeline.TaskContext{
		Tag:             p.Tag,
		Priority:        p.Priority,
		DeadlineIsToday: p.Deadline != nil && sameDay(*p.Deadline, now, e.Location),
	}

	slots := pipeline.Run(sctx, now, p.Duration, band, sleep, taskCtx)
	if len(slots) == 0 {
		nextDay := startOfDay(targetDate.AddDate(0, 0, 1), e.Location)
		if p.Deadline != nil && !nextDay.Before(*p.Deadline) {
			return nil, nil
		}
		return e.FindOptimalSlot(ctx, now, nextDay, dayOffset+1, p)
	}

	top := rank(slots)[0]
	return &Slot{Start: top.StartTime, End: top.StartTime.Add(p.Duration)}, nil
}

func (e *Engine) buildContext(ctx context.Context, now, targetDate time.Time, p Params) (pipeline.SchedulingContext, error) {
	strategy := classify.DetermineStrategy(targetDate, now)

	patterns, err := e.Energy.HistoricalPatterns(ctx, p.OwnerID)
	if err != nil {
		return pipeline.SchedulingContext{}, err
	}

	var forecast []*domain.EnergySample
	if strategy == classify.StrategyToday {
		forecast, err = e.Energy.TodayForecast(ctx, p.OwnerID, now)
		if err != nil {
			return pipeline.SchedulingContext{}, err
		}
	}

	dayStart := startOfDay(targetDate, e.Location)
	dayEnd := dayStart.AddDate(0, 0, 1)
	items, err := e.Schedule.FindOverlapping(ctx, p.OwnerID, dayStart, dayEnd, p.ExcludeTaskIDs)
	if err != nil {
		return pipeline.SchedulingContext{}, err
	}

	td := dayStart
	return pipeline.SchedulingContext{
		CalendarItems: items,
		Forecast:      forecast,
		Patterns:      patterns,
		Strategy:      strategy,
		TargetDate:    &td,
		Location:      e.Location,
	}, nil
}

// rank orders slots by descending energy level, with ties within 0.1
// broken by earliest start time: a stable sort on start time followed
// by a stable, coarse-equality sort on energy level preserves the
// earlier ordering inside each tie band.
func rank(slots []pipeline.CandidateSlot) []pipeline.CandidateSlot {
	ranked := make([]pipeline.CandidateSlot, len(slots))
	copy(ranked, slots)

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].StartTime.Before(ranked[j].StartTime)
	})
	sort.SliceStable(ranked, func(i, j int) bool {
		if math.Abs(ranked[i].EnergyLevel-ranked[j].EnergyLevel) < 0.1 {
			return false
		}
		return ranked[i].EnergyLevel > ranked[j].EnergyLevel
	})
	return ranked
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}

func sameDay(a, b time.Time, loc *time.Location) bool {
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	return ay == by && am == bm && ad == bd
}
