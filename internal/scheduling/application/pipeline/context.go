// Package pipeline implements the Slot Generator & Filter Pipeline
// (spec.md §4.3): it enumerates candidate slots from a SchedulingContext
// and runs them through the five ordered filter stages that follow.
package pipeline

import (
	"time"

	"github.com/felixgeelhaar/orbita/internal/scheduling/application/classify"
	"github.com/felixgeelhaar/orbita/internal/scheduling/domain"
)

// SchedulingContext is the snapshot assembled per decision call: the
// calendar items in the search window, the forecast/pattern rows the
// chosen strategy needs, and the strategy and target date themselves.
type SchedulingContext struct {
	CalendarItems []*domain.ScheduleItem
	Forecast      []*domain.EnergySample
	Patterns      []*domain.HistoricalEnergyPattern
	Strategy      classify.Strategy
	TargetDate    *time.Time // nil: no target date, enumerate spans the next 7 days
	Location      *time.Location
}

// CandidateSlot is one placement opportunity, starting on an hour
// boundary and lasting the task's duration, surfaced by Enumerate and
// narrowed by the filter stages.
type CandidateSlot struct {
	StartTime    time.Time
	EndTime      time.Time
	EnergyLevel  float64
	Stage        domain.Stage
	IsHistorical bool
	IsToday      bool
	HasConflict  bool
}
