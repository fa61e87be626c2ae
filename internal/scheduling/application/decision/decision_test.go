package decision_test

import (
	"context"
	"testing"
	"time"

	"github.com/felixgeelhaar/orbita/internal/scheduling/application/decision"
	"github.com/felixgeelhaar/orbita/internal/scheduling/application/energy"
	"github.com/felixgeelhaar/orbita/internal/scheduling/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSampleRepo struct {
	byOwner map[uuid.UUID][]*domain.EnergySample
}

func (f *fakeSampleRepo) Save(_ context.Context, s *domain.EnergySample) error {
	f.byOwner[s.OwnerID()] = append(f.byOwner[s.OwnerID()], s)
	return nil
}
func (f *fakeSampleRepo) FindByOwnerAndDate(_ context.Context, ownerID uuid.UUID, date time.Time) ([]*domain.EnergySample, error) {
	var out []*domain.EnergySample
	for _, s := range f.byOwner[ownerID] {
		if s.Date().YearDay() == date.UTC().YearDay() && s.Date().Year() == date.UTC().Year() {
			out = append(out, s)
		}
	}
	return out, nil
}
func (f *fakeSampleRepo) FindAllByOwner(_ context.Context, ownerID uuid.UUID) ([]*domain.EnergySample, error) {
	return f.byOwner[ownerID], nil
}

type fakePatternRepo struct{}

func (f *fakePatternRepo) Upsert(_ context.Context, _ *domain.HistoricalEnergyPattern) error {
	return nil
}
func (f *fakePatternRepo) FindByOwner(_ context.Context, _ uuid.UUID) ([]*domain.HistoricalEnergyPattern, error) {
	return nil, nil // forces sleep-schedule fallback synthesis
}

type fakeSleepRepo struct {
	schedule *domain.SleepSchedule
}

func (f *fakeSleepRepo) Get(_ context.Context, _ uuid.UUID) (*domain.SleepSchedule, error) {
	return f.schedule, nil
}
func (f *fakeSleepRepo) Save(_ context.Context, s *domain.SleepSchedule) error {
	f.schedule = s
	return nil
}

type fakeScheduleRepo struct {
	items []*domain.ScheduleItem
}

func (f *fakeScheduleRepo) Save(_ context.Context, _ *domain.ScheduleItem) error { return nil }
func (f *fakeScheduleRepo) FindByID(_ context.Context, _, _ uuid.UUID) (*domain.ScheduleItem, error) {
	return nil, nil
}
func (f *fakeScheduleRepo) FindByTaskID(_ context.Context, _, _ uuid.UUID) (*domain.ScheduleItem, error) {
	return nil, nil
}
func (f *fakeScheduleRepo) FindOverlapping(_ context.Context, _ uuid.UUID, from, to time.Time, _ []uuid.UUID) ([]*domain.ScheduleItem, error) {
	var out []*domain.ScheduleItem
	for _, item := range f.items {
		if item.ConflictRange().Overlaps(domain.TimeRange{Start: from, End: to}) {
			out = append(out, item)
		}
	}
	return out, nil
}
func (f *fakeScheduleRepo) FindByOwner(_ context.Context, _ uuid.UUID, _ *domain.ItemType, _, _ *time.Time) ([]*domain.ScheduleItem, error) {
	return f.items, nil
}
func (f *fakeScheduleRepo) DeleteByTaskID(_ context.Context, _, _ uuid.UUID) error { return nil }
func (f *fakeScheduleRepo) Delete(_ context.Context, _, _ uuid.UUID) error         { return nil }

func newEngine(t *testing.T, owner uuid.UUID, items []*domain.ScheduleItem) *decision.Engine {
	schedule, err := domain.NewSleepSchedule(owner, 23, 7, domain.ChronotypeNeutral)
	require.NoError(t, err)
	providers := energy.NewProviders(
		&fakeSampleRepo{byOwner: map[uuid.UUID][]*domain.EnergySample{}},
		&fakePatternRepo{},
		&fakeSleepRepo{schedule: schedule},
	)
	return decision.NewEngine(providers, &fakeScheduleRepo{items: items}, &fakeSleepRepo{schedule: schedule}, time.UTC)
}

func TestFindOptimalSlot_PicksHighestEnergySlotOnTargetDay(t *testing.T) {
	owner := uuid.New()
	engine := newEngine(t, owner, nil)
	now := time.Date(2026, 8, 3, 6, 0, 0, 0, time.UTC)
	target := time.Date(2026, 8, 4, 0, 0, 0, 0, time.UTC) // future strategy -> sleep-schedule fallback patterns

	slot, err := engine.FindOptimalSlot(context.Background(), now, target, 0, decision.Params{
		OwnerID:  owner,
		Duration: time.Hour,
		Tag:      domain.TagDeep,
		Priority: 3,
	})
	require.NoError(t, err)
	require.NotNil(t, slot)
	assert.True(t, slot.Start.Year() == target.Year() && slot.Start.YearDay() == target.YearDay())
	assert.GreaterOrEqual(t, slot.Start.Hour(), 9)
	assert.LessOrEqual(t, slot.Start.Hour(), 12)
}

func TestFindOptimalSlot_ReturnsNilBeyondLookAhead(t *testing.T) {
	owner := uuid.New()
	// Make every calendar day fully booked with a wall-to-wall event so
	// no deep-work slot ever survives, forcing the horizon to exhaust.
	var items []*domain.ScheduleItem
	base := time.Date(2026, 8, 4, 0, 0, 0, 0, time.UTC)
	for day := 0; day < 10; day++ {
		start := base.AddDate(0, 0, day)
		end := start.AddDate(0, 0, 1)
		item, err := domain.NewScheduleItem(owner, "blackout", start, end, domain.ItemTypeEvent, nil)
		require.NoError(t, err)
		items = append(items, item)
	}
	engine := newEngine(t, owner, items)
	now := time.Date(2026, 8, 3, 6, 0, 0, 0, time.UTC)

	slot, err := engine.FindOptimalSlot(context.Background(), now, base, 0, decision.Params{
		OwnerID:  owner,
		Duration: time.Hour,
		Tag:      domain.TagDeep,
		Priority: 3,
	})
	require.NoError(t, err)
	assert.Nil(t, slot)
}

func TestFindOptimalSlot_DeadlineBoundsSearch(t *testing.T) {
	owner := uuid.New()
	base := time.Date(2026, 8, 4, 0, 0, 0, 0, time.UTC)
	item, err := domain.NewScheduleItem(owner, "blackout", base, base.AddDate(0, 0, 1), domain.ItemTypeEvent, nil)
	require.NoError(t, err)
	engine := newEngine(t, owner, []*domain.ScheduleItem{item})
	now := time.Date(2026, 8, 3, 6, 0, 0, 0, time.UTC)
	deadline := base.AddDate(0, 0, 1) // next day at midnight: search can't advance past it

	slot, err := engine.FindOptimalSlot(context.Background(), now, base, 0, decision.Params{
		OwnerID:  owner,
		Duration: time.Hour,
		Tag:      domain.TagDeep,
		Priority: 3,
		Deadline: &deadline,
	})
	require.NoError(t, err)
	assert.Nil(t, slot)
}
