package cascade_test

import (
	"context"
	"testing"
	"time"

	"github.com/felixgeelhaar/orbita/internal/scheduling/application/cascade"
	"github.com/felixgeelhaar/orbita/internal/scheduling/application/decision"
	"github.com/felixgeelhaar/orbita/internal/scheduling/application/energy"
	"github.com/felixgeelhaar/orbita/internal/scheduling/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTaskRepo struct {
	byID map[uuid.UUID]*domain.Task
}

func newFakeTaskRepo() *fakeTaskRepo { return &fakeTaskRepo{byID: map[uuid.UUID]*domain.Task{}} }

func (f *fakeTaskRepo) Save(_ context.Context, t *domain.Task) error {
	f.byID[t.ID()] = t
	return nil
}
func (f *fakeTaskRepo) FindByID(_ context.Context, _, id uuid.UUID) (*domain.Task, error) {
	return f.byID[id], nil
}
func (f *fakeTaskRepo) FindByOwner(_ context.Context, _ uuid.UUID, _ *domain.Status, _, _ *time.Time) ([]*domain.Task, error) {
	return nil, nil
}
func (f *fakeTaskRepo) FindPlacedAutoScheduled(_ context.Context, _ uuid.UUID) ([]*domain.Task, error) {
	return nil, nil
}
func (f *fakeTaskRepo) Delete(_ context.Context, _, _ uuid.UUID) error { return nil }

type fakeItemRepo struct {
	items map[uuid.UUID]*domain.ScheduleItem // keyed by taskID
}

func newFakeItemRepo() *fakeItemRepo { return &fakeItemRepo{items: map[uuid.UUID]*domain.ScheduleItem{}} }

func (f *fakeItemRepo) Save(_ context.Context, item *domain.ScheduleItem) error {
	if item.TaskID() != nil {
		f.items[*item.TaskID()] = item
	}
	return nil
}
func (f *fakeItemRepo) FindByID(_ context.Context, _, _ uuid.UUID) (*domain.ScheduleItem, error) {
	return nil, nil
}
func (f *fakeItemRepo) FindByTaskID(_ context.Context, _, taskID uuid.UUID) (*domain.ScheduleItem, error) {
	return f.items[taskID], nil
}
func (f *fakeItemRepo) FindOverlapping(_ context.Context, _ uuid.UUID, from, to time.Time, exclude []uuid.UUID) ([]*domain.ScheduleItem, error) {
	var out []*domain.ScheduleItem
	for _, item := range f.items {
		excluded := false
		for _, id := range exclude {
			if item.TaskID() != nil && *item.TaskID() == id {
				excluded = true
			}
		}
		if excluded {
			continue
		}
		if item.ConflictRange().Overlaps(domain.TimeRange{Start: from, End: to}) {
			out = append(out, item)
		}
	}
	return out, nil
}
func (f *fakeItemRepo) FindByOwner(_ context.Context, _ uuid.UUID, _ *domain.ItemType, _, _ *time.Time) ([]*domain.ScheduleItem, error) {
	return nil, nil
}
func (f *fakeItemRepo) DeleteByTaskID(_ context.Context, _, taskID uuid.UUID) error {
	delete(f.items, taskID)
	return nil
}
func (f *fakeItemRepo) Delete(_ context.Context, _, _ uuid.UUID) error { return nil }

type fakeSampleRepo struct{}

func (f *fakeSampleRepo) Save(_ context.Context, _ *domain.EnergySample) error { return nil }
func (f *fakeSampleRepo) FindByOwnerAndDate(_ context.Context, _ uuid.UUID, _ time.Time) ([]*domain.EnergySample, error) {
	return nil, nil
}
func (f *fakeSampleRepo) FindAllByOwner(_ context.Context, _ uuid.UUID) ([]*domain.EnergySample, error) {
	return nil, nil
}

type fakePatternRepo struct{}

func (f *fakePatternRepo) Upsert(_ context.Context, _ *domain.HistoricalEnergyPattern) error {
	return nil
}
func (f *fakePatternRepo) FindByOwner(_ context.Context, _ uuid.UUID) ([]*domain.HistoricalEnergyPattern, error) {
	return nil, nil
}

type fakeSleepRepo struct{ schedule *domain.SleepSchedule }

func (f *fakeSleepRepo) Get(_ context.Context, _ uuid.UUID) (*domain.SleepSchedule, error) {
	return f.schedule, nil
}
func (f *fakeSleepRepo) Save(_ context.Context, s *domain.SleepSchedule) error {
	f.schedule = s
	return nil
}

func mustTask(t *testing.T, owner uuid.UUID, priority int, start time.Time, autoSchedule bool) *domain.Task {
	task, err := domain.NewTask(domain.NewTaskSpec{
		OwnerID:           owner,
		Title:             "existing",
		EstimatedDuration: domain.MustNewDuration(time.Hour),
		Priority:          priority,
		Tag:               domain.TagDeep,
		AutoSchedule:      autoSchedule,
	})
	require.NoError(t, err)
	task.Place(start)
	return task
}

func setup(t *testing.T, owner uuid.UUID) (*cascade.Resolver, *fakeTaskRepo, *fakeItemRepo) {
	sleepRepo := &fakeSleepRepo{}
	schedule, err := domain.NewSleepSchedule(owner, 23, 7, domain.ChronotypeNeutral)
	require.NoError(t, err)
	sleepRepo.schedule = schedule

	providers := energy.NewProviders(&fakeSampleRepo{}, &fakePatternRepo{}, sleepRepo)
	engine := decision.NewEngine(providers, newFakeItemRepo(), sleepRepo, time.UTC)

	tasks := newFakeTaskRepo()
	items := newFakeItemRepo()
	resolver := cascade.NewResolver(tasks, items, engine, time.UTC)
	return resolver, tasks, items
}

func TestResolve_HigherPriorityDisplacesAndReschedules(t *testing.T) {
	owner := uuid.New()
	resolver, tasks, items := setup(t, owner)

	existingStart := time.Date(2026, 8, 4, 10, 0, 0, 0, time.UTC)
	existing := mustTask(t, owner, 2, existingStart, true)
	tasks.byID[existing.ID()] = existing
	item, err := domain.NewScheduleItem(owner, "existing", *existing.StartTime(), *existing.EndTime(), domain.ItemTypeTask, ptr(existing.ID()))
	require.NoError(t, err)
	items.items[existing.ID()] = item

	incoming := mustTask(t, owner, 5, existingStart, true)

	now := time.Date(2026, 8, 3, 6, 0, 0, 0, time.UTC)
	results, err := resolver.Resolve(context.Background(), owner, incoming, now)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, existing.ID(), results[0].Task.ID())
	assert.Contains(t, []cascade.Outcome{cascade.OutcomeRescheduled, cascade.OutcomeNoOptimalTime}, results[0].Outcome)
}

func TestResolve_LowerPriorityIncomingYields(t *testing.T) {
	owner := uuid.New()
	resolver, tasks, items := setup(t, owner)

	existingStart := time.Date(2026, 8, 4, 10, 0, 0, 0, time.UTC)
	existing := mustTask(t, owner, 5, existingStart, true)
	tasks.byID[existing.ID()] = existing
	item, err := domain.NewScheduleItem(owner, "existing", *existing.StartTime(), *existing.EndTime(), domain.ItemTypeTask, ptr(existing.ID()))
	require.NoError(t, err)
	items.items[existing.ID()] = item

	incoming := mustTask(t, owner, 2, existingStart, true)

	now := time.Date(2026, 8, 3, 6, 0, 0, 0, time.UTC)
	results, err := resolver.Resolve(context.Background(), owner, incoming, now)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, cascade.OutcomeIncomingYields, results[0].Outcome)
	assert.Equal(t, existingStart, *existing.StartTime()) // untouched
}

func TestResolve_NonAutoScheduledExistingNeverDisplaced(t *testing.T) {
	owner := uuid.New()
	resolver, tasks, items := setup(t, owner)

	existingStart := time.Date(2026, 8, 4, 10, 0, 0, 0, time.UTC)
	existing := mustTask(t, owner, 1, existingStart, false) // manual
	tasks.byID[existing.ID()] = existing
	item, err := domain.NewScheduleItem(owner, "existing", *existing.StartTime(), *existing.EndTime(), domain.ItemTypeTask, ptr(existing.ID()))
	require.NoError(t, err)
	items.items[existing.ID()] = item

	incoming := mustTask(t, owner, 5, existingStart, true)

	now := time.Date(2026, 8, 3, 6, 0, 0, 0, time.UTC)
	results, err := resolver.Resolve(context.Background(), owner, incoming, now)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, cascade.OutcomeIncomingYields, results[0].Outcome)
}

func ptr(id uuid.UUID) *uuid.UUID { return &id }
