package energy_test

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/felixgeelhaar/orbita/internal/scheduling/application/energy"
	"github.com/felixgeelhaar/orbita/internal/scheduling/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSampleRepo struct {
	byOwner map[uuid.UUID][]*domain.EnergySample
}

func newFakeSampleRepo() *fakeSampleRepo {
	return &fakeSampleRepo{byOwner: map[uuid.UUID][]*domain.EnergySample{}}
}

func (f *fakeSampleRepo) Save(_ context.Context, s *domain.EnergySample) error {
	f.byOwner[s.OwnerID()] = append(f.byOwner[s.OwnerID()], s)
	return nil
}

func (f *fakeSampleRepo) FindByOwnerAndDate(_ context.Context, ownerID uuid.UUID, date time.Time) ([]*domain.EnergySample, error) {
	var out []*domain.EnergySample
	for _, s := range f.byOwner[ownerID] {
		if s.Date().Year() == date.UTC().Year() && s.Date().YearDay() == date.UTC().YearDay() {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSampleRepo) FindAllByOwner(_ context.Context, ownerID uuid.UUID) ([]*domain.EnergySample, error) {
	return f.byOwner[ownerID], nil
}

type fakePatternRepo struct {
	byOwner map[uuid.UUID]map[int]*domain.HistoricalEnergyPattern
}

func newFakePatternRepo() *fakePatternRepo {
	return &fakePatternRepo{byOwner: map[uuid.UUID]map[int]*domain.HistoricalEnergyPattern{}}
}

func (f *fakePatternRepo) Upsert(_ context.Context, p *domain.HistoricalEnergyPattern) error {
	if f.byOwner[p.OwnerID()] == nil {
		f.byOwner[p.OwnerID()] = map[int]*domain.HistoricalEnergyPattern{}
	}
	f.byOwner[p.OwnerID()][p.Hour()] = p
	return nil
}

func (f *fakePatternRepo) FindByOwner(_ context.Context, ownerID uuid.UUID) ([]*domain.HistoricalEnergyPattern, error) {
	var out []*domain.HistoricalEnergyPattern
	for _, p := range f.byOwner[ownerID] {
		out = append(out, p)
	}
	return out, nil
}

type fakeSleepRepo struct {
	byOwner map[uuid.UUID]*domain.SleepSchedule
}

func (f *fakeSleepRepo) Get(_ context.Context, ownerID uuid.UUID) (*domain.SleepSchedule, error) {
	return f.byOwner[ownerID], nil
}

func (f *fakeSleepRepo) Save(_ context.Context, s *domain.SleepSchedule) error {
	f.byOwner[s.OwnerID()] = s
	return nil
}

func setup(t *testing.T) (*energy.Providers, uuid.UUID) {
	owner := uuid.New()
	schedule, err := domain.NewSleepSchedule(owner, 23, 7, domain.ChronotypeNeutral)
	require.NoError(t, err)
	sleepRepo := &fakeSleepRepo{byOwner: map[uuid.UUID]*domain.SleepSchedule{owner: schedule}}
	return energy.NewProviders(newFakeSampleRepo(), newFakePatternRepo(), sleepRepo), owner
}

func TestTodayForecast_FallsBackToCurveWhenEmpty(t *testing.T) {
	providers, owner := setup(t)
	now := time.Date(2026, 8, 3, 9, 0, 0, 0, time.UTC)

	forecast, err := providers.TodayForecast(context.Background(), owner, now)
	require.NoError(t, err)
	require.Len(t, forecast, 24)
	assert.Equal(t, 0, forecast[0].Hour())
	assert.Equal(t, 23, forecast[23].Hour())
}

func TestTodayForecast_PrefersRecordedSamples(t *testing.T) {
	providers, owner := setup(t)
	now := time.Date(2026, 8, 3, 9, 0, 0, 0, time.UTC)

	recorded, err := domain.NewEnergySample(owner, now, 9, 0.99, domain.StageMorningPeak, "great", true)
	require.NoError(t, err)
	require.NoError(t, providers.Samples.Save(context.Background(), recorded))

	forecast, err := providers.TodayForecast(context.Background(), owner, now)
	require.NoError(t, err)
	require.Len(t, forecast, 1)
	assert.InDelta(t, 0.99, forecast[0].EnergyLevel(), 0.0001)
}

func TestHistoricalPatterns_SynthesizesAllTwentyFourWhenEmpty(t *testing.T) {
	providers, owner := setup(t)

	patterns, err := providers.HistoricalPatterns(context.Background(), owner)
	require.NoError(t, err)
	require.Len(t, patterns, 24)
	for _, p := range patterns {
		assert.True(t, p.IsEstimated())
	}
}

func TestHistoricalPatterns_FillsMissingHours(t *testing.T) {
	providers, owner := setup(t)
	now := time.Now().UTC()
	recorded, err := domain.NewHistoricalEnergyPattern(owner, 9, 0.8, 5, domain.StageMorningPeak, now)
	require.NoError(t, err)
	require.NoError(t, providers.Patterns.Upsert(context.Background(), recorded))

	patterns, err := providers.HistoricalPatterns(context.Background(), owner)
	require.NoError(t, err)
	require.Len(t, patterns, 24)

	byHour := map[int]*domain.HistoricalEnergyPattern{}
	for _, p := range patterns {
		byHour[p.Hour()] = p
	}
	assert.False(t, byHour[9].IsEstimated())
	assert.True(t, byHour[10].IsEstimated())
}

func TestUpdateHistoricalPatterns_ComputesRunningMean(t *testing.T) {
	providers, owner := setup(t)
	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	s1, err := domain.NewEnergySample(owner, now, 9, 0.8, domain.StageMorningPeak, "", true)
	require.NoError(t, err)
	s2, err := domain.NewEnergySample(owner, now.AddDate(0, 0, 1), 9, 0.6, domain.StageMorningPeak, "", true)
	require.NoError(t, err)
	require.NoError(t, providers.Samples.Save(context.Background(), s1))
	require.NoError(t, providers.Samples.Save(context.Background(), s2))

	require.NoError(t, providers.UpdateHistoricalPatterns(context.Background(), owner))

	patterns, err := providers.Patterns.FindByOwner(context.Background(), owner)
	require.NoError(t, err)
	require.Len(t, patterns, 24)

	var hour9 *domain.HistoricalEnergyPattern
	for _, p := range patterns {
		if p.Hour() == 9 {
			hour9 = p
		}
	}
	require.NotNil(t, hour9)
	assert.Equal(t, 2, hour9.SampleCount())
	assert.InDelta(t, 0.7, hour9.AverageLevel(), 0.0001)
}

func TestSeedDailySamples_AppliesBoundedNoise(t *testing.T) {
	owner := uuid.New()
	schedule, err := domain.NewSleepSchedule(owner, 23, 7, domain.ChronotypeNeutral)
	require.NoError(t, err)
	date := time.Date(2026, 8, 3, 0, 0, 0, 0, time.UTC)

	rng := rand.New(rand.NewSource(42))
	samples, err := energy.SeedDailySamples(owner, date, schedule, rng)
	require.NoError(t, err)
	require.Len(t, samples, 24)

	for _, s := range samples {
		baseline, _ := energy.HourLevel(schedule, s.Hour())
		assert.InDelta(t, baseline, s.EnergyLevel(), 0.031)
	}
}
