package domain_test

import (
	"testing"
	"time"

	"github.com/felixgeelhaar/orbita/internal/scheduling/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEnergySample_ValidatesHourAndLevel(t *testing.T) {
	owner := uuid.New()
	date := time.Date(2026, 8, 3, 0, 0, 0, 0, time.UTC)

	_, err := domain.NewEnergySample(owner, date, 24, 0.5, domain.StageMorningPeak, "", false)
	require.ErrorIs(t, err, domain.ErrInvalidHour)

	_, err = domain.NewEnergySample(owner, date, 9, 1.5, domain.StageMorningPeak, "", false)
	require.ErrorIs(t, err, domain.ErrInvalidEnergyLevel)

	sample, err := domain.NewEnergySample(owner, date, 9, 0.85, domain.StageMorningPeak, "energized", true)
	require.NoError(t, err)
	assert.Equal(t, 9, sample.Hour())
	assert.InDelta(t, 0.85, sample.EnergyLevel(), 0.0001)
}

func TestEnergySample_SlotStart(t *testing.T) {
	owner := uuid.New()
	date := time.Date(2026, 8, 3, 0, 0, 0, 0, time.UTC)
	sample, err := domain.NewEnergySample(owner, date, 14, 0.6, domain.StageAfternoonRebound, "", false)
	require.NoError(t, err)

	start := sample.SlotStart(time.UTC)
	assert.Equal(t, time.Date(2026, 8, 3, 14, 0, 0, 0, time.UTC), start)
}

func TestHistoricalEnergyPattern_IsEstimated(t *testing.T) {
	owner := uuid.New()
	p, err := domain.NewHistoricalEnergyPattern(owner, 9, 0.5, 0, domain.StageMorningPeak, time.Now())
	require.NoError(t, err)
	assert.True(t, p.IsEstimated())

	p2, err := domain.NewHistoricalEnergyPattern(owner, 9, 0.5, 3, domain.StageMorningPeak, time.Now())
	require.NoError(t, err)
	assert.False(t, p2.IsEstimated())
}
