package energy_test

import (
	"testing"

	"github.com/felixgeelhaar/orbita/internal/scheduling/application/energy"
	"github.com/felixgeelhaar/orbita/internal/scheduling/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func neutralSchedule(t *testing.T) *domain.SleepSchedule {
	s, err := domain.NewSleepSchedule(uuid.New(), 23, 7, domain.ChronotypeNeutral)
	require.NoError(t, err)
	return s
}

func TestHourLevel_SleepHoursAreLow(t *testing.T) {
	s := neutralSchedule(t)
	level, stage := energy.HourLevel(s, 2)
	assert.Equal(t, domain.StageSleepPhase, stage)
	assert.InDelta(t, 0.065, level, 0.0001)
}

func TestHourLevel_MorningPeakIsHigh(t *testing.T) {
	s := neutralSchedule(t)
	// wake at 7, relative 0.25 -> hour 7 + 0.25*16 = 11
	level, stage := energy.HourLevel(s, 11)
	assert.Equal(t, domain.StageMorningPeak, stage)
	assert.GreaterOrEqual(t, level, 0.85)
	assert.LessOrEqual(t, level, 0.97)
}

func TestHourLevel_MiddayDipIsLow(t *testing.T) {
	s := neutralSchedule(t)
	// relative 0.45 -> hour 7 + 0.45*16 = 14
	level, stage := energy.HourLevel(s, 14)
	assert.Equal(t, domain.StageMiddayDip, stage)
	assert.InDelta(t, 0.29, level, 0.02)
}

func TestHourLevel_LateWindDownIsLowerThanRegularWindDown(t *testing.T) {
	s := neutralSchedule(t)
	// bedtime 23: late wind-down is [21,23). Pick hour 22 (late) vs an
	// earlier wind-down hour, e.g. 19 (relative 0.75).
	lateLevel, lateStage := energy.HourLevel(s, 22)
	regularLevel, regularStage := energy.HourLevel(s, 19)

	assert.Equal(t, domain.StageWindDown, lateStage)
	assert.Equal(t, domain.StageWindDown, regularStage)
	assert.Less(t, lateLevel, regularLevel)
}

func TestHourLevel_ClampedToValidRange(t *testing.T) {
	s := neutralSchedule(t)
	for hour := 0; hour < 24; hour++ {
		level, _ := energy.HourLevel(s, hour)
		assert.GreaterOrEqual(t, level, 0.04)
		assert.LessOrEqual(t, level, 0.97)
	}
}

func TestHourLevel_MorningChronotypeBoostsEarlyWake(t *testing.T) {
	neutral := neutralSchedule(t)
	morning, err := domain.NewSleepSchedule(uuid.New(), 23, 7, domain.ChronotypeMorning)
	require.NoError(t, err)

	neutralLevel, _ := energy.HourLevel(neutral, 8) // relative ~0.0625, early wake window
	morningLevel, _ := energy.HourLevel(morning, 8)

	assert.Greater(t, morningLevel, neutralLevel)
}

func TestHourLevel_EveningChronotypeMirrorsMorning(t *testing.T) {
	neutral := neutralSchedule(t)
	evening, err := domain.NewSleepSchedule(uuid.New(), 23, 7, domain.ChronotypeEvening)
	require.NoError(t, err)

	neutralLevel, _ := energy.HourLevel(neutral, 8)
	eveningLevel, _ := energy.HourLevel(evening, 8)

	assert.Less(t, eveningLevel, neutralLevel)
}
