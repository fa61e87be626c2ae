package domain_test

import (
	"testing"
	"time"

	"github.com/felixgeelhaar/orbita/internal/scheduling/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validTaskSpec() domain.NewTaskSpec {
	return domain.NewTaskSpec{
		OwnerID:           uuid.New(),
		Title:             "Write the quarterly report",
		EstimatedDuration: domain.MustNewDuration(60 * time.Minute),
		Priority:          3,
		Tag:               domain.TagDeep,
		AutoSchedule:      true,
	}
}

func TestNewTask(t *testing.T) {
	spec := validTaskSpec()
	task, err := domain.NewTask(spec)
	require.NoError(t, err)
	assert.Equal(t, spec.Title, task.Title())
	assert.Equal(t, domain.StatusPending, task.Status())
	assert.True(t, task.IsAutoSchedule())
	assert.False(t, task.IsPlaced())
	assert.Len(t, task.DomainEvents(), 1)
}

func TestNewTask_EmptyTitle(t *testing.T) {
	spec := validTaskSpec()
	spec.Title = "   "
	_, err := domain.NewTask(spec)
	require.ErrorIs(t, err, domain.ErrEmptyTitle)
}

func TestNewTask_InvalidPriority(t *testing.T) {
	spec := validTaskSpec()
	spec.Priority = 6
	_, err := domain.NewTask(spec)
	require.ErrorIs(t, err, domain.ErrInvalidPriority)
}

func TestNewTask_InvalidTag(t *testing.T) {
	spec := validTaskSpec()
	spec.Tag = domain.Tag("urgent")
	_, err := domain.NewTask(spec)
	require.ErrorIs(t, err, domain.ErrInvalidTag)
}

func TestTask_Place(t *testing.T) {
	task, err := domain.NewTask(validTaskSpec())
	require.NoError(t, err)

	start := time.Date(2026, 8, 3, 10, 0, 0, 0, time.UTC)
	task.Place(start)

	require.NotNil(t, task.StartTime())
	require.NotNil(t, task.EndTime())
	assert.Equal(t, start, *task.StartTime())
	assert.Equal(t, start.Add(60*time.Minute), *task.EndTime())
	assert.True(t, task.IsPlaced())
}

func TestTask_Place_OverridesCallerSuppliedDeadline(t *testing.T) {
	// EndTime begins life as a deadline; once placed it must be
	// derived strictly from duration (spec.md §3, testable property 5).
	spec := validTaskSpec()
	deadline := time.Date(2026, 8, 10, 23, 59, 0, 0, time.UTC)
	spec.EndTime = &deadline
	task, err := domain.NewTask(spec)
	require.NoError(t, err)

	start := time.Date(2026, 8, 3, 10, 0, 0, 0, time.UTC)
	task.Place(start)

	assert.Equal(t, start.Add(60*time.Minute), *task.EndTime())
}

func TestTask_Complete_OneWay(t *testing.T) {
	task, err := domain.NewTask(validTaskSpec())
	require.NoError(t, err)

	require.NoError(t, task.Complete())
	assert.True(t, task.IsCompleted())

	err = task.Complete()
	require.ErrorIs(t, err, domain.ErrTaskCompleted)
}

func TestTask_IsDisplaceable(t *testing.T) {
	spec := validTaskSpec()
	task, err := domain.NewTask(spec)
	require.NoError(t, err)
	assert.True(t, task.IsDisplaceable())

	require.NoError(t, task.Complete())
	assert.False(t, task.IsDisplaceable())
}

func TestTask_IsDisplaceable_NonAutoScheduleIsImmovable(t *testing.T) {
	spec := validTaskSpec()
	spec.AutoSchedule = false
	task, err := domain.NewTask(spec)
	require.NoError(t, err)
	assert.False(t, task.IsDisplaceable())
}

func TestTask_ApplyPatch(t *testing.T) {
	task, err := domain.NewTask(validTaskSpec())
	require.NoError(t, err)

	newTitle := "Revised title"
	newPriority := 5
	require.NoError(t, task.ApplyPatch(domain.TaskPatch{
		Title:    &newTitle,
		Priority: &newPriority,
	}))

	assert.Equal(t, newTitle, task.Title())
	assert.Equal(t, 5, task.Priority())
}
