package domain_test

import (
	"testing"
	"time"

	"github.com/felixgeelhaar/orbita/internal/scheduling/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewScheduleItem_EventRequiresNoTaskID(t *testing.T) {
	owner := uuid.New()
	start := time.Date(2026, 8, 3, 10, 0, 0, 0, time.UTC)
	item, err := domain.NewScheduleItem(owner, "Dentist", start, start.Add(time.Hour), domain.ItemTypeEvent, nil)
	require.NoError(t, err)
	assert.True(t, item.IsEvent())
}

func TestNewScheduleItem_TaskRequiresTaskID(t *testing.T) {
	owner := uuid.New()
	start := time.Date(2026, 8, 3, 10, 0, 0, 0, time.UTC)
	_, err := domain.NewScheduleItem(owner, "Write report", start, start.Add(time.Hour), domain.ItemTypeTask, nil)
	require.Error(t, err)
}

func TestNewScheduleItem_InvalidInterval(t *testing.T) {
	owner := uuid.New()
	start := time.Date(2026, 8, 3, 10, 0, 0, 0, time.UTC)
	_, err := domain.NewScheduleItem(owner, "Bad", start, start, domain.ItemTypeEvent, nil)
	require.ErrorIs(t, err, domain.ErrInvalidInterval)
}

func TestScheduleItem_ConflictRange_WidensEventsOnly(t *testing.T) {
	owner := uuid.New()
	start := time.Date(2026, 8, 3, 10, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	event, err := domain.NewScheduleItem(owner, "Meeting", start, end, domain.ItemTypeEvent, nil)
	require.NoError(t, err)
	r := event.ConflictRange()
	assert.Equal(t, start.Add(-domain.EventBuffer), r.Start)
	assert.Equal(t, end.Add(domain.EventBuffer), r.End)

	taskID := uuid.New()
	taskItem, err := domain.NewScheduleItem(owner, "Focus block", start, end, domain.ItemTypeTask, &taskID)
	require.NoError(t, err)
	r2 := taskItem.ConflictRange()
	assert.Equal(t, start, r2.Start)
	assert.Equal(t, end, r2.End)
}

func TestTimeRange_Overlaps(t *testing.T) {
	base := time.Date(2026, 8, 3, 10, 0, 0, 0, time.UTC)
	a := domain.TimeRange{Start: base, End: base.Add(time.Hour)}

	tests := []struct {
		name string
		b    domain.TimeRange
		want bool
	}{
		{"identical", a, true},
		{"adjacent after (half-open, no overlap)", domain.TimeRange{Start: base.Add(time.Hour), End: base.Add(2 * time.Hour)}, false},
		{"adjacent before (half-open, no overlap)", domain.TimeRange{Start: base.Add(-time.Hour), End: base}, false},
		{"overlapping tail", domain.TimeRange{Start: base.Add(30 * time.Minute), End: base.Add(90 * time.Minute)}, true},
		{"fully contained", domain.TimeRange{Start: base.Add(10 * time.Minute), End: base.Add(20 * time.Minute)}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, a.Overlaps(tt.b))
		})
	}
}
