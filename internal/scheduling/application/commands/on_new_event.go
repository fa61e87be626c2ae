package commands

import (
	"context"
	"time"

	"github.com/felixgeelhaar/orbita/internal/scheduling/application/cascade"
	"github.com/felixgeelhaar/orbita/internal/scheduling/application/notify"
	"github.com/felixgeelhaar/orbita/internal/scheduling/domain"
	"github.com/google/uuid"
)

// OnNewEventCommand records a calendar event and triggers the cascade
// against whatever auto-scheduled tasks it now overlaps, widened by
// domain.EventBuffer.
type OnNewEventCommand struct {
	OwnerID   uuid.UUID
	Title     string
	StartTime time.Time
	EndTime   time.Time
}

// OnNewEventResult is the output of OnNewEvent.
type OnNewEventResult struct {
	Item          *domain.ScheduleItem
	Notifications []domain.Notification
}

// OnNewEvent persists the event as an immovable ScheduleItem, then
// displaces every auto-scheduled task it conflicts with (spec.md
// §4.5/§4.8). A manually placed task that conflicts is reported but
// never moved.
func (h *Handlers) OnNewEvent(ctx context.Context, now time.Time, cmd OnNewEventCommand) (*OnNewEventResult, error) {
	var result *OnNewEventResult
	err := h.withOwnerLock(ctx, cmd.OwnerID, func(ctx context.Context) error {
		r, err := h.onNewEvent(ctx, now, cmd)
		result = r
		return err
	})
	return result, err
}

func (h *Handlers) onNewEvent(ctx context.Context, now time.Time, cmd OnNewEventCommand) (*OnNewEventResult, error) {
	item, err := domain.NewScheduleItem(cmd.OwnerID, cmd.Title, cmd.StartTime, cmd.EndTime, domain.ItemTypeEvent, nil)
	if err != nil {
		return nil, err
	}
	if err := h.Items.Save(ctx, item); err != nil {
		return nil, err
	}

	results, err := h.Resolver.ResolveEvent(ctx, cmd.OwnerID, item, now)
	if err != nil {
		return nil, err
	}

	var notifications []domain.Notification
	for _, result := range results {
		switch result.Outcome {
		case cascade.OutcomeRescheduled:
			notifications = append(notifications, notify.TaskRescheduled(cmd.OwnerID, result.Task.ID(), result.Task.Title(), result.OldStart, *result.Task.StartTime()))
		case cascade.OutcomeNoOptimalTime:
			notifications = append(notifications, notify.NoOptimalTime(cmd.OwnerID, result.Task.ID(), result.Task.Title()))
		case cascade.OutcomeManualConflict:
			notifications = append(notifications, notify.EventConflict(cmd.OwnerID, result.Task.ID(), item.ID(), result.Task.Title()))
		}
	}
	if len(results) > 1 {
		notifications = append(notifications, notify.MultipleConflicts(cmd.OwnerID, item.ID(), cmd.Title))
	}

	return &OnNewEventResult{Item: item, Notifications: notifications}, nil
}
