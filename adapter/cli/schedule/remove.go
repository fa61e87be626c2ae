package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/felixgeelhaar/orbita/adapter/cli"
	"github.com/felixgeelhaar/orbita/internal/scheduling/application/commands"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var removeCmd = &cobra.Command{
	Use:     "remove <item-id>",
	Short:   "Remove an item from the calendar",
	Aliases: []string{"rm", "delete"},
	Args:    cobra.ExactArgs(1),
	Long: `Remove a calendar item. If it was an event, every placed
auto-scheduled task starting at or after the freed window gets a
best-effort reschedule attempt.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.Handlers == nil {
			fmt.Println("Schedule commands require database connection.")
			return nil
		}

		itemID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid item ID: %w", err)
		}

		ctx := cmd.Context()
		item, err := app.Handlers.Items.FindByID(ctx, app.CurrentUserID, itemID)
		if err != nil {
			return fmt.Errorf("failed to look up item: %w", err)
		}
		if item == nil {
			return fmt.Errorf("item not found: %s", itemID)
		}
		wasEvent := item.IsEvent()
		freedFrom := item.StartTime()

		if err := app.Handlers.Items.Delete(ctx, app.CurrentUserID, itemID); err != nil {
			return fmt.Errorf("failed to remove item: %w", err)
		}

		if wasEvent {
			reconcileAfterEventRemoval(ctx, app, freedFrom)
		}

		fmt.Printf("Item removed: %s\n", itemID)
		return nil
	},
}

// reconcileAfterEventRemoval best-effort reschedules every placed,
// auto-scheduled task starting at or after freedFrom, mirroring the
// HTTP API's behavior on DELETE /schedule/{id} for an event.
func reconcileAfterEventRemoval(ctx context.Context, app *cli.App, freedFrom time.Time) {
	tasks, err := app.Handlers.Tasks.FindPlacedAutoScheduled(ctx, app.CurrentUserID)
	if err != nil {
		return
	}
	for _, t := range tasks {
		start := t.StartTime()
		if start == nil || start.Before(freedFrom) {
			continue
		}
		_, _ = app.Handlers.RescheduleTask(ctx, time.Now().UTC(), commands.RescheduleTaskCommand{
			OwnerID: app.CurrentUserID,
			TaskID:  t.ID(),
		})
	}
}
