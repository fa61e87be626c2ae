package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/felixgeelhaar/orbita/adapter/cli"
	"github.com/felixgeelhaar/orbita/internal/scheduling/application/commands"
	"github.com/felixgeelhaar/orbita/internal/scheduling/domain"
	"github.com/spf13/cobra"
)

var (
	addType  string
	addTitle string
	addStart string
	addEnd   string
)

var addCmd = &cobra.Command{
	Use:     "add",
	Short:   "Add an item to your calendar",
	Aliases: []string{"new"},
	Long: `Add a calendar event or a manually-placed item.

Adding an event runs the cascade: any auto-scheduled task it now
overlaps is displaced and re-placed elsewhere (spec.md §4.5).

Examples:
  scheduler schedule add --type event --title "Dentist" --start 2026-08-03T09:00:00Z --end 2026-08-03T10:00:00Z`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.Handlers == nil {
			fmt.Println("Schedule commands require database connection.")
			return nil
		}

		start, err := time.Parse(time.RFC3339, addStart)
		if err != nil {
			return fmt.Errorf("invalid --start, use RFC3339: %w", err)
		}
		end, err := time.Parse(time.RFC3339, addEnd)
		if err != nil {
			return fmt.Errorf("invalid --end, use RFC3339: %w", err)
		}

		itemType := domain.ItemType(addType)
		if itemType != domain.ItemTypeEvent && itemType != domain.ItemTypeTask {
			return fmt.Errorf("invalid --type, use event or task")
		}

		if itemType == domain.ItemTypeEvent {
			result, err := app.Handlers.OnNewEvent(cmd.Context(), time.Now().UTC(), commands.OnNewEventCommand{
				OwnerID:   app.CurrentUserID,
				Title:     addTitle,
				StartTime: start,
				EndTime:   end,
			})
			if err != nil {
				return fmt.Errorf("failed to add event: %w", err)
			}
			fmt.Printf("Event added: %s\n", result.Item.ID())
			for _, n := range result.Notifications {
				fmt.Printf("  note: %s\n", n.Message)
			}
			return nil
		}

		var item *domain.ScheduleItem
		lockFn := func(ctx context.Context) error {
			it, err := domain.NewScheduleItem(app.CurrentUserID, addTitle, start, end, itemType, nil)
			if err != nil {
				return err
			}
			if err := app.Handlers.Items.Save(ctx, it); err != nil {
				return err
			}
			item = it
			return nil
		}
		var lockErr error
		if app.Handlers.Locker == nil {
			lockErr = lockFn(cmd.Context())
		} else {
			lockErr = app.Handlers.Locker.WithLock(cmd.Context(), app.CurrentUserID, lockFn)
		}
		if lockErr != nil {
			return fmt.Errorf("failed to add item: %w", lockErr)
		}

		fmt.Printf("Item added: %s\n", item.ID())
		return nil
	},
}

func init() {
	addCmd.Flags().StringVar(&addType, "type", string(domain.ItemTypeEvent), "item type (event, task)")
	addCmd.Flags().StringVar(&addTitle, "title", "", "title (required)")
	addCmd.Flags().StringVar(&addStart, "start", "", "start time, RFC3339 (required)")
	addCmd.Flags().StringVar(&addEnd, "end", "", "end time, RFC3339 (required)")
	addCmd.MarkFlagRequired("title")
	addCmd.MarkFlagRequired("start")
	addCmd.MarkFlagRequired("end")
}
