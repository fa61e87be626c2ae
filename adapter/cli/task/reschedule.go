package task

import (
	"fmt"
	"time"

	"github.com/felixgeelhaar/orbita/adapter/cli"
	"github.com/felixgeelhaar/orbita/internal/scheduling/application/apperrors"
	"github.com/felixgeelhaar/orbita/internal/scheduling/application/commands"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var rescheduleCmd = &cobra.Command{
	Use:   "reschedule <task-id>",
	Short: "Reschedule an auto-scheduled task to a better slot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.Handlers == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}

		taskID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid task ID: %w", err)
		}

		result, err := app.Handlers.RescheduleTask(cmd.Context(), time.Now().UTC(), commands.RescheduleTaskCommand{
			OwnerID: app.CurrentUserID,
			TaskID:  taskID,
		})
		if err != nil {
			if kind, ok := apperrors.KindOf(err); ok && kind == apperrors.KindSchedulingRefusal {
				return fmt.Errorf("could not find an optimal time to reschedule the task")
			}
			return fmt.Errorf("failed to reschedule task: %w", err)
		}

		fmt.Printf("Task rescheduled: %s\n", result.Task.ID())
		if result.Task.StartTime() != nil {
			fmt.Printf("  new start: %s\n", result.Task.StartTime().Format(time.RFC3339))
		}
		for _, n := range result.Notifications {
			fmt.Printf("  note: %s\n", n.Message)
		}
		return nil
	},
}
