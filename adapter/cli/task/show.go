package task

import (
	"fmt"

	"github.com/felixgeelhaar/orbita/adapter/cli"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:     "show [task-id]",
	Short:   "Show task details",
	Aliases: []string{"get", "view"},
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.Handlers == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}

		taskID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid task ID: %w", err)
		}

		t, err := app.Handlers.Tasks.FindByID(cmd.Context(), app.CurrentUserID, taskID)
		if err != nil {
			return fmt.Errorf("failed to get task: %w", err)
		}
		if t == nil {
			return fmt.Errorf("task not found: %s", taskID)
		}

		fmt.Printf("Task: %s\n", t.ID())
		fmt.Printf("  Title:       %s\n", t.Title())
		fmt.Printf("  Status:      %s\n", t.Status())
		fmt.Printf("  Priority:    %d\n", t.Priority())
		fmt.Printf("  Tag:         %s\n", t.Tag())
		fmt.Printf("  Duration:    %s\n", t.EstimatedDuration().Value())
		fmt.Printf("  Auto:        %t\n", t.IsAutoSchedule())
		if t.Description() != "" {
			fmt.Printf("  Description: %s\n", t.Description())
		}
		if t.StartTime() != nil {
			fmt.Printf("  Start:       %s\n", t.StartTime().Format("2006-01-02 15:04"))
		}
		if t.EndTime() != nil {
			fmt.Printf("  End:         %s\n", t.EndTime().Format("2006-01-02 15:04"))
		}
		fmt.Printf("  Created:     %s\n", t.CreatedAt().Format("2006-01-02 15:04"))

		return nil
	},
}
