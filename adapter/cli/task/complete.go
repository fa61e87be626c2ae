package task

import (
	"fmt"

	"github.com/felixgeelhaar/orbita/adapter/cli"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var completeCmd = &cobra.Command{
	Use:     "complete [task-id]",
	Short:   "Mark a task as complete",
	Aliases: []string{"done"},
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
		if err := t.Complete(); err != nil {
			return fmt.Errorf("failed to complete task: %w", err)
		}
		if err := app.Handlers.Tasks.Save(cmd.Context(), t); err != nil {
			return fmt.Errorf("failed to save task: %w", err)
		}

		fmt.Printf("Task completed: %s\n", taskID)
		return nil
	},
}
