package task

import (
	"fmt"

	"github.com/felixgeelhaar/orbita/adapter/cli"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:     "delete <task-id>",
	Short:   "Delete a task",
	Long:    `Delete a task and its mirror schedule item, if one was placed.`,
	Aliases: []string{"rm", "archive"},
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

		ctx := cmd.Context()
		t, err := app.Handlers.Tasks.FindByID(ctx, app.CurrentUserID, taskID)
		if err != nil {
			return fmt.Errorf("failed to get task: %w", err)
		}
		if t == nil {
			return fmt.Errorf("task not found: %s", taskID)
		}

		if err := app.Handlers.Items.DeleteByTaskID(ctx, app.CurrentUserID, taskID); err != nil {
			return fmt.Errorf("failed to remove scheduled item: %w", err)
		}
		if err := app.Handlers.Tasks.Delete(ctx, app.CurrentUserID, taskID); err != nil {
			return fmt.Errorf("failed to delete task: %w", err)
		}

		fmt.Printf("Task deleted: %s\n", taskID)
		return nil
	},
}
