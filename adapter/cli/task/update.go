package task

import (
	"fmt"
	"time"

	"github.com/felixgeelhaar/orbita/adapter/cli"
	"github.com/felixgeelhaar/orbita/internal/scheduling/application/commands"
	"github.com/felixgeelhaar/orbita/internal/scheduling/domain"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	updateTitle       string
	updateDescription string
	updatePriority    int
	updateDuration    int
	updateTag         string
	updateAuto        bool
	updateStart       string
	updateEnd         string
	updateClearStart  bool
)

var updateCmd = &cobra.Command{
	Use:     "update [task-id]",
	Short:   "Update a task",
	Aliases: []string{"edit", "modify"},
	Args:    cobra.ExactArgs(1),
	Long: `Update the properties of an existing task. Only flags explicitly
set are applied.

Examples:
  scheduler task update abc123 --title "New title"
  scheduler task update abc123 --priority 5 --duration 60
  scheduler task update abc123 --clear-start`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.Handlers == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}

		taskID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid task ID: %w", err)
		}

		patch := commands.UpdateTaskCommand{
			OwnerID:          app.CurrentUserID,
			TaskID:           taskID,
			StartTimeCleared: updateClearStart,
		}
		flagsProvided := updateClearStart

		if cmd.Flags().Changed("title") {
			patch.Title = &updateTitle
			flagsProvided = true
		}
		if cmd.Flags().Changed("description") {
			patch.Description = &updateDescription
			flagsProvided = true
		}
		if cmd.Flags().Changed("priority") {
			patch.Priority = &updatePriority
			flagsProvided = true
		}
		if cmd.Flags().Changed("tag") {
			tag := domain.Tag(updateTag)
			patch.Tag = &tag
			flagsProvided = true
		}
		if cmd.Flags().Changed("auto") {
			patch.AutoSchedule = &updateAuto
			flagsProvided = true
		}
		if cmd.Flags().Changed("duration") {
			duration, err := domain.NewDuration(time.Duration(updateDuration) * time.Minute)
			if err != nil {
				return fmt.Errorf("invalid duration: %w", err)
			}
			patch.EstimatedDuration = &duration
			flagsProvided = true
		}
		if cmd.Flags().Changed("start") {
			start, err := time.Parse(time.RFC3339, updateStart)
			if err != nil {
				return fmt.Errorf("invalid --start, use RFC3339: %w", err)
			}
			patch.StartTime = &start
			flagsProvided = true
		}
		if cmd.Flags().Changed("end") {
			end, err := time.Parse(time.RFC3339, updateEnd)
			if err != nil {
				return fmt.Errorf("invalid --end, use RFC3339: %w", err)
			}
			patch.EndTime = &end
			flagsProvided = true
		}

		if !flagsProvided {
			return fmt.Errorf("no updates provided - use flags like --title, --priority, --duration, --start, or --clear-start")
		}

		result, err := app.Handlers.UpdateTask(cmd.Context(), time.Now().UTC(), patch)
		if err != nil {
			return fmt.Errorf("failed to update task: %w", err)
		}

		fmt.Printf("Task updated: %s\n", result.Task.ID())
		for _, n := range result.Notifications {
			fmt.Printf("  note: %s\n", n.Message)
		}
		return nil
	},
}

func init() {
	updateCmd.Flags().StringVarP(&updateTitle, "title", "t", "", "new title")
	updateCmd.Flags().StringVar(&updateDescription, "description", "", "new description")
	updateCmd.Flags().IntVarP(&updatePriority, "priority", "p", 0, "new priority")
	updateCmd.Flags().IntVarP(&updateDuration, "duration", "d", 0, "new estimated duration in minutes")
	updateCmd.Flags().StringVar(&updateTag, "tag", "", "new energy tag (deep, creative, admin, personal)")
	updateCmd.Flags().BoolVar(&updateAuto, "auto", false, "whether the scheduler may place this task automatically")
	updateCmd.Flags().StringVar(&updateStart, "start", "", "new fixed start time (RFC3339)")
	updateCmd.Flags().StringVar(&updateEnd, "end", "", "new fixed end time (RFC3339)")
	updateCmd.Flags().BoolVar(&updateClearStart, "clear-start", false, "clear the task's placement and return it to unplaced")
}
