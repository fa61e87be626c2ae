package task

import (
	"fmt"
	"time"

	"github.com/felixgeelhaar/orbita/adapter/cli"
	"github.com/felixgeelhaar/orbita/internal/scheduling/application/commands"
	"github.com/felixgeelhaar/orbita/internal/scheduling/domain"
	"github.com/spf13/cobra"
)

var (
	createDescription string
	createDuration    int
	createPriority    int
	createTag         string
	createAuto        bool
	createStart       string
	createEnd         string
)

var createCmd = &cobra.Command{
	Use:   "create [title]",
	Short: "Create a new task",
	Long: `Create a new task with a title and optional properties.

Examples:
  scheduler task create "Write quarterly report" -d 90 -p 3 -t deep --auto
  scheduler task create "Team standup notes" --start "2026-08-03T09:00:00Z" --end "2026-08-03T09:15:00Z"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.Handlers == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}

		duration, err := domain.NewDuration(time.Duration(createDuration) * time.Minute)
		if err != nil {
			return fmt.Errorf("invalid duration: %w", err)
		}

		createTaskCmd := commands.CreateTaskCommand{
			OwnerID:           app.CurrentUserID,
			Title:             args[0],
			Description:       createDescription,
			EstimatedDuration: duration,
			Priority:          createPriority,
			Tag:               domain.Tag(createTag),
			AutoSchedule:      createAuto,
		}

		if createStart != "" {
			start, err := time.Parse(time.RFC3339, createStart)
			if err != nil {
				return fmt.Errorf("invalid --start, use RFC3339: %w", err)
			}
			createTaskCmd.StartTime = &start
		}
		if createEnd != "" {
			end, err := time.Parse(time.RFC3339, createEnd)
			if err != nil {
				return fmt.Errorf("invalid --end, use RFC3339: %w", err)
			}
			createTaskCmd.EndTime = &end
		}

		result, err := app.Handlers.CreateTask(cmd.Context(), time.Now().UTC(), createTaskCmd)
		if err != nil {
			return fmt.Errorf("failed to create task: %w", err)
		}

		fmt.Printf("Task created: %s\n", result.Task.ID())
		fmt.Printf("  title:    %s\n", result.Task.Title())
		fmt.Printf("  priority: %d\n", result.Task.Priority())
		fmt.Printf("  duration: %s\n", result.Task.EstimatedDuration().Value())
		if result.Task.StartTime() != nil {
			fmt.Printf("  placed:   %s\n", result.Task.StartTime().Format(time.RFC3339))
		}
		for _, n := range result.Notifications {
			fmt.Printf("  note: %s\n", n.Message)
		}

		return nil
	},
}

func init() {
	createCmd.Flags().StringVar(&createDescription, "description", "", "task description")
	createCmd.Flags().IntVarP(&createDuration, "duration", "d", 30, "estimated duration in minutes")
	createCmd.Flags().IntVarP(&createPriority, "priority", "p", 0, "priority (higher is more urgent)")
	createCmd.Flags().StringVarP(&createTag, "tag", "t", string(domain.TagPersonal), "energy tag (deep, creative, admin, personal)")
	createCmd.Flags().BoolVar(&createAuto, "auto", false, "let the scheduler place this task automatically")
	createCmd.Flags().StringVar(&createStart, "start", "", "fixed start time (RFC3339), for manually-placed tasks")
	createCmd.Flags().StringVar(&createEnd, "end", "", "fixed end time (RFC3339), for manually-placed tasks")
}
