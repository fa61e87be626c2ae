package task

import (
	"fmt"
	"strings"
	"time"

	"github.com/felixgeelhaar/orbita/adapter/cli"
	"github.com/felixgeelhaar/orbita/internal/scheduling/domain"
	"github.com/spf13/cobra"
)

var (
	listStatus string
	listFrom   string
	listTo     string
)

var listCmd = &cobra.Command{
	Use:     "list",
	Short:   "List tasks",
	Aliases: []string{"ls"},
	Long: `List tasks with optional status and date-range filtering.

Examples:
  scheduler task list
  scheduler task list --status pending
  scheduler task list --from 2026-08-01T00:00:00Z --to 2026-08-08T00:00:00Z`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.Handlers == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}

		var status *domain.Status
		switch listStatus {
		case "":
		case "pending":
			v := domain.StatusPending
			status = &v
		case "completed":
			v := domain.StatusCompleted
			status = &v
		default:
			return fmt.Errorf("invalid --status, use pending or completed")
		}

		var from, to *time.Time
		if listFrom != "" {
			t, err := time.Parse(time.RFC3339, listFrom)
			if err != nil {
				return fmt.Errorf("invalid --from, use RFC3339: %w", err)
			}
			from = &t
		}
		if listTo != "" {
			t, err := time.Parse(time.RFC3339, listTo)
			if err != nil {
				return fmt.Errorf("invalid --to, use RFC3339: %w", err)
			}
			to = &t
		}

		tasks, err := app.Handlers.Tasks.FindByOwner(cmd.Context(), app.CurrentUserID, status, from, to)
		if err != nil {
			return fmt.Errorf("failed to list tasks: %w", err)
		}

		if len(tasks) == 0 {
			fmt.Println("No tasks found.")
			return nil
		}

		fmt.Printf("Tasks (%d):\n", len(tasks))
		fmt.Println(strings.Repeat("-", 60))
		for _, t := range tasks {
			fmt.Printf("%s %s (%s, p%d)\n", statusIcon(t.Status()), t.Title(), t.Tag(), t.Priority())
			fmt.Printf("   ID: %s\n", t.ID())
			if t.StartTime() != nil {
				fmt.Printf("   Placed: %s\n", t.StartTime().Format("2006-01-02 15:04"))
			}
			fmt.Println()
		}

		return nil
	},
}

func statusIcon(s domain.Status) string {
	if s == domain.StatusCompleted {
		return "[x]"
	}
	return "[ ]"
}

func init() {
	listCmd.Flags().StringVarP(&listStatus, "status", "s", "", "filter by status (pending, completed)")
	listCmd.Flags().StringVar(&listFrom, "from", "", "only tasks placed at or after this time (RFC3339)")
	listCmd.Flags().StringVar(&listTo, "to", "", "only tasks placed before this time (RFC3339)")
}
