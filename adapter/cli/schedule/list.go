package schedule

import (
	"fmt"
	"strings"
	"time"

	"github.com/felixgeelhaar/orbita/adapter/cli"
	"github.com/felixgeelhaar/orbita/internal/scheduling/domain"
	"github.com/spf13/cobra"
)

var (
	listType string
	listFrom string
	listTo   string
)

var listCmd = &cobra.Command{
	Use:     "list",
	Short:   "List calendar items",
	Aliases: []string{"ls", "show"},
	Long: `List events and placed tasks on the calendar, optionally
filtered by type and date range.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.Handlers == nil {
			fmt.Println("Schedule commands require database connection.")
			return nil
		}

		var itemType *domain.ItemType
		if listType != "" {
			t := domain.ItemType(listType)
			itemType = &t
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

		items, err := app.Handlers.Items.FindByOwner(cmd.Context(), app.CurrentUserID, itemType, from, to)
		if err != nil {
			return fmt.Errorf("failed to list schedule: %w", err)
		}

		if len(items) == 0 {
			fmt.Println("No calendar items found.")
			return nil
		}

		fmt.Printf("Calendar (%d):\n", len(items))
		fmt.Println(strings.Repeat("-", 60))
		for _, item := range items {
			fmt.Printf("[%s] %s\n", item.Type(), item.Title())
			fmt.Printf("   ID:   %s\n", item.ID())
			fmt.Printf("   Time: %s - %s\n", item.StartTime().Format("2006-01-02 15:04"), item.EndTime().Format("15:04"))
			fmt.Println()
		}

		return nil
	},
}

func init() {
	listCmd.Flags().StringVar(&listType, "type", "", "filter by item type (event, task)")
	listCmd.Flags().StringVar(&listFrom, "from", "", "only items starting at or after this time (RFC3339)")
	listCmd.Flags().StringVar(&listTo, "to", "", "only items starting before this time (RFC3339)")
}
