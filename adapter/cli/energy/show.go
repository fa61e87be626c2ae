package energy

import (
	"fmt"
	"time"

	"github.com/felixgeelhaar/orbita/adapter/cli"
	"github.com/spf13/cobra"
)

var showPatterns bool

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show today's energy forecast or the historical patterns behind it",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.Energy == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}

		ctx := cmd.Context()

		if showPatterns {
			patterns, err := app.Energy.HistoricalPatterns(ctx, app.CurrentUserID)
			if err != nil {
				return fmt.Errorf("failed to load patterns: %w", err)
			}
			fmt.Println("Hour  Avg    Samples  Stage              Estimated")
			for _, p := range patterns {
				fmt.Printf("%4d  %.2f   %-7d  %-17s  %t\n", p.Hour(), p.AverageLevel(), p.SampleCount(), p.Stage(), p.IsEstimated())
			}
			return nil
		}

		samples, err := app.Energy.TodayForecast(ctx, app.CurrentUserID, time.Now().UTC())
		if err != nil {
			return fmt.Errorf("failed to load forecast: %w", err)
		}
		fmt.Println("Hour  Level  Stage              Manual")
		for _, s := range samples {
			fmt.Printf("%4d  %.2f   %-17s  %t\n", s.Hour(), s.EnergyLevel(), s.Stage(), s.HasManualCheckIn())
		}
		return nil
	},
}

func init() {
	showCmd.Flags().BoolVar(&showPatterns, "patterns", false, "show the historical hourly averages instead of today's forecast")
}
