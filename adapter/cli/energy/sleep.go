package energy

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/felixgeelhaar/orbita/adapter/cli"
	schedulingEnergy "github.com/felixgeelhaar/orbita/internal/scheduling/application/energy"
	"github.com/felixgeelhaar/orbita/internal/scheduling/domain"
	"github.com/spf13/cobra"
)

var (
	sleepBedtime    int
	sleepWakeHour   int
	sleepChronotype string
	sleepGenerate   bool
)

var sleepCmd = &cobra.Command{
	Use:   "sleep",
	Short: "Set your sleep schedule",
	Long: `Set bedtime, wake hour and chronotype. With --generate, seed a
day of synthetic energy samples from the new curve and refresh your
historical patterns to match.

Examples:
  scheduler energy sleep --bedtime 23 --wake 7 --chronotype morning --generate`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.Energy == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}

		ctx := cmd.Context()
		schedule, err := domain.NewSleepSchedule(app.CurrentUserID, sleepBedtime, sleepWakeHour, domain.Chronotype(sleepChronotype))
		if err != nil {
			return fmt.Errorf("invalid sleep schedule: %w", err)
		}
		if err := app.Energy.Sleep.Save(ctx, schedule); err != nil {
			return fmt.Errorf("failed to save sleep schedule: %w", err)
		}

		if sleepGenerate {
			rng := rand.New(rand.NewSource(time.Now().UnixNano()))
			samples, err := schedulingEnergy.SeedDailySamples(app.CurrentUserID, time.Now().UTC(), schedule, rng)
			if err != nil {
				return fmt.Errorf("failed to seed energy samples: %w", err)
			}
			for _, s := range samples {
				if err := app.Energy.Samples.Save(ctx, s); err != nil {
					return fmt.Errorf("failed to save seeded sample: %w", err)
				}
			}
			if err := app.Energy.UpdateHistoricalPatterns(ctx, app.CurrentUserID); err != nil {
				return fmt.Errorf("failed to update historical patterns: %w", err)
			}
			fmt.Printf("Seeded %d energy samples from the new curve\n", len(samples))
		}

		fmt.Printf("Sleep schedule set: bedtime %d, wake %d, chronotype %s\n", schedule.Bedtime(), schedule.WakeHour(), schedule.Chronotype())
		return nil
	},
}

func init() {
	sleepCmd.Flags().IntVar(&sleepBedtime, "bedtime", 23, "bedtime hour, 0-23")
	sleepCmd.Flags().IntVar(&sleepWakeHour, "wake", 7, "wake hour, 0-23")
	sleepCmd.Flags().StringVar(&sleepChronotype, "chronotype", string(domain.ChronotypeNeutral), "chronotype (morning, evening, neutral)")
	sleepCmd.Flags().BoolVar(&sleepGenerate, "generate", false, "seed a day of energy samples from the new curve")
}
