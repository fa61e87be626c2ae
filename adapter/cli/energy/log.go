package energy

import (
	"fmt"
	"time"

	"github.com/felixgeelhaar/orbita/adapter/cli"
	schedulingEnergy "github.com/felixgeelhaar/orbita/internal/scheduling/application/energy"
	"github.com/felixgeelhaar/orbita/internal/scheduling/domain"
	"github.com/spf13/cobra"
)

var (
	logHour      int
	logLevel     float64
	logStage     string
	logMoodLabel string
	logDate      string
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Record a manual energy check-in",
	Long: `Record how your energy actually felt at a given hour. The
check-in is folded into your running hourly averages immediately.

Examples:
  scheduler energy log --hour 14 --level 0.3 --mood "sluggish after lunch"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.Energy == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}

		ctx := cmd.Context()
		date := time.Now().UTC()
		if logDate != "" {
			parsed, err := time.Parse("2006-01-02", logDate)
			if err != nil {
				return fmt.Errorf("invalid --date, use YYYY-MM-DD: %w", err)
			}
			date = parsed
		}

		stage := domain.Stage(logStage)
		if stage == "" {
			schedule, err := app.Energy.Sleep.Get(ctx, app.CurrentUserID)
			if err != nil {
				return fmt.Errorf("failed to load sleep schedule: %w", err)
			}
			_, stage = schedulingEnergy.HourLevel(schedule, logHour)
		}

		sample, err := domain.NewEnergySample(app.CurrentUserID, date, logHour, logLevel, stage, logMoodLabel, true)
		if err != nil {
			return fmt.Errorf("invalid energy sample: %w", err)
		}
		if err := app.Energy.Samples.Save(ctx, sample); err != nil {
			return fmt.Errorf("failed to save energy sample: %w", err)
		}
		if err := app.Energy.UpdateHistoricalPatterns(ctx, app.CurrentUserID); err != nil {
			return fmt.Errorf("failed to update historical patterns: %w", err)
		}

		fmt.Printf("Logged energy %.2f at hour %d (%s)\n", logLevel, logHour, stage)
		return nil
	},
}

func init() {
	logCmd.Flags().IntVar(&logHour, "hour", 0, "hour of day, 0-23 (required)")
	logCmd.Flags().Float64Var(&logLevel, "level", 0, "energy level, 0.0-1.0 (required)")
	logCmd.Flags().StringVar(&logStage, "stage", "", "override the derived circadian stage")
	logCmd.Flags().StringVar(&logMoodLabel, "mood", "", "optional mood label")
	logCmd.Flags().StringVar(&logDate, "date", "", "date of the check-in (YYYY-MM-DD, default: today)")
	logCmd.MarkFlagRequired("hour")
	logCmd.MarkFlagRequired("level")
}
