package energy

import (
	"github.com/spf13/cobra"
)

// Cmd is the energy command group
var Cmd = &cobra.Command{
	Use:   "energy",
	Short: "Manage energy check-ins and sleep schedule",
	Long:  `Record energy check-ins, view your forecast and patterns, and set your sleep schedule.`,
}

func init() {
	Cmd.AddCommand(logCmd)
	Cmd.AddCommand(showCmd)
	Cmd.AddCommand(sleepCmd)
}
