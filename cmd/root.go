package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "nachos",
	Short: "A multilevel feedback CPU scheduler for a teaching kernel",
	Long: `nachos replays scripted thread workloads through the NachOS-MPX
scheduler core (three ready queues, aging, cross-level preemption, and
deferred-destroy dispatch) and reports the resulting trace.`,
}

// Execute runs the root command, exiting non-zero on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
