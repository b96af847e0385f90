package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/waltsai2483/NachOS-MPX/internal/kernel/logging"
	"github.com/waltsai2483/NachOS-MPX/internal/kernel/workload"
)

var (
	runQuantum     int64
	runAgingPeriod int64
	runAgingFactor int
)

func init() {
	runCmd.Flags().Int64Var(&runQuantum, "quantum", 0, "override the workload's round-robin quantum, in ticks (0 = use workload default)")
	runCmd.Flags().Int64Var(&runAgingPeriod, "aging-period", 0, "override the workload's aging period, in ticks (0 = use workload default)")
	runCmd.Flags().IntVar(&runAgingFactor, "aging-factor", 0, "override the workload's aging factor (0 = use workload default)")
	rootCmd.AddCommand(runCmd)
}

var runCmd = &cobra.Command{
	Use:   "run <workload.yaml>",
	Short: "Replay a workload against the scheduler, printing the [A]/[B]/[C]/[E] trace",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		spec, err := workload.Load(args[0])
		if err != nil {
			return err
		}
		if runQuantum > 0 {
			spec.Quantum = runQuantum
		}
		if runAgingPeriod > 0 {
			spec.AgingPeriod = runAgingPeriod
		}
		if runAgingFactor > 0 {
			spec.AgingFactor = runAgingFactor
		}

		handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
		log := logging.New(slog.New(handler))

		driver := workload.NewDriver(spec, log)
		events, err := driver.Run(context.Background())
		if err != nil {
			return fmt.Errorf("run: %w", err)
		}

		slog.Info("workload replay complete", "run_id", driver.RunID(), "events", len(events))
		return nil
	},
}
