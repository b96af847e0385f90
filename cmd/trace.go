package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/waltsai2483/NachOS-MPX/internal/kernel/logging"
	"github.com/waltsai2483/NachOS-MPX/internal/kernel/workload"
)

func init() {
	rootCmd.AddCommand(traceCmd)
}

var traceCmd = &cobra.Command{
	Use:   "trace <workload.yaml>",
	Short: "Replay a workload and print its event trace as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		spec, err := workload.Load(args[0])
		if err != nil {
			return err
		}

		driver := workload.NewDriver(spec, logging.New(nil))
		events, err := driver.Run(context.Background())
		if err != nil {
			return fmt.Errorf("trace: %w", err)
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(events)
	},
}
