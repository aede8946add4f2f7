package main

import (
	"github.com/spf13/cobra"

	"phonedrain-sim/internal/fault"
	"phonedrain-sim/internal/logging"
	"phonedrain-sim/internal/sim"
)

var (
	replayInput string
	replaySpeed float64
)

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Replay a sample log file",
	Long:  "replay feeds sample rows from a JSONL log back into GreptimeDB or STDOUT, spaced by their simulated timestamps divided by --speed.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if replayInput == "" {
			return fault.Configf("input file required")
		}
		sink, cleanup, err := newSink(nil, logging.FromContext(cmd.Context()), printOnly, false, "")
		if err != nil {
			return err
		}
		defer cleanup()
		return sim.ReplayLogFile(replayInput, sink, replaySpeed)
	},
}

func init() {
	replayCmd.Flags().StringVar(&replayInput, "input", "", "Path to sample log file")
	replayCmd.Flags().Float64Var(&replaySpeed, "speed", 3600, "Playback speed multiplier (3600 plays one simulated hour per second, 0 disables pacing)")
	replayCmd.MarkFlagRequired("input")
}
