package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"phonedrain-sim/internal/logging"
	"phonedrain-sim/internal/scenario"
	"phonedrain-sim/internal/sim"
)

var (
	traceFile     string
	traceRunFlags runFlags
)

var traceCmd = &cobra.Command{
	Use:   "trace [name]",
	Short: "Replay a waypoint trace of radio and screen conditions",
	Long:  "trace interpolates a waypoint script of network, radio and display signals and integrates the resulting current. Without --file a built-in trace is used.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			tr  *scenario.Trace
			err error
		)
		switch {
		case traceFile != "":
			tr, err = scenario.LoadTrace(traceFile)
		case len(args) == 1:
			tr, err = scenario.BuiltInTrace(args[0])
		default:
			for _, n := range scenario.BuiltInTraces() {
				fmt.Fprintln(cmd.OutOrStdout(), n)
			}
			return nil
		}
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		log := logging.FromContext(ctx)
		cfg, eng, err := loadEngine()
		if err != nil {
			return err
		}
		sink, cleanup, err := newSink(cfg, log, printOnly, traceRunFlags.tui, logFile)
		if err != nil {
			return err
		}
		defer cleanup()

		log.Info("trace", "name", tr.Name(), "hours", tr.DurationSeconds()/3600)
		_, err = sim.RunTrace(ctx, eng, tr, traceRunFlags.options(), sink)
		return err
	},
}

func init() {
	traceCmd.Flags().StringVar(&traceFile, "file", "", "Path to a trace YAML")
	bindRunFlags(traceCmd, &traceRunFlags)
}
