package main

import (
	"github.com/spf13/cobra"

	"phonedrain-sim/internal/logging"
	"phonedrain-sim/internal/sim"
)

var (
	staticApps        []string
	staticSOC         []float64
	staticStep        float64
	staticMaxHours    float64
	staticSampleEvery float64
	staticWorkers     int
)

var staticCmd = &cobra.Command{
	Use:   "static",
	Short: "Run every app at several initial charge levels and report time to empty",
	Long:  "static runs each app profile alone from every initial state of charge until the battery is empty or the time bound is reached, then prints the time-to-empty table.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		log := logging.FromContext(ctx)
		cfg, eng, err := loadEngine()
		if err != nil {
			return err
		}
		sink, cleanup, err := newSink(cfg, log, printOnly, false, logFile)
		if err != nil {
			return err
		}
		defer cleanup()

		levels := make([]float64, len(staticSOC))
		for i, p := range staticSOC {
			levels[i] = p / 100
		}
		rows, err := sim.RunStatic(ctx, eng, sim.StaticOptions{
			Apps:               staticApps,
			SOCLevels:          levels,
			StepSeconds:        staticStep,
			MaxHours:           staticMaxHours,
			SampleEverySeconds: staticSampleEvery,
			Seed:               seed,
			Workers:            staticWorkers,
		}, sink)
		if err != nil {
			return err
		}
		log.Info("static grid finished", "runs", len(rows))
		return nil
	},
}

func init() {
	f := staticCmd.Flags()
	f.StringSliceVar(&staticApps, "apps", nil, "App profiles to run (default all)")
	f.Float64SliceVar(&staticSOC, "soc", []float64{100, 50, 20}, "Initial state of charge levels in percent")
	f.Float64Var(&staticStep, "step", sim.DefaultStaticStepSeconds, "Integration step in seconds")
	f.Float64Var(&staticMaxHours, "max-hours", sim.DefaultStaticMaxHours, "Time bound per run in hours")
	f.Float64Var(&staticSampleEvery, "sample-every", sim.DefaultStaticSampleEvery, "Sample interval in seconds")
	f.IntVar(&staticWorkers, "workers", 0, "Concurrent runs (default GOMAXPROCS)")
}
