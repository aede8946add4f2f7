package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"phonedrain-sim/internal/config"
	"phonedrain-sim/internal/hardware"
	"phonedrain-sim/internal/logging"
	"phonedrain-sim/internal/sim"
)

var (
	configPath string
	schemaPath string
	logLevel   string
	logFormat  string
	seed       int64
	printOnly  bool
	logFile    string
)

var rootCmd = &cobra.Command{
	Use:   "phonedrain-sim",
	Short: "Mobile device battery drain simulator",
	Long:  "phonedrain-sim estimates per-component current draw for app usage scenarios and integrates it into state-of-charge trajectories and time-to-empty figures.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		out := io.Writer(os.Stderr)
		if f := cmd.Flags().Lookup("tui"); f != nil && f.Value.String() == "true" {
			out = io.Discard
		}
		log, err := logging.NewWithWriter(out, logLevel, logFormat)
		if err != nil {
			return err
		}
		cmd.SetContext(logging.NewContext(cmd.Context(), log))
		return nil
	},
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadEngine reads the device configuration (built-in when --config is empty)
// and builds the models and engine for it.
func loadEngine() (*config.Config, *sim.Engine, error) {
	var (
		cfg *config.Config
		err error
	)
	if configPath == "" {
		cfg, err = config.Default()
	} else {
		cfg, err = config.Load(configPath, schemaPath)
	}
	if err != nil {
		return nil, nil, err
	}
	dev, err := hardware.NewDevice(cfg)
	if err != nil {
		return nil, nil, err
	}
	eng, err := sim.NewEngine(dev)
	if err != nil {
		return nil, nil, err
	}
	return cfg, eng, nil
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "Path to device configuration YAML (built-in device when empty)")
	pf.StringVar(&schemaPath, "schema", "", "Path to CUE schema file (embedded schema when empty)")
	pf.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	pf.StringVar(&logFormat, "log-format", "text", "Log format (text or json)")
	pf.Int64Var(&seed, "seed", 1, "Seed for stochastic profiles")
	pf.BoolVar(&printOnly, "print-only", false, "Print rows to STDOUT instead of writing to DB")
	pf.StringVar(&logFile, "log-file", "", "Path to export samples as JSONL (summaries and TTE rows go to .summary and .tte siblings)")

	rootCmd.AddCommand(staticCmd)
	rootCmd.AddCommand(journeyCmd)
	rootCmd.AddCommand(traceCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(dashboardCmd)
}
