package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"phonedrain-sim/internal/fault"
	"phonedrain-sim/internal/logging"
	"phonedrain-sim/internal/scenario"
	"phonedrain-sim/internal/sim"
)

var (
	journeyFile string
	journeyList bool
	runOpts     runFlags
)

// runFlags are shared by the journey and trace commands.
type runFlags struct {
	socPercent  float64
	step        float64
	sampleEvery float64
	maxHours    float64
	tui         bool
}

func (r runFlags) options() sim.RunOptions {
	return sim.RunOptions{
		InitialSOC:         r.socPercent / 100,
		StepSeconds:        r.step,
		MaxHours:           r.maxHours,
		SampleEverySeconds: r.sampleEvery,
		Seed:               seed,
	}
}

func bindRunFlags(cmd *cobra.Command, r *runFlags) {
	f := cmd.Flags()
	f.Float64Var(&r.socPercent, "soc", 100, "Initial state of charge in percent")
	f.Float64Var(&r.step, "step", sim.DefaultJourneyStepSeconds, "Integration step in seconds")
	f.Float64Var(&r.sampleEvery, "sample-every", sim.DefaultJourneySampleEvery, "Sample interval in seconds")
	f.Float64Var(&r.maxHours, "max-hours", sim.DefaultJourneyMaxHours, "Time bound in hours")
	f.BoolVar(&r.tui, "tui", false, "Render the run in an interactive terminal UI")
}

// selectJourneys loads journeys from path (built-ins when empty) and picks id,
// or all of them in definition order when id is empty.
func selectJourneys(path, id string) ([]scenario.Journey, error) {
	var all []scenario.Journey
	if path == "" {
		builtIn := scenario.BuiltIn()
		for _, k := range scenario.BuiltInOrder {
			all = append(all, builtIn[k])
		}
	} else {
		var err error
		if all, err = scenario.Load(path); err != nil {
			return nil, err
		}
	}
	if id == "" {
		return all, nil
	}
	for _, j := range all {
		if j.ID == id {
			return []scenario.Journey{j}, nil
		}
	}
	return nil, fault.Configf("unknown journey %q", id)
}

var journeyCmd = &cobra.Command{
	Use:   "journey [id]",
	Short: "Run a multi-segment daily usage journey",
	Long:  "journey runs one journey (or all of them when no id is given) segment by segment and reports the state-of-charge trajectory and a summary.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := ""
		if len(args) == 1 {
			id = args[0]
		}
		journeys, err := selectJourneys(journeyFile, id)
		if err != nil {
			return err
		}
		if journeyList {
			for _, j := range journeys {
				fmt.Fprintf(cmd.OutOrStdout(), "%-10s %-24s %5.0f min  %s\n", j.ID, j.Name, j.TotalMinutes(), j.Description)
			}
			return nil
		}

		ctx := cmd.Context()
		log := logging.FromContext(ctx)
		cfg, eng, err := loadEngine()
		if err != nil {
			return err
		}
		sink, cleanup, err := newSink(cfg, log, printOnly, runOpts.tui, logFile)
		if err != nil {
			return err
		}
		defer cleanup()

		for _, j := range journeys {
			log.Info("journey", "id", j.ID, "name", j.Name, "minutes", j.TotalMinutes())
			if _, err := sim.RunJourney(ctx, eng, j, runOpts.options(), sink); err != nil {
				return fmt.Errorf("journey %s: %w", j.ID, err)
			}
		}
		return nil
	},
}

func init() {
	journeyCmd.Flags().StringVar(&journeyFile, "file", "", "Path to journeys YAML (built-in journeys when empty)")
	journeyCmd.Flags().BoolVar(&journeyList, "list", false, "List journeys and exit")
	bindRunFlags(journeyCmd, &runOpts)
}
