// Drivers running static grids, journeys and traces through the engine
package sim

import (
	"context"
	"math"
	"math/rand"
	"runtime"
	"time"

	"phonedrain-sim/internal/activity"
	"phonedrain-sim/internal/fault"
	"phonedrain-sim/internal/logging"
	"phonedrain-sim/internal/scenario"
	"phonedrain-sim/internal/telemetry"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Driver defaults.
const (
	DefaultStaticStepSeconds  = 10.0
	DefaultStaticMaxHours     = 48.0
	DefaultStaticSampleEvery  = 600.0
	DefaultJourneyStepSeconds = 15.0
	DefaultJourneySampleEvery = 120.0
	DefaultJourneyMaxHours    = 48.0
)

// DefaultSOCLevels are the initial charge levels of the static grid.
var DefaultSOCLevels = []float64{1, 0.5, 0.2}

// StaticOptions configures the static app × SOC grid. Step, bound and
// sample interval are passed to the engine as given; start from
// DefaultStaticOptions to get the usual values.
type StaticOptions struct {
	Apps               []string
	SOCLevels          []float64
	StepSeconds        float64
	MaxHours           float64
	SampleEverySeconds float64
	Seed               int64
	// Workers bounds concurrent runs. Zero means GOMAXPROCS.
	Workers int
	Start   time.Time
}

// DefaultStaticOptions returns the grid settings used by the static command.
func DefaultStaticOptions() StaticOptions {
	return StaticOptions{
		SOCLevels:          DefaultSOCLevels,
		StepSeconds:        DefaultStaticStepSeconds,
		MaxHours:           DefaultStaticMaxHours,
		SampleEverySeconds: DefaultStaticSampleEvery,
		Seed:               1,
	}
}

func (o *StaticOptions) defaults() {
	if len(o.Apps) == 0 {
		o.Apps = activity.IDs()
	}
	if len(o.SOCLevels) == 0 {
		o.SOCLevels = DefaultSOCLevels
	}
	if o.Workers <= 0 {
		o.Workers = runtime.GOMAXPROCS(0)
	}
	if o.Start.IsZero() {
		o.Start = time.Now().UTC()
	}
}

type staticCell struct {
	app  *activity.App
	soc  float64
	seed int64
	res  *Result
}

// RunStatic runs every (app, SOC) pair to depletion or the time bound and
// returns one benchmark row per pair in grid order. Runs execute in
// parallel; rows reach sink in grid order once the whole grid succeeded.
func RunStatic(ctx context.Context, eng *Engine, opts StaticOptions, sink Sink) ([]telemetry.BenchmarkRow, error) {
	opts.defaults()
	log := logging.FromContext(ctx)

	for _, soc := range opts.SOCLevels {
		if err := checkRunParams(soc, opts.StepSeconds, opts.MaxHours, opts.SampleEverySeconds); err != nil {
			return nil, err
		}
	}

	root := rand.New(rand.NewSource(opts.Seed))
	cells := make([]*staticCell, 0, len(opts.Apps)*len(opts.SOCLevels))
	for _, id := range opts.Apps {
		for _, soc := range opts.SOCLevels {
			seed := root.Int63()
			app, err := activity.New(id, rand.New(rand.NewSource(seed)))
			if err != nil {
				return nil, err
			}
			cells = append(cells, &staticCell{app: app, soc: soc, seed: seed})
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	for _, c := range cells {
		g.Go(func() error {
			res, err := eng.Run(gctx, RunSpec{
				Source:             ProfileSource{Profile: c.app},
				InitialSOC:         c.soc,
				StepSeconds:        opts.StepSeconds,
				MaxHours:           opts.MaxHours,
				SampleEverySeconds: opts.SampleEverySeconds,
				Start:              opts.Start,
			})
			if err != nil {
				return err
			}
			c.res = res
			log.Info("static run", "app", c.app.ID, "initial_soc", c.soc, "state", res.State,
				"tte_hours", roundHundredths(res.ElapsedHours))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	gridID := uuid.NewString()
	rows := make([]telemetry.BenchmarkRow, 0, len(cells))
	for _, c := range cells {
		if sink != nil {
			if err := emit(sink, c.res); err != nil {
				return nil, err
			}
		}
		rows = append(rows, telemetry.BenchmarkRow{
			RunID:             gridID,
			App:               c.app.ID,
			Description:       c.app.Description,
			InitialSOCPercent: c.soc * 100,
			TTEHours:          roundHundredths(c.res.ElapsedHours),
			Depleted:          c.res.Depleted(),
			Timestamp:         opts.Start,
		})
	}
	if sink != nil {
		if err := sink.WriteBenchmarks(rows); err != nil {
			return nil, fault.Integrationf("write benchmarks: %v", err)
		}
	}
	return rows, nil
}

// RunOptions configures a single journey or trace run. Values reach the
// engine unchanged, so a zero SOC or step is rejected rather than defaulted;
// start from DefaultRunOptions.
type RunOptions struct {
	RunID              string
	InitialSOC         float64
	StepSeconds        float64
	MaxHours           float64
	SampleEverySeconds float64
	Seed               int64
	Start              time.Time
}

// DefaultRunOptions returns a full battery with the journey step, bound and
// sample interval.
func DefaultRunOptions() RunOptions {
	return RunOptions{
		InitialSOC:         1,
		StepSeconds:        DefaultJourneyStepSeconds,
		MaxHours:           DefaultJourneyMaxHours,
		SampleEverySeconds: DefaultJourneySampleEvery,
		Seed:               1,
	}
}

func (o RunOptions) spec(src Source) RunSpec {
	return RunSpec{
		ID:                 o.RunID,
		Source:             src,
		InitialSOC:         o.InitialSOC,
		StepSeconds:        o.StepSeconds,
		MaxHours:           o.MaxHours,
		SampleEverySeconds: o.SampleEverySeconds,
		Start:              o.Start,
	}
}

// RunJourney runs j segment by segment. Samples and the summary are written
// to sink unless the run fails.
func RunJourney(ctx context.Context, eng *Engine, j scenario.Journey, opts RunOptions, sink Sink) (*Result, error) {
	rng := rand.New(rand.NewSource(opts.Seed))
	src, err := NewJourneySource(j, func(app string) (activity.Profile, error) {
		return activity.New(app, rng)
	})
	if err != nil {
		return nil, err
	}
	return runAndEmit(ctx, eng, opts.spec(src), sink)
}

// RunTrace replays tr until its scripted end or depletion.
func RunTrace(ctx context.Context, eng *Engine, tr *scenario.Trace, opts RunOptions, sink Sink) (*Result, error) {
	if tr == nil {
		return nil, fault.Configf("trace is nil")
	}
	return runAndEmit(ctx, eng, opts.spec(TraceSource{Trace: tr}), sink)
}

func runAndEmit(ctx context.Context, eng *Engine, spec RunSpec, sink Sink) (*Result, error) {
	res, err := eng.Run(ctx, spec)
	if err != nil {
		return res, err
	}
	if sink != nil {
		if err := emit(sink, res); err != nil {
			return res, err
		}
	}
	return res, nil
}

// emit writes the samples and summary of a finished run.
func emit(sink Sink, res *Result) error {
	if res.State == telemetry.StateFailed {
		return fault.Integrationf("run %s failed and has no summary", res.RunID)
	}
	if err := writeSamples(sink, res.Samples); err != nil {
		return fault.Integrationf("write samples: %v", err)
	}
	if err := sink.WriteSummary(res.Summary()); err != nil {
		return fault.Integrationf("write summary: %v", err)
	}
	return nil
}

func roundHundredths(v float64) float64 {
	return math.Round(v*100) / 100
}
