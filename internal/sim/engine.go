// Engine integrating device current against battery charge
package sim

import (
	"context"
	"fmt"
	"math"
	"time"

	"phonedrain-sim/internal/activity"
	"phonedrain-sim/internal/fault"
	"phonedrain-sim/internal/hardware"
	"phonedrain-sim/internal/logging"
	"phonedrain-sim/internal/telemetry"

	"github.com/google/uuid"
)

// ctxCheckEvery is how many steps run between cancellation checks.
const ctxCheckEvery = 256

// RunSpec describes one engine run.
type RunSpec struct {
	// ID is stamped on every row. A random UUID is used when empty.
	ID     string
	Source Source
	// InitialSOC is the starting state of charge as a fraction in (0,1].
	InitialSOC  float64
	StepSeconds float64
	MaxHours    float64
	// SampleEverySeconds must be a whole number of steps. Zero samples
	// every step.
	SampleEverySeconds float64
	// Start anchors row timestamps. Defaults to time.Now.
	Start time.Time
}

func (s *RunSpec) normalize() error {
	if s.Source == nil {
		return fault.Integrationf("run has no scenario")
	}
	if err := checkRunParams(s.InitialSOC, s.StepSeconds, s.MaxHours, s.SampleEverySeconds); err != nil {
		return err
	}
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.Start.IsZero() {
		s.Start = time.Now().UTC()
	}
	return nil
}

// sampleTolerance absorbs float error when checking that the sample interval
// is a whole number of steps.
const sampleTolerance = 1e-9

func checkRunParams(soc, step, maxHours, sampleEvery float64) error {
	if !(soc > 0 && soc <= 1) {
		return fault.Integrationf("initial SOC %g outside (0,1]", soc)
	}
	if !(step > 0) || math.IsInf(step, 0) {
		return fault.Integrationf("step %g s must be positive", step)
	}
	if !(maxHours > 0) || math.IsInf(maxHours, 0) {
		return fault.Integrationf("time bound %g h must be positive", maxHours)
	}
	if sampleEvery < 0 || math.IsNaN(sampleEvery) || math.IsInf(sampleEvery, 0) {
		return fault.Integrationf("sample interval %g s must be finite and non-negative", sampleEvery)
	}
	if sampleEvery > 0 {
		n := sampleEvery / step
		if n < 1-sampleTolerance || math.Abs(n-math.Round(n)) > sampleTolerance*math.Max(1, n) {
			return fault.Integrationf("sample interval %g s is not a multiple of the %g s step", sampleEvery, step)
		}
	}
	return nil
}

// Result is the outcome of one run. A failed run keeps whatever was
// integrated before the error.
type Result struct {
	RunID      string
	Scenario   string
	State      string
	InitialSOC float64
	FinalSOC   float64
	// TTEHours is set only when the battery was depleted.
	TTEHours      float64
	ElapsedHours  float64
	EnergyUsedMAh float64
	Samples       []telemetry.SampleRow
	// Currents holds the total current of every integration step.
	Currents []float64
	start    time.Time
}

// Depleted reports whether the run ended on an empty battery.
func (r *Result) Depleted() bool { return r.State == telemetry.StateDepleted }

// Summary builds the closing row for the run.
func (r *Result) Summary() telemetry.SummaryRow {
	st := Summarize(r.Currents)
	return telemetry.SummaryRow{
		RunID:             r.RunID,
		Scenario:          r.Scenario,
		State:             r.State,
		InitialSOCPercent: r.InitialSOC * 100,
		FinalSOCPercent:   r.FinalSOC * 100,
		EnergyUsedMAh:     r.EnergyUsedMAh,
		DurationHours:     r.ElapsedHours,
		TTEHours:          r.TTEHours,
		MeanCurrentMA:     st.Mean,
		P95CurrentMA:      st.P95,
		PeakCurrentMA:     st.Peak,
		Timestamp:         r.start.Add(hoursToDuration(r.ElapsedHours)),
	}
}

// Engine runs fixed-step integrations on one device.
type Engine struct {
	dev      *hardware.Device
	capacity float64
}

// NewEngine builds an engine for dev.
func NewEngine(dev *hardware.Device) (*Engine, error) {
	if dev == nil {
		return nil, fault.Configf("engine needs a device")
	}
	return &Engine{dev: dev, capacity: dev.Config().System.CapacityMAh}, nil
}

// Current returns the weighted total current for one snapshot. Only
// subsystems with positive activity are evaluated.
func (e *Engine) Current(s activity.Snapshot) (float64, error) {
	d := e.dev
	var total float64
	add := func(ma float64, err error) error {
		if err != nil {
			return err
		}
		total += ma
		return nil
	}
	if err := add(contribution("display", s.Display, d.Display.Current)); err != nil {
		return 0, err
	}
	if err := add(contribution("processor", s.Processor, d.Processor.Current)); err != nil {
		return 0, err
	}
	if err := add(contribution("memory", s.Memory, d.Memory.Current)); err != nil {
		return 0, err
	}
	if err := add(contribution("storage", s.Storage, d.Storage.Current)); err != nil {
		return 0, err
	}
	if err := add(contribution("sensors", s.Sensors, d.Sensors.Current)); err != nil {
		return 0, err
	}
	if err := add(contribution("wifi", s.WiFi, d.WiFi.Current)); err != nil {
		return 0, err
	}
	if err := add(contribution("bluetooth", s.Bluetooth, d.Bluetooth.Current)); err != nil {
		return 0, err
	}

	// The hotspot draws on top of the raw cellular current.
	var cellRaw float64
	if s.Cellular.Activity > 0 || (s.Hotspot.Activity > 0 && s.Hotspot.State.Active) {
		ma, err := d.Cellular.Current(s.Cellular.State)
		if err != nil {
			return 0, fmt.Errorf("cellular: %w", err)
		}
		cellRaw = ma
	}
	if err := add(contribution("cellular", s.Cellular, func(hardware.CellularState) (float64, error) {
		return cellRaw, nil
	})); err != nil {
		return 0, err
	}
	if err := add(contribution("hotspot", s.Hotspot, func(st hardware.HotspotState) (float64, error) {
		return d.Hotspot.Current(st, cellRaw)
	})); err != nil {
		return 0, err
	}
	if math.IsNaN(total) || math.IsInf(total, 0) || total < 0 {
		return 0, fault.Computationf("total current %g is invalid", total)
	}
	return total, nil
}

func contribution[S any](name string, l activity.Load[S], current func(S) (float64, error)) (float64, error) {
	if err := l.Check(name); err != nil {
		return 0, err
	}
	if l.Activity == 0 {
		return 0, nil
	}
	ma, err := current(l.State)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}
	return ma * l.Weight(), nil
}

// Run integrates spec.Source until the battery is empty, the time bound is
// reached or the scenario ends. On error the partial result is returned with
// State set to failed.
func (e *Engine) Run(ctx context.Context, spec RunSpec) (*Result, error) {
	if err := spec.normalize(); err != nil {
		return nil, err
	}
	log := logging.FromContext(ctx).With("run_id", spec.ID, "scenario", spec.Source.Name())

	initial := spec.InitialSOC * e.capacity
	remaining := initial
	dt := spec.StepSeconds
	bound := spec.MaxHours * 3600
	stride := 1
	if spec.SampleEverySeconds > 0 {
		stride = int(math.Round(spec.SampleEverySeconds / dt))
	}

	res := &Result{
		RunID:      spec.ID,
		Scenario:   spec.Source.Name(),
		State:      telemetry.StateRunning,
		InitialSOC: spec.InitialSOC,
		FinalSOC:   spec.InitialSOC,
		start:      spec.Start,
	}
	log.Info("run started", "initial_soc", spec.InitialSOC, "step_s", dt, "max_hours", spec.MaxHours)

	var (
		last       Step
		lastSample = -1
		segment    = -1
		n          int
	)
	sample := func(idx int, elapsed, ma float64) {
		res.Samples = append(res.Samples, telemetry.SampleRow{
			RunID:        spec.ID,
			Scenario:     res.Scenario,
			App:          last.App,
			Segment:      last.Segment,
			ElapsedHours: elapsed / 3600,
			SOCPercent:   remaining / e.capacity * 100,
			CurrentMA:    ma,
			Timestamp:    spec.Start.Add(time.Duration(elapsed * float64(time.Second))),
		})
		lastSample = idx
	}
	fail := func(elapsed float64, err error) (*Result, error) {
		res.State = telemetry.StateFailed
		res.ElapsedHours = elapsed / 3600
		res.FinalSOC = remaining / e.capacity
		res.EnergyUsedMAh = initial - remaining
		log.Error("run failed", "elapsed_hours", res.ElapsedHours, "error", err)
		return res, err
	}

	for ; ; n++ {
		elapsed := float64(n) * dt
		if n%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return fail(elapsed, err)
			}
		}
		step, ok, err := spec.Source.At(elapsed)
		if err != nil {
			return fail(elapsed, err)
		}
		if !ok {
			res.State = telemetry.StateTimedOut
			if n > 0 && lastSample != n-1 {
				sample(n-1, elapsed, res.Currents[n-1])
			}
			res.ElapsedHours = elapsed / 3600
			break
		}
		if step.Segment != segment {
			if segment >= 0 {
				log.Debug("segment transition", "segment", step.Segment, "app", step.App, "elapsed_hours", elapsed/3600)
			}
			segment = step.Segment
		}
		last = step

		ma, err := e.Current(step.Snapshot)
		if err != nil {
			return fail(elapsed, err)
		}
		remaining -= ma * dt / 3600
		res.Currents = append(res.Currents, ma)
		elapsed += dt

		if remaining <= 0 {
			remaining = 0
			res.State = telemetry.StateDepleted
			res.TTEHours = elapsed / 3600
			res.ElapsedHours = res.TTEHours
			sample(n, elapsed, ma)
			break
		}
		if elapsed >= bound {
			res.State = telemetry.StateTimedOut
			res.ElapsedHours = elapsed / 3600
			sample(n, elapsed, ma)
			break
		}
		if (n+1)%stride == 0 {
			sample(n, elapsed, ma)
		}
	}

	res.FinalSOC = remaining / e.capacity
	res.EnergyUsedMAh = initial - remaining
	log.Info("run finished", "state", res.State, "elapsed_hours", res.ElapsedHours,
		"final_soc", res.FinalSOC, "tte_hours", res.TTEHours)
	return res, nil
}

func hoursToDuration(h float64) time.Duration {
	return time.Duration(h * float64(time.Hour))
}
