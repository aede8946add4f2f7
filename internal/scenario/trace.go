package scenario

import (
	"embed"
	"fmt"
	"os"
	"path"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"phonedrain-sim/internal/activity"
	"phonedrain-sim/internal/fault"
	"phonedrain-sim/internal/hardware"
	"phonedrain-sim/internal/interp"
)

//go:embed traces/*.yaml
var traceFS embed.FS

// Numeric and categorical waypoint lists as written in trace files.
type (
	Signal = []interp.Point[float64]
	Labels = []interp.Point[string]
	Counts = []interp.Point[int]
)

// ChannelSpec is shared by every subsystem block. A block without an
// activity signal is fully active; efficiency defaults to 1.
type ChannelSpec struct {
	Activity   Signal  `yaml:"activity"`
	Efficiency float64 `yaml:"efficiency"`
}

// DisplaySpec scripts the panel.
type DisplaySpec struct {
	ChannelSpec `yaml:",inline"`
	Brightness  Signal `yaml:"brightness"`
}

// ProcessorSpec scripts CPU and GPU operating points.
type ProcessorSpec struct {
	ChannelSpec `yaml:",inline"`
	CPUFreqMHz  Signal `yaml:"cpu_freq_mhz"`
	CPULoad     Signal `yaml:"cpu_load"`
	GPUFreqMHz  Signal `yaml:"gpu_freq_mhz"`
	GPULoad     Signal `yaml:"gpu_load"`
}

// CellularSpec scripts the modem. Generation and RSSI are required.
type CellularSpec struct {
	ChannelSpec `yaml:",inline"`
	Generation  Labels `yaml:"generation"`
	RSSI        Signal `yaml:"rssi"`
	Handoff     Signal `yaml:"handoff"`
}

// WiFiSpec scripts the WLAN radio. Mode labels are off, scanning or connected.
type WiFiSpec struct {
	ChannelSpec `yaml:",inline"`
	Mode        Labels `yaml:"mode"`
	Band        Labels `yaml:"band"`
	RSSI        Signal `yaml:"rssi"`
}

// BluetoothSpec scripts the Bluetooth radio. Mode labels are off, ble or classic.
type BluetoothSpec struct {
	ChannelSpec `yaml:",inline"`
	Mode        Labels `yaml:"mode"`
	Class       Counts `yaml:"class"`
	Duty        Signal `yaml:"duty"`
}

// HotspotSpec scripts tethering. State labels are on or off.
type HotspotSpec struct {
	ChannelSpec `yaml:",inline"`
	State       Labels `yaml:"state"`
	Band        Labels `yaml:"band"`
	Devices     Counts `yaml:"devices"`
}

// TraceSpec is the on-disk layout of a waypoint trace. Waypoint times are
// expressed in TimeUnit (hours, minutes or seconds).
type TraceSpec struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description,omitempty"`
	TimeUnit    string         `yaml:"time_unit"`
	Duration    float64        `yaml:"duration"`
	Display     *DisplaySpec   `yaml:"display,omitempty"`
	Processor   *ProcessorSpec `yaml:"processor,omitempty"`
	Cellular    *CellularSpec  `yaml:"cellular,omitempty"`
	WiFi        *WiFiSpec      `yaml:"wifi,omitempty"`
	Bluetooth   *BluetoothSpec `yaml:"bluetooth,omitempty"`
	Hotspot     *HotspotSpec   `yaml:"hotspot,omitempty"`
}

var unitSeconds = map[string]float64{
	"":        3600,
	"hours":   3600,
	"minutes": 60,
	"seconds": 1,
}

// Trace is a compiled waypoint scenario. It implements activity.Profile
// with t in seconds from the trace start.
type Trace struct {
	name        string
	description string
	unit        float64
	duration    float64

	display   *channel[hardware.DisplayState]
	processor *channel[hardware.ProcessorState]
	cellular  *channel[hardware.CellularState]
	wifi      *channel[hardware.WiFiState]
	bluetooth *channel[hardware.BluetoothState]
	hotspot   *channel[hardware.HotspotState]
}

type channel[S any] struct {
	activity   *interp.Numeric
	efficiency float64
	state      func(u float64) S
}

func (c *channel[S]) load(name string, u float64) (activity.Load[S], error) {
	if c == nil {
		return activity.Load[S]{}, nil
	}
	l := activity.Load[S]{State: c.state(u), Activity: c.activity.At(u), Efficiency: c.efficiency}
	return l, l.Check(name)
}

// LoadTrace reads and compiles a YAML trace file.
func LoadTrace(p string) (*Trace, error) {
	b, err := os.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("read trace: %w", err)
	}
	return ParseTrace(b)
}

// ParseTrace decodes and compiles YAML trace data.
func ParseTrace(b []byte) (*Trace, error) {
	var spec TraceSpec
	if err := yaml.Unmarshal(b, &spec); err != nil {
		return nil, fmt.Errorf("%w: parse trace: %v", fault.ErrConfiguration, err)
	}
	return spec.Compile()
}

// BuiltInTraces lists the embedded trace names.
func BuiltInTraces() []string {
	entries, err := traceFS.ReadDir("traces")
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".yaml"))
	}
	sort.Strings(names)
	return names
}

// BuiltInTrace compiles an embedded trace by name.
func BuiltInTrace(name string) (*Trace, error) {
	b, err := traceFS.ReadFile(path.Join("traces", name+".yaml"))
	if err != nil {
		return nil, fault.Configf("unknown trace %q", name)
	}
	return ParseTrace(b)
}

// Compile validates the spec and builds interpolated signals.
func (s TraceSpec) Compile() (*Trace, error) {
	unit, ok := unitSeconds[strings.ToLower(s.TimeUnit)]
	if !ok {
		return nil, fault.Configf("trace %s: unknown time unit %q", s.Name, s.TimeUnit)
	}
	if !(s.Duration > 0) {
		return nil, fault.Configf("trace %s: duration must be positive", s.Name)
	}
	tr := &Trace{name: s.Name, description: s.Description, unit: unit, duration: s.Duration * unit}
	var err error
	if s.Display != nil {
		if tr.display, err = compileDisplay(s.Display); err != nil {
			return nil, wrapTrace(s.Name, "display", err)
		}
	}
	if s.Processor != nil {
		if tr.processor, err = compileProcessor(s.Processor); err != nil {
			return nil, wrapTrace(s.Name, "processor", err)
		}
	}
	if s.Cellular != nil {
		if tr.cellular, err = compileCellular(s.Cellular); err != nil {
			return nil, wrapTrace(s.Name, "cellular", err)
		}
	}
	if s.WiFi != nil {
		if tr.wifi, err = compileWiFi(s.WiFi); err != nil {
			return nil, wrapTrace(s.Name, "wifi", err)
		}
	}
	if s.Bluetooth != nil {
		if tr.bluetooth, err = compileBluetooth(s.Bluetooth); err != nil {
			return nil, wrapTrace(s.Name, "bluetooth", err)
		}
	}
	if s.Hotspot != nil {
		if s.Cellular == nil {
			return nil, fault.Configf("trace %s: hotspot requires cellular", s.Name)
		}
		if tr.hotspot, err = compileHotspot(s.Hotspot); err != nil {
			return nil, wrapTrace(s.Name, "hotspot", err)
		}
	}
	return tr, nil
}

func wrapTrace(name, block string, err error) error {
	return fmt.Errorf("trace %s %s: %w", name, block, err)
}

// Name implements activity.Profile.
func (tr *Trace) Name() string { return tr.name }

// Description returns the free-text trace description.
func (tr *Trace) Description() string { return tr.description }

// DurationSeconds returns the scripted length of the trace.
func (tr *Trace) DurationSeconds() float64 { return tr.duration }

// At implements activity.Profile.
func (tr *Trace) At(t float64) (activity.Snapshot, error) {
	u := t / tr.unit
	var (
		s   activity.Snapshot
		err error
	)
	if s.Display, err = tr.display.load("display", u); err != nil {
		return s, err
	}
	if s.Processor, err = tr.processor.load("processor", u); err != nil {
		return s, err
	}
	if s.Cellular, err = tr.cellular.load("cellular", u); err != nil {
		return s, err
	}
	if s.WiFi, err = tr.wifi.load("wifi", u); err != nil {
		return s, err
	}
	if s.Bluetooth, err = tr.bluetooth.load("bluetooth", u); err != nil {
		return s, err
	}
	if s.Hotspot, err = tr.hotspot.load("hotspot", u); err != nil {
		return s, err
	}
	return s, nil
}

// numeric compiles pts, or a constant def when the signal is absent.
func numeric(name string, pts Signal, def float64) (*interp.Numeric, error) {
	if pts == nil {
		pts = Signal{{T: 0, V: def}}
	}
	n, err := interp.NewNumeric(pts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return n, nil
}

func labels(name string, pts Labels, def string) (*interp.Categorical[string], error) {
	if pts == nil {
		if def == "" {
			return nil, fault.Configf("%s signal is required", name)
		}
		pts = Labels{{T: 0, V: def}}
	}
	c, err := interp.NewCategorical(pts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return c, nil
}

func counts(name string, pts Counts, def int) (*interp.Categorical[int], error) {
	if pts == nil {
		pts = Counts{{T: 0, V: def}}
	}
	c, err := interp.NewCategorical(pts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return c, nil
}

func newChannel[S any](spec ChannelSpec, state func(u float64) S) (*channel[S], error) {
	act, err := numeric("activity", spec.Activity, 1)
	if err != nil {
		return nil, err
	}
	eff := spec.Efficiency
	if eff == 0 {
		eff = 1
	}
	return &channel[S]{activity: act, efficiency: eff, state: state}, nil
}

func compileDisplay(s *DisplaySpec) (*channel[hardware.DisplayState], error) {
	brightness, err := numeric("brightness", s.Brightness, 50)
	if err != nil {
		return nil, err
	}
	return newChannel(s.ChannelSpec, func(u float64) hardware.DisplayState {
		return hardware.DisplayState{Brightness: brightness.At(u)}
	})
}

func compileProcessor(s *ProcessorSpec) (*channel[hardware.ProcessorState], error) {
	var sig [4]*interp.Numeric
	for i, in := range []struct {
		name string
		pts  Signal
	}{
		{"cpu_freq_mhz", s.CPUFreqMHz},
		{"cpu_load", s.CPULoad},
		{"gpu_freq_mhz", s.GPUFreqMHz},
		{"gpu_load", s.GPULoad},
	} {
		n, err := numeric(in.name, in.pts, 0)
		if err != nil {
			return nil, err
		}
		sig[i] = n
	}
	return newChannel(s.ChannelSpec, func(u float64) hardware.ProcessorState {
		return hardware.ProcessorState{
			CPUFreqMHz: sig[0].At(u),
			CPULoad:    sig[1].At(u),
			GPUFreqMHz: sig[2].At(u),
			GPULoad:    sig[3].At(u),
		}
	})
}

func compileCellular(s *CellularSpec) (*channel[hardware.CellularState], error) {
	gen, err := labels("generation", s.Generation, "")
	if err != nil {
		return nil, err
	}
	if s.RSSI == nil {
		return nil, fault.Configf("rssi signal is required")
	}
	rssi, err := numeric("rssi", s.RSSI, 0)
	if err != nil {
		return nil, err
	}
	handoff, err := numeric("handoff", s.Handoff, 0)
	if err != nil {
		return nil, err
	}
	return newChannel(s.ChannelSpec, func(u float64) hardware.CellularState {
		return hardware.CellularState{Generation: gen.At(u), RSSI: rssi.At(u), HandoffRate: handoff.At(u)}
	})
}

func compileWiFi(s *WiFiSpec) (*channel[hardware.WiFiState], error) {
	mode, err := labels("mode", s.Mode, string(hardware.WiFiConnected))
	if err != nil {
		return nil, err
	}
	band, err := labels("band", s.Band, hardware.Band24GHz)
	if err != nil {
		return nil, err
	}
	rssi, err := numeric("rssi", s.RSSI, -65)
	if err != nil {
		return nil, err
	}
	return newChannel(s.ChannelSpec, func(u float64) hardware.WiFiState {
		return hardware.WiFiState{Mode: hardware.WiFiMode(mode.At(u)), Band: band.At(u), RSSI: rssi.At(u)}
	})
}

func compileBluetooth(s *BluetoothSpec) (*channel[hardware.BluetoothState], error) {
	mode, err := labels("mode", s.Mode, string(hardware.BluetoothLE))
	if err != nil {
		return nil, err
	}
	class, err := counts("class", s.Class, 2)
	if err != nil {
		return nil, err
	}
	duty, err := numeric("duty", s.Duty, 0)
	if err != nil {
		return nil, err
	}
	return newChannel(s.ChannelSpec, func(u float64) hardware.BluetoothState {
		return hardware.BluetoothState{Mode: hardware.BluetoothMode(mode.At(u)), Class: class.At(u), Duty: duty.At(u)}
	})
}

func compileHotspot(s *HotspotSpec) (*channel[hardware.HotspotState], error) {
	for _, p := range s.State {
		if p.V != "on" && p.V != "off" {
			return nil, fault.Configf("state label %q is not on or off", p.V)
		}
	}
	state, err := labels("state", s.State, "on")
	if err != nil {
		return nil, err
	}
	band, err := labels("band", s.Band, hardware.Band24GHz)
	if err != nil {
		return nil, err
	}
	devices, err := counts("devices", s.Devices, 1)
	if err != nil {
		return nil, err
	}
	return newChannel(s.ChannelSpec, func(u float64) hardware.HotspotState {
		return hardware.HotspotState{Active: state.At(u) == "on", Band: band.At(u), Devices: devices.At(u)}
	})
}
