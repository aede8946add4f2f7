package activity

import (
	"math"

	"phonedrain-sim/internal/fault"
	"phonedrain-sim/internal/hardware"
)

// Load is one subsystem's demand at an instant: the operating point, the
// fraction of time the subsystem is busy and a multiplier of at least one
// for protocol or rendering overhead.
type Load[S any] struct {
	State      S
	Activity   float64
	Efficiency float64
}

// Weight returns Activity·Efficiency.
func (l Load[S]) Weight() float64 { return l.Activity * l.Efficiency }

// Check reports a domain error when activity leaves [0,1] or a busy
// subsystem has an efficiency below one.
func (l Load[S]) Check(name string) error {
	if math.IsNaN(l.Activity) || l.Activity < 0 || l.Activity > 1 {
		return fault.Domainf("%s activity %g outside [0,1]", name, l.Activity)
	}
	if l.Activity > 0 && !(l.Efficiency >= 1) {
		return fault.Domainf("%s efficiency %g below 1", name, l.Efficiency)
	}
	return nil
}

// Snapshot holds the demand on every subsystem at one instant. Subsystems
// with zero activity are not evaluated.
type Snapshot struct {
	Display   Load[hardware.DisplayState]
	Processor Load[hardware.ProcessorState]
	Memory    Load[hardware.MemoryState]
	Storage   Load[hardware.StorageState]
	Sensors   Load[hardware.SensorState]
	Cellular  Load[hardware.CellularState]
	WiFi      Load[hardware.WiFiState]
	Bluetooth Load[hardware.BluetoothState]
	Hotspot   Load[hardware.HotspotState]
}

// Profile is a named behaviour evaluated at app-local time in seconds.
type Profile interface {
	Name() string
	At(t float64) (Snapshot, error)
}

// Channel binds a fixed operating point to an activity schedule.
type Channel[S any] struct {
	State      S
	Activity   Schedule
	Efficiency float64
}

// load evaluates the channel at t. A nil schedule means idle.
func (c Channel[S]) load(name string, t float64) (Load[S], error) {
	if c.Activity == nil {
		return Load[S]{State: c.State}, nil
	}
	l := Load[S]{State: c.State, Activity: c.Activity.At(t), Efficiency: c.Efficiency}
	return l, l.Check(name)
}

// App is a profile assembled from per-subsystem channels.
type App struct {
	ID          string
	Description string

	Display   Channel[hardware.DisplayState]
	Processor Channel[hardware.ProcessorState]
	Memory    Channel[hardware.MemoryState]
	Storage   Channel[hardware.StorageState]
	Sensors   Channel[hardware.SensorState]
	Cellular  Channel[hardware.CellularState]
	WiFi      Channel[hardware.WiFiState]
	Bluetooth Channel[hardware.BluetoothState]
	Hotspot   Channel[hardware.HotspotState]
}

// Name implements Profile.
func (a *App) Name() string { return a.ID }

// At implements Profile.
func (a *App) At(t float64) (Snapshot, error) {
	var (
		s   Snapshot
		err error
	)
	if s.Display, err = a.Display.load("display", t); err != nil {
		return s, err
	}
	if s.Processor, err = a.Processor.load("processor", t); err != nil {
		return s, err
	}
	if s.Memory, err = a.Memory.load("memory", t); err != nil {
		return s, err
	}
	if s.Storage, err = a.Storage.load("storage", t); err != nil {
		return s, err
	}
	if s.Sensors, err = a.Sensors.load("sensors", t); err != nil {
		return s, err
	}
	if s.Cellular, err = a.Cellular.load("cellular", t); err != nil {
		return s, err
	}
	if s.WiFi, err = a.WiFi.load("wifi", t); err != nil {
		return s, err
	}
	if s.Bluetooth, err = a.Bluetooth.load("bluetooth", t); err != nil {
		return s, err
	}
	if s.Hotspot, err = a.Hotspot.load("hotspot", t); err != nil {
		return s, err
	}
	return s, nil
}
