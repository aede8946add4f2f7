// Package hardware holds the per-component current models. Every model is
// built once from the device configuration and is safe for concurrent use.
package hardware

import (
	"math"

	"phonedrain-sim/internal/config"
	"phonedrain-sim/internal/fault"
)

// Radio bands shared by the Wi-Fi and hotspot models.
const (
	Band24GHz = "2.4ghz"
	Band5GHz  = "5ghz"
)

// checked rejects negative or non-finite model output.
func checked(model string, ma float64) (float64, error) {
	if math.IsNaN(ma) || math.IsInf(ma, 0) {
		return 0, fault.Computationf("%s current is not finite", model)
	}
	if ma < 0 {
		return 0, fault.Computationf("%s current %.4f mA is negative", model, ma)
	}
	return ma, nil
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

func unitRange(name string, v float64) error {
	if !finite(v) || v < 0 || v > 1 {
		return fault.Domainf("%s %g outside [0,1]", name, v)
	}
	return nil
}

func nonNegative(name string, v float64) error {
	if !finite(v) || v < 0 {
		return fault.Domainf("%s %g is negative", name, v)
	}
	return nil
}

// Device bundles every contributor model for one configuration.
type Device struct {
	Display   *Display
	Processor *Processor
	Memory    *Memory
	Storage   *Storage
	Sensors   *Sensors
	Cellular  *Cellular
	WiFi      *WiFi
	Bluetooth *Bluetooth
	Hotspot   *Hotspot

	cfg *config.Config
}

// NewDevice builds all models from cfg.
func NewDevice(cfg *config.Config) (*Device, error) {
	if cfg == nil {
		return nil, fault.Configf("device configuration is nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cell, err := NewCellular(cfg)
	if err != nil {
		return nil, err
	}
	return &Device{
		Display:   NewDisplay(cfg),
		Processor: NewProcessor(cfg),
		Memory:    NewMemory(cfg),
		Storage:   NewStorage(cfg),
		Sensors:   NewSensors(cfg),
		Cellular:  cell,
		WiFi:      NewWiFi(cfg),
		Bluetooth: NewBluetooth(cfg),
		Hotspot:   NewHotspot(cfg),
		cfg:       cfg,
	}, nil
}

// Config returns the configuration the device was built from.
func (d *Device) Config() *config.Config { return d.cfg }
