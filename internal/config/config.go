// Device configuration loader with CUE validation integration
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"phonedrain-sim/internal/fault"
)

//go:embed default.yaml
var defaultYAML []byte

// Display model variants.
const (
	DisplayLinear = "linear"
	DisplayPixel  = "pixel"
)

// Cellular signal compensation variants.
const (
	CompensationExponential = "exponential"
	CompensationLinear      = "linear"
)

// Processor clusters.
const (
	ClusterBig    = "big"
	ClusterLittle = "little"
)

// System holds battery and conversion constants.
type System struct {
	VoltageV    float64 `yaml:"voltage_v"`
	CapacityMAh float64 `yaml:"capacity_mah"`
	Efficiency  float64 `yaml:"efficiency"`
}

// Display parameterises both display variants.
type Display struct {
	Variant           string  `yaml:"variant"`
	BasePowerMW       float64 `yaml:"base_power_mw"`
	BrightnessCoeffMW float64 `yaml:"brightness_coeff_mw"`
	BetaR             float64 `yaml:"beta_r"`
	BetaG             float64 `yaml:"beta_g"`
	BetaB             float64 `yaml:"beta_b"`
	AvgR              float64 `yaml:"avg_r"`
	AvgG              float64 `yaml:"avg_g"`
	AvgB              float64 `yaml:"avg_b"`
}

// Cluster holds the quadratic frequency coefficients of a compute unit.
type Cluster struct {
	A float64 `yaml:"a"`
	B float64 `yaml:"b"`
	C float64 `yaml:"c"`
}

// GPU extends Cluster with a frequency ceiling.
type GPU struct {
	Cluster    `yaml:",inline"`
	FreqMaxMHz float64 `yaml:"freq_max_mhz"`
}

// Processor selects a CPU cluster and carries the GPU coefficients.
type Processor struct {
	Cluster string  `yaml:"cluster"`
	Big     Cluster `yaml:"big"`
	Little  Cluster `yaml:"little"`
	GPU     GPU     `yaml:"gpu"`
}

// CPU returns the coefficients of the selected cluster.
func (p Processor) CPU() Cluster {
	if p.Cluster == ClusterLittle {
		return p.Little
	}
	return p.Big
}

// Memory holds DRAM coefficients.
type Memory struct {
	StaticMA   float64 `yaml:"static_ma"`
	DeltaRead  float64 `yaml:"delta_read"`
	DeltaWrite float64 `yaml:"delta_write"`
}

// Storage holds flash storage currents.
type Storage struct {
	IdleMA      float64 `yaml:"idle_ma"`
	ActiveMA    float64 `yaml:"active_ma"`
	PeakBurstMA float64 `yaml:"peak_burst_ma"`
}

// Sensors maps sensor modes to currents. Every table must carry "off".
type Sensors struct {
	GPS    map[string]float64 `yaml:"gps"`
	Camera map[string]float64 `yaml:"camera"`
	IMU    map[string]float64 `yaml:"imu"`
}

// Cellular holds radio coefficients for both compensation variants.
type Cellular struct {
	Compensation string             `yaml:"compensation"`
	StaticMA     map[string]float64 `yaml:"static_ma"`
	KRSSI        float64            `yaml:"k_rssi"`
	Alpha        float64            `yaml:"alpha"`
	KLinear      float64            `yaml:"k_linear"`
	RefRSSI      float64            `yaml:"ref_rssi"`
	KHandoff     float64            `yaml:"k_handoff"`
}

// WiFi holds WLAN coefficients.
type WiFi struct {
	ScanPeakMA float64 `yaml:"scan_peak_ma"`
	SleepMA    float64 `yaml:"sleep_ma"`
	K24GHz     float64 `yaml:"k_24ghz"`
	K5GHz      float64 `yaml:"k_5ghz"`
	Beta       float64 `yaml:"beta"`
	RSSIFloor  float64 `yaml:"rssi_floor"`
}

// Bluetooth holds BLE and classic currents. ClassicIdleMA is indexed by
// power class minus one.
type Bluetooth struct {
	BLEIdleMA     float64   `yaml:"ble_idle_ma"`
	BLETxMA       float64   `yaml:"ble_tx_ma"`
	ClassicIdleMA []float64 `yaml:"classic_idle_ma"`
	ClassicTxMA   float64   `yaml:"classic_tx_ma"`
}

// Hotspot holds access point coefficients.
type Hotspot struct {
	APStaticMA  float64 `yaml:"ap_static_ma"`
	K24GHz      float64 `yaml:"k_24ghz"`
	K5GHz       float64 `yaml:"k_5ghz"`
	DeviceCoeff float64 `yaml:"device_coeff"`
}

// Config is the root device configuration. It is read-only once loaded.
type Config struct {
	Name      string    `yaml:"name"`
	System    System    `yaml:"system"`
	Display   Display   `yaml:"display"`
	Processor Processor `yaml:"processor"`
	Memory    Memory    `yaml:"memory"`
	Storage   Storage   `yaml:"storage"`
	Sensors   Sensors   `yaml:"sensors"`
	Cellular  Cellular  `yaml:"cellular"`
	WiFi      WiFi      `yaml:"wifi"`
	Bluetooth Bluetooth `yaml:"bluetooth"`
	Hotspot   Hotspot   `yaml:"hotspot"`
}

// Load reads a YAML device file, validates it against the CUE schema and
// decodes it. An empty schemaPath selects the embedded schema.
func Load(configPath, cueSchemaPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("%w: read device config: %v", fault.ErrConfiguration, err)
	}
	schema := deviceSchema
	if cueSchemaPath != "" {
		schema, err = os.ReadFile(cueSchemaPath)
		if err != nil {
			return nil, fmt.Errorf("%w: read CUE schema: %v", fault.ErrConfiguration, err)
		}
	}
	return Parse(data, schema)
}

// Default returns the built-in device configuration.
func Default() (*Config, error) {
	return Parse(defaultYAML, deviceSchema)
}

// Parse validates data against schema and decodes it into a Config.
func Parse(data, schema []byte) (*Config, error) {
	if err := ValidateWithCue(data, schema); err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: parse device config: %v", fault.ErrConfiguration, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate enforces the cross-field rules the schema cannot express.
func (c *Config) Validate() error {
	if c.System.VoltageV <= 0 {
		return fault.Configf("system.voltage_v must be positive, got %g", c.System.VoltageV)
	}
	if c.System.CapacityMAh <= 0 {
		return fault.Configf("system.capacity_mah must be positive, got %g", c.System.CapacityMAh)
	}
	if c.System.Efficiency <= 0 || c.System.Efficiency > 1 {
		return fault.Configf("system.efficiency must be in (0,1], got %g", c.System.Efficiency)
	}
	switch c.Display.Variant {
	case DisplayLinear, DisplayPixel:
	default:
		return fault.Configf("display.variant %q unknown", c.Display.Variant)
	}
	switch c.Processor.Cluster {
	case ClusterBig, ClusterLittle:
	default:
		return fault.Configf("processor.cluster %q unknown", c.Processor.Cluster)
	}
	if c.Processor.GPU.FreqMaxMHz <= 0 {
		return fault.Configf("processor.gpu.freq_max_mhz must be positive")
	}
	for name, table := range map[string]map[string]float64{
		"gps":    c.Sensors.GPS,
		"camera": c.Sensors.Camera,
		"imu":    c.Sensors.IMU,
	} {
		if _, ok := table["off"]; !ok {
			return fault.Configf("sensors.%s has no \"off\" entry", name)
		}
	}
	switch c.Cellular.Compensation {
	case CompensationExponential, CompensationLinear:
	default:
		return fault.Configf("cellular.compensation %q unknown", c.Cellular.Compensation)
	}
	if len(c.Cellular.StaticMA) == 0 {
		return fault.Configf("cellular.static_ma is empty")
	}
	if len(c.Bluetooth.ClassicIdleMA) == 0 {
		return fault.Configf("bluetooth.classic_idle_ma is empty")
	}
	return nil
}
