package config

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"phonedrain-sim/internal/fault"
)

func TestDefaultConfig(t *testing.T) {
	cfg, err := Default()
	require.NoError(t, err)
	assert.Equal(t, 3.7, cfg.System.VoltageV)
	assert.Equal(t, 3700.0, cfg.System.CapacityMAh)
	assert.Equal(t, 0.85, cfg.System.Efficiency)
	assert.Equal(t, DisplayLinear, cfg.Display.Variant)
	assert.Equal(t, CompensationExponential, cfg.Cellular.Compensation)
	assert.Equal(t, 70.0, cfg.Cellular.StaticMA["4g"])
	assert.Equal(t, []float64{30, 8, 2}, cfg.Bluetooth.ClassicIdleMA)
	assert.Equal(t, 675.0, cfg.Processor.GPU.FreqMaxMHz)
	assert.Equal(t, 15.0, cfg.Processor.GPU.C)
	assert.Equal(t, cfg.Processor.Big, cfg.Processor.CPU())
}

func TestLoadConfig_Valid(t *testing.T) {
	cfg, err := Load("testdata/device.yaml", "device.cue")
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if cfg.Name != "reference-handset" {
		t.Errorf("unexpected name %q", cfg.Name)
	}
	if cfg.Sensors.GPS["track"] != 60 {
		t.Errorf("unexpected gps table: %+v", cfg.Sensors.GPS)
	}
}

func TestLoadConfig_AlternativeVariants(t *testing.T) {
	cfg, err := Load("testdata/alt_variants.yaml", "")
	require.NoError(t, err)
	assert.Equal(t, DisplayPixel, cfg.Display.Variant)
	assert.Equal(t, CompensationLinear, cfg.Cellular.Compensation)
	assert.Equal(t, cfg.Processor.Little, cfg.Processor.CPU())
}

func TestLoadConfig_SchemaRejects(t *testing.T) {
	for _, path := range []string{"testdata/bad_efficiency.yaml", "testdata/bad_variant.yaml"} {
		_, err := Load(path, "")
		if err == nil {
			t.Fatalf("%s: expected validation error", path)
		}
		if !errors.Is(err, fault.ErrConfiguration) {
			t.Fatalf("%s: expected configuration error, got %v", path, err)
		}
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := Load("testdata/nope.yaml", "")
	require.ErrorIs(t, err, fault.ErrConfiguration)
}

func TestValidateCrossField(t *testing.T) {
	base, err := Default()
	require.NoError(t, err)

	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero capacity", func(c *Config) { c.System.CapacityMAh = 0 }},
		{"efficiency above one", func(c *Config) { c.System.Efficiency = 1.2 }},
		{"unknown display", func(c *Config) { c.Display.Variant = "oled" }},
		{"unknown cluster", func(c *Config) { c.Processor.Cluster = "medium" }},
		{"gps without off", func(c *Config) { c.Sensors.GPS = map[string]float64{"track": 60} }},
		{"no classic idle", func(c *Config) { c.Bluetooth.ClassicIdleMA = nil }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := *base
			cfg.Sensors.GPS = map[string]float64{"off": 0, "track": 60}
			tc.mutate(&cfg)
			err := cfg.Validate()
			require.ErrorIs(t, err, fault.ErrConfiguration)
		})
	}
}
