package scenario

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"phonedrain-sim/internal/fault"
	"phonedrain-sim/internal/hardware"
)

func TestSegmentAtHalfOpenWindows(t *testing.T) {
	j := Journey{ID: "j", Segments: []Segment{{"a", 60}, {"b", 60}, {"c", 120}}}
	cases := []struct {
		minutes float64
		idx     int
		start   float64
		ok      bool
	}{
		{0, 0, 0, true},
		{59, 0, 0, true},
		{60, 1, 60, true},
		{119.9, 1, 60, true},
		{120, 2, 120, true},
		{239, 2, 120, true},
		{240, -1, 240, false},
		{241, -1, 240, false},
	}
	for _, tc := range cases {
		idx, start, ok := j.SegmentAt(tc.minutes)
		if idx != tc.idx || ok != tc.ok || start != tc.start {
			t.Fatalf("SegmentAt(%g) = (%d, %g, %v), want (%d, %g, %v)", tc.minutes, idx, start, ok, tc.idx, tc.start, tc.ok)
		}
	}
	if j.TotalMinutes() != 240 {
		t.Fatalf("unexpected total %g", j.TotalMinutes())
	}
}

func TestLoadJourneys(t *testing.T) {
	js, err := Load("testdata/journeys.yaml")
	if err != nil {
		t.Fatalf("load journeys: %v", err)
	}
	if len(js) != 2 {
		t.Fatalf("expected 2 journeys, got %d", len(js))
	}
	if js[0].Name != "Lunch Break" || js[0].Segments[1].App != "video" || js[0].Segments[1].Minutes != 40 {
		t.Fatalf("unexpected journey %+v", js[0])
	}
}

func TestLoadJourneysRejectsZeroDuration(t *testing.T) {
	_, err := Load("testdata/bad_journey.yaml")
	if !errors.Is(err, fault.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestBuiltInJourneys(t *testing.T) {
	journeys := BuiltIn()
	if len(journeys) != len(BuiltInOrder) {
		t.Fatalf("order lists %d journeys, have %d", len(BuiltInOrder), len(journeys))
	}
	for _, id := range BuiltInOrder {
		j, ok := journeys[id]
		if !ok {
			t.Fatalf("journey %s not found", id)
		}
		if err := j.Validate(); err != nil {
			t.Fatalf("journey %s invalid: %v", id, err)
		}
		if j.TotalMinutes() != 240 {
			t.Fatalf("journey %s lasts %g minutes, want 240", id, j.TotalMinutes())
		}
	}
}

func TestTraceFromFile(t *testing.T) {
	tr, err := LoadTrace("testdata/trace.yaml")
	require.NoError(t, err)
	assert.Equal(t, "bench", tr.Name())
	assert.Equal(t, 600.0, tr.DurationSeconds())

	s, err := tr.At(150)
	require.NoError(t, err)
	assert.InDelta(t, 25, s.Display.State.Brightness, 1e-9)
	assert.Equal(t, 1.0, s.Display.Activity)
	assert.Equal(t, 1.2, s.Display.Efficiency)
	assert.Equal(t, "4g", s.Cellular.State.Generation)
	assert.InDelta(t, -70, s.Cellular.State.RSSI, 1e-9)
	assert.InDelta(t, 0.75, s.Cellular.Activity, 1e-9)
	assert.Zero(t, s.WiFi.Activity)

	late, err := tr.At(480)
	require.NoError(t, err)
	assert.Equal(t, "3g", late.Cellular.State.Generation)
	assert.Equal(t, 0.5, late.Cellular.Activity)
}

func TestBuiltInTraces(t *testing.T) {
	names := BuiltInTraces()
	assert.Equal(t, []string{"commute", "tether"}, names)
	for _, n := range names {
		tr, err := BuiltInTrace(n)
		require.NoError(t, err, n)
		assert.Equal(t, 5*3600.0, tr.DurationSeconds())
	}

	tr, err := BuiltInTrace("commute")
	require.NoError(t, err)
	tunnel, err := tr.At(2 * 3600)
	require.NoError(t, err)
	assert.Equal(t, "2g", tunnel.Cellular.State.Generation)
	assert.Equal(t, -100.0, tunnel.Cellular.State.RSSI)
	assert.Equal(t, hardware.BluetoothLE, tunnel.Bluetooth.State.Mode)
	assert.Equal(t, hardware.WiFiConnected, tunnel.WiFi.State.Mode)

	home, err := tr.At(600)
	require.NoError(t, err)
	assert.Equal(t, hardware.WiFiOff, home.WiFi.State.Mode)

	_, err = BuiltInTrace("marathon")
	require.ErrorIs(t, err, fault.ErrConfiguration)
}

func TestTraceValidation(t *testing.T) {
	cases := map[string]string{
		"no duration":    "name: x\ncellular:\n  generation: [[0, 4g]]\n  rssi: [[0, -70]]\n",
		"bad unit":       "name: x\ntime_unit: days\nduration: 1\n",
		"no generation":  "name: x\nduration: 1\ncellular:\n  rssi: [[0, -70]]\n",
		"empty rssi":     "name: x\nduration: 1\ncellular:\n  generation: [[0, 4g]]\n  rssi: []\n",
		"unordered":      "name: x\nduration: 1\ndisplay:\n  brightness: [[1, 10], [0, 20]]\n",
		"hotspot labels": "name: x\nduration: 1\nhotspot:\n  state: [[0, maybe]]\n",
	}
	for name, src := range cases {
		_, err := ParseTrace([]byte(src))
		if !errors.Is(err, fault.ErrConfiguration) {
			t.Fatalf("%s: expected configuration error, got %v", name, err)
		}
	}
}

func TestTraceHotspotRequiresCellular(t *testing.T) {
	src := "name: tether\nduration: 1\nhotspot:\n  state: [[0, \"on\"]]\n  band: [[0, 2.4ghz]]\n  devices: [[0, 1]]\n"
	_, err := ParseTrace([]byte(src))
	if !errors.Is(err, fault.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	if !strings.Contains(err.Error(), "hotspot requires cellular") {
		t.Fatalf("unexpected message: %v", err)
	}

	withCell := src + "cellular:\n  generation: [[0, 4g]]\n  rssi: [[0, -70]]\n"
	if _, err := ParseTrace([]byte(withCell)); err != nil {
		t.Fatalf("hotspot with cellular: %v", err)
	}
}
