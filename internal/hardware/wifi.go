package hardware

import (
	"math"
	"strings"

	"phonedrain-sim/internal/config"
	"phonedrain-sim/internal/fault"
)

// WiFiMode is the WLAN radio state.
type WiFiMode string

// Wi-Fi radio states.
const (
	WiFiOff       WiFiMode = "off"
	WiFiScanning  WiFiMode = "scanning"
	WiFiConnected WiFiMode = "connected"
)

// WiFiState is the WLAN operating point.
type WiFiState struct {
	Mode WiFiMode
	Band string
	RSSI float64
}

// WiFi models WLAN current.
type WiFi struct {
	cfg config.WiFi
}

// NewWiFi builds a WiFi model.
func NewWiFi(cfg *config.Config) *WiFi {
	return &WiFi{cfg: cfg.WiFi}
}

// Current returns 0 when off, the scan peak while scanning, otherwise
// sleep + k_band·exp(−β·(RSSI − floor)). The exponential term equals k_band at
// the floor and keeps growing below it.
func (w *WiFi) Current(st WiFiState) (float64, error) {
	switch st.Mode {
	case WiFiOff, "":
		return 0, nil
	case WiFiScanning:
		return checked("wifi", w.cfg.ScanPeakMA)
	case WiFiConnected:
	default:
		return 0, fault.Configf("wifi mode %q unknown", st.Mode)
	}
	k, err := bandCoefficient(st.Band, w.cfg.K24GHz, w.cfg.K5GHz)
	if err != nil {
		return 0, err
	}
	if err := checkRSSI(st.RSSI); err != nil {
		return 0, err
	}
	return checked("wifi", w.cfg.SleepMA+k*math.Exp(-w.cfg.Beta*(st.RSSI-w.cfg.RSSIFloor)))
}

func bandCoefficient(band string, k24, k5 float64) (float64, error) {
	switch strings.ToLower(band) {
	case Band24GHz, "":
		return k24, nil
	case Band5GHz:
		return k5, nil
	default:
		return 0, fault.Configf("radio band %q unknown", band)
	}
}
