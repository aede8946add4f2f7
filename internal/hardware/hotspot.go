package hardware

import "phonedrain-sim/internal/config"

// HotspotState is the tethering operating point.
type HotspotState struct {
	Active  bool
	Band    string
	Devices int
}

// Hotspot models tethering current. The modem share is supplied by the
// caller so the cellular model is evaluated once per step.
type Hotspot struct {
	cfg config.Hotspot
}

// NewHotspot builds a Hotspot model.
func NewHotspot(cfg *config.Config) *Hotspot {
	return &Hotspot{cfg: cfg.Hotspot}
}

// Current returns 0 when inactive, otherwise
// cellular + ap_static + k_band·(1 + coeff·N).
func (h *Hotspot) Current(st HotspotState, cellularMA float64) (float64, error) {
	if !st.Active {
		return 0, nil
	}
	if st.Devices < 0 {
		return 0, nonNegative("hotspot devices", float64(st.Devices))
	}
	if err := nonNegative("cellular current", cellularMA); err != nil {
		return 0, err
	}
	k, err := bandCoefficient(st.Band, h.cfg.K24GHz, h.cfg.K5GHz)
	if err != nil {
		return 0, err
	}
	dynamic := k * (1 + h.cfg.DeviceCoeff*float64(st.Devices))
	return checked("hotspot", cellularMA+h.cfg.APStaticMA+dynamic)
}
