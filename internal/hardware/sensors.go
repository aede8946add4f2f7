package hardware

import (
	"phonedrain-sim/internal/config"
	"phonedrain-sim/internal/fault"
)

// Sensor modes understood by the default tables. Any key present in the
// configuration is accepted.
const (
	ModeOff = "off"

	GPSSearch = "search"
	GPSTrack  = "track"

	CameraPreview = "preview"
	CameraVideo   = "video"

	IMUHigh = "high"
)

// SensorState selects a mode per sensor. Empty means off.
type SensorState struct {
	GPS    string
	Camera string
	IMU    string
}

// Sensors models GPS, camera and IMU current by table lookup.
type Sensors struct {
	cfg config.Sensors
	eta float64
}

// NewSensors builds a Sensors model.
func NewSensors(cfg *config.Config) *Sensors {
	return &Sensors{cfg: cfg.Sensors, eta: cfg.System.Efficiency}
}

// Current returns (gps + camera + imu) / η in mA.
func (s *Sensors) Current(st SensorState) (float64, error) {
	var sum float64
	for _, lk := range []struct {
		name  string
		mode  string
		table map[string]float64
	}{
		{"gps", st.GPS, s.cfg.GPS},
		{"camera", st.Camera, s.cfg.Camera},
		{"imu", st.IMU, s.cfg.IMU},
	} {
		mode := lk.mode
		if mode == "" {
			mode = ModeOff
		}
		ma, ok := lk.table[mode]
		if !ok {
			return 0, fault.Configf("%s mode %q not configured", lk.name, mode)
		}
		sum += ma
	}
	return checked("sensors", sum/s.eta)
}
