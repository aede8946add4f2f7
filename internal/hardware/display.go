package hardware

import (
	"phonedrain-sim/internal/config"
	"phonedrain-sim/internal/fault"
)

// Pixel is the average rendered colour of the frame, 0-255 per channel.
type Pixel struct {
	R, G, B float64
}

// DisplayState is the panel operating point. Brightness is in percent.
// Pixel is only used by the pixel variant; nil selects the configured
// average frame colour.
type DisplayState struct {
	Brightness float64
	Pixel      *Pixel
}

// Display models panel current.
type Display struct {
	cfg     config.Display
	voltage float64
}

// NewDisplay builds a Display model.
func NewDisplay(cfg *config.Config) *Display {
	return &Display{cfg: cfg.Display, voltage: cfg.System.VoltageV}
}

// Current returns the panel current in mA.
func (d *Display) Current(st DisplayState) (float64, error) {
	if !finite(st.Brightness) || st.Brightness < 0 || st.Brightness > 100 {
		return 0, fault.Domainf("brightness %g%% outside [0,100]", st.Brightness)
	}
	var mw float64
	switch d.cfg.Variant {
	case config.DisplayPixel:
		px := Pixel{R: d.cfg.AvgR, G: d.cfg.AvgG, B: d.cfg.AvgB}
		if st.Pixel != nil {
			px = *st.Pixel
		}
		for _, ch := range []float64{px.R, px.G, px.B} {
			if !finite(ch) || ch < 0 || ch > 255 {
				return 0, fault.Domainf("pixel channel %g outside [0,255]", ch)
			}
		}
		weighted := d.cfg.BetaR*px.R + d.cfg.BetaG*px.G + d.cfg.BetaB*px.B
		mw = d.cfg.BasePowerMW + st.Brightness/100*weighted
	default:
		mw = d.cfg.BasePowerMW + d.cfg.BrightnessCoeffMW*st.Brightness
	}
	return checked("display", mw/d.voltage)
}
