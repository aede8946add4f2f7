package hardware

import (
	"math"
	"strings"

	"phonedrain-sim/internal/config"
	"phonedrain-sim/internal/fault"
)

// Received signal strength bounds accepted by the radio models, in dBm.
const (
	MinRSSI = -140.0
	MaxRSSI = 0.0
)

// CellularState is the modem operating point. Generation is a key of the
// configured static table such as "4g". HandoffRate is cell changes per unit
// time.
type CellularState struct {
	Generation  string
	RSSI        float64
	HandoffRate float64
}

// Compensation maps RSSI to the extra transmit current spent fighting a weak
// signal. Implementations strictly decrease as RSSI improves on
// [MinRSSI, Ceiling()].
type Compensation interface {
	Current(rssi float64) float64
	Ceiling() float64
}

// ExponentialCompensation is k·exp(−α·RSSI).
type ExponentialCompensation struct {
	K     float64
	Alpha float64
}

// Current implements Compensation.
func (c ExponentialCompensation) Current(rssi float64) float64 {
	return c.K * math.Exp(-c.Alpha*rssi)
}

// Ceiling implements Compensation.
func (c ExponentialCompensation) Ceiling() float64 { return MaxRSSI }

// LinearCompensation is k·(ref − RSSI). RSSI above ref is outside its domain.
type LinearCompensation struct {
	K   float64
	Ref float64
}

// Current implements Compensation.
func (c LinearCompensation) Current(rssi float64) float64 {
	return c.K * (c.Ref - rssi)
}

// Ceiling implements Compensation.
func (c LinearCompensation) Ceiling() float64 { return math.Min(c.Ref, MaxRSSI) }

// Cellular models modem current.
type Cellular struct {
	static   map[string]float64
	comp     Compensation
	kHandoff float64
}

// NewCellular builds a Cellular model with the configured compensation.
func NewCellular(cfg *config.Config) (*Cellular, error) {
	c := cfg.Cellular
	var comp Compensation
	switch c.Compensation {
	case config.CompensationExponential:
		comp = ExponentialCompensation{K: c.KRSSI, Alpha: c.Alpha}
	case config.CompensationLinear:
		comp = LinearCompensation{K: c.KLinear, Ref: c.RefRSSI}
	default:
		return nil, fault.Configf("cellular compensation %q unknown", c.Compensation)
	}
	static := make(map[string]float64, len(c.StaticMA))
	for k, v := range c.StaticMA {
		static[strings.ToLower(k)] = v
	}
	return &Cellular{static: static, comp: comp, kHandoff: c.KHandoff}, nil
}

// Current returns static + compensation + k_handoff·handoff in mA.
func (c *Cellular) Current(st CellularState) (float64, error) {
	static, ok := c.static[strings.ToLower(st.Generation)]
	if !ok {
		return 0, fault.Configf("network generation %q not configured", st.Generation)
	}
	if err := checkRSSI(st.RSSI); err != nil {
		return 0, err
	}
	if ceil := c.comp.Ceiling(); st.RSSI > ceil {
		return 0, fault.Domainf("rssi %g dBm above compensation reference %g dBm", st.RSSI, ceil)
	}
	if err := nonNegative("handoff rate", st.HandoffRate); err != nil {
		return 0, err
	}
	return checked("cellular", static+c.comp.Current(st.RSSI)+c.kHandoff*st.HandoffRate)
}

func checkRSSI(rssi float64) error {
	if !finite(rssi) || rssi < MinRSSI || rssi > MaxRSSI {
		return fault.Domainf("rssi %g dBm outside [%g,%g]", rssi, MinRSSI, MaxRSSI)
	}
	return nil
}
