package hardware

import (
	"phonedrain-sim/internal/config"
	"phonedrain-sim/internal/fault"
)

// BluetoothMode selects the radio flavour.
type BluetoothMode string

// Bluetooth radio modes.
const (
	BluetoothOff     BluetoothMode = "off"
	BluetoothLE      BluetoothMode = "ble"
	BluetoothClassic BluetoothMode = "classic"
)

// BluetoothState is the Bluetooth operating point. Class is the classic
// power class (1-3) and is ignored for BLE.
type BluetoothState struct {
	Mode  BluetoothMode
	Class int
	Duty  float64
}

// Bluetooth models Bluetooth current.
type Bluetooth struct {
	cfg config.Bluetooth
}

// NewBluetooth builds a Bluetooth model.
func NewBluetooth(cfg *config.Config) *Bluetooth {
	return &Bluetooth{cfg: cfg.Bluetooth}
}

// Current returns idle + duty·(tx − idle) in mA.
func (b *Bluetooth) Current(st BluetoothState) (float64, error) {
	var idle, tx float64
	switch st.Mode {
	case BluetoothOff, "":
		return 0, nil
	case BluetoothLE:
		idle, tx = b.cfg.BLEIdleMA, b.cfg.BLETxMA
	case BluetoothClassic:
		if st.Class < 1 || st.Class > len(b.cfg.ClassicIdleMA) {
			return 0, fault.Configf("bluetooth class %d not configured", st.Class)
		}
		idle, tx = b.cfg.ClassicIdleMA[st.Class-1], b.cfg.ClassicTxMA
	default:
		return 0, fault.Configf("bluetooth mode %q unknown", st.Mode)
	}
	if err := unitRange("bluetooth duty cycle", st.Duty); err != nil {
		return 0, err
	}
	return checked("bluetooth", idle+st.Duty*(tx-idle))
}
