package activity

import (
	"phonedrain-sim/internal/fault"
	"phonedrain-sim/internal/hardware"
)

// Built-in application profile IDs.
const (
	VideoStream = "video"
	SocialMedia = "social"
	Navigation  = "navigation"
	WebBrowser  = "browser"
	Music       = "music"
)

var appIDs = []string{VideoStream, SocialMedia, Navigation, WebBrowser, Music}

// IDs lists the built-in profiles in report order.
func IDs() []string {
	return append([]string(nil), appIDs...)
}

// New returns a fresh built-in profile. rng feeds the stochastic browser
// network schedule and may be nil for the other profiles.
func New(id string, rng Source) (*App, error) {
	switch id {
	case VideoStream:
		return videoStream(), nil
	case SocialMedia:
		return socialMedia(), nil
	case Navigation:
		return navigation(), nil
	case WebBrowser:
		if rng == nil {
			return nil, fault.Configf("profile %q needs a random source", id)
		}
		return webBrowser(rng), nil
	case Music:
		return music(), nil
	default:
		return nil, fault.Configf("unknown profile %q", id)
	}
}

func lte(rssi float64) hardware.CellularState {
	return hardware.CellularState{Generation: "4g", RSSI: rssi, HandoffRate: 1}
}

func videoStream() *App {
	screen := Periodic{Period: 600, On: 590, High: 1}
	cpu := Coupled{Source: screen, Gain: 0.7, Offset: 0.1}
	return &App{
		ID:          VideoStream,
		Description: "Video Streaming",
		Display:     Channel[hardware.DisplayState]{State: hardware.DisplayState{Brightness: 80}, Activity: screen, Efficiency: 1.3},
		Processor: Channel[hardware.ProcessorState]{
			State:    hardware.ProcessorState{CPUFreqMHz: 1800, CPULoad: 0.6, GPUFreqMHz: 500, GPULoad: 0.4},
			Activity: cpu, Efficiency: 1.3,
		},
		Memory:   Channel[hardware.MemoryState]{State: hardware.MemoryState{ReadGBps: 0.5, WriteGBps: 0.1}, Activity: Coupled{Source: cpu, Gain: 0.5}, Efficiency: 1},
		Cellular: Channel[hardware.CellularState]{State: lte(-70), Activity: Periodic{Period: 30, On: 5, High: 1, Low: 0.3}, Efficiency: 1.2},
	}
}

func socialMedia() *App {
	screen := Periodic{Period: 60, On: 45, High: 1}
	cpu := Coupled{Source: screen, Gain: 0.7, Offset: 0.1}
	return &App{
		ID:          SocialMedia,
		Description: "Social Media",
		Display:     Channel[hardware.DisplayState]{State: hardware.DisplayState{Brightness: 60}, Activity: screen, Efficiency: 1.8},
		Processor: Channel[hardware.ProcessorState]{
			State:    hardware.ProcessorState{CPUFreqMHz: 1400, CPULoad: 0.4, GPUFreqMHz: 300, GPULoad: 0.3},
			Activity: cpu, Efficiency: 1.5,
		},
		Memory:   Channel[hardware.MemoryState]{State: hardware.MemoryState{ReadGBps: 0.2, WriteGBps: 0.05}, Activity: Coupled{Source: cpu, Gain: 0.5}, Efficiency: 1},
		Storage:  Channel[hardware.StorageState]{State: hardware.StorageState{Active: true}, Activity: Periodic{Period: 30, On: 1, High: 1}, Efficiency: 1},
		Cellular: Channel[hardware.CellularState]{State: lte(-75), Activity: Periodic{Period: 10, On: 0.5, High: 1, Low: 0.1}, Efficiency: 2.5},
	}
}

func navigation() *App {
	screen := Constant(1)
	cpu := Coupled{Source: screen, Gain: 0.7, Offset: 0.1}
	return &App{
		ID:          Navigation,
		Description: "Navigation",
		Display:     Channel[hardware.DisplayState]{State: hardware.DisplayState{Brightness: 70}, Activity: screen, Efficiency: 1.5},
		Processor: Channel[hardware.ProcessorState]{
			State:    hardware.ProcessorState{CPUFreqMHz: 1600, CPULoad: 0.5, GPUFreqMHz: 400, GPULoad: 0.5},
			Activity: cpu, Efficiency: 1.5,
		},
		Memory:   Channel[hardware.MemoryState]{State: hardware.MemoryState{ReadGBps: 0.3, WriteGBps: 0.1}, Activity: Coupled{Source: cpu, Gain: 0.5}, Efficiency: 1},
		Sensors:  Channel[hardware.SensorState]{State: hardware.SensorState{GPS: hardware.GPSTrack}, Activity: Constant(1), Efficiency: 1},
		Cellular: Channel[hardware.CellularState]{State: lte(-80), Activity: Periodic{Period: 60, On: 2, High: 1, Low: 0.2}, Efficiency: 1.5},
	}
}

func webBrowser(rng Source) *App {
	screen := Periodic{Period: 60, On: 50, High: 1}
	cpu := Coupled{Source: screen, Gain: 0.7, Offset: 0.1}
	return &App{
		ID:          WebBrowser,
		Description: "Web Browsing",
		Display:     Channel[hardware.DisplayState]{State: hardware.DisplayState{Brightness: 50}, Activity: screen, Efficiency: 1.2},
		Processor: Channel[hardware.ProcessorState]{
			State:    hardware.ProcessorState{CPUFreqMHz: 1500, CPULoad: 0.5, GPUFreqMHz: 350, GPULoad: 0.4},
			Activity: cpu, Efficiency: 1.5,
		},
		Memory: Channel[hardware.MemoryState]{State: hardware.MemoryState{ReadGBps: 0.4, WriteGBps: 0.08}, Activity: Coupled{Source: cpu, Gain: 0.5}, Efficiency: 1},
		Cellular: Channel[hardware.CellularState]{
			State:      lte(-72),
			Activity:   Choice{Levels: []float64{0, 0.3, 1}, Weights: []float64{0.7, 0.2, 0.1}, Rand: rng},
			Efficiency: 1.8,
		},
	}
}

func music() *App {
	return &App{
		ID:          Music,
		Description: "Music Playback",
		Processor: Channel[hardware.ProcessorState]{
			State:    hardware.ProcessorState{CPUFreqMHz: 300, CPULoad: 0.1},
			Activity: Constant(0.3), Efficiency: 1,
		},
		Memory:   Channel[hardware.MemoryState]{State: hardware.MemoryState{ReadGBps: 0.01}, Activity: Constant(0.1), Efficiency: 1},
		Cellular: Channel[hardware.CellularState]{State: lte(-70), Activity: Periodic{Period: 30, On: 0.5, High: 0.01}, Efficiency: 1},
	}
}
