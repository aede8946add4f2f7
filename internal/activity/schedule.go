// Package activity describes how applications drive each hardware subsystem
// over time.
package activity

import "math"

// Schedule yields an activity fraction for an app-local time in seconds.
type Schedule interface {
	At(t float64) float64
}

// Source is the random source used by stochastic schedules. *rand.Rand
// satisfies it.
type Source interface {
	Float64() float64
}

// Constant is a fixed activity.
type Constant float64

// At implements Schedule.
func (c Constant) At(float64) float64 { return float64(c) }

// Periodic is High for the first On seconds of every Period and Low for the
// remainder.
type Periodic struct {
	Period float64
	On     float64
	High   float64
	Low    float64
}

// At implements Schedule.
func (p Periodic) At(t float64) float64 {
	if math.Mod(t, p.Period) < p.On {
		return p.High
	}
	return p.Low
}

// Coupled follows another schedule: Gain·Source(t) + Offset.
type Coupled struct {
	Source Schedule
	Gain   float64
	Offset float64
}

// At implements Schedule.
func (c Coupled) At(t float64) float64 {
	return c.Gain*c.Source.At(t) + c.Offset
}

// Choice draws one of Levels on every call with the given Weights.
type Choice struct {
	Levels  []float64
	Weights []float64
	Rand    Source
}

// At implements Schedule.
func (c Choice) At(float64) float64 {
	var total float64
	for _, w := range c.Weights {
		total += w
	}
	u := c.Rand.Float64() * total
	for i, w := range c.Weights {
		if u < w {
			return c.Levels[i]
		}
		u -= w
	}
	return c.Levels[len(c.Levels)-1]
}
