// Package scenario defines multi-segment journeys and waypoint traces.
package scenario

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"phonedrain-sim/internal/fault"
)

// Journey is an ordered sequence of app segments.
type Journey struct {
	ID          string    `yaml:"id"`
	Name        string    `yaml:"name"`
	Description string    `yaml:"description,omitempty"`
	Segments    []Segment `yaml:"segments"`
}

// Segment runs one app for a number of minutes.
type Segment struct {
	App     string  `yaml:"app"`
	Minutes float64 `yaml:"duration_min"`
}

// File is the on-disk layout of a journey definition file.
type File struct {
	Journeys []Journey `yaml:"journeys"`
}

// Load reads YAML journey definitions from disk.
func Load(path string) ([]Journey, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	var f File
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("%w: parse scenario: %v", fault.ErrConfiguration, err)
	}
	if len(f.Journeys) == 0 {
		return nil, fault.Configf("%s defines no journeys", path)
	}
	for _, j := range f.Journeys {
		if err := j.Validate(); err != nil {
			return nil, err
		}
	}
	return f.Journeys, nil
}

// Validate checks the journey has segments with positive durations.
func (j Journey) Validate() error {
	if j.ID == "" {
		return fault.Configf("journey %q has no id", j.Name)
	}
	if len(j.Segments) == 0 {
		return fault.Configf("journey %s has no segments", j.ID)
	}
	for i, s := range j.Segments {
		if s.App == "" {
			return fault.Configf("journey %s segment %d has no app", j.ID, i)
		}
		if !(s.Minutes > 0) {
			return fault.Configf("journey %s segment %d duration %g must be positive", j.ID, i, s.Minutes)
		}
	}
	return nil
}

// TotalMinutes returns the summed segment durations.
func (j Journey) TotalMinutes() float64 {
	var total float64
	for _, s := range j.Segments {
		total += s.Minutes
	}
	return total
}

// SegmentAt returns the index of the segment active at the given elapsed
// minutes and the minute it started. Segments own the half-open window
// [start, end); ok is false once the journey is over.
func (j Journey) SegmentAt(minutes float64) (idx int, start float64, ok bool) {
	if minutes < 0 {
		return 0, 0, false
	}
	for i, s := range j.Segments {
		end := start + s.Minutes
		if minutes < end {
			return i, start, true
		}
		start = end
	}
	return -1, start, false
}
