package sim

import (
	"phonedrain-sim/internal/activity"
	"phonedrain-sim/internal/fault"
	"phonedrain-sim/internal/scenario"
)

// Step is the demand resolved for one integration step.
type Step struct {
	Snapshot activity.Snapshot
	App      string
	Segment  int
}

// Source resolves the demand at an absolute elapsed time in seconds.
// ok is false once the scenario has nothing left to run.
type Source interface {
	Name() string
	At(elapsed float64) (step Step, ok bool, err error)
}

// ProfileSource runs one profile for as long as the engine allows.
type ProfileSource struct {
	Profile activity.Profile
}

// Name implements Source.
func (s ProfileSource) Name() string { return s.Profile.Name() }

// At implements Source.
func (s ProfileSource) At(elapsed float64) (Step, bool, error) {
	snap, err := s.Profile.At(elapsed)
	return Step{Snapshot: snap, App: s.Profile.Name()}, true, err
}

// JourneySource walks the segments of a journey. Each segment's profile sees
// time relative to the segment start.
type JourneySource struct {
	journey  scenario.Journey
	profiles []activity.Profile
}

// NewJourneySource resolves every segment app through newProfile.
func NewJourneySource(j scenario.Journey, newProfile func(app string) (activity.Profile, error)) (*JourneySource, error) {
	if err := j.Validate(); err != nil {
		return nil, err
	}
	profiles := make([]activity.Profile, len(j.Segments))
	for i, seg := range j.Segments {
		p, err := newProfile(seg.App)
		if err != nil {
			return nil, fault.Configf("journey %s segment %d: %v", j.ID, i, err)
		}
		profiles[i] = p
	}
	return &JourneySource{journey: j, profiles: profiles}, nil
}

// Name implements Source.
func (s *JourneySource) Name() string { return s.journey.ID }

// At implements Source.
func (s *JourneySource) At(elapsed float64) (Step, bool, error) {
	idx, start, ok := s.journey.SegmentAt(elapsed / 60)
	if !ok {
		return Step{Segment: -1}, false, nil
	}
	p := s.profiles[idx]
	snap, err := p.At(elapsed - start*60)
	return Step{Snapshot: snap, App: p.Name(), Segment: idx}, true, err
}

// TraceSource replays a waypoint trace until its scripted end.
type TraceSource struct {
	Trace *scenario.Trace
}

// Name implements Source.
func (s TraceSource) Name() string { return s.Trace.Name() }

// At implements Source.
func (s TraceSource) At(elapsed float64) (Step, bool, error) {
	if elapsed >= s.Trace.DurationSeconds() {
		return Step{}, false, nil
	}
	snap, err := s.Trace.At(elapsed)
	return Step{Snapshot: snap, App: s.Trace.Name()}, true, err
}
