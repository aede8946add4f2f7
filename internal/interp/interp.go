// Package interp turns sparse time-stamped waypoints into continuous signals.
package interp

import (
	"fmt"
	"math"
	"sort"

	"gopkg.in/yaml.v3"

	"phonedrain-sim/internal/fault"
)

// Point is a single waypoint. In YAML it is written as a two element
// sequence: [t, v].
type Point[V any] struct {
	T float64
	V V
}

// UnmarshalYAML decodes a [t, v] pair.
func (p *Point[V]) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.SequenceNode || len(node.Content) != 2 {
		return fmt.Errorf("waypoint at line %d: want [t, value]", node.Line)
	}
	if err := node.Content[0].Decode(&p.T); err != nil {
		return fmt.Errorf("waypoint time at line %d: %w", node.Line, err)
	}
	if err := node.Content[1].Decode(&p.V); err != nil {
		return fmt.Errorf("waypoint value at line %d: %w", node.Line, err)
	}
	return nil
}

func checkTimes[V any](points []Point[V]) error {
	if len(points) == 0 {
		return fault.Configf("waypoint sequence is empty")
	}
	for i, p := range points {
		if math.IsNaN(p.T) || math.IsInf(p.T, 0) {
			return fault.Configf("waypoint %d has non-finite time", i)
		}
		if i > 0 && p.T < points[i-1].T {
			return fault.Configf("waypoint %d time %g precedes %g", i, p.T, points[i-1].T)
		}
	}
	return nil
}

// Numeric interpolates linearly between waypoints and holds the boundary
// value outside them. Where several waypoints share a time the last one
// wins at that instant.
type Numeric struct {
	points []Point[float64]
}

// NewNumeric validates points and returns a Numeric sequence.
func NewNumeric(points []Point[float64]) (*Numeric, error) {
	if err := checkTimes(points); err != nil {
		return nil, err
	}
	for i, p := range points {
		if math.IsNaN(p.V) || math.IsInf(p.V, 0) {
			return nil, fault.Configf("waypoint %d has non-finite value", i)
		}
	}
	return &Numeric{points: append([]Point[float64](nil), points...)}, nil
}

// At returns the interpolated value at t.
func (n *Numeric) At(t float64) float64 {
	pts := n.points
	i := sort.Search(len(pts), func(i int) bool { return pts[i].T > t })
	switch {
	case i == 0:
		return pts[0].V
	case i == len(pts):
		return pts[len(pts)-1].V
	}
	lo, hi := pts[i-1], pts[i]
	frac := (t - lo.T) / (hi.T - lo.T)
	return lo.V + frac*(hi.V-lo.V)
}

// Span returns the first and last waypoint times.
func (n *Numeric) Span() (float64, float64) {
	return n.points[0].T, n.points[len(n.points)-1].T
}

// Categorical returns the value of the nearest waypoint. Exact ties go to
// the earlier waypoint.
type Categorical[V any] struct {
	points []Point[V]
}

// NewCategorical validates points and returns a Categorical sequence.
func NewCategorical[V any](points []Point[V]) (*Categorical[V], error) {
	if err := checkTimes(points); err != nil {
		return nil, err
	}
	return &Categorical[V]{points: append([]Point[V](nil), points...)}, nil
}

// At returns the value of the waypoint closest to t.
func (c *Categorical[V]) At(t float64) V {
	best := 0
	bestDist := math.Abs(t - c.points[0].T)
	for i := 1; i < len(c.points); i++ {
		if d := math.Abs(t - c.points[i].T); d < bestDist {
			best, bestDist = i, d
		}
	}
	return c.points[best].V
}

// Span returns the first and last waypoint times.
func (c *Categorical[V]) Span() (float64, float64) {
	return c.points[0].T, c.points[len(c.points)-1].T
}
