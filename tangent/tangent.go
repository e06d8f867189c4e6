// Package tangent derives one tangent vector per control point of a ring.
//
// Tangents are derived data: they are consistent with the point positions
// and the tension parameter only right after a call to Recompute. A Solver
// registers itself with its ring and is invalidated on every point
// mutation; a change of tension has to be signalled by the caller.
// Recomputation is lazy, so several mutations per frame result in a single
// recomputation.
//
// Tension is mapped to a scaling factor of 1 − tension: a tension of 0
// results in full Catmull-Rom tangents, a tension of 1 flattens all
// tangents to zero, degenerating the curve to straight segments.
package tangent

import (
	"errors"
	"fmt"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/splinedit"
	"github.com/npillmayer/splinedit/ring"
)

// tracer writes to trace with key 'splinedit'
func tracer() tracing.Trace {
	return tracing.Select("splinedit")
}

var (
	// ErrStaleTangents indicates a read of tangents without recomputation
	// after invalidation. This is a programming error.
	ErrStaleTangents = errors.New("tangents read while invalid")
	// ErrTensionRange indicates a tension outside of [0,1].
	ErrTensionRange = errors.New("tension must be in [0,1]")
)

// Strategy calculates the tangent at a point cur, given its neighbors prev and
// next and the tension factor f = 1 − tension.
type Strategy interface {
	Tangent(prev, cur, next splinedit.Pair, f float64) splinedit.Pair
}

// CatmullRom is the default strategy: (next − prev) · f.
type CatmullRom struct{}

// Tangent implements Strategy.
func (CatmullRom) Tangent(prev, cur, next splinedit.Pair, f float64) splinedit.Pair {
	return (next - prev).Mul(f)
}

// Normalized is an alternative strategy: the sum of the vectors from prev to
// cur and from cur to next, set to a fixed length Magnitude · f.
// Tangents therefore do not depend on the distance of neighbors.
type Normalized struct {
	Magnitude float64
}

// Tangent implements Strategy.
func (n Normalized) Tangent(prev, cur, next splinedit.Pair, f float64) splinedit.Pair {
	return ((cur - prev) + (next - cur)).WithLength(n.Magnitude * f)
}

// Solver holds the tangent table for a ring.
type Solver struct {
	ring     *ring.Ring
	strategy Strategy
	tangents []splinedit.Pair
	tension  float64
	valid    bool
}

// NewSolver creates a tangent solver for r and registers it as an observer
// of r. If strategy is nil, CatmullRom is used. The new solver is invalid.
func NewSolver(r *ring.Ring, strategy Strategy) *Solver {
	if strategy == nil {
		strategy = CatmullRom{}
	}
	s := &Solver{
		ring:     r,
		strategy: strategy,
		tangents: make([]splinedit.Pair, r.N()),
	}
	r.Observe(s)
	return s
}

// IsValid is a predicate: are the tangents consistent with the ring?
func (s *Solver) IsValid() bool {
	return s.valid
}

// Invalidate marks the tangents as stale.
func (s *Solver) Invalidate() {
	s.valid = false
}

// Tension returns the tension of the last successful recomputation.
func (s *Solver) Tension() float64 {
	return s.tension
}

// Recompute calculates all tangents for the current point positions and
// the given tension, and marks the table valid.
//
// For a ring of 2 points both neighbors of a point are the other point,
// so CatmullRom yields zero tangents.
func (s *Solver) Recompute(tension float64) error {
	if !(tension >= 0 && tension <= 1) {
		return fmt.Errorf("%w: got %g", ErrTensionRange, tension)
	}
	f := 1 - tension
	for i := range s.tangents {
		prev, next := s.ring.Z(i-1), s.ring.Z(i+1)
		s.tangents[i] = s.strategy.Tangent(prev, s.ring.Z(i), next, f)
	}
	s.tension = tension
	s.valid = true
	tracer().Debugf("recomputed %d tangents, tension = %g", len(s.tangents), tension)
	return nil
}

// N returns the number of points (and tangents).
func (s *Solver) N() int {
	return s.ring.N()
}

// Z returns the point at position (i mod N).
func (s *Solver) Z(i int) splinedit.Pair {
	return s.ring.Z(i)
}

// Tangent returns the tangent at point (i mod N).
// Calling Tangent on an invalid solver panics with ErrStaleTangents.
func (s *Solver) Tangent(i int) splinedit.Pair {
	if !s.valid {
		tracer().Errorf("tangent %d read while invalid", i)
		panic(ErrStaleTangents)
	}
	return s.tangents[s.ring.Index(i)]
}

// Tangents returns a copy of the tangent table.
// Calling Tangents on an invalid solver panics with ErrStaleTangents.
func (s *Solver) Tangents() []splinedit.Pair {
	if !s.valid {
		tracer().Errorf("tangents read while invalid")
		panic(ErrStaleTangents)
	}
	t := make([]splinedit.Pair, len(s.tangents))
	copy(t, s.tangents)
	return t
}
