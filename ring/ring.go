// Package ring holds the control points of a closed spline as a ring:
// an ordered sequence of points with wrap-around indexing.
//
// The cardinality of a ring is fixed at construction time. Points are
// identified by their index only and are mutated in place. Every mutation is
// reported to registered observers, which hold data derived from the point
// positions (see package tangent).
package ring

import (
	"errors"
	"fmt"
	"math"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/splinedit"
	"github.com/npillmayer/splinedit/polygon"
)

// tracer writes to trace with key 'splinedit'
func tracer() tracing.Trace {
	return tracing.Select("splinedit")
}

var (
	// ErrTooFewPoints indicates a ring with less than two points.
	ErrTooFewPoints = errors.New("ring needs at least 2 points")
	// ErrInvalidPoint indicates a point coordinate containing NaN/Inf.
	ErrInvalidPoint = errors.New("ring has invalid point coordinate")
)

// Invalidator is notified whenever a point of a ring changes position.
type Invalidator interface {
	Invalidate()
}

// UnitVectors is a source of vectors of length 1, uniformly distributed over
// all directions.
type UnitVectors interface {
	UnitVector() splinedit.Pair
}

// Ring is an ordered, circular collection of control points.
type Ring struct {
	points    []splinedit.Pair
	observers []Invalidator
}

// New creates a ring from a list of points. The points are copied.
func New(points []splinedit.Pair) (*Ring, error) {
	if len(points) < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrTooFewPoints, len(points))
	}
	for i, p := range points {
		if !p.IsFinite() {
			return nil, fmt.Errorf("%w at point %d", ErrInvalidPoint, i)
		}
	}
	r := &Ring{points: make([]splinedit.Pair, len(points))}
	copy(r.points, points)
	return r, nil
}

// Circle creates a ring of n points, evenly distributed on a circle around
// center. The first point is located at startAngle (radians), subsequent
// points follow in steps of 2π/n.
func Circle(n int, center splinedit.Pair, radius, startAngle float64) (*Ring, error) {
	if n < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrTooFewPoints, n)
	}
	arc := 2 * math.Pi / float64(n)
	start := center + splinedit.P(radius, 0)
	points := make([]splinedit.Pair, n)
	for i := range points {
		points[i] = start.Rotatedaround(center, float64(i)*arc+startAngle)
	}
	tracer().Debugf("circle of %d points, r=%g around %s", n, radius, center)
	return New(points)
}

// MustCircle is like Circle, but panics on error.
func MustCircle(n int, center splinedit.Pair, radius, startAngle float64) *Ring {
	r, err := Circle(n, center, radius, startAngle)
	if err != nil {
		panic(err)
	}
	return r
}

// N returns the number of points in the ring.
func (r *Ring) N() int {
	return len(r.points)
}

// Index normalizes i to 0 ≤ i < N. Negative indices wrap backwards.
// All wrap-around arithmetic on rings must go through Index.
func (r *Ring) Index(i int) int {
	n := len(r.points)
	return ((i % n) + n) % n
}

// Z returns the point at position (i mod N).
func (r *Ring) Z(i int) splinedit.Pair {
	return r.points[r.Index(i)]
}

// Points returns a copy of all points, in ring order.
func (r *Ring) Points() []splinedit.Pair {
	pts := make([]splinedit.Pair, len(r.points))
	copy(pts, r.points)
	return pts
}

// Observe registers inv to be notified on every point mutation.
func (r *Ring) Observe(inv Invalidator) {
	r.observers = append(r.observers, inv)
}

// Move adds delta to the point at position (i mod N).
func (r *Ring) Move(i int, delta splinedit.Pair) {
	i = r.Index(i)
	r.points[i] += delta
	tracer().Debugf("moved point %d by %s to %s", i, delta, r.points[i])
	r.changed()
}

// Jitter adds a vector of length mag to every point. Directions are drawn
// from src, one per point.
func (r *Ring) Jitter(mag float64, src UnitVectors) {
	for i := range r.points {
		r.points[i] += src.UnitVector().Mul(mag)
	}
	tracer().Debugf("jittered %d points by %g", len(r.points), mag)
	r.changed()
}

// Polygon returns the control polygon of the ring, a snapshot of the
// current point positions.
func (r *Ring) Polygon() *polygon.Polygon {
	return polygon.FromKnots(r.points)
}

func (r *Ring) changed() {
	for _, inv := range r.observers {
		inv.Invalidate()
	}
}
