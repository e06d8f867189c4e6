package tangent

import (
	"errors"
	"math"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/splinedit"
	"github.com/npillmayer/splinedit/ring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustRing(t *testing.T, pts ...splinedit.Pair) *ring.Ring {
	t.Helper()
	r, err := ring.New(pts)
	require.NoError(t, err)
	return r
}

func squareRing(t *testing.T) *ring.Ring {
	return mustRing(t, splinedit.P(0, 0), splinedit.P(10, 0), splinedit.P(10, 10), splinedit.P(0, 10))
}

func TestSquareTangents(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	s := NewSolver(squareRing(t), nil)
	require.NoError(t, s.Recompute(0))
	assert.Equal(t, splinedit.P(10, -10), s.Tangent(0))
	assert.Equal(t, splinedit.P(10, 10), s.Tangent(1))
	assert.Equal(t, splinedit.P(-10, 10), s.Tangent(2))
	assert.Equal(t, splinedit.P(-10, -10), s.Tangent(3))
	assert.Equal(t, s.Tangent(3), s.Tangent(-1))
}

func TestCatmullRomFormula(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	r := ring.MustCircle(7, splinedit.P(250, 250), 150, 0.3)
	r.Jitter(20, ring.NewRandomDirections(1))
	s := NewSolver(r, CatmullRom{})
	n := r.N()
	for _, tension := range []float64{0, 0.05, 0.5, 0.75, 1} {
		require.NoError(t, s.Recompute(tension))
		pts := r.Points()
		for i := 0; i < n; i++ {
			want := (pts[(i+1)%n] - pts[(i-1+n)%n]).Mul(1 - tension)
			got := s.Tangent(i)
			assert.InDelta(t, want.X(), got.X(), 1e-9, "tension %g, tangent %d", tension, i)
			assert.InDelta(t, want.Y(), got.Y(), 1e-9, "tension %g, tangent %d", tension, i)
		}
	}
}

func TestFullTensionFlattens(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	s := NewSolver(squareRing(t), nil)
	require.NoError(t, s.Recompute(1))
	for _, m := range s.Tangents() {
		assert.True(t, m.Equal(splinedit.Origin), "expected zero tangent, got %v", m)
	}
}

func TestRecomputeIsIdempotent(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	s := NewSolver(ring.MustCircle(10, splinedit.P(250, 250), 150, 0), nil)
	require.NoError(t, s.Recompute(0.35))
	first := s.Tangents()
	require.NoError(t, s.Recompute(0.35))
	assert.Equal(t, first, s.Tangents())
}

func TestInvalidation(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	r := squareRing(t)
	s := NewSolver(r, nil)
	assert.False(t, s.IsValid())
	require.NoError(t, s.Recompute(0.5))
	assert.True(t, s.IsValid())
	assert.Equal(t, 0.5, s.Tension())
	r.Move(2, splinedit.P(1, 1))
	assert.False(t, s.IsValid(), "moving a point must invalidate tangents")
	require.NoError(t, s.Recompute(0.5))
	r.Jitter(1, ring.NewRandomDirections(3))
	assert.False(t, s.IsValid(), "jitter must invalidate tangents")
	require.NoError(t, s.Recompute(0.5))
	s.Invalidate()
	assert.False(t, s.IsValid())
}

func TestStaleReadPanics(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	s := NewSolver(squareRing(t), nil)
	assert.PanicsWithValue(t, ErrStaleTangents, func() { s.Tangent(0) })
	assert.PanicsWithValue(t, ErrStaleTangents, func() { s.Tangents() })
}

func TestTensionRange(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	s := NewSolver(squareRing(t), nil)
	for _, tension := range []float64{-0.1, 1.01, math.NaN()} {
		err := s.Recompute(tension)
		if !errors.Is(err, ErrTensionRange) {
			t.Fatalf("expected ErrTensionRange for %g, got %v", tension, err)
		}
	}
	assert.False(t, s.IsValid())
}

func TestTwoPointRingHasZeroTangents(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	s := NewSolver(mustRing(t, splinedit.P(0, 0), splinedit.P(10, 5)), nil)
	require.NoError(t, s.Recompute(0))
	assert.Equal(t, splinedit.Origin, s.Tangent(0))
	assert.Equal(t, splinedit.Origin, s.Tangent(1))
}

func TestNormalizedStrategy(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	s := NewSolver(squareRing(t), Normalized{Magnitude: 15})
	require.NoError(t, s.Recompute(0))
	m := s.Tangent(0)
	assert.InDelta(t, 15.0, m.Hypot(), 1e-9)
	assert.InDelta(t, 15/math.Sqrt2, m.X(), 1e-9)
	assert.InDelta(t, -15/math.Sqrt2, m.Y(), 1e-9)
	require.NoError(t, s.Recompute(0.6))
	assert.InDelta(t, 6.0, s.Tangent(2).Hypot(), 1e-9)
}

func TestSolverImplementsKnotAccess(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	r := squareRing(t)
	s := NewSolver(r, nil)
	assert.Equal(t, 4, s.N())
	assert.Equal(t, r.Z(5), s.Z(5))
}
