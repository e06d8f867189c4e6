package hermite

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/splinedit"
	"github.com/npillmayer/splinedit/ring"
	"github.com/npillmayer/splinedit/tangent"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func squareKnots(t *testing.T, tension float64) *tangent.Solver {
	t.Helper()
	r, err := ring.New([]splinedit.Pair{
		splinedit.P(0, 0), splinedit.P(10, 0), splinedit.P(10, 10), splinedit.P(0, 10),
	})
	require.NoError(t, err)
	s := tangent.NewSolver(r, nil)
	require.NoError(t, s.Recompute(tension))
	return s
}

func TestBasisAtEndpoints(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	assert.Equal(t, []float64{1, 0, 0, 0}, []float64{H00(0), H10(0), H01(0), H11(0)})
	assert.Equal(t, []float64{0, 0, 1, 0}, []float64{H00(1), H10(1), H01(1), H11(1)})
	for _, x := range []float64{0.1, 0.33, 0.5, 0.9} {
		assert.InDelta(t, 1.0, H00(x)+H01(x), 1e-12, "partition of unity at %g", x)
	}
}

func TestStepOneHitsEndpointsExactly(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	p0, m0 := splinedit.P(1.5, -2), splinedit.P(7, 3)
	p1, m1 := splinedit.P(-4, 9.25), splinedit.P(-1, 12)
	seg, err := Segment(p0, m0, p1, m1, 1)
	require.NoError(t, err)
	assert.Equal(t, []splinedit.Pair{p0, p1}, slices.Collect(seg))
}

func TestStepNotDividingOne(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	params, err := Params(0.3)
	require.NoError(t, err)
	ts := slices.Collect(params)
	require.Len(t, ts, 4)
	for i, want := range []float64{0, 0.3, 0.6, 0.9} {
		assert.InDelta(t, want, ts[i], 1e-12)
	}
	for _, x := range ts {
		assert.Less(t, x, 1.0)
	}
}

func TestStepHalf(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	params, err := Params(0.5)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0.5, 1}, slices.Collect(params))
}

func TestInvalidStepFailsFast(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	for _, step := range []float64{0, -0.1, math.NaN(), math.Inf(1), 1e-12, 1e-9, 0.0009} {
		_, err := Params(step)
		if !errors.Is(err, ErrInvalidStep) {
			t.Fatalf("expected ErrInvalidStep for step %g, got %v", step, err)
		}
		_, err = Segment(splinedit.Origin, splinedit.Origin, splinedit.Origin, splinedit.Origin, step)
		if !errors.Is(err, ErrInvalidStep) {
			t.Fatalf("expected ErrInvalidStep for step %g, got %v", step, err)
		}
	}
	_, err := Curve(squareKnots(t, 0), 0)
	assert.ErrorIs(t, err, ErrInvalidStep)
	assert.NoError(t, CheckStep(MinStep))
}

func TestSamplesPerSegmentAreBounded(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	params, err := Params(MinStep)
	require.NoError(t, err)
	n := 0
	for range params {
		n++
	}
	assert.LessOrEqual(t, n, 1001)
	assert.GreaterOrEqual(t, n, 1000)
}

func TestSquareScenario(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	k := squareKnots(t, 0)
	require.Equal(t, splinedit.P(10, -10), k.Tangent(0))
	require.Equal(t, splinedit.P(10, 10), k.Tangent(1))
	seg, err := Segment(k.Z(0), k.Tangent(0), k.Z(1), k.Tangent(1), 0.5)
	require.NoError(t, err)
	// t=0.5: 0.5·P0 + 0.125·M0 + 0.5·P1 − 0.125·M1
	want := []splinedit.Pair{splinedit.P(0, 0), splinedit.P(5, -2.5), splinedit.P(10, 0)}
	assert.Equal(t, want, slices.Collect(seg))
}

func TestSegmentIsRestartable(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	seg, err := Segment(splinedit.P(0, 0), splinedit.P(3, 3), splinedit.P(5, 1), splinedit.P(0, -4), 0.1)
	require.NoError(t, err)
	first := slices.Collect(seg)
	assert.Len(t, first, 11)
	assert.Equal(t, first, slices.Collect(seg))
	n := 0
	for range seg {
		n++
		if n == 3 {
			break
		}
	}
	assert.Equal(t, 3, n)
}

func TestCurveClosesLoop(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	k := squareKnots(t, 0)
	curve, err := Curve(k, 0.5)
	require.NoError(t, err)
	var segs []int
	var pts []splinedit.Pair
	for i, p := range curve {
		segs = append(segs, i)
		pts = append(pts, p)
	}
	assert.Equal(t, []int{0, 0, 0, 1, 1, 1, 2, 2, 2, 3, 3, 3}, segs)
	// every segment starts at its knot, the last one returns to knot 0
	for i := 0; i < 4; i++ {
		assert.Equal(t, k.Z(i), pts[3*i])
		assert.Equal(t, k.Z(i+1), pts[3*i+2])
	}
	assert.Equal(t, k.Z(0), pts[len(pts)-1])
	samples, err := Sample(k, 0.5)
	require.NoError(t, err)
	assert.Equal(t, pts, samples)
}

func TestRotationalSymmetry(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	const n = 6
	center := splinedit.P(250, 250)
	r := ring.MustCircle(n, center, 150, 0)
	k := tangent.NewSolver(r, nil)
	require.NoError(t, k.Recompute(0))
	arc := 2 * math.Pi / n
	for i := 0; i < n; i++ {
		for _, x := range []float64{0.25, 0.5, 0.75} {
			p := Eval(k.Z(i), k.Tangent(i), k.Z(i+1), k.Tangent(i+1), x)
			q := Eval(k.Z(i+1), k.Tangent(i+1), k.Z(i+2), k.Tangent(i+2), x)
			rotated := p.Rotatedaround(center, arc)
			assert.InDelta(t, q.X(), rotated.X(), 1e-6, "segment %d, t = %g", i, x)
			assert.InDelta(t, q.Y(), rotated.Y(), 1e-6, "segment %d, t = %g", i, x)
		}
	}
}

func TestZeroTangentsGiveStraightSegments(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	k := squareKnots(t, 1)
	seg, err := Segment(k.Z(0), k.Tangent(0), k.Z(1), k.Tangent(1), 0.25)
	require.NoError(t, err)
	for p := range seg {
		assert.InDelta(t, 0.0, p.Y(), 1e-12)
	}
}

// Sample the segment between the first two knots of a square, with
// full Catmull-Rom tangents.
func ExampleSegment() {
	seg, err := Segment(splinedit.P(0, 0), splinedit.P(10, -10), splinedit.P(10, 0), splinedit.P(10, 10), 0.5)
	if err != nil {
		panic(err)
	}
	for p := range seg {
		fmt.Println(p)
	}
	// Output:
	// (0,0)
	// (5,-2.5)
	// (10,0)
}
