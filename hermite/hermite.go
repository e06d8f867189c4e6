// Package hermite evaluates cubic Hermite segments and samples closed
// Hermite splines.
//
// A segment is determined by two endpoints P0, P1 and their tangents M0, M1:
//
//	position(t) = h00(t)·P0 + h10(t)·M0 + h01(t)·P1 + h11(t)·M1,   t ∈ [0,1]
//
// Sampling walks the parameter t from 0 in increments of step, by repeated
// addition, as long as t ≤ 1. If step does not evenly divide 1, the last
// sample falls short of t = 1; floating point accumulation decides
// whether a sample at (nearly) t = 1 is included.
//
// # BSD License
//
// Copyright (c) Norbert Pillmayer
//
// All rights reserved.
//
// Please refer to the license file for more information.
package hermite

import (
	"errors"
	"fmt"
	"iter"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/splinedit"
)

// tracer writes to trace with key 'splinedit'
func tracer() tracing.Trace {
	return tracing.Select("splinedit")
}

// ErrInvalidStep indicates a sample step which is not a positive number.
var ErrInvalidStep = errors.New("sample step must be > 0")

// MinStep is the smallest sample step accepted, 1001 samples per segment.
// Sampling is eager, so the step bounds the memory of a frame.
const MinStep = 0.001

// Knots is a closed sequence of points with a tangent at each point.
// Indices wrap around.
type Knots interface {
	N() int
	Z(i int) splinedit.Pair
	Tangent(i int) splinedit.Pair
}

// H00 is the basis function weighting the start point.
func H00(t float64) float64 {
	return 2*t*t*t - 3*t*t + 1
}

// H10 is the basis function weighting the start tangent.
func H10(t float64) float64 {
	return t*t*t - 2*t*t + t
}

// H01 is the basis function weighting the end point.
func H01(t float64) float64 {
	return -2*t*t*t + 3*t*t
}

// H11 is the basis function weighting the end tangent.
func H11(t float64) float64 {
	return t*t*t - t*t
}

// Eval returns the position on the segment (p0,m0,p1,m1) at parameter t.
func Eval(p0, m0, p1, m1 splinedit.Pair, t float64) splinedit.Pair {
	fp0, fm0, fp1, fm1 := H00(t), H10(t), H01(t), H11(t)
	return splinedit.P(
		fp0*p0.X()+fm0*m0.X()+fp1*p1.X()+fm1*m1.X(),
		fp0*p0.Y()+fm0*m0.Y()+fp1*p1.Y()+fm1*m1.Y(),
	)
}

// CheckStep returns ErrInvalidStep if step is not a positive number of at
// least MinStep.
func CheckStep(step float64) error {
	if !(step > 0) || !splinedit.IsFinite(step) {
		return fmt.Errorf("%w: got %g", ErrInvalidStep, step)
	}
	if step < MinStep {
		return fmt.Errorf("%w: %g is below minimum of %g", ErrInvalidStep, step, MinStep)
	}
	return nil
}

// Params returns the sequence of parameter values 0, step, 2·step, …
// up to and including 1 at most.
func Params(step float64) (iter.Seq[float64], error) {
	if err := CheckStep(step); err != nil {
		return nil, err
	}
	return func(yield func(float64) bool) {
		for t := 0.0; t <= 1; t += step {
			if !yield(t) {
				return
			}
		}
	}, nil
}

// Segment returns the sequence of positions on segment (p0,m0,p1,m1) for
// the parameter values of Params(step). The sequence is lazy and may be
// ranged over repeatedly.
func Segment(p0, m0, p1, m1 splinedit.Pair, step float64) (iter.Seq[splinedit.Pair], error) {
	params, err := Params(step)
	if err != nil {
		return nil, err
	}
	return func(yield func(splinedit.Pair) bool) {
		for t := range params {
			if !yield(Eval(p0, m0, p1, m1, t)) {
				return
			}
		}
	}, nil
}

// Curve returns the samples of the closed spline through k, segment by
// segment in ring order. The curve consists of exactly k.N() segments, the
// last one connecting the last knot to the first. Each position is paired
// with the index of its segment.
//
// Tangents are read from k lazily, while the sequence is consumed.
func Curve(k Knots, step float64) (iter.Seq2[int, splinedit.Pair], error) {
	if err := CheckStep(step); err != nil {
		return nil, err
	}
	return func(yield func(int, splinedit.Pair) bool) {
		for i := 0; i < k.N(); i++ {
			seg, _ := Segment(k.Z(i), k.Tangent(i), k.Z(i+1), k.Tangent(i+1), step)
			for p := range seg {
				if !yield(i, p) {
					return
				}
			}
		}
	}, nil
}

// Sample collects all positions of Curve(k, step).
func Sample(k Knots, step float64) ([]splinedit.Pair, error) {
	curve, err := Curve(k, step)
	if err != nil {
		return nil, err
	}
	var samples []splinedit.Pair
	for _, p := range curve {
		samples = append(samples, p)
	}
	tracer().Debugf("sampled %d segments into %d points, step = %g", k.N(), len(samples), step)
	return samples, nil
}
