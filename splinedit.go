/*
Package splinedit is the core of an interactive editor for closed
Catmull-Rom splines. The root package implements 2D pairs and the affine
transformations needed to place and perturb control points.

Sub-packages provide the ring of control points (ring), tangent
calculation (tangent), Hermite sampling (hermite), the edit state machine
(edit), drawable frame output (render) and the session driving all of
them once per frame (session).

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package splinedit

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'splinedit'
func tracer() tracing.Trace {
	return tracing.Select("splinedit")
}

// === Numeric Data Type =====================================================

// Deg2Rad is a constant for converting from DEG to RAD or vice versa
var Deg2Rad float64 = 0.01745329251

// Epsilon : numbers below ε are considered 0
var Epsilon float64 = 0.0000001

// Is0 is a predicate: is n = 0 ?
func Is0(n float64) bool {
	return math.Abs(n) <= Epsilon
}

// Zap makes n = 0 if n "means" to be zero
func Zap(n float64) float64 {
	if Is0(n) {
		n = 0
	}
	return n
}

// IsFinite is a predicate: is n neither NaN nor ±Inf ?
func IsFinite(n float64) bool {
	return !math.IsNaN(n) && !math.IsInf(n, 0)
}

// === Pair Data Type ========================================================

// Pair is a 2D point or vector. The x-part is stored as the real part,
// the y-part as the imaginary part, so pairs add and subtract natively.
type Pair complex128

// Origin represents the frequently used constant (0,0).
var Origin = P(0, 0)

// Pretty Stringer for simple pairs.
func (p Pair) String() string {
	return fmt.Sprintf("(%g,%g)", real(p), imag(p))
}

// C returns a Pair as a complex number.
func (p Pair) C() complex128 {
	return complex128(p)
}

// P is a quick notation for contructing a pair from floats.
func P(x, y float64) Pair {
	return Pair(complex(x, y))
}

// X is the x-part of a pair.
func (p Pair) X() float64 {
	return real(p)
}

// Y is the y-part of a pair.
func (p Pair) Y() float64 {
	return imag(p)
}

// IsFinite is a predicate: are both parts of p finite numbers?
func (p Pair) IsFinite() bool {
	return IsFinite(p.X()) && IsFinite(p.Y())
}

// Zap rounds x-part and y-part to Epsilon.
func (p Pair) Zap() Pair {
	return P(Zap(p.X()), Zap(p.Y()))
}

// Equal compares two pairs, allowing for a difference of Epsilon.
func (p Pair) Equal(p2 Pair) bool {
	return Is0(p.X()-p2.X()) && Is0(p.Y()-p2.Y())
}

// Mul multiplies both parts of p by a. The result is not zapped.
func (p Pair) Mul(a float64) Pair {
	return P(p.X()*a, p.Y()*a)
}

// Hypot returns the length of p, taken as a vector.
func (p Pair) Hypot() float64 {
	return cmplx.Abs(p.C())
}

// WithLength returns a vector of length l pointing in the direction of p.
// The zero vector has no direction and is returned unchanged.
func (p Pair) WithLength(l float64) Pair {
	h := p.Hypot()
	if Is0(h) {
		return Origin
	}
	return p.Mul(l / h)
}

// Shifted returns a new pair translated by v.
func (p Pair) Shifted(v Pair) Pair {
	return Translation(v).Transform(p).Zap()
}

// Rotated returns a new pair rotated around origin by theta (counterclockwise).
func (p Pair) Rotated(theta float64) Pair {
	return Rotation(theta).Transform(p).Zap()
}

// Rotatedaround returns a new pair rotated around v by theta (counterclockwise).
func (p Pair) Rotatedaround(v Pair, theta float64) Pair {
	return p.Shifted(-v).Rotated(theta).Shifted(v).Zap()
}

// UnitVector returns the vector of length 1 at angle theta (radians),
// measured from (1,0).
func UnitVector(theta float64) Pair {
	return P(1, 0).Rotated(theta)
}

// === Affine Transformations ================================================

// AT is an affine transform, a matrix type used for transforming vectors.
type AT []float64 // a 3x3 matrix, flattened by rows

func newAT() AT {
	return make([]float64, 9)
}

func (m AT) set(row, col int, value float64) {
	m[row*3+col] = value
}

func (m AT) row(row int) []float64 {
	return m[row*3 : (row+1)*3]
}

// Translation transform. Translate a point by (dx,dy).
func Translation(p Pair) AT {
	m := newAT()
	m.set(0, 0, 1.0)
	m.set(1, 1, 1.0)
	m.set(2, 2, 1.0)
	m.set(0, 2, p.X())
	m.set(1, 2, p.Y())
	return m
}

// Rotation transform. Rotate a point counter-clockwise around the origin.
// Argument is in radians.
func Rotation(theta float64) AT {
	m := newAT()
	sin, cos := math.Sincos(theta)
	m.set(0, 0, cos)
	m.set(0, 1, -sin)
	m.set(1, 0, sin)
	m.set(1, 1, cos)
	m.set(2, 2, 1.0)
	return m
}

// v1 × v2, v.n = [a,b,c]
func dotProd(vec1, vec2 []float64) float64 {
	return vec1[0]*vec2[0] + vec1[1]*vec2[1] + vec1[2]*vec2[2]
}

// Transform a 2D-point. The argument is unchanged and a new pair is returned.
func (m AT) Transform(p Pair) Pair {
	v := []float64{p.X(), p.Y(), 1.0}
	return P(dotProd(m.row(0), v), dotProd(m.row(1), v))
}
