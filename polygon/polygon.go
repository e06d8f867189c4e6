// Package polygon deals with closed polygons, i.e. paths of straight lines.
// Polygons are built by a builder pattern similar to the one for splines:
//
//	pg := NullPolygon().Knot(P(0,0)).Knot(P(1,3)).Knot(P(3,0)).Cycle()
//
// Geometric queries are delegated to polyclip-go.
package polygon

import (
	"fmt"
	"strings"

	polyclip "github.com/akavel/polyclip-go"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/splinedit"
)

// L traces to the graphics tracer.
func L() tracing.Trace {
	return tracing.Select("graphics")
}

// Polygon is a closed sequence of knots, connected by straight lines.
type Polygon struct {
	knots   []splinedit.Pair
	cycle   bool
	contour polyclip.Contour // built on first query, reset by Knot
}

// Edge is a straight line between two consecutive knots of a polygon.
type Edge struct {
	From, To splinedit.Pair
}

// NullPolygon creates an empty polygon, to be extended by Knot(...).
func NullPolygon() *Polygon {
	return &Polygon{}
}

// FromKnots creates a closed polygon from a list of knots. The knots are
// copied.
func FromKnots(knots []splinedit.Pair) *Polygon {
	pg := &Polygon{knots: make([]splinedit.Pair, len(knots))}
	copy(pg.knots, knots)
	return pg.Cycle()
}

// Knot appends a knot. Part of builder functionality.
func (pg *Polygon) Knot(p splinedit.Pair) *Polygon {
	pg.knots = append(pg.knots, p)
	pg.contour = nil
	return pg
}

// Cycle closes the polygon. Part of builder functionality.
func (pg *Polygon) Cycle() *Polygon {
	pg.cycle = true
	return pg
}

// Box creates a rectangular polygon from two opposite corners.
func Box(p1, p2 splinedit.Pair) *Polygon {
	minx, maxx := order(p1.X(), p2.X())
	miny, maxy := order(p1.Y(), p2.Y())
	return NullPolygon().
		Knot(splinedit.P(minx, miny)).
		Knot(splinedit.P(maxx, miny)).
		Knot(splinedit.P(maxx, maxy)).
		Knot(splinedit.P(minx, maxy)).Cycle()
}

// N returns the number of knots.
func (pg *Polygon) N() int {
	return len(pg.knots)
}

// Edges returns the edges of the polygon. For a closed polygon the list starts
// with the closing edge from the last knot to the first one, then follows
// the knots in order.
func (pg *Polygon) Edges() []Edge {
	if pg.N() < 2 {
		return nil
	}
	var edges []Edge
	if pg.cycle {
		edges = append(edges, Edge{From: pg.knots[pg.N()-1], To: pg.knots[0]})
	}
	for i := 1; i < pg.N(); i++ {
		edges = append(edges, Edge{From: pg.knots[i-1], To: pg.knots[i]})
	}
	return edges
}

// BoundingBox returns the lower left and upper right corner of the smallest
// axis-aligned rectangle containing all knots.
func (pg *Polygon) BoundingBox() (splinedit.Pair, splinedit.Pair) {
	if pg.N() == 0 {
		return splinedit.Origin, splinedit.Origin
	}
	r := pg.clipContour().BoundingBox()
	return fromPoint(r.Min), fromPoint(r.Max)
}

// Contains checks whether p lies inside the polygon.
func (pg *Polygon) Contains(p splinedit.Pair) bool {
	if pg.N() < 3 {
		return false
	}
	return pg.clipContour().Contains(toPoint(p))
}

// AsString returns a polygon as a (debugging) string.
func AsString(pg *Polygon) string {
	var b strings.Builder
	for i, k := range pg.knots {
		if i > 0 {
			b.WriteString(" -- ")
		}
		fmt.Fprintf(&b, "(%.4g,%.4g)", k.X(), k.Y())
	}
	if pg.cycle {
		b.WriteString(" -- cycle")
	}
	return b.String()
}

func (pg *Polygon) clipContour() polyclip.Contour {
	if pg.contour == nil {
		pg.contour = make(polyclip.Contour, 0, pg.N())
		for _, k := range pg.knots {
			pg.contour = append(pg.contour, toPoint(k))
		}
		L().Debugf("built contour of %d knots", pg.N())
	}
	return pg.contour
}

func toPoint(p splinedit.Pair) polyclip.Point {
	return polyclip.Point{X: p.X(), Y: p.Y()}
}

func fromPoint(pt polyclip.Point) splinedit.Pair {
	return splinedit.P(pt.X, pt.Y)
}

func order(a, b float64) (float64, float64) {
	if a > b {
		return b, a
	}
	return a, b
}
