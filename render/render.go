// Package render assembles the drawable output of one frame of the spline
// editor and hands it to a sink.
//
// A Frame is a batch of primitives: point markers, the edges of the control
// polygon, tangent indicators and the sampled curve. Which primitives are
// present depends on the display flags; the curve is always present.
package render

import (
	"fmt"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/splinedit"
	"github.com/npillmayer/splinedit/edit"
	"github.com/npillmayer/splinedit/hermite"
	"github.com/npillmayer/splinedit/ring"
)

// tracer writes to trace with key 'graphics'
func tracer() tracing.Trace {
	return tracing.Select("graphics")
}

// Marker is a box drawn around a control point.
type Marker struct {
	Index    int
	Pos      splinedit.Pair
	Selected bool
}

// Line is a straight line segment.
type Line struct {
	From, To splinedit.Pair
}

// Frame is the drawable output of one frame.
type Frame struct {
	Markers  []Marker         // point markers, selected one highlighted
	Polygon  []Line           // control polygon, if enabled
	Tangents []Line           // tangent indicators, if enabled
	Curve    []splinedit.Pair // curve samples in ring order
	Tension  float64
	Step     float64
}

// Sink consumes frames, e.g. a screen.
type Sink interface {
	Draw(*Frame) error
}

// Knots gives access to control points and their (valid) tangents.
type Knots = hermite.Knots

// Build assembles a frame from ring r, tangents k (valid), the selected index
// and display flags. The curve is sampled with the given step.
func Build(r *ring.Ring, k Knots, selected int, flags edit.DisplayFlags, step float64) (*Frame, error) {
	samples, err := hermite.Sample(k, step)
	if err != nil {
		return nil, err
	}
	f := &Frame{Curve: samples, Step: step}
	selected = r.Index(selected)
	if flags.ShowPoints {
		f.Markers = make([]Marker, r.N())
		for i := range f.Markers {
			f.Markers[i] = Marker{Index: i, Pos: r.Z(i), Selected: i == selected}
		}
	} else {
		f.Markers = []Marker{{Index: selected, Pos: r.Z(selected), Selected: true}}
	}
	if flags.ShowLinear {
		for _, e := range r.Polygon().Edges() {
			f.Polygon = append(f.Polygon, Line{From: e.From, To: e.To})
		}
	}
	if flags.ShowTangents {
		f.Tangents = make([]Line, k.N())
		for i := range f.Tangents {
			p := k.Z(i)
			f.Tangents[i] = Line{From: p, To: p + k.Tangent(i)}
		}
	}
	tracer().Debugf("built frame: %s", f)
	return f, nil
}

func (f *Frame) String() string {
	return fmt.Sprintf("frame[%d markers, %d edges, %d tangents, %d samples]",
		len(f.Markers), len(f.Polygon), len(f.Tangents), len(f.Curve))
}

// Collector is a sink which keeps every frame drawn. It is useful for
// testing and for headless operation.
type Collector struct {
	Frames []*Frame
	Limit  int // keep at most Limit frames, if > 0
}

// Draw implements Sink.
func (c *Collector) Draw(f *Frame) error {
	c.Frames = append(c.Frames, f)
	if c.Limit > 0 && len(c.Frames) > c.Limit {
		c.Frames = c.Frames[len(c.Frames)-c.Limit:]
	}
	return nil
}

// Last returns the most recent frame, or nil.
func (c *Collector) Last() *Frame {
	if len(c.Frames) == 0 {
		return nil
	}
	return c.Frames[len(c.Frames)-1]
}
