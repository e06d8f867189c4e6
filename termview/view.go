// Package termview draws spline editor frames on a terminal and maps
// terminal key events to editor commands. It uses tcell for both.
//
// The canvas of the editor is scaled to the terminal, leaving the last row
// for a status line. Primitives outside of the canvas are not drawn.
package termview

import (
	"fmt"
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/splinedit"
	"github.com/npillmayer/splinedit/polygon"
	"github.com/npillmayer/splinedit/render"
)

// tracer writes to trace with key 'graphics'
func tracer() tracing.Trace {
	return tracing.Select("graphics")
}

// Runes used for the primitives of a frame.
const (
	RuneCurve    = '*'
	RuneLinear   = '.'
	RuneTangent  = '+'
	RuneMarker   = 'o'
	RuneSelected = '@'
)

var (
	styleBackground = tcell.StyleDefault.Background(tcell.NewRGBColor(40, 40, 40))
	styleMarker     = styleBackground.Foreground(tcell.NewRGBColor(40, 220, 220))
	styleSelected   = styleBackground.Foreground(tcell.NewRGBColor(220, 40, 40)).Bold(true)
	styleLinear     = styleBackground.Foreground(tcell.NewRGBColor(220, 220, 220))
	styleTangent    = styleBackground.Foreground(tcell.NewRGBColor(220, 40, 220))
	styleCurve      = styleBackground.Foreground(tcell.NewRGBColor(240, 240, 40))
	styleStatus     = tcell.StyleDefault.Reverse(true)
)

// View is a render.Sink drawing to a tcell screen.
type View struct {
	screen tcell.Screen
	canvas *polygon.Polygon
	ll, ur splinedit.Pair
}

// NewView creates a view of a canvas of the given size on screen. The
// screen must be initialized.
func NewView(screen tcell.Screen, width, height float64) *View {
	canvas := polygon.Box(splinedit.Origin, splinedit.P(width, height))
	ll, ur := canvas.BoundingBox()
	return &View{screen: screen, canvas: canvas, ll: ll, ur: ur}
}

// Draw implements render.Sink. Drawing order is polygon, tangents, curve,
// markers, so markers stay visible on top.
func (v *View) Draw(f *render.Frame) error {
	v.screen.Fill(' ', styleBackground)
	for _, l := range f.Polygon {
		v.line(l, RuneLinear, styleLinear)
	}
	for _, l := range f.Tangents {
		v.line(l, RuneTangent, styleTangent)
	}
	for _, p := range f.Curve {
		v.plot(p, RuneCurve, styleCurve)
	}
	for _, m := range f.Markers {
		if m.Selected {
			v.plot(m.Pos, RuneSelected, styleSelected)
		} else {
			v.plot(m.Pos, RuneMarker, styleMarker)
		}
	}
	v.status(fmt.Sprintf(" tension %.2f  step %.3f  samples %d ", f.Tension, f.Step, len(f.Curve)))
	v.screen.Show()
	return nil
}

// Cell returns the terminal cell of a canvas position and whether the
// position is visible.
func (v *View) Cell(p splinedit.Pair) (int, int, bool) {
	if !v.canvas.Contains(p) {
		return 0, 0, false
	}
	w, h := v.screen.Size()
	h-- // status line
	if w <= 0 || h <= 0 {
		return 0, 0, false
	}
	cw, ch := v.ur.X()-v.ll.X(), v.ur.Y()-v.ll.Y()
	x := int(math.Floor((p.X() - v.ll.X()) / cw * float64(w)))
	y := int(math.Floor((p.Y() - v.ll.Y()) / ch * float64(h)))
	if x < 0 || x >= w || y < 0 || y >= h {
		return 0, 0, false
	}
	return x, y, true
}

func (v *View) plot(p splinedit.Pair, r rune, style tcell.Style) {
	if x, y, ok := v.Cell(p); ok {
		v.screen.SetContent(x, y, r, nil, style)
	}
}

// line plots a straight line with one sample per half cell of its longer
// extent.
func (v *View) line(l render.Line, r rune, style tcell.Style) {
	w, h := v.screen.Size()
	cw, ch := v.ur.X()-v.ll.X(), v.ur.Y()-v.ll.Y()
	d := l.To - l.From
	cells := math.Max(math.Abs(d.X())/cw*float64(w), math.Abs(d.Y())/ch*float64(h))
	n := int(math.Ceil(cells*2)) + 1
	for i := 0; i <= n; i++ {
		v.plot(l.From+d.Mul(float64(i)/float64(n)), r, style)
	}
}

func (v *View) status(text string) {
	w, h := v.screen.Size()
	if h < 1 {
		return
	}
	x := 0
	for _, r := range text {
		if x >= w {
			tracer().Debugf("status line truncated")
			break
		}
		v.screen.SetContent(x, h-1, r, nil, styleStatus)
		x++
	}
}
