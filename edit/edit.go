// Package edit implements the edit state machine of the spline editor:
// a selected control point, four directional holds and display flags.
//
// Holds follow a simple press/release protocol without debouncing. While a
// hold is active, every call to Tick moves the selected point by the speed
// of the controller in the direction of the hold. Opposing holds cancel
// by superposition.
package edit

import (
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/splinedit"
	"github.com/npillmayer/splinedit/ring"
)

// tracer writes to trace with key 'splinedit'
func tracer() tracing.Trace {
	return tracing.Select("splinedit")
}

// Default parameters of a controller.
const (
	DefaultSpeed  = 2.0  // distance per tick of a held direction
	DefaultJitter = 10.0 // distance every point moves on jitter
)

// Direction is one of the four cardinal directions of a hold.
type Direction int

// Directions, in the order left, up, right, down.
const (
	Left Direction = iota
	Up
	Right
	Down
)

func (d Direction) String() string {
	switch d {
	case Left:
		return "left"
	case Up:
		return "up"
	case Right:
		return "right"
	case Down:
		return "down"
	}
	return "<invalid direction>"
}

// unit returns the unit vector for d, in screen coordinates (y grows down).
func (d Direction) unit() splinedit.Pair {
	switch d {
	case Left:
		return splinedit.P(-1, 0)
	case Up:
		return splinedit.P(0, -1)
	case Right:
		return splinedit.P(1, 0)
	case Down:
		return splinedit.P(0, 1)
	}
	return splinedit.Origin
}

// DisplayFlags toggle presentation of a frame. They have no effect on
// geometry.
type DisplayFlags struct {
	ShowPoints   bool // markers for all points, not only the selected one
	ShowLinear   bool // the control polygon
	ShowTangents bool // tangent vectors
}

// DefaultFlags shows point markers only.
var DefaultFlags = DisplayFlags{ShowPoints: true}

// Controller interprets edit commands against a ring.
type Controller struct {
	ring     *ring.Ring
	dirs     ring.UnitVectors
	selected int
	holds    [4]bool
	flags    DisplayFlags
	speed    float64
	jitter   float64
}

// Option configures a controller.
type Option func(*Controller)

// WithSpeed sets the distance a held direction moves the selected point per tick.
func WithSpeed(speed float64) Option {
	return func(c *Controller) { c.speed = speed }
}

// WithJitter sets the distance each point moves on Jitter.
func WithJitter(mag float64) Option {
	return func(c *Controller) { c.jitter = mag }
}

// WithFlags sets the initial display flags.
func WithFlags(flags DisplayFlags) Option {
	return func(c *Controller) { c.flags = flags }
}

// NewController creates a controller for r, with point 0 selected.
// Random directions for jitter are drawn from dirs.
func NewController(r *ring.Ring, dirs ring.UnitVectors, opts ...Option) *Controller {
	c := &Controller{
		ring:   r,
		dirs:   dirs,
		flags:  DefaultFlags,
		speed:  DefaultSpeed,
		jitter: DefaultJitter,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Selected returns the index of the selected point.
func (c *Controller) Selected() int {
	return c.selected
}

// Flags returns the current display flags.
func (c *Controller) Flags() DisplayFlags {
	return c.flags
}

// Held is a predicate: is direction d currently held?
func (c *Controller) Held(d Direction) bool {
	if d < Left || d > Down {
		return false
	}
	return c.holds[d]
}

// Hold presses or releases direction d.
func (c *Controller) Hold(d Direction, pressed bool) {
	if d < Left || d > Down {
		tracer().Errorf("ignoring hold for %s", d)
		return
	}
	c.holds[d] = pressed
}

// SelectNext selects the next point, wrapping around.
func (c *Controller) SelectNext() {
	c.selected = c.ring.Index(c.selected + 1)
}

// SelectPrevious selects the previous point, wrapping around.
func (c *Controller) SelectPrevious() {
	c.selected = c.ring.Index(c.selected - 1)
}

// Jitter moves every point of the ring in a random direction.
func (c *Controller) Jitter() {
	c.ring.Jitter(c.jitter, c.dirs)
}

// ToggleShowPoints flips between markers for all points and for the
// selected point only.
func (c *Controller) ToggleShowPoints() {
	c.flags.ShowPoints = !c.flags.ShowPoints
}

// ToggleShowLinear flips display of the control polygon.
func (c *Controller) ToggleShowLinear() {
	c.flags.ShowLinear = !c.flags.ShowLinear
}

// ToggleShowTangents flips display of tangent vectors.
func (c *Controller) ToggleShowTangents() {
	c.flags.ShowTangents = !c.flags.ShowTangents
}

// Tick applies all held directions to the selected point. It returns
// true if any direction is held, i.e. if the ring has been modified.
func (c *Controller) Tick() bool {
	moved := false
	for d, held := range c.holds {
		if held {
			c.ring.Move(c.selected, Direction(d).unit().Mul(c.speed))
			moved = true
		}
	}
	return moved
}
