// Package session drives the spline editor. A Session owns the ring of
// control points, the tangent solver, the edit controller and the continuous
// parameters, and produces one drawable frame per call to Frame.
//
// Input arrives as commands, which may be posted from any goroutine. Frame
// is called from a single goroutine, the frame loop. Each frame runs the
// pipeline
//
//	pending commands → held directions → tangent check → recompute → geometry
//
// so that every command posted before a frame is visible in that frame, and
// tangents are recomputed at most once per frame.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/splinedit/config"
	"github.com/npillmayer/splinedit/edit"
	"github.com/npillmayer/splinedit/hermite"
	"github.com/npillmayer/splinedit/render"
	"github.com/npillmayer/splinedit/ring"
	"github.com/npillmayer/splinedit/tangent"
)

// tracer writes to trace with key 'splinedit'
func tracer() tracing.Trace {
	return tracing.Select("splinedit")
}

// ErrFrameAborted indicates that the geometry of a frame could not be
// computed. The session stays usable.
var ErrFrameAborted = errors.New("frame aborted")

// Session is the state of one editing session.
type Session struct {
	ring    *ring.Ring
	solver  *tangent.Solver
	ctrl    *edit.Controller
	queue   *commandQueue
	tension float64
	step    float64
	frames  int
}

type settings struct {
	strategy tangent.Strategy
	dirs     ring.UnitVectors
	tension  float64
	step     float64
	editOpts []edit.Option
}

// Option configures a session.
type Option func(*settings)

// WithStrategy sets the tangent strategy (default tangent.CatmullRom).
func WithStrategy(strategy tangent.Strategy) Option {
	return func(s *settings) { s.strategy = strategy }
}

// WithDirections sets the source of random directions for jitter.
func WithDirections(dirs ring.UnitVectors) Option {
	return func(s *settings) { s.dirs = dirs }
}

// WithTension sets the initial tension (default 0.5).
func WithTension(tension float64) Option {
	return func(s *settings) { s.tension = tension }
}

// WithSampleStep sets the initial sample step (default 0.01).
func WithSampleStep(step float64) Option {
	return func(s *settings) { s.step = step }
}

// WithEditOptions passes options to the edit controller.
func WithEditOptions(opts ...edit.Option) Option {
	return func(s *settings) { s.editOpts = append(s.editOpts, opts...) }
}

// New creates a session editing r.
func New(r *ring.Ring, opts ...Option) (*Session, error) {
	st := settings{tension: 0.5, step: 0.01}
	for _, opt := range opts {
		opt(&st)
	}
	if err := checkTension(st.tension); err != nil {
		return nil, err
	}
	if err := checkSampleStep(st.step); err != nil {
		return nil, err
	}
	if st.dirs == nil {
		st.dirs = ring.NewRandomDirections(uint64(time.Now().UnixNano()))
	}
	s := &Session{
		ring:    r,
		solver:  tangent.NewSolver(r, st.strategy),
		ctrl:    edit.NewController(r, st.dirs, st.editOpts...),
		queue:   newCommandQueue(),
		tension: st.tension,
		step:    st.step,
	}
	tracer().Infof("new session with %d points, tension = %g, step = %g", r.N(), s.tension, s.step)
	return s, nil
}

// FromConfig creates a session as described by cfg.
func FromConfig(cfg *config.Config) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	r, err := ring.Circle(cfg.Ring.Points, cfg.Center(), cfg.Ring.Radius, cfg.StartAngle())
	if err != nil {
		return nil, err
	}
	strategy, err := cfg.TangentStrategy()
	if err != nil {
		return nil, err
	}
	seed := cfg.Ring.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return New(r,
		WithStrategy(strategy),
		WithDirections(ring.NewRandomDirections(seed)),
		WithTension(cfg.Curve.Tension),
		WithSampleStep(cfg.Curve.SampleStep),
		WithEditOptions(edit.WithSpeed(cfg.Edit.Speed), edit.WithJitter(cfg.Edit.Jitter)),
	)
}

// --- Input commands --------------------------------------------------------

// Post queues a command for the next frame. Post is safe for concurrent use.
// Tension and sample step values are checked when the command is applied;
// out-of-range values are dropped and the previous value is kept. Prefer
// SetTension and SetSampleStep, which report the error to the caller.
func (s *Session) Post(cmd Command) {
	tracer().Debugf("post %s", cmd)
	s.queue.push(cmd)
}

// HoldDirection presses or releases a direction.
func (s *Session) HoldDirection(dir edit.Direction, pressed bool) {
	s.Post(Command{Op: OpHold, Dir: dir, Pressed: pressed})
}

// SelectNext selects the next control point.
func (s *Session) SelectNext() {
	s.Post(Command{Op: OpSelectNext})
}

// SelectPrevious selects the previous control point.
func (s *Session) SelectPrevious() {
	s.Post(Command{Op: OpSelectPrevious})
}

// JitterAllPoints moves every control point in a random direction.
func (s *Session) JitterAllPoints() {
	s.Post(Command{Op: OpJitter})
}

// ToggleShowPoints toggles markers for all points.
func (s *Session) ToggleShowPoints() {
	s.Post(Command{Op: OpToggleShowPoints})
}

// ToggleShowLinear toggles the control polygon.
func (s *Session) ToggleShowLinear() {
	s.Post(Command{Op: OpToggleShowLinear})
}

// ToggleShowTangents toggles tangent indicators.
func (s *Session) ToggleShowTangents() {
	s.Post(Command{Op: OpToggleShowTangents})
}

// SetTension sets the tension for the next frame. Values outside of [0,1]
// are rejected.
func (s *Session) SetTension(tension float64) error {
	if err := checkTension(tension); err != nil {
		return err
	}
	s.Post(Command{Op: OpSetTension, Value: tension})
	return nil
}

// SetSampleStep sets the sample step for the next frame. Values outside of
// [hermite.MinStep,1] are rejected.
func (s *Session) SetSampleStep(step float64) error {
	if err := checkSampleStep(step); err != nil {
		return err
	}
	s.Post(Command{Op: OpSetSampleStep, Value: step})
	return nil
}

// Pending returns the number of commands waiting for the next frame.
func (s *Session) Pending() int {
	return s.queue.size()
}

// --- Frame pipeline --------------------------------------------------------

// Frame applies all pending commands and held directions, brings the
// tangents up to date and returns the drawable output.
//
// An error aborts the current frame only; the session remains usable.
func (s *Session) Frame() (f *render.Frame, err error) {
	s.frames++
	defer func() {
		if r := recover(); r != nil {
			e, ok := r.(error)
			if !ok || !errors.Is(e, tangent.ErrStaleTangents) {
				panic(r)
			}
			tracer().Errorf("frame %d: %v", s.frames, e)
			f, err = nil, fmt.Errorf("%w: frame %d: %w", ErrFrameAborted, s.frames, e)
		}
	}()
	for _, cmd := range s.queue.drain() {
		s.apply(cmd)
	}
	s.ctrl.Tick()
	if s.tension != s.solver.Tension() {
		s.solver.Invalidate()
	}
	if !s.solver.IsValid() {
		if err = s.solver.Recompute(s.tension); err != nil {
			return nil, fmt.Errorf("%w: frame %d: %w", ErrFrameAborted, s.frames, err)
		}
	}
	f, err = render.Build(s.ring, s.solver, s.ctrl.Selected(), s.ctrl.Flags(), s.step)
	if err != nil {
		return nil, fmt.Errorf("%w: frame %d: %w", ErrFrameAborted, s.frames, err)
	}
	f.Tension = s.tension
	return f, nil
}

func (s *Session) apply(cmd Command) {
	tracer().Debugf("apply %s", cmd)
	switch cmd.Op {
	case OpHold:
		s.ctrl.Hold(cmd.Dir, cmd.Pressed)
	case OpSelectNext:
		s.ctrl.SelectNext()
	case OpSelectPrevious:
		s.ctrl.SelectPrevious()
	case OpJitter:
		s.ctrl.Jitter()
	case OpToggleShowPoints:
		s.ctrl.ToggleShowPoints()
	case OpToggleShowLinear:
		s.ctrl.ToggleShowLinear()
	case OpToggleShowTangents:
		s.ctrl.ToggleShowTangents()
	case OpSetTension:
		if err := checkTension(cmd.Value); err != nil {
			tracer().Errorf("ignoring %s: %v", cmd, err)
			return
		}
		s.tension = cmd.Value
	case OpSetSampleStep:
		if err := checkSampleStep(cmd.Value); err != nil {
			tracer().Errorf("ignoring %s: %v", cmd, err)
			return
		}
		s.step = cmd.Value
	default:
		tracer().Errorf("unknown command %s", cmd)
	}
}

// Run calls Frame once per interval and passes each frame to sink, until
// ctx is done or sink returns an error. Aborted frames are skipped.
func (s *Session) Run(ctx context.Context, sink render.Sink, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			f, err := s.Frame()
			if err != nil {
				tracer().Errorf("%v", err)
				continue
			}
			if err := sink.Draw(f); err != nil {
				return err
			}
		}
	}
}

// --- Accessors ---------------------------------------------------------------

// Ring returns the ring of control points. Clients must not mutate it
// outside of the frame loop.
func (s *Session) Ring() *ring.Ring {
	return s.ring
}

// Selected returns the index of the selected point.
func (s *Session) Selected() int {
	return s.ctrl.Selected()
}

// Flags returns the display flags.
func (s *Session) Flags() edit.DisplayFlags {
	return s.ctrl.Flags()
}

// Tension returns the tension applied by the most recent frame, or the
// initial tension before the first frame.
func (s *Session) Tension() float64 {
	return s.tension
}

// SampleStep returns the sample step applied by the most recent frame, or
// the initial step before the first frame.
func (s *Session) SampleStep() float64 {
	return s.step
}

func checkTension(tension float64) error {
	if !(tension >= 0 && tension <= 1) {
		return fmt.Errorf("%w: got %g", tangent.ErrTensionRange, tension)
	}
	return nil
}

func checkSampleStep(step float64) error {
	if step > 1 {
		return fmt.Errorf("%w: %g is greater than 1", hermite.ErrInvalidStep, step)
	}
	return hermite.CheckStep(step)
}
