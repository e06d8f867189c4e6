package termview

import (
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/npillmayer/splinedit/edit"
	"github.com/npillmayer/splinedit/session"
)

// Increments for tension and sample step keys.
const (
	TensionIncrement = 0.05
	StepIncrement    = 0.001
)

// Input translates terminal events to session commands.
//
// Terminals report key presses only, never releases. An arrow key
// therefore holds its direction for exactly one frame: the hold is released
// by the next call to AfterFrame.
type Input struct {
	s       *session.Session
	tension float64
	step    float64
	held    []edit.Direction
}

// NewInput creates an input mapper for s.
func NewInput(s *session.Session) *Input {
	return &Input{s: s, tension: s.Tension(), step: s.SampleStep()}
}

// Handle processes a terminal event. It returns false if the user asked to
// quit.
func (in *Input) Handle(ev tcell.Event) bool {
	kev, ok := ev.(*tcell.EventKey)
	if !ok {
		return true
	}
	switch kev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyLeft:
		in.hold(edit.Left)
	case tcell.KeyUp:
		in.hold(edit.Up)
	case tcell.KeyRight:
		in.hold(edit.Right)
	case tcell.KeyDown:
		in.hold(edit.Down)
	case tcell.KeyRune:
		in.typed(kev.Rune())
	}
	return true
}

// AfterFrame releases all directions held by arrow keys since the last frame.
func (in *Input) AfterFrame() {
	for _, d := range in.held {
		in.s.HoldDirection(d, false)
	}
	in.held = in.held[:0]
}

func (in *Input) hold(d edit.Direction) {
	in.s.HoldDirection(d, true)
	in.held = append(in.held, d)
}

func (in *Input) typed(r rune) {
	switch r {
	case 'q':
		in.s.SelectPrevious()
	case 'e':
		in.s.SelectNext()
	case 'r':
		in.s.JitterAllPoints()
	case 'p':
		in.s.ToggleShowPoints()
	case 'l':
		in.s.ToggleShowLinear()
	case 't':
		in.s.ToggleShowTangents()
	case '+':
		in.setTension(in.tension + TensionIncrement)
	case '-':
		in.setTension(in.tension - TensionIncrement)
	case ']':
		in.setStep(in.step + StepIncrement)
	case '[':
		in.setStep(in.step - StepIncrement)
	}
}

// setTension clamps to [0,1], as a slider would.
func (in *Input) setTension(t float64) {
	t = math.Round(math.Min(1, math.Max(0, t))/TensionIncrement) * TensionIncrement
	if err := in.s.SetTension(t); err != nil {
		tracer().Errorf("%v", err)
		return
	}
	in.tension = t
}

// setStep clamps to [StepIncrement,1], as a slider would.
func (in *Input) setStep(step float64) {
	step = math.Round(math.Min(1, math.Max(StepIncrement, step))/StepIncrement) * StepIncrement
	if err := in.s.SetSampleStep(step); err != nil {
		tracer().Errorf("%v", err)
		return
	}
	in.step = step
}
