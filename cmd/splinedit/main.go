// Command splinedit is an interactive editor for closed Catmull-Rom splines
// running in a terminal.
//
// Keys:
//
//	arrows    move the selected point
//	q / e     select previous / next point
//	r         jitter all points
//	p l t     toggle points, control polygon, tangents
//	+ / -     increase / decrease tension
//	] / [     increase / decrease sample step
//	Esc       quit
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/splinedit/config"
	"github.com/npillmayer/splinedit/session"
	"github.com/npillmayer/splinedit/termview"
	"github.com/urfave/cli/v2"
)

// frameInterval is about 60 frames per second.
const frameInterval = 16 * time.Millisecond

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "splinedit"
	app.Usage = "Edit a closed Catmull-Rom spline in the terminal"
	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "YAML configuration file",
		},
		&cli.Float64Flag{
			Name:  "tension",
			Usage: "initial tension in [0,1]",
		},
		&cli.Float64Flag{
			Name:  "step",
			Usage: "initial sample step in (0,1]",
		},
		&cli.IntFlag{
			Name:  "points",
			Usage: "number of control points",
		},
		&cli.StringFlag{
			Name:  "strategy",
			Usage: "tangent strategy: catmull-rom or normalized",
		},
		&cli.Uint64Flag{
			Name:  "seed",
			Usage: "seed for random jitter directions (0 = clock)",
		},
		&cli.BoolFlag{
			Name:  "verbose",
			Usage: "trace debug output",
		},
	}
	app.Action = runEditor
	return app
}

// loadConfig reads the configuration file and applies command line
// overrides.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}
	if c.IsSet("tension") {
		cfg.Curve.Tension = c.Float64("tension")
	}
	if c.IsSet("step") {
		cfg.Curve.SampleStep = c.Float64("step")
	}
	if c.IsSet("points") {
		cfg.Ring.Points = c.Int("points")
	}
	if c.IsSet("strategy") {
		cfg.Curve.Strategy = c.String("strategy")
	}
	if c.IsSet("seed") {
		cfg.Ring.Seed = c.Uint64("seed")
	}
	cfg.Normalize()
	return cfg, cfg.Validate()
}

func runEditor(c *cli.Context) error {
	level := tracing.LevelInfo
	if c.Bool("verbose") {
		level = tracing.LevelDebug
	}
	tracing.Select("splinedit").SetTraceLevel(level)
	tracing.Select("graphics").SetTraceLevel(level)

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	s, err := session.FromConfig(cfg)
	if err != nil {
		return err
	}
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to initialize screen: %w", err)
	}
	defer screen.Fini()

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()
	return editLoop(ctx, screen, s, cfg)
}

// editLoop runs input handling and frame production on one goroutine, so
// that the arrow key holds of an Input are released after exactly one frame.
func editLoop(ctx context.Context, screen tcell.Screen, s *session.Session, cfg *config.Config) error {
	view := termview.NewView(screen, cfg.Canvas.Width, cfg.Canvas.Height)
	input := termview.NewInput(s)

	events := make(chan tcell.Event, 64)
	quit := make(chan struct{})
	defer close(quit)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil { // screen finalized
				close(events)
				return
			}
			select {
			case events <- ev:
			case <-quit:
				return
			}
		}
	}()

	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if _, resized := ev.(*tcell.EventResize); resized {
				screen.Sync()
			}
			if !input.Handle(ev) {
				return nil
			}
		case <-ticker.C:
			f, err := s.Frame()
			if err != nil {
				tracing.Select("splinedit").Errorf("%v", err)
				input.AfterFrame()
				continue
			}
			if err := view.Draw(f); err != nil {
				return err
			}
			input.AfterFrame()
		}
	}
}
