// Package game drives the simulation loop and its raylib front end.
package game

import (
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/oids/camera"
	"github.com/pthm-cable/oids/clock"
	"github.com/pthm-cable/oids/config"
	"github.com/pthm-cable/oids/inspector"
)

const maxStepsPerUpdate = 10

// Game wraps a Simulation with input handling, a camera and rendering.
type Game struct {
	sim       *Simulation
	cfg       *config.Config
	camera    *camera.Camera
	inspector *inspector.Inspector

	headless       bool
	paused         bool
	stepsPerUpdate int
	showHelp       bool
	showInspector  bool

	screenWidth, screenHeight float64
}

// NewGameWithOptions creates a game. In headless mode no raylib calls are made.
func NewGameWithOptions(opts Options) (*Game, error) {
	sim, err := NewSimulation(opts)
	if err != nil {
		return nil, err
	}
	cfg := config.Cfg()

	steps := opts.StepsPerUpdate
	if steps < 1 {
		steps = 1
	}

	g := &Game{
		sim:            sim,
		cfg:            cfg,
		headless:       opts.Headless,
		stepsPerUpdate: steps,
		showInspector:  true,
		screenWidth:    float64(cfg.Screen.Width),
		screenHeight:   float64(cfg.Screen.Height),
	}
	if !g.headless {
		g.camera = camera.New(g.screenWidth, g.screenHeight, sim.World().Extent(), cfg.Camera)
		g.inspector = inspector.NewInspector(int32(g.screenWidth))
	}
	return g, nil
}

// Simulation returns the underlying simulation.
func (g *Game) Simulation() *Simulation { return g.sim }

// Tick returns the current simulation tick.
func (g *Game) Tick() int64 { return g.sim.Tick() }

// UpdateHeadless advances stepsPerUpdate fixed-size ticks.
func (g *Game) UpdateHeadless() {
	for i := 0; i < g.stepsPerUpdate; i++ {
		g.sim.Step(g.cfg.Derived.DT)
	}
}

// Update handles input and advances the simulation by the frame time.
func (g *Game) Update() {
	g.handleInput()
	g.sim.Perf().RecordFrame()

	frame := clock.Seconds(rl.GetFrameTime())
	if !g.paused {
		for i := 0; i < g.stepsPerUpdate; i++ {
			g.sim.Step(frame)
		}
	}

	if target, ok := g.sim.Tracking(); ok {
		g.camera.Follow(target, float64(frame))
	}
}

// Unload saves state and releases output files.
func (g *Game) Unload() {
	if err := g.sim.Close(); err != nil {
		slog.Error("failed to close simulation", "error", err)
	}
}
